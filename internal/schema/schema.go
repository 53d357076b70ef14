// Package schema owns the table definitions for the invoicing database and
// the demo dataset that ships with it. The remote engine has no migration
// facility: the DDL here is applied once at init and tolerated as already
// present on re-runs.
//
// Column order matters. The application writes positional INSERTs, so the
// order in each CREATE TABLE is part of the contract.
package schema

const (
	UsersTable = `CREATE TABLE users (
    id INT PRIMARY KEY,
    username VARCHAR(50),
    email VARCHAR(100),
    password_hash VARCHAR(255),
    full_name VARCHAR(100),
    company_name VARCHAR(100),
    created_at TIMESTAMP,
    last_login TIMESTAMP,
    is_active BOOLEAN
)`

	SessionsTable = `CREATE TABLE sessions (
    session_id VARCHAR(255) PRIMARY KEY,
    user_id INT NOT NULL,
    created_at DATETIME NOT NULL,
    expires_at DATETIME NOT NULL,
    ip_address VARCHAR(45),
    user_agent TEXT
)`

	CustomersTable = `CREATE TABLE customers (
    id INT PRIMARY KEY,
    user_id INT NOT NULL,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(100),
    phone VARCHAR(20),
    address TEXT,
    city VARCHAR(50),
    country VARCHAR(50),
    tax_id VARCHAR(50),
    notes TEXT,
    created_at TIMESTAMP,
    updated_at TIMESTAMP
)`

	InvoicesTable = `CREATE TABLE invoices (
    id INT PRIMARY KEY,
    customer_id INT NOT NULL,
    user_id INT NOT NULL,
    invoice_number VARCHAR(50) UNIQUE NOT NULL,
    issue_date DATE NOT NULL,
    due_date DATE NOT NULL,
    subtotal DECIMAL(10, 2) DEFAULT 0,
    tax_amount DECIMAL(10, 2) DEFAULT 0,
    total_amount DECIMAL(10, 2) DEFAULT 0,
    amount_paid DECIMAL(10, 2) DEFAULT 0,
    balance_due DECIMAL(10, 2) DEFAULT 0,
    status VARCHAR(20) DEFAULT 'draft',
    currency VARCHAR(3) DEFAULT 'KES',
    notes TEXT,
    terms TEXT,
    version INT DEFAULT 1,
    created_at TIMESTAMP,
    updated_at TIMESTAMP
)`

	InvoiceItemsTable = `CREATE TABLE invoice_items (
    id INT PRIMARY KEY,
    invoice_id INT NOT NULL,
    description VARCHAR(255) NOT NULL,
    quantity DECIMAL(10, 2) DEFAULT 1,
    unit_price DECIMAL(10, 2) DEFAULT 0,
    tax_rate DECIMAL(5, 2) DEFAULT 0,
    amount DECIMAL(10, 2) DEFAULT 0,
    tax_amount DECIMAL(10, 2) DEFAULT 0,
    total_amount DECIMAL(10, 2) DEFAULT 0,
    created_at TIMESTAMP
)`

	PaymentsTable = `CREATE TABLE payments (
    id INT PRIMARY KEY,
    invoice_id INT NOT NULL,
    amount DECIMAL(10, 2) NOT NULL,
    payment_method VARCHAR(50),
    reference_number VARCHAR(100),
    payment_date DATE,
    notes TEXT
)`
)

// Statements returns the CREATE TABLE statements in creation order.
func Statements() []string {
	return []string{
		UsersTable,
		SessionsTable,
		CustomersTable,
		InvoicesTable,
		InvoiceItemsTable,
		PaymentsTable,
	}
}

// TableNames returns the table names in creation order.
func TableNames() []string {
	return []string{"users", "sessions", "customers", "invoices", "invoice_items", "payments"}
}
