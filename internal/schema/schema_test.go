package schema_test

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicing-app/internal/schema"
)

func TestStatementsGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "schema", []byte(strings.Join(schema.Statements(), ";\n\n")+";\n"))
}

func TestStatementsMatchTableNames(t *testing.T) {
	stmts := schema.Statements()
	names := schema.TableNames()
	require.Len(t, stmts, len(names))
	for i, name := range names {
		assert.Contains(t, stmts[i], "CREATE TABLE "+name+" (")
	}
}

func TestSeedStatements(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	stmts, err := schema.Seed(now)
	require.NoError(t, err)

	joined := strings.Join(stmts, "\n")

	// One demo user, never with the raw password in the statement.
	assert.Contains(t, joined, "'demo@example.com'")
	assert.NotContains(t, joined, "'demo123'")

	// The partial fixture: 1000+500 at 10% tax, 650 paid.
	assert.Contains(t, joined, "1500.00, 150.00, 1650.00, 650.00, 1000.00, 'partial'")

	// The overdue fixture: 2 x 490.00 at 10% tax, due well in the past.
	assert.Contains(t, joined, "980.00, 98.00, 1078.00, 0.00, 1078.00, 'overdue'")

	// The settled fixture carries a zero balance.
	assert.Contains(t, joined, "750.00, 750.00, 0.00, 'paid'")

	// Drafts keep their status even with items attached.
	assert.Contains(t, joined, "'draft'")
}

func TestSeedInvoiceNumbersAreUnique(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	stmts, err := schema.Seed(now)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, s := range stmts {
		if !strings.HasPrefix(s, "INSERT INTO invoices ") {
			continue
		}
		start := strings.Index(s, "'INV-")
		require.GreaterOrEqual(t, start, 0, s)
		end := strings.Index(s[start+1:], "'")
		number := s[start+1 : start+1+end]
		assert.False(t, seen[number], "duplicate invoice number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, 5)

	// Two fixtures share an issue date; the sequence must advance rather
	// than repeat 0001.
	day := now.AddDate(0, 0, -2).Format("20060102")
	assert.True(t, seen["INV-"+day+"-0001"])
	assert.True(t, seen["INV-"+day+"-0002"])
}
