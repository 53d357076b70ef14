package core

import "sync"

// invoiceLocks serializes mutations per invoice. Locks are never removed;
// the map grows with the number of distinct invoices touched by this
// process, which is bounded by the working set.
type invoiceLocks struct {
	mu sync.Mutex
	m  map[int]*sync.Mutex
}

func newInvoiceLocks() *invoiceLocks {
	return &invoiceLocks{m: make(map[int]*sync.Mutex)}
}

// lock acquires the mutex for invoiceID and returns its unlock function.
func (l *invoiceLocks) lock(invoiceID int) func() {
	l.mu.Lock()
	m, ok := l.m[invoiceID]
	if !ok {
		m = &sync.Mutex{}
		l.m[invoiceID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
