package core_test

import (
	"context"
	"strings"
	"sync"

	"invoicing-app/internal/rdbms"
)

// fakeDB is a scripted stand-in for the remote engine: each rule matches a
// statement substring and returns canned rows or an error. Unmatched
// statements succeed with no rows. Every statement is recorded so tests can
// assert on exactly what would have been executed.
type fakeDB struct {
	mu      sync.Mutex
	rules   []fakeRule
	queries []string
}

type fakeRule struct {
	contains string
	rows     []rdbms.Row
	err      error
}

func newFakeDB() *fakeDB { return &fakeDB{} }

// on scripts rows for statements containing substr. First match wins.
func (f *fakeDB) on(substr string, rows ...rdbms.Row) *fakeDB {
	f.rules = append(f.rules, fakeRule{contains: substr, rows: rows})
	return f
}

// fail scripts an error for statements containing substr.
func (f *fakeDB) fail(substr string, err error) *fakeDB {
	f.rules = append(f.rules, fakeRule{contains: substr, err: err})
	return f
}

func (f *fakeDB) Execute(_ context.Context, query string) (*rdbms.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	for _, r := range f.rules {
		if strings.Contains(query, r.contains) {
			if r.err != nil {
				return nil, r.err
			}
			return &rdbms.Result{Success: true, Data: r.rows}, nil
		}
	}
	return &rdbms.Result{Success: true}, nil
}

// ExecuteBatch mirrors the gateway's partial-apply semantics.
func (f *fakeDB) ExecuteBatch(ctx context.Context, queries []string) error {
	for i, q := range queries {
		if _, err := f.Execute(ctx, q); err != nil {
			if i == 0 {
				return err
			}
			return &rdbms.PartialApplyError{Applied: i, Total: len(queries), Err: err}
		}
	}
	return nil
}

// executed reports whether any recorded statement contains substr.
func (f *fakeDB) executed(substr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.queries {
		if strings.Contains(q, substr) {
			return true
		}
	}
	return false
}

// lastMatching returns the last recorded statement containing substr.
func (f *fakeDB) lastMatching(substr string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.queries) - 1; i >= 0; i-- {
		if strings.Contains(f.queries[i], substr) {
			return f.queries[i]
		}
	}
	return ""
}
