package rdbms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine is an httptest stand-in for the remote engine: it records every
// statement and answers from a scripted handler.
type fakeEngine struct {
	mu      sync.Mutex
	queries []string
	handler func(query string) Result
	server  *httptest.Server
}

func newFakeEngine(t *testing.T, handler func(query string) Result) *fakeEngine {
	t.Helper()
	fe := &fakeEngine{handler: handler}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /databases/{db}/execute", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fe.mu.Lock()
		fe.queries = append(fe.queries, req.Query)
		fe.mu.Unlock()
		res := fe.handler(req.Query)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	})
	fe.server = httptest.NewServer(mux)
	t.Cleanup(fe.server.Close)
	return fe
}

func (fe *fakeEngine) client() *Client {
	return NewClient(fe.server.URL, "invoicing_db", 5*time.Second)
}

func TestExecute_DecodesRows(t *testing.T) {
	fe := newFakeEngine(t, func(query string) Result {
		return Result{Success: true, Data: []Row{
			{"id": float64(1), "name": "Acme", "balance_due": "1078.00"},
		}}
	})

	res, err := fe.client().Execute(context.Background(), "SELECT * FROM customers")
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, 1, res.Data[0].Int("id"))
	assert.Equal(t, "Acme", res.Data[0].String("name"))
	assert.Equal(t, "1078.00", res.Data[0].Decimal("balance_due").StringFixed(2))
}

func TestExecute_ConstraintViolation(t *testing.T) {
	fe := newFakeEngine(t, func(query string) Result {
		return Result{Success: false, Error: "Duplicate entry 'INV-20240101-0001' for key invoice_number"}
	})

	_, err := fe.client().Execute(context.Background(), "INSERT INTO invoices VALUES (...)")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestExecute_EngineRejection(t *testing.T) {
	fe := newFakeEngine(t, func(query string) Result {
		return Result{Success: false, Error: "no such table: widgets"}
	})

	_, err := fe.client().Execute(context.Background(), "SELECT 1 FROM widgets")
	require.Error(t, err)
	var engineErr *EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "no such table: widgets", engineErr.Message)
}

func TestExecute_EngineUnavailable(t *testing.T) {
	// A closed server means connection refused.
	fe := newFakeEngine(t, func(query string) Result { return Result{Success: true} })
	fe.server.Close()

	_, err := fe.client().Execute(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrEngineUnavailable)
}

func TestExecute_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer slow.Close()

	c := NewClient(slow.URL, "invoicing_db", 50*time.Millisecond)
	_, err := c.Execute(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestExecuteBatch_PartialApply(t *testing.T) {
	calls := 0
	fe := newFakeEngine(t, func(query string) Result {
		calls++
		if calls == 3 {
			return Result{Success: false, Error: "disk full"}
		}
		return Result{Success: true}
	})

	err := fe.client().ExecuteBatch(context.Background(), []string{"A", "B", "C", "D"})
	require.Error(t, err)

	var partial *PartialApplyError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 2, partial.Applied)
	assert.Equal(t, 4, partial.Total)
}

func TestExecuteBatch_FirstStatementFailureIsNotPartial(t *testing.T) {
	fe := newFakeEngine(t, func(query string) Result {
		return Result{Success: false, Error: "syntax error"}
	})

	err := fe.client().ExecuteBatch(context.Background(), []string{"A", "B"})
	require.Error(t, err)

	var partial *PartialApplyError
	assert.False(t, errors.As(err, &partial), "no statement committed, so no partial apply")
}

func TestHealth(t *testing.T) {
	fe := newFakeEngine(t, func(query string) Result { return Result{Success: true} })
	assert.NoError(t, fe.client().Health(context.Background()))

	fe.server.Close()
	assert.ErrorIs(t, fe.client().Health(context.Background()), ErrEngineUnavailable)
}

func TestCreateDatabase(t *testing.T) {
	var created bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /databases/invoicing_db", func(w http.ResponseWriter, r *http.Request) {
		if created {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("POST /databases", func(w http.ResponseWriter, r *http.Request) {
		created = true
		w.WriteHeader(http.StatusCreated)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(server.URL, "invoicing_db", time.Second)
	require.NoError(t, c.CreateDatabase(context.Background()))
	assert.True(t, created)

	// Second call sees the database and does not recreate it.
	require.NoError(t, c.CreateDatabase(context.Background()))
}
