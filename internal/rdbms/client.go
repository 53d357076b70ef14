package rdbms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"invoicing-app/internal/logger"

	"github.com/rs/zerolog"
)

// Executor is the slice of Client the domain layer depends on. It keeps the
// services testable against a scripted fake engine.
type Executor interface {
	// Execute sends one statement and returns its tabular result.
	Execute(ctx context.Context, query string) (*Result, error)

	// ExecuteBatch sends statements sequentially. The engine offers no
	// multi-statement atomicity: a failure after the first statement is
	// surfaced as *PartialApplyError.
	ExecuteBatch(ctx context.Context, queries []string) error
}

// Client speaks the remote engine's HTTP protocol. Safe for concurrent use;
// one shared instance is injected into every component at construction.
type Client struct {
	baseURL string
	dbName  string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient builds a client for the engine at baseURL (".../api") operating
// on the named database. timeout caps each round trip.
func NewClient(baseURL, dbName string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		dbName:  dbName,
		http:    &http.Client{Timeout: timeout},
		log:     logger.WithComponent("rdbms"),
	}
}

// DatabaseName returns the database the client operates on.
func (c *Client) DatabaseName() string { return c.dbName }

// Execute sends one statement to the engine and decodes its response.
func (c *Client) Execute(ctx context.Context, query string) (*Result, error) {
	start := time.Now()
	res, err := c.execute(ctx, query)
	queryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		queriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	queriesTotal.WithLabelValues("ok").Inc()
	return res, nil
}

func (c *Client) execute(ctx context.Context, query string) (*Result, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("encode statement: %w", err)
	}

	url := fmt.Sprintf("%s/databases/%s/execute", c.baseURL, c.dbName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.classifyTransport(err)
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: malformed engine response: %v", ErrEngineUnavailable, err)
	}

	if !result.Success {
		c.log.Debug().Str("error", result.Error).Msg("statement rejected")
		return nil, classifyEngine(query, result.Error)
	}
	return &result, nil
}

// ExecuteBatch runs the statements in order, stopping at the first failure.
// A failure after at least one statement committed becomes *PartialApplyError
// so the caller can report the inconsistency instead of masking it.
func (c *Client) ExecuteBatch(ctx context.Context, queries []string) error {
	for i, q := range queries {
		if _, err := c.Execute(ctx, q); err != nil {
			if i == 0 {
				return err
			}
			return &PartialApplyError{Applied: i, Total: len(queries), Err: err}
		}
	}
	return nil
}

// Health probes the engine's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return c.classifyTransport(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned %d", ErrEngineUnavailable, resp.StatusCode)
	}
	return nil
}

// DatabaseExists reports whether the configured database exists.
func (c *Client) DatabaseExists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/databases/"+c.dbName, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, c.classifyTransport(err)
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// CreateDatabase creates the configured database if it does not exist.
func (c *Client) CreateDatabase(ctx context.Context) error {
	exists, err := c.DatabaseExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	payload, _ := json.Marshal(map[string]string{"name": c.dbName})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/databases", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.classifyTransport(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: create database returned %d", ErrEngineUnavailable, resp.StatusCode)
	}
	c.log.Info().Str("database", c.dbName).Msg("database created")
	return nil
}

// classifyTransport maps transport-level failures onto the gateway taxonomy.
func (c *Client) classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
}

// classifyEngine maps an engine-reported rejection onto the taxonomy.
func classifyEngine(query, message string) error {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "unique") ||
		strings.Contains(lower, "already exists") {
		return fmt.Errorf("%w: %s", ErrConstraint, message)
	}
	return &EngineError{Query: query, Message: message}
}
