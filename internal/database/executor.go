package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Executor runs accepted statements against PostgreSQL. Each call opens a
// fresh connection whose session defaults to read-only transactions, so the
// backend enforces the read-only boundary independently of classification.
type Executor struct {
	url string
}

// NewExecutor returns an Executor for the given connection URL. No connection
// is opened here; Probe or Execute establish one per call.
func NewExecutor(url string) *Executor {
	return &Executor{url: url}
}

// Probe checks whether the backend is reachable. Used once at startup to
// decide between live and demo mode.
func (e *Executor) Probe(ctx context.Context) error {
	conn, err := e.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())
	return conn.Ping(ctx)
}

// Execute runs a single already-classified statement and returns its
// normalized result. The statement runs in autocommit; the session-level
// read-only default covers the implicit transaction.
func (e *Executor) Execute(ctx context.Context, stmt string) (*ResultSet, error) {
	return e.query(ctx, stmt)
}

// query runs sql with optional positional args. Fixed catalog queries issued
// by the provider use args for identifiers; caller statements never do.
func (e *Executor) query(ctx context.Context, sql string, args ...interface{}) (*ResultSet, error) {
	conn, err := e.connect(ctx)
	if err != nil {
		return nil, err
	}
	// Close with a background context so the connection is released even when
	// the request context is already canceled.
	defer conn.Close(context.Background())

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = string(fd.Name)
	}

	var raw [][]interface{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		raw = append(raw, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return Normalize(columns, raw)
}

func (e *Executor) connect(ctx context.Context) (*pgx.Conn, error) {
	cfg, err := pgx.ParseConfig(e.url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	// Second enforcement layer: every transaction in this session is
	// read-only at the server, regardless of what the statement text says.
	cfg.RuntimeParams["default_transaction_read_only"] = "on"

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return conn, nil
}
