// Package readlog records every pipeline invocation in SQLite: which URL
// was read, how it was classified, whether it succeeded, and how long it
// took. Logging is best effort; a storage failure never fails a read.
package readlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/readpipe/dbopen"
	"github.com/hazyhaar/readpipe/idgen"
	"github.com/hazyhaar/readpipe/readpipe"
)

const schema = `
CREATE TABLE IF NOT EXISTS read_log (
	id           TEXT PRIMARY KEY,
	url          TEXT NOT NULL,
	content_type TEXT NOT NULL,
	status       TEXT NOT NULL CHECK (status IN ('ok', 'error')),
	error        TEXT NOT NULL DEFAULT '',
	duration_ms  INTEGER NOT NULL,
	created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_read_log_url ON read_log(url);
CREATE INDEX IF NOT EXISTS idx_read_log_created ON read_log(created_at);
`

// Entry is one recorded invocation.
type Entry struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
	CreatedAt   string `json:"created_at"`
}

// Log stores invocation records. It implements readpipe's Observer.
type Log struct {
	db     *sql.DB
	newID  idgen.Generator
	logger *slog.Logger
}

// Option customises Log construction.
type Option func(*Log)

// WithIDGenerator overrides the record ID generator.
func WithIDGenerator(g idgen.Generator) Option { return func(l *Log) { l.newID = g } }

// WithLogger sets the slog logger for storage failures.
func WithLogger(lg *slog.Logger) Option { return func(l *Log) { l.logger = lg } }

// Open opens (or creates) the log database at path.
func Open(path string, opts ...Option) (*Log, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(schema))
	if err != nil {
		return nil, fmt.Errorf("readlog: %w", err)
	}
	return attach(db, opts...), nil
}

// Attach wraps an already-open database, applying the schema.
func Attach(db *sql.DB, opts ...Option) (*Log, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("readlog: apply schema: %w", err)
	}
	return attach(db, opts...), nil
}

func attach(db *sql.DB, opts ...Option) *Log {
	l := &Log{db: db, newID: idgen.Prefixed("read_", idgen.Default), logger: slog.Default()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Close closes the underlying database.
func (l *Log) Close() error { return l.db.Close() }

// ReadCompleted records one pipeline invocation. Failures are logged and
// swallowed so observation never disturbs the read path.
func (l *Log) ReadCompleted(ctx context.Context, res *readpipe.ReadResult, elapsed time.Duration) {
	status := "ok"
	if res.Failed() {
		status = "error"
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO read_log (id, url, content_type, status, error, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		l.newID(), res.URL, string(res.ContentType), status, res.Error, elapsed.Milliseconds(),
	)
	if err != nil {
		l.logger.Warn("readlog insert failed", "url", res.URL, "error", err)
	}
}

// Recent returns the most recent entries, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, url, content_type, status, error, duration_ms, created_at
		 FROM read_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("readlog: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.URL, &e.ContentType, &e.Status, &e.Error, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("readlog: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats summarises recorded invocations.
type Stats struct {
	Total  int64 `json:"total"`
	OK     int64 `json:"ok"`
	Errors int64 `json:"errors"`
}

// Summary returns aggregate counts over all recorded invocations.
func (l *Log) Summary(ctx context.Context) (Stats, error) {
	var s Stats
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'ok' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END), 0)
		 FROM read_log`).Scan(&s.Total, &s.OK, &s.Errors)
	if err != nil {
		return Stats{}, fmt.Errorf("readlog: summary: %w", err)
	}
	return s, nil
}
