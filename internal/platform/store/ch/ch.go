// Package ch provides a clickhouse client
package ch

import (
	"context"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	perr "pricebook/internal/platform/errors"
)

// Config configures clickhouse client
type Config struct {
	URL string

	// Role and Tag feed the client info products ("api", "diff")
	Role string
	Tag  string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH wraps a clickhouse-go connection behind the store seam
type CH struct {
	conn driver.Conn
}

// Open parses the DSN and opens a connection. The driver dials lazily;
// readiness is verified by the store guard, not here
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "parse clickhouse dsn")
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "open clickhouse")
	}
	return &CH{conn: conn}, nil
}

// Insert writes rows into table via a prepared batch. Rows share one
// column order; the caller owns it matching the table definition
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	if c == nil || c.conn == nil {
		return perr.Unavailablef("ch: no connection")
	}
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+sanitizeTable(table))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "prepare batch for %s", table)
	}
	for _, row := range rows {
		if err := batch.Append(row...); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "append batch row for %s", table)
		}
	}
	return batch.Send()
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if c == nil || c.conn == nil {
		return nil, perr.Unavailablef("ch: no connection")
	}
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Close closes resources
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// sanitizeTable keeps identifiers to dotted word characters so the
// batch statement cannot be broken out of
func sanitizeTable(table string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '.':
			return r
		}
		return -1
	}, table)
}
