package databaseutils

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"
)

type Dialect int

const (
	// SQLite keeps '?' placeholders.
	SQLite Dialect = iota
	// Postgres rewrites '?' placeholders to $1, $2, ...
	Postgres
)

type SQLTemplate struct {
	DB      *sql.DB
	Timeout time.Duration
	Dialect Dialect
}

func NewSQLTemplate(db *sql.DB, timeout time.Duration, dialect Dialect) *SQLTemplate {
	return &SQLTemplate{
		DB:      db,
		Timeout: timeout,
		Dialect: dialect,
	}
}

// Rebind converts a query written with '?' placeholders to the template's dialect.
func (t *SQLTemplate) Rebind(query string) string {
	if t.Dialect != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (t *SQLTemplate) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.Timeout)
}

func ExecuteQuery[T any](sqlTemplate *SQLTemplate, ctx context.Context, query string, extractor func(rows *sql.Rows) (T, error), args ...any) ([]T, error) {
	ctx, cancel := sqlTemplate.withTimeout(ctx)
	defer cancel()

	rows, err := GetSQLExecutor(ctx, sqlTemplate.DB).QueryContext(ctx, sqlTemplate.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		t, err := extractor(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ExecuteSingleQuery returns sql.ErrNoRows when the query yields nothing.
func ExecuteSingleQuery[T any](sqlTemplate *SQLTemplate, ctx context.Context, query string, extractor func(rows *sql.Rows) (T, error), args ...any) (T, error) {
	var zero T
	results, err := ExecuteQuery(sqlTemplate, ctx, query, extractor, args...)
	if err != nil {
		return zero, err
	}
	if len(results) == 0 {
		return zero, sql.ErrNoRows
	}
	return results[0], nil
}

// ExecuteUpdate runs a statement and reports the number of affected rows.
func ExecuteUpdate(sqlTemplate *SQLTemplate, ctx context.Context, query string, args ...any) (int64, error) {
	ctx, cancel := sqlTemplate.withTimeout(ctx)
	defer cancel()

	result, err := GetSQLExecutor(ctx, sqlTemplate.DB).ExecContext(ctx, sqlTemplate.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
