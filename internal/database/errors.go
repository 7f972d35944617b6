package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pqUniqueViolation = pq.ErrorCode("23505")

// UniqueViolation reports whether err is a unique constraint failure and,
// when the driver exposes it, the offending column.
func UniqueViolation(err error) (column string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code != pqUniqueViolation {
			return "", false
		}
		return columnFromConstraint(pqErr.Table, pqErr.Constraint), true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code != sqlite3.SQLITE_CONSTRAINT_UNIQUE && code != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return "", false
		}
		return columnFromMessage(liteErr.Error()), true
	}

	return "", false
}

// columnFromConstraint maps "users_email_key" on table "users" to "email".
func columnFromConstraint(table, constraint string) string {
	column := strings.TrimSuffix(constraint, "_key")
	if table != "" {
		column = strings.TrimPrefix(column, table+"_")
	}
	return column
}

// columnFromMessage extracts "email" from "... UNIQUE constraint failed: users.email (2067)".
func columnFromMessage(msg string) string {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if end := strings.IndexAny(rest, " ,("); end >= 0 {
		rest = rest[:end]
	}
	if _, column, found := strings.Cut(rest, "."); found {
		return column
	}
	return rest
}
