// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether a DB error is a unique-constraint
// violation. Concurrent duplicate follows/likes surface here rather than
// through application-level locking, so this check is load-bearing for
// the Conflict error taxonomy.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite (tests) reports "UNIQUE constraint failed: ..."
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// isCheckViolation reports whether a DB error is a CHECK-constraint
// violation (e.g. the no-self-follow check).
func isCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "check constraint")
}

// violationMentions reports whether the constraint or error text names the
// given column. Used to distinguish duplicate-username from duplicate-email.
func violationMentions(err error, column string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.Contains(strings.ToLower(pgErr.ConstraintName), column) ||
			strings.Contains(strings.ToLower(pgErr.Detail), column)
	}
	return strings.Contains(strings.ToLower(err.Error()), column)
}
