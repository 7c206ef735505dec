package storage

import (
	"database/sql"
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"dojoroster/internal/domain/apperr"
)

// IsUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY
// constraint failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// MapWriteError translates a uniqueness violation into an apperr duplicate
// carrying msg. Other errors pass through unchanged.
func MapWriteError(err error, msg string) error {
	if IsUniqueViolation(err) {
		return apperr.Duplicate(msg)
	}
	return err
}

// MapNoRows translates sql.ErrNoRows into an apperr not-found carrying msg.
func MapNoRows(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(msg)
	}
	return err
}

// ExpectAffected returns a not-found error carrying msg when a write
// touched no rows.
func ExpectAffected(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(msg)
	}
	return nil
}
