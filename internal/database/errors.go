package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrNotAvailable           = errors.New("item is not available")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrNoCompletedBooking     = errors.New("no completed approved booking")
	ErrTimeOutOfRange         = errors.New("time outside storable range")
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
