// Package repository defines the persistence ports of the lodging engine
// and their MySQL implementation.  The sentinel errors below allow the
// service layer to distinguish failure scenarios without inspecting
// driver errors.  For example, ErrDuplicate signals a unique key
// violation (a room number already used inside the accommodation), while
// ErrConflict signals that a delete was refused because dependent rows
// (bookings) still reference the record.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup, update or delete matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on a unique key violation (MySQL 1062).
var ErrDuplicate = errors.New("duplicate")

// ErrConflict is returned when a delete or update cannot be performed
// because of dependent records, such as deleting a room that bookings
// still reference (MySQL 1451).
var ErrConflict = errors.New("conflict")

// translate maps driver errors (1452, a missing parent row, becomes
// ErrNotFound) onto the sentinels above and leaves every other error
// untouched.
func translate(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062:
			return ErrDuplicate
		case 1451:
			return ErrConflict
		case 1452:
			return ErrNotFound
		}
	}
	return err
}
