// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow the service layer to tell a
// missing row from a schema constraint rejecting a write, whichever
// driver produced the failure.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// ErrConflict is returned when a delete cannot be performed because of
// dependent records, such as a venue that still has shows.
var ErrConflict = errors.New("conflict")

// ErrForeignKey is returned when a write references a row that does not
// exist or removes a row that is still referenced.
var ErrForeignKey = errors.New("foreign key violation")

// ErrNotNull is returned when a required column is missing or empty.
var ErrNotNull = errors.New("required column missing")

// MySQL server error numbers
const (
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlBadNull          = 1048
	mysqlNoDefaultField   = 1364
	mysqlCheckViolated    = 3819
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow2 = 1216
)

// classify maps driver-specific constraint errors onto the sentinels
// above. The driver error stays in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferenced2, mysqlNoReferencedRow2:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		case mysqlBadNull, mysqlNoDefaultField, mysqlCheckViolated:
			return fmt.Errorf("%w: %w", ErrNotNull, err)
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		case sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: %w", ErrNotNull, err)
		}
	}
	return err
}
