package repository

import (
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/andy/gstbill/internal/domain"
)

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339

// parseTime parses a time string in RFC3339 format
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}

// constraintError translates SQLite constraint violations into domain
// errors. It returns nil when err is not a constraint the caller mapped.
func constraintError(err error, unique, foreignKey error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return nil
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique:
		return unique
	case sqlite3.ErrConstraintForeignKey:
		return foreignKey
	}
	return nil
}

// persistenceError classifies a store failure unless it already carries a
// domain class.
func persistenceError(op string, err error) error {
	if classified(err) {
		return err
	}
	return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrPersistence, err)
}

func classified(err error) bool {
	for _, class := range []error{
		domain.ErrValidation, domain.ErrNotFound, domain.ErrConflict, domain.ErrPersistence, domain.ErrExport,
	} {
		if errors.Is(err, class) {
			return true
		}
	}
	return false
}

// dateRange builds the optional [from, to] filter on a date column.
func dateRange(column string, from, to *time.Time) (string, []any) {
	clause := ""
	var args []any
	if from != nil {
		clause += " AND " + column + " >= ?"
		args = append(args, formatDate(*from))
	}
	if to != nil {
		clause += " AND " + column + " <= ?"
		args = append(args, formatDate(*to))
	}
	return clause, args
}
