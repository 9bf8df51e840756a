package db

import (
	"errors"
	"strings"

	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation from
// Postgres (pgx or lib/pq) or sqlite. When constraintName is provided it must
// also appear in the error.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	if constraintName != "" && !strings.Contains(msg, constraintName) {
		return false
	}
	if pkgerrors.PostgresCode(err) == pgUniqueViolation {
		return true
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsNotFound reports whether err is GORM's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
