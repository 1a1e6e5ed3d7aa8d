package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindConflict    ErrorKind = "conflict"
	KindPersistence ErrorKind = "persistence"
)

// DomainError is a recoverable mutation failure. The workflow folds it
// into the payload's errors list instead of returning it to transport.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string { return e.Message }

var (
	ErrEmailExists      = &DomainError{Kind: KindConflict, Message: "Email already exists"}
	ErrSKUExists        = &DomainError{Kind: KindConflict, Message: "SKU already exists"}
	ErrCustomerNotFound = &DomainError{Kind: KindNotFound, Message: "Customer not found"}
)

const uniqueViolationCode = "23505"

// isUniqueViolation recognizes a store-level unique constraint hit, which
// the workflow reports as a conflict.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
