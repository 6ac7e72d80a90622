package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// FaultKind classifies a failure raised by the product store.
type FaultKind string

const (
	FaultNotFound         FaultKind = "not_found"
	FaultUniqueViolation  FaultKind = "unique_violation"
	FaultValidation       FaultKind = "validation_failed"
	FaultStoreUnavailable FaultKind = "store_unavailable"
)

// StoreFault is the single error type returned by product repositories.
type StoreFault struct {
	Op   string
	Kind FaultKind
	Err  error
}

func (e *StoreFault) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreFault) Unwrap() error { return e.Err }

// NewFault wraps err as a StoreFault, classifying it from the driver error.
func NewFault(op string, err error) *StoreFault {
	return &StoreFault{Op: op, Kind: classify(err), Err: err}
}

// KindOf reports the fault kind carried by err. Errors that are not store
// faults are reported as FaultStoreUnavailable.
func KindOf(err error) FaultKind {
	var fault *StoreFault
	if errors.As(err, &fault) {
		return fault.Kind
	}
	return FaultStoreUnavailable
}

// IsNotFound reports whether err is a not-found store fault.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == FaultNotFound
}

func classify(err error) FaultKind {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return FaultNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return FaultUniqueViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return FaultUniqueViolation
		case "23502", "22001", "22P02", "23514":
			return FaultValidation
		}
		return FaultStoreUnavailable
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return FaultUniqueViolation
		case sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintCheck:
			return FaultValidation
		}
	}
	return FaultStoreUnavailable
}
