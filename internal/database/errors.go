package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrIntegrity marks a constraint violation. Retrying will not help.
	ErrIntegrity = errors.New("integrity constraint violated")
	// ErrTransient marks a failure that may succeed if the caller retries.
	ErrTransient = errors.New("temporary database failure")
)

type classified struct {
	kind  error
	cause error
}

func (e *classified) Error() string {
	return fmt.Sprintf("%s: %v", e.kind, e.cause)
}

func (e *classified) Unwrap() []error {
	return []error{e.kind, e.cause}
}

// Classify tags err as ErrNotFound, ErrIntegrity or ErrTransient when it
// recognises it, keeping err reachable through errors.Is/As. Unrecognised
// errors and nil are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	kind := kindOf(err)
	if kind == nil {
		return err
	}
	return &classified{kind: kind, cause: err}
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrIntegrity), errors.Is(err, ErrTransient):
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ErrIntegrity
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.DeadlineExceeded):
		return ErrTransient
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code):
			return ErrIntegrity
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgerrcode.IsTransactionRollback(pgErr.Code),
			pgerrcode.IsInsufficientResources(pgErr.Code),
			pgerrcode.IsOperatorIntervention(pgErr.Code):
			return ErrTransient
		}
		return nil
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.SafeToRetry(err) {
		return ErrTransient
	}
	return nil
}

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) }
func IsIntegrity(err error) bool { return errors.Is(Classify(err), ErrIntegrity) }
func IsTransient(err error) bool { return errors.Is(Classify(err), ErrTransient) }
