package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind int

const (
	KindStorage Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation failure"
	case KindTransient:
		return "transient storage failure"
	default:
		return "storage fault"
	}
}

// Error is every failure the store returns. Resource names the kind of row involved,
// Err keeps the driver error when there is one.
type Error struct {
	Kind     Kind
	Resource string
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Resource != "" {
		b.WriteString(e.Resource)
		b.WriteString(": ")
	}
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil && e.Kind != KindNotFound && e.Kind != KindValidation {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the same kind, so errors.Is(err, ErrNotFound) works for any
// not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Resource != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrValidation = &Error{Kind: KindValidation}
	ErrTransient  = &Error{Kind: KindTransient}
	ErrStorage    = &Error{Kind: KindStorage}
)

// KindOf reports the kind of err; errors that did not come from the store are faults.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

func notFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource, Msg: "not found"}
}

func invalid(resource string, err error) *Error {
	return &Error{Kind: KindValidation, Resource: resource, Msg: err.Error(), Err: err}
}

func invalidf(resource, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Resource: resource, Msg: fmt.Sprintf(format, args...)}
}

// classify turns a driver or gorm error into an *Error. Errors that already are one pass
// through unchanged.
func classify(ctx context.Context, resource string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	kind, msg := kindOf(ctx, err)
	return &Error{Kind: kind, Resource: resource, Msg: msg, Err: err}
}

func kindOf(ctx context.Context, err error) (Kind, string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound, "not found"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return KindConflict, "already exists"
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return KindConflict, "conflicts with related records"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return KindConflict, "already exists"
		case pgErr.Code == "23503":
			return KindConflict, "conflicts with related records"
		case strings.HasPrefix(pgErr.Code, "08"),
			pgErr.Code == "40001", // serialization_failure
			pgErr.Code == "40P01", // deadlock_detected
			pgErr.Code == "57P01", // admin_shutdown
			pgErr.Code == "57014": // query_canceled
			return KindTransient, "temporarily unavailable"
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		(ctx != nil && ctx.Err() != nil) {
		return KindTransient, "timed out"
	}
	if errors.Is(err, driver.ErrBadConn) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return KindTransient, "temporarily unavailable"
	}

	// the pure Go sqlite driver reports constraint failures only through the message
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return KindConflict, "already exists"
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return KindConflict, "conflicts with related records"
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "interrupted"):
		return KindTransient, "temporarily unavailable"
	}
	return KindStorage, "storage failure"
}
