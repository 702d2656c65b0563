package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/wsapp/storefront/internal/core/domain"
)

// Kind classifies a command failure. Callers that only display the error can
// ignore it; the HTTP bridge maps it onto a status code.
type Kind string

const (
	KindUnknownCommand Kind = "unknown_command"
	KindValidation     Kind = "validation"
	KindConstraint     Kind = "constraint"
	KindConnectivity   Kind = "connectivity"
	KindTimeout        Kind = "timeout"
	KindInternal       Kind = "internal"
)

// Error is the single failure type returned by Registry.Invoke.
// Error() is the human-readable string shown to the user.
type Error struct {
	Command string
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func unknownCommand(name string) *Error {
	return &Error{
		Command: name,
		Kind:    KindUnknownCommand,
		Message: fmt.Sprintf("unknown command %q", name),
		Err:     domain.ErrUnknownCommand,
	}
}

func validationError(name Name, msg string) *Error {
	return &Error{
		Command: string(name),
		Kind:    KindValidation,
		Message: msg,
		Err:     fmt.Errorf("%w: %s", domain.ErrValidation, msg),
	}
}

// fromStore flattens an error returned by a service into an *Error.
func fromStore(name Name, err error) *Error {
	e := &Error{Command: string(name), Kind: KindInternal, Message: err.Error(), Err: err}

	var ce *domain.ConstraintError
	switch {
	case errors.As(err, &ce):
		e.Kind = KindConstraint
		e.Message = constraintMessage(ce)
	case errors.Is(err, domain.ErrValidation):
		e.Kind = KindValidation
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		e.Kind = KindTimeout
		e.Message = fmt.Sprintf("%s timed out", name)
	case errors.Is(err, context.Canceled):
		e.Kind = KindTimeout
		e.Message = fmt.Sprintf("%s was cancelled", name)
	case errors.Is(err, domain.ErrConnectivity):
		e.Kind = KindConnectivity
		e.Message = "database unavailable: " + err.Error()
	}
	return e
}

func constraintMessage(ce *domain.ConstraintError) string {
	switch ce.Kind {
	case domain.ConstraintUnique:
		if ce.Table == "users" {
			return "email already registered"
		}
	case domain.ConstraintForeignKey:
		return "referenced user does not exist"
	case domain.ConstraintNotNull:
		if ce.Constraint != "" {
			return ce.Constraint + " is required"
		}
	}
	return ce.Error()
}
