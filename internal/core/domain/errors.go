package domain

import (
	"errors"
	"fmt"
)

// Failure classes surfaced by the store and the command layer.
var (
	ErrConnectivity   = errors.New("store unreachable")
	ErrConstraint     = errors.New("constraint violation")
	ErrValidation     = errors.New("invalid input")
	ErrUnknownCommand = errors.New("unknown command")
	ErrTimeout        = errors.New("operation timed out")
)

// ConstraintKind names the kind of integrity rule that was breached.
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintNotNull    ConstraintKind = "not_null"
	ConstraintCheck      ConstraintKind = "check"
)

// ConstraintError reports a rejected write. Table and Constraint are filled
// in when the driver exposes them.
type ConstraintError struct {
	Kind       ConstraintKind
	Table      string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	msg := fmt.Sprintf("%s constraint violated", e.Kind)
	if e.Table != "" {
		msg += " on " + e.Table
	}
	if e.Constraint != "" {
		msg += " (" + e.Constraint + ")"
	}
	return msg
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrConstraint) match any ConstraintError.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}
