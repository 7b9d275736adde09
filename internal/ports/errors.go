package ports

import (
    "errors"
    "fmt"
)

// Error kinds. NotFound deliberately covers both "does not exist" and
// "exists but out of scope" so existence never leaks across tenants.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

type NotFoundError struct{ Entity, ID string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Entity, e.ID) }

type PermissionError struct{ Msg string }

func (e *PermissionError) Error() string { return "permission denied: " + e.Msg }

type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return "conflict: " + e.Msg }

type InfrastructureError struct {
    Op  string
    Err error
}

func (e *InfrastructureError) Error() string {
    if e.Err == nil {
        return "infrastructure: " + e.Op
    }
    return "infrastructure: " + e.Op + ": " + e.Err.Error()
}
func (e *InfrastructureError) Unwrap() error { return e.Err }

func Validationf(format string, args ...any) error {
    return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func NotFound(entity, id string) error { return &NotFoundError{Entity: entity, ID: id} }

func Permissionf(format string, args ...any) error {
    return &PermissionError{Msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
    return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func Infra(op string, err error) error { return &InfrastructureError{Op: op, Err: err} }

func IsValidation(err error) bool { var e *ValidationError; return errors.As(err, &e) }
func IsNotFound(err error) bool   { var e *NotFoundError; return errors.As(err, &e) }
func IsPermission(err error) bool { var e *PermissionError; return errors.As(err, &e) }
func IsConflict(err error) bool   { var e *ConflictError; return errors.As(err, &e) }
func IsInfra(err error) bool      { var e *InfrastructureError; return errors.As(err, &e) }
