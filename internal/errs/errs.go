// Package errs holds the error kinds shared by the ledger services.
//
// Each typed error matches exactly one sentinel kind through errors.Is, so
// callers can branch on the kind without caring which layer produced it:
//
//	if errors.Is(err, errs.ErrOutOfRange) { ... }
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrOutOfRange   = errors.New("balance out of range")
	ErrStorage      = errors.New("storage failure")
	ErrUnauthorized = errors.New("unauthorized")
)

// Balance bounds. Points are stored as a signed 32-bit column.
const (
	MinBalance int64 = 0
	MaxBalance int64 = 2147483647
)

// ValidationError reports malformed or missing input. Nothing has been mutated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// OutOfRangeError reports a balance change that would leave [MinBalance, MaxBalance].
type OutOfRangeError struct {
	UserID  int64
	Balance int64
	Delta   int64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("user %d: balance %d%+d leaves [%d, %d]", e.UserID, e.Balance, e.Delta, MinBalance, MaxBalance)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// StorageError wraps a failed persistence operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func (e *StorageError) Unwrap() error { return e.Err }

// AuthorizationError reports a caller without the rights an operation needs.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return "unauthorized: " + e.Reason }

func (e *AuthorizationError) Is(target error) bool { return target == ErrUnauthorized }

// InRange reports whether balance is a storable point total.
func InRange(balance int64) bool {
	return balance >= MinBalance && balance <= MaxBalance
}
