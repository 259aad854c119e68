package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidationError reports malformed scheduling input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OverlapError names the first pair of conflicting ranges found on Date.
type OverlapError struct {
	Date   string
	First  TimeRange
	Second TimeRange
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping time ranges on %s: %s-%s and %s-%s",
		e.Date, e.First.StartTime, e.First.EndTime, e.Second.StartTime, e.Second.EndTime)
}

type AuthorizationError struct {
	UID    string
	ClubID string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s is not an admin of club %s", e.UID, e.ClubID)
}

// StateError is returned when a form is still accepting applications.
type StateError struct {
	FormID   uint
	Deadline time.Time
}

func (e *StateError) Error() string {
	return fmt.Sprintf("form %d is still open until %s", e.FormID, e.Deadline.Format(time.RFC3339))
}

type CapacityExceededError struct {
	Applicants int
	Capacity   int
	Overflow   int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%d applicants exceed interview capacity of %d by %d", e.Applicants, e.Capacity, e.Overflow)
}

type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// StorageError wraps any persistence failure. The enclosing transaction has
// already been rolled back when it is returned.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// SQLState returns the Postgres error code behind the failure, if any.
func (e *StorageError) SQLState() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
