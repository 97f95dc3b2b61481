/*
errors.go - Centralized error types for the payroll core

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Every failure in this package is a deterministic validation or
  state-precondition failure; nothing here is transient or retryable.

ERROR CATEGORIES:
  1. Value-construction errors - bad decimals, negative money, bad identifiers
  2. State-precondition errors - illegal job/payment transitions, index misuse
  3. Policy errors - business rules such as "a job needs at least one worker"
  4. Lookup errors - missing person/job records at the repository boundary

USAGE:
  Callers match with errors.Is:

    if errors.Is(err, payroll.ErrJobFinalized) {
        // surface "cannot modify a finalized job"
    }

SEE ALSO:
  - job.go, payment.go, employment.go: Where these errors are raised
  - handler.go: Bulk operations raising ErrNoAssignedPersons
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMalformedDecimal is returned when a money string is not a valid
	// decimal literal.
	ErrMalformedDecimal = errors.New("malformed decimal string")

	// ErrNonFiniteNumber is returned when money is constructed from NaN or ±Inf.
	ErrNonFiniteNumber = errors.New("non-finite number")

	// ErrDivisionByZero is returned by Money.Div with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNegativeMoney is returned where a non-negative amount is required.
	ErrNegativeMoney = errors.New("negative money")

	// ErrNonPositiveDuration is returned where a strictly positive duration
	// is required (rate periods, job durations).
	ErrNonPositiveDuration = errors.New("non-positive duration")

	// ErrInvalidIdentifier is returned for identifier strings that fail the
	// alphanumeric-with-internal-hyphens format.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrJobNotPaid is returned when unpaying or finalizing a job that has
	// not been marked paid.
	ErrJobNotPaid = errors.New("job not paid")

	// ErrJobAlreadyPaid is returned when marking paid a job that already is.
	ErrJobAlreadyPaid = errors.New("job already paid")

	// ErrJobFinalized is returned by any attempt to change a finalized job.
	ErrJobFinalized = errors.New("modify finalized job")

	// ErrPaymentAlreadyPaid is returned by Pay() on a completed payment.
	ErrPaymentAlreadyPaid = errors.New("payment already paid")

	// ErrPaymentNotFound is returned when finalization expects a pending
	// payment slot that is missing from a person's ledger.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrDuplicateAssociation is returned when associating an already
	// associated (job, person) pair.
	ErrDuplicateAssociation = errors.New("duplicate association")

	// ErrAssociationNotFound is returned when disassociating a pair that
	// was never associated.
	ErrAssociationNotFound = errors.New("association not found")

	// ErrNoAssignedPersons is returned by the bulk payment operations when
	// the target population is empty. This is a business rule, not a bug.
	ErrNoAssignedPersons = errors.New("job requires at least one assigned person")

	// ErrPersonNotFound is returned when a person record does not exist.
	ErrPersonNotFound = errors.New("person not found")

	// ErrJobNotFound is returned when a job record does not exist.
	ErrJobNotFound = errors.New("job not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the identifiers involved
// =============================================================================

// AssociationError reports an Employment misuse with the pair involved.
type AssociationError struct {
	JobID    ID
	PersonID ID
	Err      error
}

func (e *AssociationError) Error() string {
	return fmt.Sprintf("job %s / person %s: %v", e.JobID, e.PersonID, e.Err)
}

func (e *AssociationError) Unwrap() error { return e.Err }

// FinalizedJobError reports an attempted change to a terminal job.
type FinalizedJobError struct {
	JobID ID
	Op    string // e.g. "mark paid", "assign person"
}

func (e *FinalizedJobError) Error() string {
	return fmt.Sprintf("cannot %s: job %s is finalized", e.Op, e.JobID)
}

func (e *FinalizedJobError) Unwrap() error { return ErrJobFinalized }

// NotFoundError reports a missing record at the repository boundary.
type NotFoundError struct {
	Kind string // "person" or "job"
	ID   ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	if e.Kind == "job" {
		return ErrJobNotFound
	}
	return ErrPersonNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input or an
// illegal state transition requested by the caller.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMalformedDecimal) ||
		errors.Is(err, ErrNonFiniteNumber) ||
		errors.Is(err, ErrNegativeMoney) ||
		errors.Is(err, ErrNonPositiveDuration) ||
		errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrJobNotPaid) ||
		errors.Is(err, ErrJobAlreadyPaid) ||
		errors.Is(err, ErrJobFinalized) ||
		errors.Is(err, ErrPaymentAlreadyPaid) ||
		errors.Is(err, ErrDuplicateAssociation) ||
		errors.Is(err, ErrAssociationNotFound) ||
		errors.Is(err, ErrNoAssignedPersons)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPersonNotFound) ||
		errors.Is(err, ErrJobNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}

// IsConflict returns true for state-precondition violations, where the
// request was well-formed but the entity's current state forbids it.
func IsConflict(err error) bool {
	return errors.Is(err, ErrJobNotPaid) ||
		errors.Is(err, ErrJobAlreadyPaid) ||
		errors.Is(err, ErrJobFinalized) ||
		errors.Is(err, ErrPaymentAlreadyPaid) ||
		errors.Is(err, ErrDuplicateAssociation) ||
		errors.Is(err, ErrAssociationNotFound)
}
