/*
book.go - The application aggregate

PURPOSE:
  Book ties the pieces together: it owns the association index, routes job
  state transitions through the payment orchestration, and cascades entity
  removal. Every operation follows the same shape:

    1. Validate the job's current state (finalized jobs reject everything)
    2. Compute the new immutable job value
    3. Run the payment orchestration over the affected persons
    4. Write the new job back through the repository

  Validation happens before any mutation, so an illegal request leaves both
  the index and the repository untouched. A failure INSIDE the payment
  orchestration, however, may have partially applied - see handler.go.

SEE ALSO:
  - handler.go: The bulk payment operations
  - job.go: The transition rules themselves
*/
package payroll

import (
	"context"
)

// Book is the aggregate root of the office-management core.
type Book struct {
	repo       Repository
	employment *Employment
	payments   *PaymentHandler
}

// NewBook wires a repository and an association index into an aggregate.
func NewBook(repo Repository, employment *Employment) *Book {
	return &Book{
		repo:       repo,
		employment: employment,
		payments:   NewPaymentHandler(employment, repo),
	}
}

// Employment exposes the association index for read-side queries.
func (b *Book) Employment() *Employment { return b.employment }

// Payments exposes the bulk payment orchestration.
func (b *Book) Payments() *PaymentHandler { return b.payments }

// =============================================================================
// ASSOCIATION
// =============================================================================

// AssociatePerson assigns a person to a job. Both records must exist, and a
// finalized job rejects new assignments.
func (b *Book) AssociatePerson(ctx context.Context, jobID, personID ID) error {
	job, err := b.repo.Job(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Final() {
		return &FinalizedJobError{JobID: jobID, Op: "assign person to"}
	}
	if _, err := b.repo.Person(ctx, personID); err != nil {
		return err
	}
	return b.employment.Associate(jobID, personID)
}

// DisassociatePerson removes an assignment. Disassociation is allowed even
// on finalized jobs: the payment ledger keeps its completed entries, and
// RemovePendingPayments tolerates the resulting stale state.
func (b *Book) DisassociatePerson(ctx context.Context, jobID, personID ID) error {
	return b.employment.Disassociate(jobID, personID)
}

// =============================================================================
// JOB LIFECYCLE
// =============================================================================

// MarkJobPaid moves the job to {paid, un-final} and creates one pending
// payment per assigned person.
func (b *Book) MarkJobPaid(ctx context.Context, jobID ID) (Job, error) {
	job, err := b.repo.Job(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	paid, err := job.AsPaid()
	if err != nil {
		return Job{}, err
	}
	if err := b.payments.CreatePendingPayments(ctx, paid); err != nil {
		return Job{}, err
	}
	if err := b.repo.ReplaceJob(ctx, job, paid); err != nil {
		return Job{}, err
	}
	return paid, nil
}

// MarkJobUnpaid moves the job back to {unpaid, un-final} and withdraws its
// pending payments across all visible persons.
func (b *Book) MarkJobUnpaid(ctx context.Context, jobID ID) (Job, error) {
	job, err := b.repo.Job(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	unpaid, err := job.AsUnpaid()
	if err != nil {
		return Job{}, err
	}
	if err := b.payments.RemovePendingPayments(ctx, unpaid); err != nil {
		return Job{}, err
	}
	if err := b.repo.ReplaceJob(ctx, job, unpaid); err != nil {
		return Job{}, err
	}
	return unpaid, nil
}

// FinalizeJob moves the job to its terminal {paid, final} state and converts
// every assigned person's pending payment to completed.
func (b *Book) FinalizeJob(ctx context.Context, jobID ID) (Job, error) {
	job, err := b.repo.Job(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	final, err := job.AsFinal()
	if err != nil {
		return Job{}, err
	}
	if err := b.payments.FinalizePayments(ctx, final); err != nil {
		return Job{}, err
	}
	if err := b.repo.ReplaceJob(ctx, job, final); err != nil {
		return Job{}, err
	}
	return final, nil
}

// =============================================================================
// REMOVAL CASCADES
// =============================================================================

// RemovePerson drops the person from every job's association set and, when
// the store supports it, deletes the record itself.
func (b *Book) RemovePerson(ctx context.Context, personID ID) error {
	if _, err := b.repo.Person(ctx, personID); err != nil {
		return err
	}
	b.employment.DeletePerson(personID)
	if remover, ok := b.repo.(PersonRemover); ok {
		return remover.RemovePerson(ctx, personID)
	}
	return nil
}

// RemoveJob drops the job's association entry and, when the store supports
// it, deletes the record itself. Persons keep their ledger entries for the
// job; completed payments in particular survive the job's removal.
func (b *Book) RemoveJob(ctx context.Context, jobID ID) error {
	if _, err := b.repo.Job(ctx, jobID); err != nil {
		return err
	}
	b.employment.DeleteJob(jobID)
	if remover, ok := b.repo.(JobRemover); ok {
		return remover.RemoveJob(ctx, jobID)
	}
	return nil
}
