/*
handler.go - Bulk payment orchestration

PURPOSE:
  PaymentHandler keeps every person's payment ledger consistent with a job's
  paid/final flags. When a job is marked paid, each assigned person gets a
  pending payment; marking it unpaid withdraws those pending entries; and
  finalizing converts them to completed.

HOW AMOUNTS ARE COMPUTED:
  amount = person.Rate().Amount(job.Duration())

  The person's OWN rate governs what they are owed, not the job's rate. The
  job's rate is what the client is billed; the two are independent.

PARTIAL FAILURE:
  Each operation updates one person at a time through the repository: read
  the current record, compute the replacement, write it back. There is no
  multi-person transaction and no rollback. A failed bulk operation may have
  already written some persons; callers must treat it as possibly partially
  applied. This mirrors the single-user execution model - only one operation
  is ever in flight, so nothing can observe the intermediate state while it
  runs, but a mid-batch error does leave it behind.

SEE ALSO:
  - book.go: Ties these operations to the job state machine
  - employment.go: Source of the affected-person sets
*/
package payroll

import (
	"context"
	"fmt"
)

// PaymentHandler orchestrates bulk creation, removal and finalization of
// payments across all persons associated with a job.
type PaymentHandler struct {
	employment *Employment
	repo       Repository
}

// NewPaymentHandler builds a handler over an association index and a
// repository. Both are injected; the handler owns neither.
func NewPaymentHandler(employment *Employment, repo Repository) *PaymentHandler {
	return &PaymentHandler{employment: employment, repo: repo}
}

// CreatePendingPayments stores one pending payment per person assigned to
// the job, overwriting any prior entry at that job's slot. Fails with
// ErrNoAssignedPersons when nobody is assigned.
func (h *PaymentHandler) CreatePendingPayments(ctx context.Context, job Job) error {
	personIDs := h.employment.PersonsFor(job.ID())
	if len(personIDs) == 0 {
		return fmt.Errorf("job %s: %w", job.ID(), ErrNoAssignedPersons)
	}

	for _, personID := range personIDs {
		person, err := h.repo.Person(ctx, personID)
		if err != nil {
			return err
		}
		amount := person.Rate().Amount(job.Duration())
		updated := person.WithPayment(NewPendingPayment(person.ID(), job.ID(), amount))
		if err := h.repo.ReplacePerson(ctx, person, updated); err != nil {
			return err
		}
	}
	return nil
}

// RemovePendingPayments withdraws the job's pending entries. It scans ALL
// visible persons, not only the currently associated ones, so entries left
// behind by out-of-band association edits are still cleaned up. Completed
// entries are never touched: a finalized payment is never silently deleted.
// Fails with ErrNoAssignedPersons when the scanned set is empty.
func (h *PaymentHandler) RemovePendingPayments(ctx context.Context, job Job) error {
	persons, err := h.repo.VisiblePersons(ctx)
	if err != nil {
		return err
	}
	if len(persons) == 0 {
		return fmt.Errorf("job %s: %w", job.ID(), ErrNoAssignedPersons)
	}

	for _, person := range persons {
		pay, ok := person.PaymentFor(job.ID())
		if !ok || pay.State() != PaymentPending {
			continue
		}
		updated := person.WithoutPayment(job.ID())
		if err := h.repo.ReplacePerson(ctx, person, updated); err != nil {
			return err
		}
	}
	return nil
}

// FinalizePayments transitions each assigned person's pending entry for the
// job to completed, leaving every other ledger entry untouched. A person
// missing the expected entry fails with ErrPaymentNotFound. Fails with
// ErrNoAssignedPersons when nobody is assigned.
func (h *PaymentHandler) FinalizePayments(ctx context.Context, job Job) error {
	personIDs := h.employment.PersonsFor(job.ID())
	if len(personIDs) == 0 {
		return fmt.Errorf("job %s: %w", job.ID(), ErrNoAssignedPersons)
	}

	for _, personID := range personIDs {
		person, err := h.repo.Person(ctx, personID)
		if err != nil {
			return err
		}
		pay, ok := person.PaymentFor(job.ID())
		if !ok {
			return fmt.Errorf("person %s, job %s: %w", personID, job.ID(), ErrPaymentNotFound)
		}
		completed, err := pay.Pay()
		if err != nil {
			return err
		}
		if err := h.repo.ReplacePerson(ctx, person, person.WithPayment(completed)); err != nil {
			return err
		}
	}
	return nil
}
