package payroll

import (
	"fmt"
)

// =============================================================================
// PAYMENT - Amount owed to one person for one job, pending or completed
// =============================================================================

// PaymentState is the lifecycle discriminant. The two states double as the
// persisted wire form.
type PaymentState string

const (
	PaymentPending   PaymentState = "PENDING"
	PaymentCompleted PaymentState = "COMPLETED"
)

// Payment is the computed amount owed to one person for one job. Its slot
// identity is the (person, job) pair; a person's ledger keys payments by job
// ID, so at most one payment per pair can exist at any time.
type Payment struct {
	personID ID
	jobID    ID
	amount   Money
	state    PaymentState
}

// NewPendingPayment builds a payment in the initial Pending state.
func NewPendingPayment(personID, jobID ID, amount Money) Payment {
	return Payment{personID: personID, jobID: jobID, amount: amount, state: PaymentPending}
}

// RestorePayment rebuilds a payment with an explicit state.
// For the persistence codec only.
func RestorePayment(personID, jobID ID, amount Money, state PaymentState) Payment {
	return Payment{personID: personID, jobID: jobID, amount: amount, state: state}
}

func (p Payment) PersonID() ID       { return p.personID }
func (p Payment) JobID() ID          { return p.jobID }
func (p Payment) Amount() Money      { return p.amount }
func (p Payment) State() PaymentState { return p.state }

// Pay transitions Pending → Completed, preserving person, job and amount.
// Paying a completed payment fails with ErrPaymentAlreadyPaid.
func (p Payment) Pay() (Payment, error) {
	switch p.state {
	case PaymentPending:
		p.state = PaymentCompleted
		return p, nil
	case PaymentCompleted:
		return Payment{}, fmt.Errorf("payment to %s for job %s: %w",
			p.personID, p.jobID, ErrPaymentAlreadyPaid)
	default:
		return Payment{}, fmt.Errorf("payment to %s for job %s: unknown state %q",
			p.personID, p.jobID, p.state)
	}
}

// SameSlot reports whether two payments occupy the same (person, job) slot,
// regardless of amount or state.
func (p Payment) SameSlot(o Payment) bool {
	return p.personID == o.personID && p.jobID == o.jobID
}

// Equal additionally requires matching amount and state.
func (p Payment) Equal(o Payment) bool {
	return p.SameSlot(o) && p.amount.Equal(o.amount) && p.state == o.state
}

func (p Payment) String() string {
	return fmt.Sprintf("%s to %s for %s [%s]", p.amount, p.personID, p.jobID, p.state)
}
