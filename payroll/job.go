package payroll

import (
	"fmt"
	"time"
)

// =============================================================================
// JOB - Immutable unit of work with a paid/final state machine
// =============================================================================

// Job is a unit of work with a description, a billing rate, a worked
// duration, and two lifecycle flags. Jobs are immutable: every transition
// returns a new Job with exactly one flag changed.
//
// The flags form four states, of which three are reachable:
//
//	{unpaid, un-final}  initial
//	{paid,   un-final}  after AsPaid
//	{paid,   final}     after AsFinal — terminal, no further transitions
//
// {unpaid, final} is unreachable because finalizing requires paid first.
// The finalized check runs before anything else, so a terminal job can never
// be changed.
type Job struct {
	id       ID
	desc     string
	rate     Rate
	duration time.Duration
	paid     bool
	final    bool
}

// NewJob builds an unpaid, un-final job. The worked duration must be
// strictly positive.
func NewJob(id ID, desc string, rate Rate, duration time.Duration) (Job, error) {
	if duration <= 0 {
		return Job{}, fmt.Errorf("job duration %s: %w", duration, ErrNonPositiveDuration)
	}
	return Job{id: id, desc: desc, rate: rate, duration: duration}, nil
}

// RestoreJob rebuilds a job with explicit lifecycle flags.
// For the persistence codec only; it performs no transition validation.
func RestoreJob(id ID, desc string, rate Rate, duration time.Duration, paid, final bool) Job {
	return Job{id: id, desc: desc, rate: rate, duration: duration, paid: paid, final: final}
}

func (j Job) ID() ID                  { return j.id }
func (j Job) Desc() string            { return j.desc }
func (j Job) Rate() Rate              { return j.rate }
func (j Job) Duration() time.Duration { return j.duration }
func (j Job) Paid() bool              { return j.paid }
func (j Job) Final() bool             { return j.final }

// =============================================================================
// TRANSITIONS
// =============================================================================

// AsPaid transitions {unpaid, un-final} → {paid, un-final}.
func (j Job) AsPaid() (Job, error) {
	if j.final {
		return Job{}, &FinalizedJobError{JobID: j.id, Op: "mark paid"}
	}
	if j.paid {
		return Job{}, fmt.Errorf("job %s: %w", j.id, ErrJobAlreadyPaid)
	}
	j.paid = true
	return j, nil
}

// AsUnpaid transitions {paid, un-final} → {unpaid, un-final}.
func (j Job) AsUnpaid() (Job, error) {
	if j.final {
		return Job{}, &FinalizedJobError{JobID: j.id, Op: "mark unpaid"}
	}
	if !j.paid {
		return Job{}, fmt.Errorf("job %s: %w", j.id, ErrJobNotPaid)
	}
	j.paid = false
	return j, nil
}

// AsFinal transitions {paid, un-final} → {paid, final}, the terminal state.
func (j Job) AsFinal() (Job, error) {
	if j.final {
		return Job{}, &FinalizedJobError{JobID: j.id, Op: "finalize"}
	}
	if !j.paid {
		return Job{}, fmt.Errorf("job %s: %w", j.id, ErrJobNotPaid)
	}
	j.final = true
	return j, nil
}

// SameIdentity reports whether two jobs refer to the same entity, by ID only.
func (j Job) SameIdentity(o Job) bool { return j.id == o.id }

// Equal is full structural equality across every field.
func (j Job) Equal(o Job) bool {
	return j.id == o.id &&
		j.desc == o.desc &&
		j.rate.Equal(o.rate) &&
		j.duration == o.duration &&
		j.paid == o.paid &&
		j.final == o.final
}
