package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/paytrack/payroll"
)

func newJob(t *testing.T, id string) payroll.Job {
	t.Helper()
	rate, err := payroll.NewRate(payroll.MustMoney("10"), time.Hour)
	require.NoError(t, err)
	job, err := payroll.NewJob(payroll.MustID(id), "paint the fence", rate, 2*time.Hour)
	require.NoError(t, err)
	return job
}

func TestNewJob_RequiresPositiveDuration(t *testing.T) {
	rate := payroll.MustRate(payroll.MustMoney("10"), time.Hour)
	_, err := payroll.NewJob(payroll.MustID("j1"), "x", rate, 0)
	assert.ErrorIs(t, err, payroll.ErrNonPositiveDuration)
}

func TestJob_TransitionsAreCopies(t *testing.T) {
	// GIVEN: A fresh job
	// WHEN: Marking it paid
	// THEN: The original value is untouched; only the copy has the flag

	job := newJob(t, "j1")
	paid, err := job.AsPaid()
	require.NoError(t, err)

	assert.False(t, job.Paid())
	assert.True(t, paid.Paid())
	assert.False(t, paid.Final())
	assert.True(t, job.SameIdentity(paid))
	assert.Equal(t, job.Desc(), paid.Desc())
	assert.Equal(t, job.Duration(), paid.Duration())
}

func TestJob_StateMachine(t *testing.T) {
	job := newJob(t, "j1")

	// Initial {unpaid, un-final}: unpaying or finalizing is premature
	_, err := job.AsUnpaid()
	assert.ErrorIs(t, err, payroll.ErrJobNotPaid)
	_, err = job.AsFinal()
	assert.ErrorIs(t, err, payroll.ErrJobNotPaid)

	// {paid, un-final}
	paid, err := job.AsPaid()
	require.NoError(t, err)

	// Paying again is illegal from this state
	_, err = paid.AsPaid()
	assert.ErrorIs(t, err, payroll.ErrJobAlreadyPaid)

	// Unpaying returns to the initial state
	unpaid, err := paid.AsUnpaid()
	require.NoError(t, err)
	assert.False(t, unpaid.Paid())

	// {paid, final} - terminal
	final, err := paid.AsFinal()
	require.NoError(t, err)
	assert.True(t, final.Paid())
	assert.True(t, final.Final())

	// Every transition on a finalized job fails the same way
	_, err = final.AsPaid()
	assert.ErrorIs(t, err, payroll.ErrJobFinalized)
	_, err = final.AsUnpaid()
	assert.ErrorIs(t, err, payroll.ErrJobFinalized)
	_, err = final.AsFinal()
	assert.ErrorIs(t, err, payroll.ErrJobFinalized)

	var finalized *payroll.FinalizedJobError
	_, err = final.AsPaid()
	require.ErrorAs(t, err, &finalized)
	assert.Equal(t, payroll.MustID("j1"), finalized.JobID)
}

func TestJob_Equality(t *testing.T) {
	a := newJob(t, "j1")
	b := newJob(t, "j1")
	other := newJob(t, "j2")

	assert.True(t, a.Equal(b))
	assert.True(t, a.SameIdentity(b))

	// Same identity, different state: identity holds, equality does not
	paid, err := a.AsPaid()
	require.NoError(t, err)
	assert.True(t, a.SameIdentity(paid))
	assert.False(t, a.Equal(paid))

	assert.False(t, a.SameIdentity(other))
}
