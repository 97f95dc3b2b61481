/*
handler_test.go - Bulk payment orchestration and aggregate scenarios

These tests run the full loop: association index + in-memory repository +
payment orchestration, driven through the Book the way the command layer
drives it in production.
*/
package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/paytrack/payroll"
	"github.com/warp/paytrack/payroll/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type fixture struct {
	ctx  context.Context
	mem  *store.Memory
	book *payroll.Book
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	return &fixture{
		ctx:  context.Background(),
		mem:  mem,
		book: payroll.NewBook(mem, payroll.NewEmployment()),
	}
}

func (f *fixture) addPerson(t *testing.T, id, hourly string) payroll.Person {
	t.Helper()
	rate := payroll.MustRate(payroll.MustMoney(hourly), time.Hour)
	p := payroll.NewPerson(payroll.MustID(id), "worker "+id, rate)
	require.NoError(t, f.mem.AddPerson(f.ctx, p))
	return p
}

func (f *fixture) addJob(t *testing.T, id, hourly string, d time.Duration) payroll.Job {
	t.Helper()
	rate := payroll.MustRate(payroll.MustMoney(hourly), time.Hour)
	j, err := payroll.NewJob(payroll.MustID(id), "job "+id, rate, d)
	require.NoError(t, err)
	require.NoError(t, f.mem.AddJob(f.ctx, j))
	return j
}

func (f *fixture) associate(t *testing.T, jobID, personID string) {
	t.Helper()
	require.NoError(t, f.book.AssociatePerson(f.ctx, payroll.MustID(jobID), payroll.MustID(personID)))
}

func (f *fixture) paymentFor(t *testing.T, personID, jobID string) payroll.Payment {
	t.Helper()
	p, err := f.mem.Person(f.ctx, payroll.MustID(personID))
	require.NoError(t, err)
	pay, ok := p.PaymentFor(payroll.MustID(jobID))
	require.True(t, ok, "person %s has no payment for job %s", personID, jobID)
	return pay
}

// =============================================================================
// END-TO-END SCENARIO
// =============================================================================

func TestBook_PayrollLifecycle(t *testing.T) {
	// GIVEN: Job j1 bills $10/h for 2h of work; person p1 earns $5/h
	// WHEN: p1 is assigned and j1 is marked paid
	// THEN: p1's ledger holds a pending payment of $10.00 - the PERSON'S
	//       rate times the job's duration; the job's own rate is what the
	//       client is billed and plays no part in the worker's pay

	f := newFixture(t)
	f.addPerson(t, "p1", "5")
	f.addJob(t, "j1", "10", 2*time.Hour)
	f.associate(t, "j1", "p1")

	paid, err := f.book.MarkJobPaid(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)
	assert.True(t, paid.Paid())

	pay := f.paymentFor(t, "p1", "j1")
	assert.Equal(t, payroll.PaymentPending, pay.State())
	assert.Equal(t, "10.000000", pay.Amount().String())

	// WHEN: The job is finalized
	// THEN: The pending payment becomes completed with the same amount
	final, err := f.book.FinalizeJob(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)
	assert.True(t, final.Final())

	pay = f.paymentFor(t, "p1", "j1")
	assert.Equal(t, payroll.PaymentCompleted, pay.State())
	assert.Equal(t, "10.000000", pay.Amount().String())

	// AND: The stored job reached the terminal state
	stored, err := f.mem.Job(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)
	assert.True(t, stored.Paid())
	assert.True(t, stored.Final())
}

func TestBook_RemovePendingLeavesCompletedUntouched(t *testing.T) {
	// GIVEN: A finalized job whose payment is completed
	// WHEN: RemovePendingPayments runs for that job
	// THEN: The completed entry survives - finalized payments are never
	//       silently deleted

	f := newFixture(t)
	f.addPerson(t, "p1", "5")
	job := f.addJob(t, "j1", "10", 2*time.Hour)
	f.associate(t, "j1", "p1")

	_, err := f.book.MarkJobPaid(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)
	_, err = f.book.FinalizeJob(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)

	require.NoError(t, f.book.Payments().RemovePendingPayments(f.ctx, job))

	pay := f.paymentFor(t, "p1", "j1")
	assert.Equal(t, payroll.PaymentCompleted, pay.State())
}

func TestBook_MarkUnpaidWithdrawsPendingPayments(t *testing.T) {
	f := newFixture(t)
	f.addPerson(t, "p1", "5")
	f.addPerson(t, "p2", "8")
	f.addJob(t, "j1", "10", time.Hour)
	f.associate(t, "j1", "p1")
	f.associate(t, "j1", "p2")

	_, err := f.book.MarkJobPaid(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)

	unpaid, err := f.book.MarkJobUnpaid(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)
	assert.False(t, unpaid.Paid())

	for _, id := range []string{"p1", "p2"} {
		p, err := f.mem.Person(f.ctx, payroll.MustID(id))
		require.NoError(t, err)
		_, ok := p.PaymentFor(payroll.MustID("j1"))
		assert.False(t, ok, "person %s should have no entry left", id)
	}
}

func TestBook_MarkUnpaidCleansUpStaleAssociations(t *testing.T) {
	// GIVEN: A paid job whose person was disassociated out-of-band
	// WHEN: The job is marked unpaid
	// THEN: The orphaned pending entry is still withdrawn, because the scan
	//       covers all visible persons, not just the associated ones

	f := newFixture(t)
	f.addPerson(t, "p1", "5")
	f.addJob(t, "j1", "10", time.Hour)
	f.associate(t, "j1", "p1")

	_, err := f.book.MarkJobPaid(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)

	require.NoError(t, f.book.DisassociatePerson(f.ctx, payroll.MustID("j1"), payroll.MustID("p1")))

	_, err = f.book.MarkJobUnpaid(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)

	p, err := f.mem.Person(f.ctx, payroll.MustID("p1"))
	require.NoError(t, err)
	_, ok := p.PaymentFor(payroll.MustID("j1"))
	assert.False(t, ok)
}

// =============================================================================
// POLICY ERRORS
// =============================================================================

func TestBook_MarkPaidWithoutAssignmentsFails(t *testing.T) {
	f := newFixture(t)
	f.addJob(t, "j1", "10", time.Hour)

	_, err := f.book.MarkJobPaid(f.ctx, payroll.MustID("j1"))
	assert.ErrorIs(t, err, payroll.ErrNoAssignedPersons)

	// The failed transition left the job untouched
	stored, err := f.mem.Job(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)
	assert.False(t, stored.Paid())
}

func TestBook_FinalizeBeforePaidFails(t *testing.T) {
	f := newFixture(t)
	f.addPerson(t, "p1", "5")
	f.addJob(t, "j1", "10", time.Hour)
	f.associate(t, "j1", "p1")

	_, err := f.book.FinalizeJob(f.ctx, payroll.MustID("j1"))
	assert.ErrorIs(t, err, payroll.ErrJobNotPaid)
}

func TestBook_FinalizedJobRejectsEverything(t *testing.T) {
	f := newFixture(t)
	f.addPerson(t, "p1", "5")
	f.addPerson(t, "p2", "5")
	f.addJob(t, "j1", "10", time.Hour)
	f.associate(t, "j1", "p1")

	_, err := f.book.MarkJobPaid(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)
	_, err = f.book.FinalizeJob(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)

	_, err = f.book.MarkJobPaid(f.ctx, payroll.MustID("j1"))
	assert.ErrorIs(t, err, payroll.ErrJobFinalized)
	_, err = f.book.MarkJobUnpaid(f.ctx, payroll.MustID("j1"))
	assert.ErrorIs(t, err, payroll.ErrJobFinalized)
	_, err = f.book.FinalizeJob(f.ctx, payroll.MustID("j1"))
	assert.ErrorIs(t, err, payroll.ErrJobFinalized)

	err = f.book.AssociatePerson(f.ctx, payroll.MustID("j1"), payroll.MustID("p2"))
	assert.ErrorIs(t, err, payroll.ErrJobFinalized)
}

func TestPaymentHandler_RemoveWithNoVisiblePersonsFails(t *testing.T) {
	f := newFixture(t)
	job := f.addJob(t, "j1", "10", time.Hour)

	err := f.book.Payments().RemovePendingPayments(f.ctx, job)
	assert.ErrorIs(t, err, payroll.ErrNoAssignedPersons)
}

// =============================================================================
// PARTIAL APPLICATION (known limitation)
// =============================================================================

func TestPaymentHandler_MidBatchFailureLeavesEarlierWritesApplied(t *testing.T) {
	// GIVEN: Two persons assigned, but p2's record is missing from the
	//        repository (edited out-of-band)
	// WHEN: Pending payments are created for the job
	// THEN: The operation fails on p2 AND p1's payment is already written.
	//       The bulk operations have no rollback; a failed batch may be
	//       partially applied, and callers must expect that.

	f := newFixture(t)
	f.addPerson(t, "p1", "5")
	f.addPerson(t, "p2", "5")
	job := f.addJob(t, "j1", "10", time.Hour)
	f.associate(t, "j1", "p1")
	f.associate(t, "j1", "p2")

	require.NoError(t, f.mem.RemovePerson(f.ctx, payroll.MustID("p2")))

	paid, err := job.AsPaid()
	require.NoError(t, err)
	err = f.book.Payments().CreatePendingPayments(f.ctx, paid)
	assert.ErrorIs(t, err, payroll.ErrPersonNotFound)

	// p1 was processed before the failure and keeps its pending entry
	pay := f.paymentFor(t, "p1", "j1")
	assert.Equal(t, payroll.PaymentPending, pay.State())
}

// =============================================================================
// REMOVAL CASCADES
// =============================================================================

func TestBook_RemovePersonCascades(t *testing.T) {
	f := newFixture(t)
	f.addPerson(t, "p1", "5")
	f.addPerson(t, "p2", "5")
	f.addJob(t, "j1", "10", time.Hour)
	f.associate(t, "j1", "p1")
	f.associate(t, "j1", "p2")

	require.NoError(t, f.book.RemovePerson(f.ctx, payroll.MustID("p1")))

	assert.Equal(t, []payroll.ID{payroll.MustID("p2")},
		f.book.Employment().PersonsFor(payroll.MustID("j1")))
	_, err := f.mem.Person(f.ctx, payroll.MustID("p1"))
	assert.ErrorIs(t, err, payroll.ErrPersonNotFound)
}

func TestBook_RemoveJobKeepsCompletedLedgerEntries(t *testing.T) {
	f := newFixture(t)
	f.addPerson(t, "p1", "5")
	f.addJob(t, "j1", "10", time.Hour)
	f.associate(t, "j1", "p1")

	_, err := f.book.MarkJobPaid(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)
	_, err = f.book.FinalizeJob(f.ctx, payroll.MustID("j1"))
	require.NoError(t, err)

	require.NoError(t, f.book.RemoveJob(f.ctx, payroll.MustID("j1")))

	// The association entry is gone; the completed payment remains
	assert.Empty(t, f.book.Employment().PersonsFor(payroll.MustID("j1")))
	pay := f.paymentFor(t, "p1", "j1")
	assert.Equal(t, payroll.PaymentCompleted, pay.State())
}
