package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/paytrack/payroll"
)

func TestEmployment_AssociateAndLookup(t *testing.T) {
	e := payroll.NewEmployment()
	j, p1, p2 := payroll.MustID("j1"), payroll.MustID("p1"), payroll.MustID("p2")

	require.NoError(t, e.Associate(j, p2))
	require.NoError(t, e.Associate(j, p1))

	// Lookups are sorted regardless of insertion order
	assert.Equal(t, []payroll.ID{p1, p2}, e.PersonsFor(j))
	assert.Equal(t, []payroll.ID{j}, e.JobsFor(p1))
	assert.True(t, e.Associated(j, p1))
}

func TestEmployment_DuplicateAssociationFails(t *testing.T) {
	e := payroll.NewEmployment()
	j, p := payroll.MustID("j1"), payroll.MustID("p1")

	require.NoError(t, e.Associate(j, p))
	err := e.Associate(j, p)
	assert.ErrorIs(t, err, payroll.ErrDuplicateAssociation)

	var assocErr *payroll.AssociationError
	require.ErrorAs(t, err, &assocErr)
	assert.Equal(t, j, assocErr.JobID)
	assert.Equal(t, p, assocErr.PersonID)
}

func TestEmployment_DisassociateUnknownPairFails(t *testing.T) {
	e := payroll.NewEmployment()
	err := e.Disassociate(payroll.MustID("j1"), payroll.MustID("p1"))
	assert.ErrorIs(t, err, payroll.ErrAssociationNotFound)
}

func TestEmployment_LookupsReturnEmptyNotNil(t *testing.T) {
	e := payroll.NewEmployment()
	assert.NotNil(t, e.PersonsFor(payroll.MustID("nope")))
	assert.Empty(t, e.PersonsFor(payroll.MustID("nope")))
	assert.NotNil(t, e.JobsFor(payroll.MustID("nope")))
	assert.Empty(t, e.JobsFor(payroll.MustID("nope")))
}

func TestEmployment_DeletePersonCascades(t *testing.T) {
	// GIVEN: j1 has p1 and p2 assigned
	// WHEN: p1 is deleted, then p2
	// THEN: First the set shrinks, then the job entry disappears entirely

	e := payroll.NewEmployment()
	j, p1, p2 := payroll.MustID("j1"), payroll.MustID("p1"), payroll.MustID("p2")
	require.NoError(t, e.Associate(j, p1))
	require.NoError(t, e.Associate(j, p2))

	e.DeletePerson(p1)
	assert.Equal(t, []payroll.ID{p2}, e.PersonsFor(j))
	assert.Empty(t, e.JobsFor(p1))

	e.DeletePerson(p2)
	assert.Empty(t, e.PersonsFor(j))
	assert.Empty(t, e.JobsFor(p2))

	// Empty entries are pruned, not kept as empty sets
	assert.NotContains(t, e.Snapshot(), j)

	// Deleting someone with no associations is a no-op
	e.DeletePerson(payroll.MustID("ghost"))
}

func TestEmployment_DeleteJobCascades(t *testing.T) {
	e := payroll.NewEmployment()
	j1, j2, p := payroll.MustID("j1"), payroll.MustID("j2"), payroll.MustID("p1")
	require.NoError(t, e.Associate(j1, p))
	require.NoError(t, e.Associate(j2, p))

	e.DeleteJob(j1)
	assert.Empty(t, e.PersonsFor(j1))
	assert.Equal(t, []payroll.ID{j2}, e.JobsFor(p))

	// Deleting an absent job is a no-op
	e.DeleteJob(payroll.MustID("ghost"))
}

func TestEmployment_DisassociatePrunesEmptyEntries(t *testing.T) {
	e := payroll.NewEmployment()
	j, p := payroll.MustID("j1"), payroll.MustID("p1")
	require.NoError(t, e.Associate(j, p))
	require.NoError(t, e.Disassociate(j, p))

	assert.NotContains(t, e.Snapshot(), j)
	assert.Empty(t, e.JobsFor(p))
}

func TestEmployment_SnapshotRoundTrip(t *testing.T) {
	e := payroll.NewEmployment()
	require.NoError(t, e.Associate(payroll.MustID("j1"), payroll.MustID("p1")))
	require.NoError(t, e.Associate(payroll.MustID("j1"), payroll.MustID("p2")))
	require.NoError(t, e.Associate(payroll.MustID("j2"), payroll.MustID("p1")))

	restored := payroll.RestoreEmployment(e.Snapshot())

	assert.Equal(t, e.Snapshot(), restored.Snapshot())
	assert.Equal(t, []payroll.ID{payroll.MustID("j1"), payroll.MustID("j2")},
		restored.JobsFor(payroll.MustID("p1")))
}
