/*
employment.go - The job <-> person association index

PURPOSE:
  A bidirectional many-to-many index recording who is assigned to what.
  Both directions are materialized so lookups are symmetric and cheap.

INVARIANTS:
  1. An entry exists iff its set is non-empty. Empty sets are pruned the
     moment the last member is removed; "no entry" means "no one assigned".
  2. Both indexes always agree: byJob and byPerson describe the same pairs.
  3. Lookups return sorted, never-nil slices, so iteration over the index is
     deterministic and reproducible.

An Employment is constructed explicitly and handed to whoever needs it.
There is no package-level instance.
*/
package payroll

// Employment is the association index between jobs and persons.
type Employment struct {
	byJob    map[ID]map[ID]struct{}
	byPerson map[ID]map[ID]struct{}
}

// NewEmployment returns an empty index.
func NewEmployment() *Employment {
	return &Employment{
		byJob:    make(map[ID]map[ID]struct{}),
		byPerson: make(map[ID]map[ID]struct{}),
	}
}

// Associate records that the person is assigned to the job. An already
// associated pair fails with ErrDuplicateAssociation.
func (e *Employment) Associate(jobID, personID ID) error {
	if _, ok := e.byJob[jobID][personID]; ok {
		return &AssociationError{JobID: jobID, PersonID: personID, Err: ErrDuplicateAssociation}
	}
	addPair(e.byJob, jobID, personID)
	addPair(e.byPerson, personID, jobID)
	return nil
}

// Disassociate removes the pair, pruning entries left empty. A pair that was
// never associated fails with ErrAssociationNotFound.
func (e *Employment) Disassociate(jobID, personID ID) error {
	if _, ok := e.byJob[jobID][personID]; !ok {
		return &AssociationError{JobID: jobID, PersonID: personID, Err: ErrAssociationNotFound}
	}
	removePair(e.byJob, jobID, personID)
	removePair(e.byPerson, personID, jobID)
	return nil
}

// DeletePerson removes the person from every job's set, pruning entries left
// empty. No error if the person had no associations.
func (e *Employment) DeletePerson(personID ID) {
	for jobID := range e.byPerson[personID] {
		removePair(e.byJob, jobID, personID)
	}
	delete(e.byPerson, personID)
}

// DeleteJob removes the job's entry outright. No error if absent.
func (e *Employment) DeleteJob(jobID ID) {
	for personID := range e.byJob[jobID] {
		removePair(e.byPerson, personID, jobID)
	}
	delete(e.byJob, jobID)
}

// PersonsFor returns the IDs of everyone assigned to the job, sorted.
// Never nil.
func (e *Employment) PersonsFor(jobID ID) []ID {
	return sortedKeys(e.byJob[jobID])
}

// JobsFor returns the IDs of every job the person is assigned to, sorted.
// Never nil.
func (e *Employment) JobsFor(personID ID) []ID {
	return sortedKeys(e.byPerson[personID])
}

// Associated reports whether the pair is currently associated.
func (e *Employment) Associated(jobID, personID ID) bool {
	_, ok := e.byJob[jobID][personID]
	return ok
}

// =============================================================================
// PERSISTENCE SUPPORT
// =============================================================================

// Snapshot returns the index as a job-keyed map of sorted person IDs.
// Only non-empty entries appear, mirroring the pruning invariant.
func (e *Employment) Snapshot() map[ID][]ID {
	out := make(map[ID][]ID, len(e.byJob))
	for jobID, persons := range e.byJob {
		out[jobID] = sortedKeys(persons)
	}
	return out
}

// RestoreEmployment rebuilds an index from a snapshot, skipping empty sets.
func RestoreEmployment(snapshot map[ID][]ID) *Employment {
	e := NewEmployment()
	for jobID, persons := range snapshot {
		for _, personID := range persons {
			addPair(e.byJob, jobID, personID)
			addPair(e.byPerson, personID, jobID)
		}
	}
	return e
}

// =============================================================================
// INTERNALS
// =============================================================================

func addPair(index map[ID]map[ID]struct{}, key, member ID) {
	set, ok := index[key]
	if !ok {
		set = make(map[ID]struct{})
		index[key] = set
	}
	set[member] = struct{}{}
}

// removePair deletes member from key's set and prunes the entry if empty.
func removePair(index map[ID]map[ID]struct{}, key, member ID) {
	set, ok := index[key]
	if !ok {
		return
	}
	delete(set, member)
	if len(set) == 0 {
		delete(index, key)
	}
}

func sortedKeys(set map[ID]struct{}) []ID {
	out := make([]ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	SortIDs(out)
	return out
}
