package payroll

// =============================================================================
// PERSON - Worker record owning a payment ledger
// =============================================================================

// Person is a worker with their own billing rate and a payment ledger keyed
// by job ID. Persons are immutable: ledger changes produce a new Person that
// the repository is asked to substitute for the old one.
//
// The person's own rate - not the job's - is what converts a job's duration
// into money owed to them.
type Person struct {
	id       ID
	name     string
	rate     Rate
	payments map[ID]Payment
}

// NewPerson builds a person with an empty payment ledger.
func NewPerson(id ID, name string, rate Rate) Person {
	return Person{id: id, name: name, rate: rate}
}

// RestorePerson rebuilds a person with a pre-populated ledger.
// For the persistence codec only. The map is copied.
func RestorePerson(id ID, name string, rate Rate, payments map[ID]Payment) Person {
	return Person{id: id, name: name, rate: rate, payments: clonePayments(payments)}
}

func (p Person) ID() ID       { return p.id }
func (p Person) Name() string { return p.name }
func (p Person) Rate() Rate   { return p.rate }

// PaymentFor looks up the ledger entry for a job, if any.
func (p Person) PaymentFor(jobID ID) (Payment, bool) {
	pay, ok := p.payments[jobID]
	return pay, ok
}

// Payments returns the ledger entries ordered by job ID.
func (p Person) Payments() []Payment {
	ids := make([]ID, 0, len(p.payments))
	for jobID := range p.payments {
		ids = append(ids, jobID)
	}
	SortIDs(ids)

	out := make([]Payment, 0, len(ids))
	for _, jobID := range ids {
		out = append(out, p.payments[jobID])
	}
	return out
}

// WithPayment returns a copy of the person with the payment stored at its
// job-ID slot, overwriting any prior entry there.
func (p Person) WithPayment(pay Payment) Person {
	ledger := clonePayments(p.payments)
	ledger[pay.JobID()] = pay
	p.payments = ledger
	return p
}

// WithoutPayment returns a copy of the person with the job's slot removed.
// Removing an absent slot is a no-op.
func (p Person) WithoutPayment(jobID ID) Person {
	ledger := clonePayments(p.payments)
	delete(ledger, jobID)
	p.payments = ledger
	return p
}

// SameIdentity reports whether two persons are the same entity, by ID only.
func (p Person) SameIdentity(o Person) bool { return p.id == o.id }

// Equal is full structural equality, ledger included.
func (p Person) Equal(o Person) bool {
	if p.id != o.id || p.name != o.name || !p.rate.Equal(o.rate) {
		return false
	}
	if len(p.payments) != len(o.payments) {
		return false
	}
	for jobID, pay := range p.payments {
		other, ok := o.payments[jobID]
		if !ok || !pay.Equal(other) {
			return false
		}
	}
	return true
}

func clonePayments(in map[ID]Payment) map[ID]Payment {
	out := make(map[ID]Payment, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
