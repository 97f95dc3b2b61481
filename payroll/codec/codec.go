/*
Package codec round-trips the payroll value types through a generic document
tree.

PURPOSE:
  The on-disk and over-the-wire representation of the core types is a plain
  field-name-keyed document (a map that marshals 1:1 to JSON). Every encoder
  and decoder here is explicit and hand-written - no reflection - so the
  stored field names and precision rules stay stable:

    Money    -> full-precision scale-6 decimal string, e.g. "12.500000"
    Duration -> ISO-8601 duration string, e.g. "PT2H30M"
    Payment  -> {personId, jobId, amount, state}
    Job      -> {jobId, desc, rate, duration, hasPaid, isFinal}
    Rate     -> {amount, period}
    Person   -> {personId, name, rate, payments}

  The state field is "PENDING" or "COMPLETED"; anything else is rejected.

ROUND-TRIP CONTRACT:
  decode(encode(x)) is equal to x under each type's own equality. Tests in
  codec_test.go exercise this for every type.

SEE ALSO:
  - duration.go: ISO-8601 duration format/parse
  - store/sqlite: Stores these string forms in table columns
*/
package codec

import (
	"errors"
	"fmt"

	"github.com/warp/paytrack/payroll"
)

// Doc is the generic document tree: field name -> value. Values are strings,
// bools, nested Docs, or lists. json.Unmarshal of a document produces
// exactly this shape.
type Doc = map[string]any

// ErrInvalidDocument is returned when a document is missing a field, has a
// field of the wrong type, or carries an unparseable value.
var ErrInvalidDocument = errors.New("invalid document")

// =============================================================================
// MONEY
// =============================================================================

// EncodeMoney renders the full-precision scale-6 string form.
func EncodeMoney(m payroll.Money) string { return m.String() }

// DecodeMoney parses the string form back into a Money.
func DecodeMoney(s string) (payroll.Money, error) {
	m, err := payroll.MoneyFromString(s)
	if err != nil {
		return payroll.Money{}, fmt.Errorf("%w: amount %q", ErrInvalidDocument, s)
	}
	return m, nil
}

// =============================================================================
// RATE
// =============================================================================

func EncodeRate(r payroll.Rate) Doc {
	return Doc{
		"amount": EncodeMoney(r.AmountPerPeriod()),
		"period": EncodeDuration(r.Period()),
	}
}

func DecodeRate(doc Doc) (payroll.Rate, error) {
	amountStr, err := docString(doc, "amount")
	if err != nil {
		return payroll.Rate{}, err
	}
	amount, err := DecodeMoney(amountStr)
	if err != nil {
		return payroll.Rate{}, err
	}
	periodStr, err := docString(doc, "period")
	if err != nil {
		return payroll.Rate{}, err
	}
	period, err := DecodeDuration(periodStr)
	if err != nil {
		return payroll.Rate{}, err
	}
	rate, err := payroll.NewRate(amount, period)
	if err != nil {
		return payroll.Rate{}, fmt.Errorf("%w: rate: %v", ErrInvalidDocument, err)
	}
	return rate, nil
}

// =============================================================================
// PAYMENT
// =============================================================================

func EncodePayment(p payroll.Payment) Doc {
	return Doc{
		"personId": p.PersonID().String(),
		"jobId":    p.JobID().String(),
		"amount":   EncodeMoney(p.Amount()),
		"state":    string(p.State()),
	}
}

func DecodePayment(doc Doc) (payroll.Payment, error) {
	personID, err := docID(doc, "personId")
	if err != nil {
		return payroll.Payment{}, err
	}
	jobID, err := docID(doc, "jobId")
	if err != nil {
		return payroll.Payment{}, err
	}
	amountStr, err := docString(doc, "amount")
	if err != nil {
		return payroll.Payment{}, err
	}
	amount, err := DecodeMoney(amountStr)
	if err != nil {
		return payroll.Payment{}, err
	}
	stateStr, err := docString(doc, "state")
	if err != nil {
		return payroll.Payment{}, err
	}
	state := payroll.PaymentState(stateStr)
	if state != payroll.PaymentPending && state != payroll.PaymentCompleted {
		return payroll.Payment{}, fmt.Errorf("%w: state %q", ErrInvalidDocument, stateStr)
	}
	return payroll.RestorePayment(personID, jobID, amount, state), nil
}

// =============================================================================
// JOB
// =============================================================================

func EncodeJob(j payroll.Job) Doc {
	return Doc{
		"jobId":    j.ID().String(),
		"desc":     j.Desc(),
		"rate":     EncodeRate(j.Rate()),
		"duration": EncodeDuration(j.Duration()),
		"hasPaid":  j.Paid(),
		"isFinal":  j.Final(),
	}
}

func DecodeJob(doc Doc) (payroll.Job, error) {
	id, err := docID(doc, "jobId")
	if err != nil {
		return payroll.Job{}, err
	}
	desc, err := docString(doc, "desc")
	if err != nil {
		return payroll.Job{}, err
	}
	rateDoc, err := docChild(doc, "rate")
	if err != nil {
		return payroll.Job{}, err
	}
	rate, err := DecodeRate(rateDoc)
	if err != nil {
		return payroll.Job{}, err
	}
	durationStr, err := docString(doc, "duration")
	if err != nil {
		return payroll.Job{}, err
	}
	duration, err := DecodeDuration(durationStr)
	if err != nil {
		return payroll.Job{}, err
	}
	paid, err := docBool(doc, "hasPaid")
	if err != nil {
		return payroll.Job{}, err
	}
	final, err := docBool(doc, "isFinal")
	if err != nil {
		return payroll.Job{}, err
	}
	return payroll.RestoreJob(id, desc, rate, duration, paid, final), nil
}

// =============================================================================
// PERSON
// =============================================================================

func EncodePerson(p payroll.Person) Doc {
	payments := Doc{}
	for _, pay := range p.Payments() {
		payments[pay.JobID().String()] = EncodePayment(pay)
	}
	return Doc{
		"personId": p.ID().String(),
		"name":     p.Name(),
		"rate":     EncodeRate(p.Rate()),
		"payments": payments,
	}
}

func DecodePerson(doc Doc) (payroll.Person, error) {
	id, err := docID(doc, "personId")
	if err != nil {
		return payroll.Person{}, err
	}
	name, err := docString(doc, "name")
	if err != nil {
		return payroll.Person{}, err
	}
	rateDoc, err := docChild(doc, "rate")
	if err != nil {
		return payroll.Person{}, err
	}
	rate, err := DecodeRate(rateDoc)
	if err != nil {
		return payroll.Person{}, err
	}

	payments := make(map[payroll.ID]payroll.Payment)
	if raw, ok := doc["payments"]; ok && raw != nil {
		child, ok := raw.(map[string]any)
		if !ok {
			return payroll.Person{}, fmt.Errorf("%w: field payments", ErrInvalidDocument)
		}
		for key, value := range child {
			jobID, err := payroll.ParseID(key)
			if err != nil {
				return payroll.Person{}, fmt.Errorf("%w: payment key %q", ErrInvalidDocument, key)
			}
			payDoc, ok := value.(map[string]any)
			if !ok {
				return payroll.Person{}, fmt.Errorf("%w: payment %q", ErrInvalidDocument, key)
			}
			pay, err := DecodePayment(payDoc)
			if err != nil {
				return payroll.Person{}, err
			}
			payments[jobID] = pay
		}
	}
	return payroll.RestorePerson(id, name, rate, payments), nil
}

// =============================================================================
// EMPLOYMENT INDEX
// =============================================================================

// EncodeEmployment renders the index as jobId -> sorted person ID list.
// Only jobs with at least one assignment appear.
func EncodeEmployment(e *payroll.Employment) Doc {
	doc := Doc{}
	for jobID, persons := range e.Snapshot() {
		ids := make([]any, 0, len(persons))
		for _, personID := range persons {
			ids = append(ids, personID.String())
		}
		doc[jobID.String()] = ids
	}
	return doc
}

func DecodeEmployment(doc Doc) (*payroll.Employment, error) {
	snapshot := make(map[payroll.ID][]payroll.ID, len(doc))
	for key, value := range doc {
		jobID, err := payroll.ParseID(key)
		if err != nil {
			return nil, fmt.Errorf("%w: job key %q", ErrInvalidDocument, key)
		}
		members, err := docStringList(value)
		if err != nil {
			return nil, fmt.Errorf("%w: associations for %q", ErrInvalidDocument, key)
		}
		for _, member := range members {
			personID, err := payroll.ParseID(member)
			if err != nil {
				return nil, fmt.Errorf("%w: person %q", ErrInvalidDocument, member)
			}
			snapshot[jobID] = append(snapshot[jobID], personID)
		}
	}
	return payroll.RestoreEmployment(snapshot), nil
}

// =============================================================================
// FIELD ACCESS HELPERS
// =============================================================================

func docString(doc Doc, key string) (string, error) {
	raw, ok := doc[key]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrInvalidDocument, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a string", ErrInvalidDocument, key)
	}
	return s, nil
}

func docBool(doc Doc, key string) (bool, error) {
	raw, ok := doc[key]
	if !ok {
		return false, fmt.Errorf("%w: missing field %q", ErrInvalidDocument, key)
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%w: field %q is not a bool", ErrInvalidDocument, key)
	}
	return b, nil
}

func docChild(doc Doc, key string) (Doc, error) {
	raw, ok := doc[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrInvalidDocument, key)
	}
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is not a document", ErrInvalidDocument, key)
	}
	return child, nil
}

func docID(doc Doc, key string) (payroll.ID, error) {
	s, err := docString(doc, key)
	if err != nil {
		return "", err
	}
	id, err := payroll.ParseID(s)
	if err != nil {
		return "", fmt.Errorf("%w: field %q: %v", ErrInvalidDocument, key, err)
	}
	return id, nil
}

// docStringList accepts both []string and the []any produced by
// json.Unmarshal.
func docStringList(raw any) ([]string, error) {
	switch list := raw.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, ErrInvalidDocument
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, ErrInvalidDocument
	}
}
