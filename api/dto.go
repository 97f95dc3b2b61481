package api

import (
	"time"

	"github.com/warp/paytrack/payroll"
	"github.com/warp/paytrack/payroll/codec"
)

// =============================================================================
// DTOs - Wire shapes for the HTTP surface
// =============================================================================
// Money travels as its full-precision scale-6 string, durations as ISO-8601
// strings, matching the persistence codec.

type RateDTO struct {
	Amount string `json:"amount"`
	Period string `json:"period"`
}

type PaymentDTO struct {
	PersonID string `json:"personId"`
	JobID    string `json:"jobId"`
	Amount   string `json:"amount"`
	State    string `json:"state"`
}

type PersonDTO struct {
	ID       string       `json:"personId"`
	Name     string       `json:"name"`
	Rate     RateDTO      `json:"rate"`
	Payments []PaymentDTO `json:"payments"`
}

type JobDTO struct {
	ID       string  `json:"jobId"`
	Desc     string  `json:"desc"`
	Rate     RateDTO `json:"rate"`
	Duration string  `json:"duration"`
	HasPaid  bool    `json:"hasPaid"`
	IsFinal  bool    `json:"isFinal"`
	Persons  []string `json:"persons"`
}

// Requests

type CreatePersonRequest struct {
	ID   string  `json:"personId,omitempty"` // optional; allocated when empty
	Name string  `json:"name"`
	Rate RateDTO `json:"rate"`
}

type CreateJobRequest struct {
	ID       string  `json:"jobId,omitempty"` // optional; allocated when empty
	Desc     string  `json:"desc"`
	Rate     RateDTO `json:"rate"`
	Duration string  `json:"duration"`
}

type AssociateRequest struct {
	PersonID string `json:"personId"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func rateToDTO(r payroll.Rate) RateDTO {
	return RateDTO{
		Amount: codec.EncodeMoney(r.AmountPerPeriod()),
		Period: codec.EncodeDuration(r.Period()),
	}
}

func rateFromDTO(dto RateDTO) (payroll.Rate, error) {
	amount, err := payroll.MoneyFromString(dto.Amount)
	if err != nil {
		return payroll.Rate{}, err
	}
	period, err := codec.DecodeDuration(dto.Period)
	if err != nil {
		return payroll.Rate{}, err
	}
	return payroll.NewRate(amount, period)
}

func paymentToDTO(p payroll.Payment) PaymentDTO {
	return PaymentDTO{
		PersonID: p.PersonID().String(),
		JobID:    p.JobID().String(),
		Amount:   codec.EncodeMoney(p.Amount()),
		State:    string(p.State()),
	}
}

func personToDTO(p payroll.Person) PersonDTO {
	payments := make([]PaymentDTO, 0, len(p.Payments()))
	for _, pay := range p.Payments() {
		payments = append(payments, paymentToDTO(pay))
	}
	return PersonDTO{
		ID:       p.ID().String(),
		Name:     p.Name(),
		Rate:     rateToDTO(p.Rate()),
		Payments: payments,
	}
}

func jobToDTO(j payroll.Job, persons []payroll.ID) JobDTO {
	assigned := make([]string, 0, len(persons))
	for _, id := range persons {
		assigned = append(assigned, id.String())
	}
	return JobDTO{
		ID:       j.ID().String(),
		Desc:     j.Desc(),
		Rate:     rateToDTO(j.Rate()),
		Duration: codec.EncodeDuration(j.Duration()),
		HasPaid:  j.Paid(),
		IsFinal:  j.Final(),
		Persons:  assigned,
	}
}

// jobDuration parses the request's worked-duration string.
func jobDuration(s string) (time.Duration, error) {
	return codec.DecodeDuration(s)
}
