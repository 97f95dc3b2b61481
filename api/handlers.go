/*
handlers.go - HTTP handlers for the paytrack API

PURPOSE:
  Thin transport over the payroll core: decode the request, call the Book or
  the store, encode the result. No business rule lives here - every
  validation and transition is enforced by the payroll package, and the
  error taxonomy maps onto status codes:

    not found                 -> 404
    state/association conflict -> 409
    other client errors        -> 400
    everything else            -> 500

EMPLOYMENT PERSISTENCE:
  The association index lives in memory and is written back through
  EmploymentStore (when the store provides one) after every mutating
  association or removal, so a restart reloads the same assignments.

SEE ALSO:
  - payroll/book.go: The operations these handlers call
  - server.go: Route wiring
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/paytrack/payroll"
	"github.com/warp/paytrack/payroll/codec"
	"github.com/warp/paytrack/payroll/store"
)

// Store is what the handlers need from persistence: the repository boundary
// plus record creation and removal.
type Store interface {
	payroll.Repository
	AddPerson(ctx context.Context, p payroll.Person) error
	AddJob(ctx context.Context, j payroll.Job) error
	RemovePerson(ctx context.Context, id payroll.ID) error
	RemoveJob(ctx context.Context, id payroll.ID) error
}

// EmploymentStore is implemented by stores that persist the association
// index across restarts.
type EmploymentStore interface {
	SaveEmployment(ctx context.Context, e *payroll.Employment) error
	LoadEmployment(ctx context.Context) (*payroll.Employment, error)
}

// Handler holds the wired dependencies for all routes.
type Handler struct {
	store Store
	book  *payroll.Book
	alloc payroll.Allocator
}

// NewHandler wires a store and a pre-loaded employment index.
func NewHandler(st Store, employment *payroll.Employment) *Handler {
	return &Handler{
		store: st,
		book:  payroll.NewBook(st, employment),
		alloc: payroll.NewAllocator(),
	}
}

// =============================================================================
// PERSONS
// =============================================================================

func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := h.alloc.NextID()
	if req.ID != "" {
		parsed, err := payroll.ParseID(req.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		id = parsed
	}
	rate, err := rateFromDTO(req.Rate)
	if err != nil {
		writeError(w, err)
		return
	}

	person := payroll.NewPerson(id, req.Name, rate)
	if err := h.store.AddPerson(r.Context(), person); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, personToDTO(person))
}

func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.store.VisiblePersons(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]PersonDTO, 0, len(persons))
	for _, p := range persons {
		out = append(out, personToDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	person, err := h.store.Person(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, personToDTO(person))
}

func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.book.RemovePerson(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	h.persistEmployment(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// GetPayments returns a person's payment ledger, ordered by job ID.
func (h *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	person, err := h.store.Person(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]PaymentDTO, 0)
	for _, pay := range person.Payments() {
		out = append(out, paymentToDTO(pay))
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// JOBS
// =============================================================================

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := h.alloc.NextID()
	if req.ID != "" {
		parsed, err := payroll.ParseID(req.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		id = parsed
	}
	rate, err := rateFromDTO(req.Rate)
	if err != nil {
		writeError(w, err)
		return
	}
	duration, err := jobDuration(req.Duration)
	if err != nil {
		writeError(w, err)
		return
	}
	job, err := payroll.NewJob(id, req.Desc, rate, duration)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.AddJob(r.Context(), job); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jobToDTO(job, h.book.Employment().PersonsFor(id)))
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.VisibleJobs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]JobDTO, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobToDTO(j, h.book.Employment().PersonsFor(j.ID())))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	job, err := h.store.Job(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToDTO(job, h.book.Employment().PersonsFor(id)))
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.book.RemoveJob(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	h.persistEmployment(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ASSOCIATION
// =============================================================================

func (h *Handler) AssociatePerson(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req AssociateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	personID, err := payroll.ParseID(req.PersonID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.book.AssociatePerson(r.Context(), jobID, personID); err != nil {
		writeError(w, err)
		return
	}
	h.persistEmployment(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DisassociatePerson(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	personID, err := pathID(r, "personId")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.book.DisassociatePerson(r.Context(), jobID, personID); err != nil {
		writeError(w, err)
		return
	}
	h.persistEmployment(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// JOB LIFECYCLE
// =============================================================================

func (h *Handler) MarkJobPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.book.MarkJobPaid)
}

func (h *Handler) MarkJobUnpaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.book.MarkJobUnpaid)
}

func (h *Handler) FinalizeJob(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.book.FinalizeJob)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request,
	op func(context.Context, payroll.ID) (payroll.Job, error)) {

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	job, err := op(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToDTO(job, h.book.Employment().PersonsFor(id)))
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) persistEmployment(ctx context.Context) {
	es, ok := h.store.(EmploymentStore)
	if !ok {
		return
	}
	if err := es.SaveEmployment(ctx, h.book.Employment()); err != nil {
		log.Printf("Warning: failed to persist employment index: %v", err)
	}
}

func pathID(r *http.Request, param string) (payroll.ID, error) {
	return payroll.ParseID(chi.URLParam(r, param))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case payroll.IsNotFound(err):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case payroll.IsConflict(err), errors.Is(err, store.ErrDuplicateRecord):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case payroll.IsClientError(err), errors.Is(err, codec.ErrInvalidDocument):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
