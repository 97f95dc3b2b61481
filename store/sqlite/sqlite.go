/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements payroll.Repository (plus record add/remove and employment-index
  persistence) using SQLite. Money and durations are stored in their codec
  string forms - full-precision scale-6 decimals and ISO-8601 durations - so
  rows round-trip exactly through the same rules as the document codec.

KEY TABLES:
  persons:      Worker records (rate stored as amount + period strings)
  payments:     Per-person payment ledger, keyed (person_id, job_id)
  jobs:         Job records with paid/final flags
  associations: The employment index, one row per (job_id, person_id) pair

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The core runs one operation at a
  time; the mutex only protects against accidental concurrent use.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency
  and crash recovery.

USAGE:
  st, err := sqlite.New("./data/paytrack.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

  employment, _ := st.LoadEmployment(ctx)
  book := payroll.NewBook(st, employment)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - payroll/repository.go: Interface definitions
  - payroll/store/memory.go: In-memory implementation for testing
  - payroll/codec: The string forms used in columns
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/paytrack/payroll"
	"github.com/warp/paytrack/payroll/codec"
	"github.com/warp/paytrack/payroll/store"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS persons (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		rate_amount TEXT NOT NULL,
		rate_period TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payments (
		person_id TEXT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
		job_id    TEXT NOT NULL,
		amount    TEXT NOT NULL,
		state     TEXT NOT NULL CHECK (state IN ('PENDING', 'COMPLETED')),
		PRIMARY KEY (person_id, job_id)
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id          TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		rate_amount TEXT NOT NULL,
		rate_period TEXT NOT NULL,
		duration    TEXT NOT NULL,
		has_paid    INTEGER NOT NULL DEFAULT 0,
		is_final    INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS associations (
		job_id    TEXT NOT NULL,
		person_id TEXT NOT NULL,
		PRIMARY KEY (job_id, person_id)
	);

	CREATE INDEX IF NOT EXISTS idx_payments_person ON payments(person_id);
	CREATE INDEX IF NOT EXISTS idx_associations_person ON associations(person_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PERSONS
// =============================================================================

// AddPerson inserts a new person record with its ledger.
func (s *Store) AddPerson(ctx context.Context, p payroll.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM persons WHERE id = ?`, p.ID().String()).Scan(&one)
	if err == nil {
		return fmt.Errorf("person %s: %w", p.ID(), store.ErrDuplicateRecord)
	}
	if err != sql.ErrNoRows {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertPerson(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Person(ctx context.Context, id payroll.ID) (payroll.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadPerson(ctx, id)
}

func (s *Store) loadPerson(ctx context.Context, id payroll.ID) (payroll.Person, error) {
	var name, rateAmount, ratePeriod string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, rate_amount, rate_period FROM persons WHERE id = ?`,
		id.String()).Scan(&name, &rateAmount, &ratePeriod)
	if err == sql.ErrNoRows {
		return payroll.Person{}, &payroll.NotFoundError{Kind: "person", ID: id}
	}
	if err != nil {
		return payroll.Person{}, err
	}

	rate, err := decodeRate(rateAmount, ratePeriod)
	if err != nil {
		return payroll.Person{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, amount, state FROM payments WHERE person_id = ?`,
		id.String())
	if err != nil {
		return payroll.Person{}, err
	}
	defer rows.Close()

	ledger := make(map[payroll.ID]payroll.Payment)
	for rows.Next() {
		var jobIDStr, amountStr, stateStr string
		if err := rows.Scan(&jobIDStr, &amountStr, &stateStr); err != nil {
			return payroll.Person{}, err
		}
		jobID, err := payroll.ParseID(jobIDStr)
		if err != nil {
			return payroll.Person{}, err
		}
		amount, err := codec.DecodeMoney(amountStr)
		if err != nil {
			return payroll.Person{}, err
		}
		ledger[jobID] = payroll.RestorePayment(id, jobID, amount, payroll.PaymentState(stateStr))
	}
	if err := rows.Err(); err != nil {
		return payroll.Person{}, err
	}
	return payroll.RestorePerson(id, name, rate, ledger), nil
}

// ReplacePerson substitutes updated for old: the old row and its ledger are
// removed in the same transaction that writes the new ones.
func (s *Store) ReplacePerson(ctx context.Context, old, updated payroll.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, old.ID().String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &payroll.NotFoundError{Kind: "person", ID: old.ID()}
	}
	if err := insertPerson(ctx, tx, updated); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) RemovePerson(ctx context.Context, id payroll.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &payroll.NotFoundError{Kind: "person", ID: id}
	}
	return nil
}

func (s *Store) VisiblePersons(ctx context.Context) ([]payroll.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM persons ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []payroll.ID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, err
		}
		id, err := payroll.ParseID(idStr)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]payroll.Person, 0, len(ids))
	for _, id := range ids {
		p, err := s.loadPerson(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func insertPerson(ctx context.Context, tx *sql.Tx, p payroll.Person) error {
	rate := p.Rate()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO persons (id, name, rate_amount, rate_period) VALUES (?, ?, ?, ?)`,
		p.ID().String(), p.Name(),
		codec.EncodeMoney(rate.AmountPerPeriod()), codec.EncodeDuration(rate.Period()))
	if err != nil {
		return err
	}
	for _, pay := range p.Payments() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO payments (person_id, job_id, amount, state) VALUES (?, ?, ?, ?)`,
			p.ID().String(), pay.JobID().String(),
			codec.EncodeMoney(pay.Amount()), string(pay.State()))
		if err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// JOBS
// =============================================================================

// AddJob inserts a new job record.
func (s *Store) AddJob(ctx context.Context, j payroll.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM jobs WHERE id = ?`, j.ID().String()).Scan(&one)
	if err == nil {
		return fmt.Errorf("job %s: %w", j.ID(), store.ErrDuplicateRecord)
	}
	if err != sql.ErrNoRows {
		return err
	}

	rate := j.Rate()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, description, rate_amount, rate_period, duration, has_paid, is_final)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.ID().String(), j.Desc(),
		codec.EncodeMoney(rate.AmountPerPeriod()), codec.EncodeDuration(rate.Period()),
		codec.EncodeDuration(j.Duration()), boolToInt(j.Paid()), boolToInt(j.Final()))
	return err
}

func (s *Store) Job(ctx context.Context, id payroll.ID) (payroll.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var desc, rateAmount, ratePeriod, durationStr string
	var hasPaid, isFinal int
	err := s.db.QueryRowContext(ctx,
		`SELECT description, rate_amount, rate_period, duration, has_paid, is_final
		 FROM jobs WHERE id = ?`, id.String()).
		Scan(&desc, &rateAmount, &ratePeriod, &durationStr, &hasPaid, &isFinal)
	if err == sql.ErrNoRows {
		return payroll.Job{}, &payroll.NotFoundError{Kind: "job", ID: id}
	}
	if err != nil {
		return payroll.Job{}, err
	}

	rate, err := decodeRate(rateAmount, ratePeriod)
	if err != nil {
		return payroll.Job{}, err
	}
	duration, err := codec.DecodeDuration(durationStr)
	if err != nil {
		return payroll.Job{}, err
	}
	return payroll.RestoreJob(id, desc, rate, duration, hasPaid != 0, isFinal != 0), nil
}

func (s *Store) ReplaceJob(ctx context.Context, old, updated payroll.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate := updated.Rate()
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET id = ?, description = ?, rate_amount = ?, rate_period = ?,
		        duration = ?, has_paid = ?, is_final = ?
		 WHERE id = ?`,
		updated.ID().String(), updated.Desc(),
		codec.EncodeMoney(rate.AmountPerPeriod()), codec.EncodeDuration(rate.Period()),
		codec.EncodeDuration(updated.Duration()),
		boolToInt(updated.Paid()), boolToInt(updated.Final()),
		old.ID().String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &payroll.NotFoundError{Kind: "job", ID: old.ID()}
	}
	return nil
}

func (s *Store) RemoveJob(ctx context.Context, id payroll.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &payroll.NotFoundError{Kind: "job", ID: id}
	}
	return nil
}

func (s *Store) VisibleJobs(ctx context.Context) ([]payroll.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, rate_amount, rate_period, duration, has_paid, is_final
		 FROM jobs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Job
	for rows.Next() {
		var idStr, desc, rateAmount, ratePeriod, durationStr string
		var hasPaid, isFinal int
		if err := rows.Scan(&idStr, &desc, &rateAmount, &ratePeriod, &durationStr, &hasPaid, &isFinal); err != nil {
			return nil, err
		}
		id, err := payroll.ParseID(idStr)
		if err != nil {
			return nil, err
		}
		rate, err := decodeRate(rateAmount, ratePeriod)
		if err != nil {
			return nil, err
		}
		duration, err := codec.DecodeDuration(durationStr)
		if err != nil {
			return nil, err
		}
		out = append(out, payroll.RestoreJob(id, desc, rate, duration, hasPaid != 0, isFinal != 0))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []payroll.Job{}
	}
	return out, nil
}

func (s *Store) HasJob(ctx context.Context, id payroll.ID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM jobs WHERE id = ?`, id.String()).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// =============================================================================
// EMPLOYMENT INDEX
// =============================================================================

// SaveEmployment replaces the persisted association rows with the index's
// current snapshot.
func (s *Store) SaveEmployment(ctx context.Context, e *payroll.Employment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM associations`); err != nil {
		return err
	}
	for jobID, persons := range e.Snapshot() {
		for _, personID := range persons {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO associations (job_id, person_id) VALUES (?, ?)`,
				jobID.String(), personID.String())
			if err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// LoadEmployment rebuilds the association index from the stored rows.
func (s *Store) LoadEmployment(ctx context.Context) (*payroll.Employment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT job_id, person_id FROM associations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := make(map[payroll.ID][]payroll.ID)
	for rows.Next() {
		var jobIDStr, personIDStr string
		if err := rows.Scan(&jobIDStr, &personIDStr); err != nil {
			return nil, err
		}
		jobID, err := payroll.ParseID(jobIDStr)
		if err != nil {
			return nil, err
		}
		personID, err := payroll.ParseID(personIDStr)
		if err != nil {
			return nil, err
		}
		snapshot[jobID] = append(snapshot[jobID], personID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payroll.RestoreEmployment(snapshot), nil
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeRate(amountStr, periodStr string) (payroll.Rate, error) {
	amount, err := codec.DecodeMoney(amountStr)
	if err != nil {
		return payroll.Rate{}, err
	}
	period, err := codec.DecodeDuration(periodStr)
	if err != nil {
		return payroll.Rate{}, err
	}
	return payroll.NewRate(amount, period)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
