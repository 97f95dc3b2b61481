package payroll

import "context"

// =============================================================================
// REPOSITORY - Boundary to person/job storage
// =============================================================================

// Repository is the boundary the orchestration uses to fetch and replace
// person and job records. Implementations decide what "visible" means: the
// in-memory store supports the UI's filtered views, the SQLite store returns
// everything it holds.
//
// Replace operations take the old record so an implementation can verify it
// is substituting the value the caller read. Missing records fail with
// ErrPersonNotFound / ErrJobNotFound.
type Repository interface {
	// Person returns the person record for the ID.
	Person(ctx context.Context, id ID) (Person, error)

	// ReplacePerson substitutes updated for old.
	ReplacePerson(ctx context.Context, old, updated Person) error

	// Job returns the job record for the ID.
	Job(ctx context.Context, id ID) (Job, error)

	// ReplaceJob substitutes updated for old.
	ReplaceJob(ctx context.Context, old, updated Job) error

	// VisiblePersons returns the currently visible person list, ordered by ID.
	VisiblePersons(ctx context.Context) ([]Person, error)

	// VisibleJobs returns the currently visible job list, ordered by ID.
	VisibleJobs(ctx context.Context) ([]Job, error)

	// HasJob reports whether a job record exists.
	HasJob(ctx context.Context, id ID) (bool, error)
}

// PersonRemover is implemented by stores that can delete person records.
type PersonRemover interface {
	RemovePerson(ctx context.Context, id ID) error
}

// JobRemover is implemented by stores that can delete job records.
type JobRemover interface {
	RemoveJob(ctx context.Context, id ID) error
}
