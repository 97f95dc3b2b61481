package payroll

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/google/uuid"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// idPattern: alphanumeric with internal hyphens, no leading/trailing hyphen,
// non-empty.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)

// ID is the validated opaque identity key for persons and jobs. Two entities
// are "the same" iff their IDs are equal, independent of any other field.
// IDs order lexicographically, which is what gives the association index its
// deterministic iteration order.
type ID string

// ParseID validates an identifier string. Invalid input fails with
// ErrInvalidIdentifier.
func ParseID(s string) (ID, error) {
	if !idPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return ID(s), nil
}

// MustID validates an identifier and panics on failure.
// For fixtures and tests only.
func MustID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string { return string(id) }

// SortIDs orders identifiers lexicographically in place.
func SortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// =============================================================================
// ALLOCATOR - Injectable ID source
// =============================================================================

// Allocator hands out fresh identifiers. It is passed explicitly to whoever
// creates records; there is no process-wide factory.
type Allocator interface {
	NextID() ID
}

// NewAllocator returns the default UUID-backed allocator. UUID strings are
// valid identifiers under the ID format (hex segments joined by hyphens).
func NewAllocator() Allocator { return uuidAllocator{} }

type uuidAllocator struct{}

func (uuidAllocator) NextID() ID { return ID(uuid.NewString()) }
