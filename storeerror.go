package paperdex

import (
	"errors"
	"fmt"
)

// StoreErrorKind tags a store failure so callers can branch on a stable value
// instead of matching message text.
type StoreErrorKind int

const (
	// StoreUnavailable means the entry point itself is missing or not set up
	// (e.g. the search index was never opened). It is the only kind that
	// makes the executor fall back to a filtered fetch.
	StoreUnavailable StoreErrorKind = iota + 1
	// StoreNotFound means the referenced record does not exist.
	StoreNotFound
	// StoreQuery covers every other store-side failure: bad predicate,
	// broken connection, corrupt row.
	StoreQuery
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreUnavailable:
		return "unavailable"
	case StoreNotFound:
		return "not found"
	case StoreQuery:
		return "query"
	}
	return "unknown"
}

type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErrorKind(err error) StoreErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// IsUnavailable reports whether err is a StoreError tagged StoreUnavailable.
func IsUnavailable(err error) bool {
	return storeErrorKind(err) == StoreUnavailable
}

// IsNotFound reports whether err is a StoreError tagged StoreNotFound.
func IsNotFound(err error) bool {
	return storeErrorKind(err) == StoreNotFound
}
