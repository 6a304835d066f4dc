package navbar

import "errors"

var (
	// ErrEmptyPath is returned when a declaration has no path segments.
	ErrEmptyPath = errors.New("navbar: empty path")

	// ErrEmptyLabel is returned when a path segment renders to an empty string.
	ErrEmptyLabel = errors.New("navbar: empty label")

	// ErrIncomparableOrder is returned when two sibling entries carry sort keys
	// that cannot be ordered against each other (e.g. a string and an int).
	ErrIncomparableOrder = errors.New("navbar: incomparable order")

	// ErrDuplicateLabel is returned when a group already holds an entry with
	// the label of the entry being inserted.
	ErrDuplicateLabel = errors.New("navbar: duplicate label")

	// ErrAttached is returned when inserting an entry that already has a parent.
	ErrAttached = errors.New("navbar: entry already attached")

	// ErrNoResolver is returned by Entry.URL when the entry has an endpoint
	// but no resolver was configured to turn it into a link.
	ErrNoResolver = errors.New("navbar: no link resolver")
)
