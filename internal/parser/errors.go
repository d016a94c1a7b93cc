package parser

import "errors"

// Parse failures are hard failures: a delivery note with an unresolved
// field could mean data corruption or an upstream format change, so no
// partial result is ever returned. Callers can match the failure class
// with errors.Is.
var (
	// ErrMissingSection means an expected label anchor never appears.
	ErrMissingSection = errors.New("missing section")
	// ErrMissingField means an anchor was found but no value followed it.
	ErrMissingField = errors.New("missing field")
	// ErrUnparsableField means a value was found but failed validation.
	ErrUnparsableField = errors.New("unparsable field")
	// ErrNoItemsFound means the item table header never appears.
	ErrNoItemsFound = errors.New("no items found")
	// ErrMissingTotal means the grand total label is absent.
	ErrMissingTotal = errors.New("missing total")
)
