// Package treediff is the module root; it carries only the shared error
// kinds referenced by every internal package.
package treediff

import "errors"

// Error kinds surfaced by the pipeline. Callers match with errors.Is;
// every returned error wraps exactly one of these via fmt.Errorf("...: %w", ErrX).
var (
	// ErrInvalidInput covers an unknown post_id in a mapping, an attempt to
	// insert a root node, a Merge of nodes with different names, empty
	// HTML input, or a CLI mode outside {html, json}.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariantViolation covers move-detection finding a node whose
	// actual parent is neither its expected parent nor an ancestor of it.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrExternalFailure covers a non-zero solver exit or malformed
	// mapping output on stdout.
	ErrExternalFailure = errors.New("external solver failure")

	// ErrIO covers a read/write failure on any input or output file.
	ErrIO = errors.New("io failure")
)
