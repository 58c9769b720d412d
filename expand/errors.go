// Package expand inlines rule and slot references into self-contained
// sentence ASTs.
package expand

import "errors"

var (
	ErrCyclicRule       = errors.New("expand: cyclic rule reference")
	ErrMissingSlot      = errors.New("expand: missing slot replacement")
	ErrMaxDepthExceeded = errors.New("expand: max expansion depth exceeded")
	ErrUnknownRule      = errors.New("expand: unknown rule reference")
)
