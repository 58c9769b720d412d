// Package recognize matches tokenized utterances against a compiled graph
// and reconstructs intent, entity, and text structure from the accepted
// trace.
package recognize

import "errors"

var (
	ErrUnknownConverter = errors.New("recognize: unknown converter")
	ErrConverterFailed  = errors.New("recognize: converter failed")
	ErrUnbalancedStack  = errors.New("recognize: unbalanced entity or converter marker")
)
