package ports

import (
	"context"
	"iter"

	"ensure-requirements-specified/internal/types"
)

// RequirementsParserPort reads dependency declarations from a requirements
// file, following any files it includes.
type RequirementsParserPort interface {
	// Parse lazily yields the declarations of path in file order. A
	// malformed line or unreadable file is yielded as a non-nil error, after
	// which the sequence ends.
	Parse(ctx context.Context, path string) iter.Seq2[types.Requirement, error]
}
