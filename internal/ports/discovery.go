package ports

import (
	"context"
	"iter"

	"ensure-requirements-specified/internal/types"
)

// DiscoveryPort produces candidate requirements file paths.
type DiscoveryPort interface {
	// Candidates yields req.Explicit in order when it is non-empty,
	// otherwise every regular file below req.Root.
	Candidates(ctx context.Context, req types.DiscoveryRequest) iter.Seq[string]
}
