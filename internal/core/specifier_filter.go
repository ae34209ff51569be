package core

import (
	"iter"

	"ensure-requirements-specified/internal/types"
)

// FilterUnspecified yields the requirements of seq that carry no version
// specifier, in order. Errors from seq are passed through unchanged.
func FilterUnspecified(seq iter.Seq2[types.Requirement, error]) iter.Seq2[types.Requirement, error] {
	return func(yield func(types.Requirement, error) bool) {
		for req, err := range seq {
			if err != nil {
				if !yield(types.Requirement{}, err) {
					return
				}
				continue
			}
			if req.HasSpecifier() {
				continue
			}
			if !yield(req, nil) {
				return
			}
		}
	}
}
