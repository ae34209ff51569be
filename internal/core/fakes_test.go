package core

import (
	"context"
	"iter"

	"ensure-requirements-specified/internal/types"
)

// fakeParser serves canned declarations per path. An entry in errs is
// yielded after the declarations of that path.
type fakeParser struct {
	files map[string][]types.Requirement
	errs  map[string]error
	calls []string
}

func (f *fakeParser) Parse(_ context.Context, path string) iter.Seq2[types.Requirement, error] {
	f.calls = append(f.calls, path)
	return func(yield func(types.Requirement, error) bool) {
		for _, req := range f.files[path] {
			if !yield(req, nil) {
				return
			}
		}
		if err, ok := f.errs[path]; ok {
			yield(types.Requirement{}, err)
		}
	}
}

func pinned(name string, specifier string) types.Requirement {
	return types.Requirement{Name: name, Specifier: specifier, Raw: name + specifier}
}

func unpinned(name string) types.Requirement {
	return types.Requirement{Name: name, Raw: name}
}
