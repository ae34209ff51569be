package core

import (
	"fmt"
	"iter"
	"path/filepath"
	"regexp"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ensure-requirements-specified/internal/types"
)

// FilenameFilter decides which candidate paths are requirements files by
// matching their base name.
type FilenameFilter struct {
	pattern *regexp.Regexp
	enabled bool
}

// NewFilenameFilter compiles pattern, falling back to the default
// requirements pattern when it is empty. A disabled filter accepts
// every path.
func NewFilenameFilter(pattern string, enabled bool) (FilenameFilter, error) {
	if pattern == "" {
		pattern = types.DefaultFilenamePattern
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return FilenameFilter{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid filename pattern: %s", pattern)).
			WithCause(err)
	}
	return FilenameFilter{pattern: compiled, enabled: enabled}, nil
}

func (f FilenameFilter) Match(path string) bool {
	if !f.enabled {
		return true
	}
	return f.pattern.MatchString(filepath.Base(path))
}

func (f FilenameFilter) Filter(paths iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for path := range paths {
			if !f.Match(path) {
				continue
			}
			if !yield(path) {
				return
			}
		}
	}
}
