package adapters

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"ensure-requirements-specified/internal/ports"
	"ensure-requirements-specified/internal/types"
)

type FileDiscoveryAdapter struct{}

func NewFileDiscoveryAdapter() FileDiscoveryAdapter {
	return FileDiscoveryAdapter{}
}

func (a FileDiscoveryAdapter) Candidates(ctx context.Context, req types.DiscoveryRequest) iter.Seq[string] {
	if len(req.Explicit) > 0 {
		explicit := req.Explicit
		return func(yield func(string) bool) {
			for _, path := range explicit {
				if !yield(path) {
					return
				}
			}
		}
	}
	return a.walk(ctx, req.Root, req.ExcludeDirs)
}

// walk yields the regular files below root in WalkDir order, following
// symlinks to files. Unreadable directories are skipped.
func (a FileDiscoveryAdapter) walk(ctx context.Context, root string, excludeDirs []string) iter.Seq[string] {
	excluded := make(map[string]struct{}, len(excludeDirs))
	for _, name := range excludeDirs {
		excluded[name] = struct{}{}
	}
	return func(yield func(string) bool) {
		start := root
		if start == "" {
			cwd, err := os.Getwd()
			if err != nil {
				log.Ctx(ctx).Debug().Err(err).Msg("cannot determine working directory")
				return
			}
			start = cwd
		}
		_ = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("skipping unreadable path")
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if _, ok := excluded[d.Name()]; ok && path != start {
					return filepath.SkipDir
				}
				return nil
			}
			if !isRegularFile(path, d) {
				log.Ctx(ctx).Debug().Str("path", path).Msg("skipping non-regular file")
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

var _ ports.DiscoveryPort = FileDiscoveryAdapter{}
