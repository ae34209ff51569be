package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ensure-requirements-specified/internal/core"
	"ensure-requirements-specified/internal/types"
)

const progressFormat = "Processing requirements file: %s\n"

// Check discovers candidate files and processes them in discovery order.
// The first file that fails to parse aborts the run.
func (s Service) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	filter, err := core.NewFilenameFilter(req.FilenamePattern, !req.SkipFilenameCheck)
	if err != nil {
		return CheckResult{}, err
	}
	candidates := filter.Filter(s.Discovery.Candidates(ctx, types.DiscoveryRequest{
		Explicit:    req.Paths,
		Root:        req.Root,
		ExcludeDirs: req.ExcludeDirs,
	}))
	processor := core.NewFileProcessor(s.Parser)

	result := CheckResult{}
	for path := range candidates {
		if err := ctx.Err(); err != nil {
			return CheckResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("requirements check canceled").
				WithCause(err)
		}
		if strings.TrimSpace(path) == "" {
			return CheckResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("requirements file path is empty")
		}
		if req.Verbose {
			if err := s.progress(path); err != nil {
				return CheckResult{}, err
			}
		}
		log.Ctx(ctx).Debug().Str("path", path).Msg("processing requirements file")
		fileResult, err := processor.Process(ctx, path)
		if err != nil {
			return CheckResult{}, err
		}
		result.HasProblems = result.HasProblems || fileResult.HasProblems
		result.Messages = append(result.Messages, fileResult.Messages...)
		result.Files = append(result.Files, fileResult)
	}
	return result, nil
}

// Process checks a single file without discovery or name filtering.
func (s Service) Process(ctx context.Context, req ProcessRequest) (ProcessResult, error) {
	if strings.TrimSpace(req.Path) == "" {
		return ProcessResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("requirements file path is empty")
	}
	return core.NewFileProcessor(s.Parser).Process(ctx, req.Path)
}

func (s Service) progress(path string) error {
	out := s.Progress
	if out == nil {
		out = io.Discard
	}
	if _, err := fmt.Fprintf(out, progressFormat, path); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write progress").
			WithCause(err)
	}
	return nil
}

// ExitCode applies the exit-status policy to a completed check.
func ExitCode(result CheckResult, onlyWarn bool) types.ExitCode {
	if onlyWarn || !result.HasProblems {
		return types.ExitOK
	}
	return types.ExitProblems
}
