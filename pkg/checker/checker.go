// Package checker exposes the requirements check as a library call.
package checker

import (
	"context"

	"ensure-requirements-specified/internal/app"
)

// ProcessFile reports every requirement in the requirements file at path
// that has no version specifier. It returns whether any were found and one
// message per finding. Files included with -r or -c are followed. A
// malformed or unreadable file yields an error.
func ProcessFile(path string) (bool, []string, error) {
	return ProcessFileContext(context.Background(), path)
}

// ProcessFileContext is ProcessFile with a caller supplied context.
func ProcessFileContext(ctx context.Context, path string) (bool, []string, error) {
	result, err := app.NewService().Process(ctx, app.ProcessRequest{Path: path})
	if err != nil {
		return false, nil, err
	}
	return result.HasProblems, result.Messages, nil
}
