package core

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"ensure-requirements-specified/internal/ports"
	"ensure-requirements-specified/internal/shared"
	"ensure-requirements-specified/internal/types"
)

type FileProcessor struct {
	Parser ports.RequirementsParserPort
}

func NewFileProcessor(parser ports.RequirementsParserPort) FileProcessor {
	return FileProcessor{Parser: parser}
}

// Process reports every requirement in path that has no version specifier.
// A parser error ends processing and is returned as is.
func (p FileProcessor) Process(ctx context.Context, path string) (types.FileResult, error) {
	assert.NotEmpty(ctx, path, "requirements path must be set")
	result := types.FileResult{Path: path}
	for req, err := range FilterUnspecified(p.Parser.Parse(ctx, path)) {
		if err != nil {
			return types.FileResult{}, err
		}
		result.Findings = append(result.Findings, req)
		result.Messages = append(result.Messages, shared.MissingSpecifierMessage(path, req.String()))
	}
	result.HasProblems = len(result.Messages) > 0
	log.Ctx(ctx).Debug().
		Str("path", path).
		Int("findings", len(result.Findings)).
		Msg("requirements file processed")
	return result, nil
}
