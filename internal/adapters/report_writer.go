package adapters

import (
	"fmt"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"ensure-requirements-specified/internal/ports"
	"ensure-requirements-specified/internal/shared"
	"ensure-requirements-specified/internal/types"
)

type ReportWriterAdapter struct{}

func NewReportWriterAdapter() ReportWriterAdapter {
	return ReportWriterAdapter{}
}

func (a ReportWriterAdapter) WriteReport(w io.Writer, result types.CheckResult, format types.OutputFormat) error {
	switch format {
	case types.OutputFormatText, "":
		for _, message := range result.Messages {
			if _, err := fmt.Fprintln(w, message); err != nil {
				return writeError(err)
			}
		}
		return nil
	case types.OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(buildReport(result)); err != nil {
			return writeError(err)
		}
		if err := encoder.Close(); err != nil {
			return writeError(err)
		}
		return nil
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output format: %s", format))
	}
}

func buildReport(result types.CheckResult) types.Report {
	report := types.Report{
		HasProblems: result.HasProblems,
		Files:       make([]types.ReportFile, 0, len(result.Files)),
		Messages:    append([]string{}, result.Messages...),
	}
	for _, file := range result.Files {
		entry := types.ReportFile{
			Path:     file.Path,
			Findings: make([]types.ReportFinding, 0, len(file.Findings)),
		}
		for _, finding := range file.Findings {
			item := types.ReportFinding{
				Name:        shared.NormalizePipName(finding.Name),
				Requirement: finding.String(),
				Line:        finding.Line,
			}
			if finding.Source != file.Path {
				item.Source = finding.Source
			}
			entry.Findings = append(entry.Findings, item)
		}
		report.Files = append(report.Files, entry)
	}
	return report
}

func writeError(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to write report").
		WithCause(err)
}

var _ ports.ReportWriterPort = ReportWriterAdapter{}
