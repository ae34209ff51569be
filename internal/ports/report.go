package ports

import (
	"io"

	"ensure-requirements-specified/internal/types"
)

type ReportWriterPort interface {
	WriteReport(w io.Writer, result types.CheckResult, format types.OutputFormat) error
}
