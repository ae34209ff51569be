package app

import (
	"io"
	"os"

	"ensure-requirements-specified/internal/adapters"
	"ensure-requirements-specified/internal/ports"
)

type Service struct {
	Parser       ports.RequirementsParserPort
	Discovery    ports.DiscoveryPort
	ReportWriter ports.ReportWriterPort
	Progress     io.Writer
}

func NewService() Service {
	return Service{
		Parser:       adapters.NewRequirementsFileAdapter(),
		Discovery:    adapters.NewFileDiscoveryAdapter(),
		ReportWriter: adapters.NewReportWriterAdapter(),
		Progress:     os.Stdout,
	}
}
