package types

type ReportFinding struct {
	Name        string `yaml:"name,omitempty"`
	Requirement string `yaml:"requirement"`
	Line        int    `yaml:"line"`
	Source      string `yaml:"source,omitempty"`
}

type ReportFile struct {
	Path     string          `yaml:"path"`
	Findings []ReportFinding `yaml:"findings"`
}

type Report struct {
	HasProblems bool         `yaml:"has_problems"`
	Files       []ReportFile `yaml:"files"`
	Messages    []string     `yaml:"messages"`
}
