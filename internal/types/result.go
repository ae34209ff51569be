package types

type FileResult struct {
	Path        string
	HasProblems bool
	Messages    []string
	Findings    []Requirement
}

type CheckResult struct {
	HasProblems bool
	Messages    []string
	Files       []FileResult
}
