package app

import "ensure-requirements-specified/internal/types"

type CheckRequest struct {
	Paths             []string
	Root              string
	ExcludeDirs       []string
	FilenamePattern   string
	SkipFilenameCheck bool
	Verbose           bool
}

type CheckResult = types.CheckResult

type ProcessRequest struct {
	Path string
}

type ProcessResult = types.FileResult
