package types

// ExitCode is the process status reported for a completed check. Hard
// errors are mapped separately and never share these values.
type ExitCode int

const (
	ExitOK       ExitCode = 0
	ExitProblems ExitCode = 1
)

type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatYAML OutputFormat = "yaml"
)

type RequirementOption string

const (
	RequirementOptionRequirement RequirementOption = "requirement"
	RequirementOptionConstraint  RequirementOption = "constraint"
	RequirementOptionEditable    RequirementOption = "editable"
)

// DefaultFilenamePattern matches the base name of a requirements file.
const DefaultFilenamePattern = `^.*requirements.*\.txt$`
