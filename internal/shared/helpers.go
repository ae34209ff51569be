// Package shared provides small helpers used by more than one layer of
// ensure-requirements-specified.
package shared

import (
	"fmt"
	"strings"
)

// NormalizePipName lowercases a Python package name and replaces
// underscores and dots with hyphens, following PEP 503 normalization.
func NormalizePipName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	replacer := strings.NewReplacer("_", "-", ".", "-")
	return replacer.Replace(lower)
}

// MissingSpecifierMessage formats the finding reported for a requirement
// without a version specifier.
func MissingSpecifierMessage(path string, requirement string) string {
	return fmt.Sprintf("%s: No version specifier for package \"%s\"", path, requirement)
}
