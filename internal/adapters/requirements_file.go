package adapters

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ensure-requirements-specified/internal/ports"
	"ensure-requirements-specified/internal/types"
)

const maxLineBytes = 1024 * 1024

// valueOptions are options that consume an argument, keyed by every
// spelling pip accepts. Options not listed in either table are rejected.
var valueOptions = map[string]types.RequirementOption{
	"-r":                 types.RequirementOptionRequirement,
	"--requirement":      types.RequirementOptionRequirement,
	"-c":                 types.RequirementOptionConstraint,
	"--constraint":       types.RequirementOptionConstraint,
	"-e":                 types.RequirementOptionEditable,
	"--editable":         types.RequirementOptionEditable,
	"-i":                 "",
	"--index-url":        "",
	"--extra-index-url":  "",
	"-f":                 "",
	"--find-links":       "",
	"--trusted-host":     "",
	"--no-binary":        "",
	"--only-binary":      "",
	"--use-feature":      "",
	"--hash":             "",
	"--config-settings":  "",
	"--global-option":    "",
	"--install-option":   "",
	"--platform":         "",
	"--python-version":   "",
	"--implementation":   "",
	"--abi":              "",
	"--progress-bar":     "",
	"--upgrade-strategy": "",
}

var flagOptions = map[string]struct{}{
	"--no-index":           {},
	"--pre":                {},
	"--prefer-binary":      {},
	"--require-hashes":     {},
	"--no-deps":            {},
	"--no-build-isolation": {},
}

// RequirementsFileAdapter reads pip requirements files.
type RequirementsFileAdapter struct {
	LookupEnv func(string) (string, bool)
}

func NewRequirementsFileAdapter() RequirementsFileAdapter {
	return RequirementsFileAdapter{LookupEnv: os.LookupEnv}
}

func (a RequirementsFileAdapter) Parse(ctx context.Context, path string) iter.Seq2[types.Requirement, error] {
	return func(yield func(types.Requirement, error) bool) {
		walker := requirementsWalker{
			ctx:       ctx,
			lookupEnv: a.LookupEnv,
			active:    map[string]struct{}{},
			yield:     yield,
		}
		walker.file(path, false)
	}
}

type requirementsWalker struct {
	ctx       context.Context
	lookupEnv func(string) (string, bool)
	active    map[string]struct{}
	yield     func(types.Requirement, error) bool
}

// file parses one requirements file and everything it includes. It returns
// false once the consumer stopped or an error was yielded.
func (w requirementsWalker) file(path string, constraint bool) bool {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	if _, ok := w.active[key]; ok {
		return w.fail(errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("requirements include cycle at %s", path)))
	}
	w.active[key] = struct{}{}
	defer delete(w.active, key)

	lines, err := readPhysicalLines(path)
	if err != nil {
		return w.fail(err)
	}
	log.Ctx(w.ctx).Debug().Str("path", path).Int("lines", len(lines)).Msg("requirements file read")

	for _, line := range joinLines(lines) {
		if err := w.ctx.Err(); err != nil {
			return w.fail(errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("requirements parsing canceled").
				WithCause(err))
		}
		text := expandEnv(stripComment(line.text), w.lookupEnv)
		if text == "" {
			continue
		}
		if !w.line(path, line.number, text, constraint) {
			return false
		}
	}
	return true
}

func (w requirementsWalker) line(path string, number int, text string, constraint bool) bool {
	args, options := splitArgsOptions(text)
	parsed, err := parseOptions(options)
	if err != nil {
		return w.fail(requirementParseError(path, number, err))
	}

	if args != "" {
		if parsed.kind != "" {
			return w.fail(requirementParseError(path, number,
				fmt.Errorf("option --%s cannot follow a requirement", parsed.kind)))
		}
		req, err := parseRequirement(args)
		if err != nil {
			return w.fail(requirementParseError(path, number, err))
		}
		req.Source = path
		req.Line = number
		req.Constraint = constraint
		return w.yield(req, nil)
	}

	switch parsed.kind {
	case types.RequirementOptionRequirement, types.RequirementOptionConstraint:
		target, err := resolveInclude(path, parsed.value)
		if err != nil {
			return w.fail(requirementParseError(path, number, err))
		}
		log.Ctx(w.ctx).Debug().
			Str("path", path).
			Str("include", target).
			Str("kind", string(parsed.kind)).
			Msg("include resolved")
		return w.file(target, constraint || parsed.kind == types.RequirementOptionConstraint)
	case types.RequirementOptionEditable:
		req := types.Requirement{
			Name:       eggName(parsed.value),
			Raw:        parsed.value,
			Editable:   true,
			Constraint: constraint,
			Source:     path,
			Line:       number,
		}
		if req.Name == "" && !isUnnamedReference(parsed.value) {
			named, err := parseRequirement(parsed.value)
			if err != nil {
				return w.fail(requirementParseError(path, number, err))
			}
			req.Name = named.Name
			req.Extras = named.Extras
		}
		return w.yield(req, nil)
	default:
		return true
	}
}

func (w requirementsWalker) fail(err error) bool {
	w.yield(types.Requirement{}, err)
	return false
}

type lineOptions struct {
	kind  types.RequirementOption
	value string
}

// parseOptions recognises the options pip allows in a requirements file.
// Only the include and editable options carry meaning here, the rest are
// validated and dropped.
func parseOptions(tokens []string) (lineOptions, error) {
	var out lineOptions
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		name, value, hasValue := splitOption(token)
		if _, ok := flagOptions[name]; ok {
			if hasValue {
				return lineOptions{}, fmt.Errorf("option %s does not take a value", name)
			}
			continue
		}
		kind, ok := valueOptions[name]
		if !ok {
			return lineOptions{}, fmt.Errorf("no such option: %s", name)
		}
		if !hasValue {
			if i+1 >= len(tokens) {
				return lineOptions{}, fmt.Errorf("option %s requires an argument", name)
			}
			i++
			value = tokens[i]
		}
		if kind == "" {
			continue
		}
		if out.kind != "" {
			return lineOptions{}, fmt.Errorf("only one of -r, -c or -e is allowed per line")
		}
		if kind == types.RequirementOptionEditable && i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
			return lineOptions{}, fmt.Errorf("unexpected text after editable requirement: %s", tokens[i+1])
		}
		out = lineOptions{kind: kind, value: value}
	}
	return out, nil
}

// splitOption handles the --name=value, -rvalue and bare spellings.
func splitOption(token string) (string, string, bool) {
	if strings.HasPrefix(token, "--") {
		if idx := strings.Index(token, "="); idx >= 0 {
			return token[:idx], token[idx+1:], true
		}
		return token, "", false
	}
	if len(token) > 2 {
		return token[:2], token[2:], true
	}
	return token, "", false
}

// resolveInclude returns the path of an included file, relative to the
// directory of the including file unless it is absolute.
func resolveInclude(from string, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("empty include path")
	}
	if strings.Contains(target, "://") {
		return "", fmt.Errorf("remote requirements files are not supported: %s", target)
	}
	if filepath.IsAbs(target) {
		return target, nil
	}
	return filepath.Join(filepath.Dir(from), target), nil
}

func readPhysicalLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read requirements file %s", path)).
			WithCause(err)
	}
	return lines, nil
}

func openError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("requirements file not found: %s", path)).
			WithCause(err)
	case errors.Is(err, fs.ErrPermission):
		return errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg(fmt.Sprintf("requirements file not readable: %s", path)).
			WithCause(err)
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to open requirements file %s", path)).
			WithCause(err)
	}
}

var _ ports.RequirementsParserPort = RequirementsFileAdapter{}
