package adapters

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"ensure-requirements-specified/internal/types"
)

var (
	commentPattern = regexp.MustCompile(`(^|\s+)#.*$`)
	envVarPattern  = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)
	namePattern    = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)
	eggPattern     = regexp.MustCompile(`[#&]egg=([A-Za-z0-9][A-Za-z0-9._-]*)`)
	urlMarkerSep   = regexp.MustCompile(`\s;`)
	clausePattern  = regexp.MustCompile(`^(~=|===|==|!=|<=|>=|<|>)[A-Za-z0-9.*+!_-]+$`)
	namedURLPrefix = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?\s*(?:\[[^\]]*\])?\s*@`)
	wheelFilename  = regexp.MustCompile(`^(?P<name>[^\s-]+?)-(?P<ver>[^\s-]*?)(?:-(?P<build>\d[^-]*?))?-(?P<pyver>[^\s-]+?)-(?P<abi>[^\s-]+?)-(?P<plat>[^\s-]+?)\.whl$`)
)

const wheelSuffix = ".whl"

// archiveSuffixes identify a bare requirement that points at a local or
// remote distribution rather than naming a project.
var archiveSuffixes = []string{".whl", ".tar.gz", ".tar.bz2", ".tar.xz", ".tgz", ".zip"}

type logicalLine struct {
	number int
	text   string
}

// joinLines folds backslash continuations into logical lines. A comment line
// terminates a continuation so that the comment is stripped on its own.
func joinLines(physical []string) []logicalLine {
	var out []logicalLine
	var pending []string
	primary := 0
	for i, line := range physical {
		number := i + 1
		isComment := strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
		if !strings.HasSuffix(line, `\`) || isComment {
			if isComment {
				line = " " + line
			}
			if len(pending) > 0 {
				pending = append(pending, line)
				out = append(out, logicalLine{number: primary, text: strings.Join(pending, "")})
				pending = nil
				continue
			}
			out = append(out, logicalLine{number: number, text: line})
			continue
		}
		if len(pending) == 0 {
			primary = number
		}
		pending = append(pending, strings.TrimSuffix(line, `\`))
	}
	if len(pending) > 0 {
		out = append(out, logicalLine{number: primary, text: strings.Join(pending, "")})
	}
	return out
}

func stripComment(line string) string {
	return strings.TrimSpace(commentPattern.ReplaceAllString(line, ""))
}

// expandEnv substitutes ${NAME} references that are set to a non-empty value
// and leaves unset or empty ones untouched.
func expandEnv(line string, lookup func(string) (string, bool)) string {
	if lookup == nil {
		return line
	}
	return envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if value, ok := lookup(name); ok && value != "" {
			return value
		}
		return match
	})
}

// splitArgsOptions separates the requirement text from the trailing options.
// Everything from the first token that starts with "-" is an option.
func splitArgsOptions(line string) (string, []string) {
	tokens := strings.Fields(line)
	for i, token := range tokens {
		if strings.HasPrefix(token, "-") {
			return strings.Join(tokens[:i], " "), tokens[i:]
		}
	}
	return strings.Join(tokens, " "), nil
}

// parseRequirement parses a single requirement specification such as
// `name[extra]>=1.0; python_version < "3.11"` or `name @ https://host/x.whl`.
func parseRequirement(text string) (types.Requirement, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.Requirement{}, fmt.Errorf("empty requirement")
	}
	if isUnnamedReference(text) {
		if isWheel(text) {
			return parseWheelReference(text)
		}
		return types.Requirement{Name: eggName(text), Raw: text}, nil
	}

	req := types.Requirement{Raw: text}
	name := namePattern.FindString(text)
	if name == "" {
		return types.Requirement{}, fmt.Errorf("expected package name at start of %q", text)
	}
	req.Name = name
	rest := strings.TrimSpace(text[len(name):])

	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return types.Requirement{}, fmt.Errorf("unterminated extras in %q", text)
		}
		extras, err := parseExtras(rest[1:end])
		if err != nil {
			return types.Requirement{}, err
		}
		req.Extras = extras
		rest = strings.TrimSpace(rest[end+1:])
	}

	if strings.HasPrefix(rest, "@") {
		target := strings.TrimSpace(rest[1:])
		if loc := urlMarkerSep.FindStringIndex(target); loc != nil {
			marker := strings.TrimSpace(target[loc[1]:])
			if marker == "" {
				return types.Requirement{}, fmt.Errorf("empty environment marker in %q", text)
			}
			req.Marker = marker
			target = strings.TrimSpace(target[:loc[0]])
		}
		if target == "" {
			return types.Requirement{}, fmt.Errorf("missing URL after @ in %q", text)
		}
		if _, err := url.Parse(target); err != nil {
			return types.Requirement{}, fmt.Errorf("invalid URL %q: %w", target, err)
		}
		req.URL = target
		return req, nil
	}

	if idx := strings.Index(rest, ";"); idx >= 0 {
		marker, err := normalizeMarker(rest[idx+1:])
		if err != nil {
			return types.Requirement{}, fmt.Errorf("%w in %q", err, text)
		}
		req.Marker = marker
		rest = strings.TrimSpace(rest[:idx])
	}

	specifier, err := normalizeSpecifier(rest)
	if err != nil {
		return types.Requirement{}, err
	}
	req.Specifier = specifier
	return req, nil
}

func parseExtras(raw string) ([]string, error) {
	var extras []string
	for _, part := range strings.Split(raw, ",") {
		extra := strings.TrimSpace(part)
		if extra == "" {
			continue
		}
		if namePattern.FindString(extra) != extra {
			return nil, fmt.Errorf("invalid extra %q", extra)
		}
		extras = append(extras, extra)
	}
	sort.Strings(extras)
	return extras, nil
}

// normalizeSpecifier validates a version specifier set and renders it with
// whitespace removed and clauses sorted, so equivalent sets print the same.
func normalizeSpecifier(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}
	if raw == "" {
		return "", nil
	}
	if !strings.ContainsAny(raw[:1], "<>=!~") {
		return "", fmt.Errorf("unexpected text %q where a version specifier was expected", raw)
	}
	var clauses []string
	for _, part := range strings.Split(raw, ",") {
		clause := strings.Join(strings.Fields(part), "")
		if !clausePattern.MatchString(clause) {
			return "", fmt.Errorf("invalid version specifier %q", raw)
		}
		clauses = append(clauses, clause)
	}
	sort.Strings(clauses)
	joined := strings.Join(clauses, ",")
	if _, err := pep440.NewSpecifiers(joined); err != nil {
		return "", fmt.Errorf("invalid version specifier %q: %w", joined, err)
	}
	return joined, nil
}

func isUnnamedReference(text string) bool {
	if namedURLPrefix.MatchString(text) {
		return false
	}
	if strings.Contains(text, "://") {
		return true
	}
	if strings.HasPrefix(text, ".") || strings.HasPrefix(text, "/") || strings.HasPrefix(text, "~") {
		return true
	}
	lower := strings.ToLower(text)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return strings.ContainsAny(text, `/\`) && !strings.ContainsAny(text, "<>=!~;")
}

func isWheel(text string) bool {
	return strings.HasSuffix(referenceFilename(text), wheelSuffix)
}

// parseWheelReference names a wheel path or URL after its filename. A wheel
// filename always carries an exact version, so the result is pinned.
func parseWheelReference(text string) (types.Requirement, error) {
	filename := referenceFilename(text)
	match := wheelFilename.FindStringSubmatch(filename)
	if match == nil {
		return types.Requirement{}, fmt.Errorf("invalid wheel filename %q", filename)
	}
	name := strings.ReplaceAll(match[wheelFilename.SubexpIndex("name")], "_", "-")
	version := strings.ReplaceAll(match[wheelFilename.SubexpIndex("ver")], "_", "-")
	if _, err := pep440.Parse(version); err != nil {
		return types.Requirement{}, fmt.Errorf("invalid wheel version %q in %q: %w", version, filename, err)
	}
	return types.Requirement{Name: name, Specifier: "==" + version, Raw: text}, nil
}

// referenceFilename is the last path segment of a path or URL, without any
// query or fragment.
func referenceFilename(text string) string {
	if idx := strings.IndexAny(text, "#?"); idx >= 0 {
		text = text[:idx]
	}
	if idx := strings.LastIndexAny(text, `/\`); idx >= 0 {
		text = text[idx+1:]
	}
	return text
}

func eggName(text string) string {
	if match := eggPattern.FindStringSubmatch(text); match != nil {
		return match[1]
	}
	return ""
}

func requirementParseError(path string, line int, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s:%d: invalid requirement: %v", path, line, cause)).
		WithCause(cause)
}
