package adapters

import (
	"fmt"
	"strings"
)

// markerAliases are the legacy variable spellings rewritten to their
// canonical names.
var markerAliases = map[string]string{
	"os.name":                        "os_name",
	"sys.platform":                   "sys_platform",
	"platform.version":               "platform_version",
	"platform.machine":               "platform_machine",
	"platform.python_implementation": "platform_python_implementation",
	"python_implementation":          "platform_python_implementation",
}

type markerTokenKind int

const (
	markerWord markerTokenKind = iota
	markerString
	markerOperator
	markerOpen
	markerClose
)

type markerToken struct {
	kind  markerTokenKind
	value string
}

// normalizeMarker renders an environment marker with single spaces between
// tokens, double-quoted values and canonical variable names. Markers are
// never evaluated.
func normalizeMarker(raw string) (string, error) {
	tokens, err := tokenizeMarker(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return "", fmt.Errorf("empty environment marker")
	}

	var b strings.Builder
	depth := 0
	for i, token := range tokens {
		switch token.kind {
		case markerOpen:
			depth++
		case markerClose:
			depth--
			if depth < 0 {
				return "", fmt.Errorf("unbalanced parenthesis in environment marker")
			}
		}
		if i > 0 && tokens[i-1].kind != markerOpen && token.kind != markerClose {
			b.WriteString(" ")
		}
		switch token.kind {
		case markerString:
			quote := `"`
			if strings.Contains(token.value, `"`) {
				quote = `'`
			}
			b.WriteString(quote + token.value + quote)
		case markerWord:
			if alias, ok := markerAliases[token.value]; ok {
				b.WriteString(alias)
				continue
			}
			b.WriteString(token.value)
		default:
			b.WriteString(token.value)
		}
	}
	if depth != 0 {
		return "", fmt.Errorf("unbalanced parenthesis in environment marker")
	}
	return b.String(), nil
}

func tokenizeMarker(raw string) ([]markerToken, error) {
	var tokens []markerToken
	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			tokens = append(tokens, markerToken{kind: markerOpen, value: "("})
			i++
		case c == ')':
			tokens = append(tokens, markerToken{kind: markerClose, value: ")"})
			i++
		case c == '"' || c == '\'':
			end := strings.IndexByte(raw[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("unterminated string in environment marker")
			}
			tokens = append(tokens, markerToken{kind: markerString, value: raw[i+1 : i+1+end]})
			i += end + 2
		case strings.IndexByte("<>=!~", c) >= 0:
			j := i
			for j < len(raw) && strings.IndexByte("<>=!~", raw[j]) >= 0 {
				j++
			}
			tokens = append(tokens, markerToken{kind: markerOperator, value: raw[i:j]})
			i = j
		case isMarkerWordByte(c):
			j := i
			for j < len(raw) && isMarkerWordByte(raw[j]) {
				j++
			}
			word := raw[i:j]
			i = j
			if last := len(tokens) - 1; word == "in" && last >= 0 && tokens[last].kind == markerWord && tokens[last].value == "not" {
				tokens[last] = markerToken{kind: markerOperator, value: "not in"}
				continue
			}
			kind := markerWord
			if word == "in" {
				kind = markerOperator
			}
			tokens = append(tokens, markerToken{kind: kind, value: word})
		default:
			return nil, fmt.Errorf("unexpected character %q in environment marker", c)
		}
	}
	return tokens, nil
}

func isMarkerWordByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
