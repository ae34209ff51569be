package types

import (
	"strings"
)

// Requirement is one dependency declaration read from a requirements file.
type Requirement struct {
	Name       string
	Extras     []string
	Specifier  string
	URL        string
	Marker     string
	Editable   bool
	Constraint bool
	Source     string
	Line       int
	Raw        string
}

func (r Requirement) HasSpecifier() bool {
	return strings.TrimSpace(r.Specifier) != ""
}

// String renders the requirement the way it is reported: name, extras,
// specifier, direct URL and marker. Unnamed requirements (bare paths or
// archive URLs) fall back to the raw text.
func (r Requirement) String() string {
	if r.Name == "" {
		return r.Raw
	}
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[")
		b.WriteString(strings.Join(r.Extras, ","))
		b.WriteString("]")
	}
	b.WriteString(r.Specifier)
	if r.URL != "" {
		b.WriteString(" @ ")
		b.WriteString(r.URL)
	}
	if r.Marker != "" {
		if r.URL != "" {
			b.WriteString(" ")
		}
		b.WriteString("; ")
		b.WriteString(r.Marker)
	}
	return b.String()
}
