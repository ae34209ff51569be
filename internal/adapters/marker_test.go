package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMarker(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: `python_version < "3.11"`, want: `python_version < "3.11"`},
		{input: `python_version<'3.11'`, want: `python_version < "3.11"`},
		{input: `  sys.platform=='linux'and(os_name!="nt"or python_version>="3.8")`, want: `sys_platform == "linux" and (os_name != "nt" or python_version >= "3.8")`},
		{input: `'linux' not   in sys_platform`, want: `"linux" not in sys_platform`},
		{input: `extra == 'has"quote'`, want: `extra == 'has"quote'`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := normalizeMarker(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeMarkerErrors(t *testing.T) {
	for _, input := range []string{"", "   ", `python_version < "3.11`, `(os_name == "nt"`, `os_name == "nt")`, `os_name == nt$`} {
		t.Run(input, func(t *testing.T) {
			_, err := normalizeMarker(input)
			assert.Error(t, err)
		})
	}
}
