package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ensure-requirements-specified/internal/types"
)

func writeRequirements(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func collect(t *testing.T, adapter RequirementsFileAdapter, path string) ([]types.Requirement, error) {
	t.Helper()
	var out []types.Requirement
	for req, err := range adapter.Parse(t.Context(), path) {
		if err != nil {
			return out, err
		}
		out = append(out, req)
	}
	return out, nil
}

func names(reqs []types.Requirement) []string {
	out := make([]string, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, req.String())
	}
	return out
}

func TestRequirementsFileAdapter_ParsesSpecifiers(t *testing.T) {
	path := writeRequirements(t, t.TempDir(), "requirements.txt", "flask==2.0.1\nrequests\nclick>=8.0\n")

	reqs, err := collect(t, NewRequirementsFileAdapter(), path)
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	specifiers := []string{reqs[0].Specifier, reqs[1].Specifier, reqs[2].Specifier}
	if diff := cmp.Diff([]string{"==2.0.1", "", ">=8.0"}, specifiers); diff != "" {
		t.Fatalf("unexpected specifiers (-want +got):\n%s", diff)
	}
	assert.Equal(t, "requests", reqs[1].String())
	assert.Equal(t, 2, reqs[1].Line)
	assert.Equal(t, path, reqs[1].Source)
	assert.False(t, reqs[1].HasSpecifier())
}

func TestRequirementsFileAdapter_CommentsAndContinuations(t *testing.T) {
	content := `# leading comment

flask==2.0.1  # pinned
requests \
    >=2.0
   # indented comment
numpy \
# comment ends the continuation
pandas
`
	path := writeRequirements(t, t.TempDir(), "requirements.txt", content)

	reqs, err := collect(t, NewRequirementsFileAdapter(), path)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"flask==2.0.1", "requests>=2.0", "numpy", "pandas"}, names(reqs)); diff != "" {
		t.Fatalf("unexpected requirements (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, reqs[1].Line)
	assert.Equal(t, 7, reqs[2].Line)
}

func TestRequirementsFileAdapter_OptionsAreIgnored(t *testing.T) {
	content := `-i https://pypi.org/simple
--extra-index-url=https://mirror.example/simple
--trusted-host mirror.example
--pre
--no-binary :all:
flask==2.0.1 --hash=sha256:abc --hash sha256:def
requests
`
	path := writeRequirements(t, t.TempDir(), "requirements.txt", content)

	reqs, err := collect(t, NewRequirementsFileAdapter(), path)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"flask==2.0.1", "requests"}, names(reqs)); diff != "" {
		t.Fatalf("unexpected requirements (-want +got):\n%s", diff)
	}
}

func TestRequirementsFileAdapter_ExtrasMarkersAndURLs(t *testing.T) {
	content := `requests[socks,security]
uvicorn[standard] >= 0.20 , < 1.0
tomli; python_version < "3.11"
mypkg @ https://example.com/mypkg-1.0.tar.gz ; sys_platform == "linux"
./vendor/localpkg
https://example.com/archive.zip#egg=archived
`
	path := writeRequirements(t, t.TempDir(), "requirements.txt", content)

	reqs, err := collect(t, NewRequirementsFileAdapter(), path)
	require.NoError(t, err)
	want := []string{
		"requests[security,socks]",
		"uvicorn[standard]<1.0,>=0.20",
		`tomli; python_version < "3.11"`,
		`mypkg @ https://example.com/mypkg-1.0.tar.gz ; sys_platform == "linux"`,
		"./vendor/localpkg",
		"archived",
	}
	if diff := cmp.Diff(want, names(reqs)); diff != "" {
		t.Fatalf("unexpected requirements (-want +got):\n%s", diff)
	}
	assert.True(t, reqs[1].HasSpecifier())
	assert.False(t, reqs[3].HasSpecifier())
}

func TestRequirementsFileAdapter_WheelsArePinned(t *testing.T) {
	content := "./dist/pkg-1.0-py3-none-any.whl\nhttps://host/simple/foo-2.3-py3-none-any.whl\n./dist/other.tar.gz\n"
	path := writeRequirements(t, t.TempDir(), "requirements.txt", content)

	reqs, err := collect(t, NewRequirementsFileAdapter(), path)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"pkg==1.0", "foo==2.3", "./dist/other.tar.gz"}, names(reqs)); diff != "" {
		t.Fatalf("unexpected requirements (-want +got):\n%s", diff)
	}
	assert.True(t, reqs[0].HasSpecifier())
	assert.True(t, reqs[1].HasSpecifier())
	assert.False(t, reqs[2].HasSpecifier())
}

func TestRequirementsFileAdapter_EnvironmentExpansion(t *testing.T) {
	path := writeRequirements(t, t.TempDir(), "requirements.txt", "${PKG_NAME}==${PKG_VERSION}\n${UNSET_NAME}\n")
	adapter := RequirementsFileAdapter{LookupEnv: func(name string) (string, bool) {
		switch name {
		case "PKG_NAME":
			return "flask", true
		case "PKG_VERSION":
			return "2.0.1", true
		default:
			return "", false
		}
	}}

	_, err := collect(t, adapter, path)
	require.Error(t, err, "unset variables stay literal and are not a valid name")

	path = writeRequirements(t, t.TempDir(), "requirements.txt", "${PKG_NAME}==${PKG_VERSION}\n")
	reqs, err := collect(t, adapter, path)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "flask==2.0.1", reqs[0].String())
}

func TestRequirementsFileAdapter_FollowsIncludes(t *testing.T) {
	dir := t.TempDir()
	writeRequirements(t, dir, "base/requirements-base.txt", "six\nattrs==23.1.0\n")
	writeRequirements(t, dir, "constraints.txt", "urllib3\n")
	path := writeRequirements(t, dir, "requirements.txt", "-r base/requirements-base.txt\n--constraint=constraints.txt\nflask\n")

	reqs, err := collect(t, NewRequirementsFileAdapter(), path)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"six", "attrs==23.1.0", "urllib3", "flask"}, names(reqs)); diff != "" {
		t.Fatalf("unexpected requirements (-want +got):\n%s", diff)
	}
	assert.Equal(t, filepath.Join(dir, "base", "requirements-base.txt"), reqs[0].Source)
	assert.False(t, reqs[0].Constraint)
	assert.True(t, reqs[2].Constraint)
	assert.Equal(t, path, reqs[3].Source)
}

func TestRequirementsFileAdapter_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeRequirements(t, dir, "b.txt", "-r a.txt\n")
	path := writeRequirements(t, dir, "a.txt", "six\n-r b.txt\n")

	reqs, err := collect(t, NewRequirementsFileAdapter(), path)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "include cycle")
	assert.Len(t, reqs, 1)
}

func TestRequirementsFileAdapter_MissingFile(t *testing.T) {
	_, err := collect(t, NewRequirementsFileAdapter(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestRequirementsFileAdapter_MissingInclude(t *testing.T) {
	path := writeRequirements(t, t.TempDir(), "requirements.txt", "-r nowhere.txt\n")
	_, err := collect(t, NewRequirementsFileAdapter(), path)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestRequirementsFileAdapter_Editable(t *testing.T) {
	content := "-e git+https://github.com/org/repo.git#egg=repo\n--editable ./local\n-e pkg[extra]\n"
	path := writeRequirements(t, t.TempDir(), "requirements.txt", content)

	reqs, err := collect(t, NewRequirementsFileAdapter(), path)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"repo", "./local", "pkg[extra]"}, names(reqs)); diff != "" {
		t.Fatalf("unexpected requirements (-want +got):\n%s", diff)
	}
	for _, req := range reqs {
		assert.True(t, req.Editable)
		assert.False(t, req.HasSpecifier())
	}
}

func TestRequirementsFileAdapter_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "unknown option", content: "--bogus\n", message: "no such option"},
		{name: "missing option value", content: "-r\n", message: "requires an argument"},
		{name: "bad specifier", content: "flask==\n", message: "invalid version specifier"},
		{name: "text after name", content: "flask 2.0\n", message: "version specifier was expected"},
		{name: "unterminated extras", content: "flask[async\n", message: "unterminated extras"},
		{name: "empty marker", content: "flask;\n", message: "empty environment marker"},
		{name: "include after requirement", content: "flask -r other.txt\n", message: "cannot follow a requirement"},
		{name: "remote include", content: "-r https://example.com/requirements.txt\n", message: "not supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRequirements(t, t.TempDir(), "requirements.txt", "six==1.16.0\n"+tt.content)
			reqs, err := collect(t, NewRequirementsFileAdapter(), path)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
			assert.Contains(t, err.Error(), tt.message)
			assert.Contains(t, err.Error(), path+":2")
			assert.Len(t, reqs, 1)
		})
	}
}

func TestRequirementsFileAdapter_StopsWhenConsumerBreaks(t *testing.T) {
	path := writeRequirements(t, t.TempDir(), "requirements.txt", "a\nb\nc\n")
	count := 0
	for _, err := range NewRequirementsFileAdapter().Parse(t.Context(), path) {
		require.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestRequirementsFileAdapter_Idempotent(t *testing.T) {
	path := writeRequirements(t, t.TempDir(), "requirements.txt", "flask==2.0.1\nrequests\n")
	adapter := NewRequirementsFileAdapter()
	first, err := collect(t, adapter, path)
	require.NoError(t, err)
	second, err := collect(t, adapter, path)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("parse is not repeatable (-first +second):\n%s", diff)
	}
}
