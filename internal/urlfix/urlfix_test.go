package urlfix

import (
	"net/url"
	"testing"

	"github.com/rogersnm/fieldwork/internal/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const origin = "https://eam.example.com/maximo"

func newNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := New(origin)
	require.NoError(t, err)
	return n
}

func TestNew_RejectsRelativeOrigin(t *testing.T) {
	_, err := New("/maximo")
	assert.Error(t, err)
	_, err = New("eam.example.com")
	assert.Error(t, err)
}

func TestOrigin(t *testing.T) {
	n, err := New("https://eam.example.com/maximo/")
	require.NoError(t, err)
	assert.Equal(t, origin, n.Origin())
}

func TestNormalize_Cases(t *testing.T) {
	n := newNormalizer(t)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", origin},
		{"already canonical", origin + "/oslc/os/mxwo", origin + "/oslc/os/mxwo"},
		{"other host and port", "http://10.0.0.7:9080/maximo/oslc/os/mxwo", origin + "/oslc/os/mxwo"},
		{"relative without base", "oslc/os/mxwo", origin + "/oslc/os/mxwo"},
		{"relative with base", "/maximo/oslc/os/mxwo", origin + "/oslc/os/mxwo"},
		{"doubled base", origin + "/maximo/oslc/os/mxwo", origin + "/oslc/os/mxwo"},
		{"tripled base", "/maximo/maximo/maximo/oslc", origin + "/oslc"},
		{"slash runs", "https://eam.example.com//maximo///oslc//os/mxwo//", origin + "/oslc/os/mxwo"},
		{"doubled oslc", "/maximo/oslc/oslc/os/mxwo", origin + "/oslc/os/mxwo"},
		{"tripled oslc", "/maximo/oslc/oslc/oslc/os/mxwo", origin + "/oslc/os/mxwo"},
		{"doubled os", "/maximo/oslc/os/os/mxwo", origin + "/oslc/os/mxwo"},
		{"swapped os", "/maximo/oslc/so/mxwo", origin + "/oslc/os/mxwo"},
		{"misspelled object structure", "/oslc/os/mxapiwodetial/_QkVERk9SRC8xMDAx", origin + "/oslc/os/mxapiwodetail/_QkVERk9SRC8xMDAx"},
		{"singular doclink", "/oslc/os/mxwo/_QkVERk9SRC8xMDAx/doclink/12", origin + "/oslc/os/mxwo/_QkVERk9SRC8xMDAx/doclinks/12"},
		{"trailing slash", origin + "/oslc/os/mxwo/", origin + "/oslc/os/mxwo"},
		{"query preserved", "/oslc/os/mxwo?lean=1&oslc.select=status", origin + "/oslc/os/mxwo?lean=1&oslc.select=status"},
		{"query with slashes untouched", "/oslc/os/mxwo?redirect=a//b", origin + "/oslc/os/mxwo?redirect=a//b"},
		{"fragment preserved", "/oslc/os/mxwo#top", origin + "/oslc/os/mxwo#top"},
		{"unparseable escape", "oslc//os/mxwo/%zz", origin + "/oslc/os/mxwo/%zz"},
		{"whitespace", "  /oslc/os/mxwo  ", origin + "/oslc/os/mxwo"},
		{"whitespace before dropped query", "/oslc/os/mxapiwodetial ?", origin + "/oslc/os/mxapiwodetail"},
		{"whitespace before dropped fragment", "/oslc/os/mxwo #", origin + "/oslc/os/mxwo"},
		{"whitespace-only segment", "/ /", origin},
		{"whitespace around segments", "/oslc / os/mxwo /", origin + "/oslc/os/mxwo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newNormalizer(t)
	inputs := []string{
		"",
		"/",
		"//",
		"oslc/os/mxwo",
		"http://other:1/maximo/maximo/oslc/oslc/so/mxapiwodetial/_QkVERk9SRC8xMDAx/doclink//",
		"/maximo/oslc/os/mxwo?lean=1#x",
		"%zz//oslc",
		"mailto:someone@example.com",
		"http:///maximo/oslc",
		"https://eam.example.com",
		"api/api/api",
		"/oslc/os/mxapiwodetial ?",
		"/ /",
		"/oslc/os/mxwo #",
		"/oslc /os/mxwo /",
		" oslc/ oslc/os\t/mxwo?lean=1 #x",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}

func TestNormalize_IdempotentWithoutBasePath(t *testing.T) {
	n, err := New("http://localhost:8080")
	require.NoError(t, err)
	for _, in := range []string{"", "maximo/oslc//os", "/oslc/oslc/", "http://x/y/"} {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
	assert.Equal(t, "http://localhost:8080", n.Normalize(""))
	assert.Equal(t, "http://localhost:8080/maximo/oslc", n.Normalize("/maximo/maximo/oslc"))
}

func TestNormalize_NeverTouchesToken(t *testing.T) {
	n := newNormalizer(t)

	// decodes to a key containing "/" and looks like a typo segment once decoded
	tok := id.Encode("oslc", "oslc")
	require.True(t, id.IsToken(tok))

	tricky := []string{
		"/oslc/os/mxwo/" + tok,
		"http://h/maximo//oslc/oslc/os/mxwo/" + tok + "/",
		"/oslc/os/mxwo/" + tok + "/wostatus?lean=1",
		"/oslc/os/mxwo/_Pz8-L3g",
	}
	for _, in := range tricky {
		out := n.Normalize(in)
		want := id.Find(in)
		require.NotEmpty(t, want)
		assert.Contains(t, out, "/"+want, "input %q", in)
		assert.Equal(t, want, id.Find(out))
	}
}

func TestNormalize_TokenNeverMatchesTypo(t *testing.T) {
	n, err := New(origin, Typo{From: []string{"_abc"}, To: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, origin+"/oslc/os/mxwo/_abc", n.Normalize("/oslc/os/mxwo/_abc"))
}

func TestParseTypo(t *testing.T) {
	ty, err := ParseTypo("/oslc/os/mxwodetial/", "oslc/os/mxwodetail")
	require.NoError(t, err)
	assert.Equal(t, []string{"oslc", "os", "mxwodetial"}, ty.From)
	assert.Equal(t, []string{"oslc", "os", "mxwodetail"}, ty.To)

	n, err := New(origin, ty)
	require.NoError(t, err)
	assert.Equal(t, origin+"/oslc/os/mxwodetail", n.Normalize("oslc/os/mxwodetial"))
}

func TestParseTypo_Invalid(t *testing.T) {
	_, err := ParseTypo("", "x")
	assert.Error(t, err)

	_, err = ParseTypo("a/_QkVERk9SRC8xMDAx", "a")
	assert.Error(t, err)

	_, err = ParseTypo("a", "b/a")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	n := newNormalizer(t)
	q := url.Values{"lean": {"1"}}

	assert.Equal(t, origin+"/oslc/os/mxwo?lean=1", n.Resolve("oslc/os/mxwo/", q))
	assert.Equal(t, origin+"/oslc/os/mxwo?a=b&lean=1", n.Resolve("/oslc/os/mxwo?a=b", q))
	assert.Equal(t, origin+"/oslc/os/mxwo?lean=1#f", n.Resolve("/oslc/os/mxwo#f", q))
	assert.Equal(t, origin+"/oslc/os/mxwo", n.Resolve("/oslc/os/mxwo", nil))
}
