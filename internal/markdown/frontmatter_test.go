package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/rogersnm/fieldwork/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMeta struct {
	WONum     string    `yaml:"wonum"`
	Status    string    `yaml:"status,omitempty"`
	Assets    []string  `yaml:"assets,omitempty"`
	ChangedAt time.Time `yaml:"changed_at"`
}

func TestParseFrontmatter_AllFields(t *testing.T) {
	input := `---
wonum: "1001"
status: INPRG
assets:
  - PUMP-11
  - PUMP-12
changed_at: 2026-01-01T00:00:00Z
---

Seal replaced.
`
	meta, body, err := parseFrontmatter[testMeta](strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "1001", meta.WONum)
	assert.Equal(t, "INPRG", meta.Status)
	assert.Equal(t, []string{"PUMP-11", "PUMP-12"}, meta.Assets)
	assert.Equal(t, "Seal replaced.", body)
}

func TestParseFrontmatter_NoFrontmatter(t *testing.T) {
	meta, body, err := parseFrontmatter[testMeta](strings.NewReader("Just a memo."))
	// adrg/frontmatter returns empty struct when no frontmatter found
	require.NoError(t, err)
	assert.Equal(t, "", meta.WONum)
	assert.Equal(t, "Just a memo.", body)
}

func TestParseFrontmatter_MalformedYAML(t *testing.T) {
	_, _, err := parseFrontmatter[testMeta](strings.NewReader("---\n{{invalid yaml\n---\n"))
	assert.Error(t, err)
}

func TestMarshalFrontmatter_EmptyBody(t *testing.T) {
	meta := testMeta{WONum: "1002"}
	data, err := marshalFrontmatter(meta, "", "")
	require.NoError(t, err)

	parsed, body, err := parseFrontmatter[testMeta](strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, meta.WONum, parsed.WONum)
	assert.Equal(t, "", body)
}

func TestChangeRequest_RoundTrip(t *testing.T) {
	req := model.ChangeRequest{
		ID:     "ignored",
		Href:   "https://mx.example.com/maximo/oslc/os/mxapiwodetail/_QkVERk9SRC8xMDAx",
		Status: "COMP",
		Memo:   "Pump back in service.\n\n**Checked** seals.",
	}
	data, err := MarshalChangeRequest(req)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ignored")

	parsed, err := ParseChangeRequest(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, req.Href, parsed.Href)
	assert.Equal(t, req.Status, parsed.Status)
	assert.Equal(t, req.Memo, parsed.Memo)
	assert.Equal(t, "", parsed.ID)
}

func TestParseChangeRequest_Incomplete(t *testing.T) {
	_, err := ParseChangeRequest(strings.NewReader("---\nhref: x\nstatus: \"  \"\n---\nmemo\n"))
	assert.ErrorContains(t, err, "change request: status value is required")

	_, err = ParseChangeRequest(strings.NewReader("Only a memo."))
	assert.ErrorContains(t, err, "target href is required")
}

func TestParseChangeRequest_TrimsFields(t *testing.T) {
	req, err := ParseChangeRequest(strings.NewReader("---\nhref: \"  oslc/os/mxapiwodetail/_QkVERk9SRC8xMDAx \"\nstatus: \" APPR\t\"\n---\n\n  Approved by phone.  \n"))
	require.NoError(t, err)
	assert.Equal(t, "oslc/os/mxapiwodetail/_QkVERk9SRC8xMDAx", req.Href)
	assert.Equal(t, "APPR", req.Status)
	assert.Equal(t, "Approved by phone.", req.Memo)
}

func TestMarshalChangeRequest_MemoHint(t *testing.T) {
	data, err := MarshalChangeRequest(model.ChangeRequest{Href: "oslc/os/mxapiwodetail/_X", Status: "COMP"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"+memoHint))

	parsed, err := ParseChangeRequest(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, "COMP", parsed.Status)
	assert.Equal(t, "", parsed.Memo)
}
