package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/rogersnm/fieldwork/internal/model"
	"gopkg.in/yaml.v3"
)

// memoHint opens the frontmatter of files written for editing. YAML drops it
// on parse.
const memoHint = "# The memo recorded with the change is the text after this header.\n"

// validator is implemented by frontmatter types that can reject their own
// contents once parsed.
type validator interface {
	Validate() error
}

// parseFrontmatter reads YAML frontmatter into T and returns the trimmed body. When *T
// has a Validate method it is run on the parsed value.
func parseFrontmatter[T any](r io.Reader) (T, string, error) {
	var meta T
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	if v, ok := any(&meta).(validator); ok {
		if err := v.Validate(); err != nil {
			return meta, "", err
		}
	}
	return meta, strings.TrimSpace(string(body)), nil
}

// marshalFrontmatter writes meta as YAML frontmatter followed by body. A non-empty hint
// is written as the first frontmatter line and must be a YAML comment.
func marshalFrontmatter[T any](meta T, hint, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.WriteString(hint)
	buf.Write(yamlBytes)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// ParseChangeRequest reads a change request file: href and status in the
// frontmatter, the memo as the body. Surrounding whitespace is trimmed from
// both fields before they are checked.
func ParseChangeRequest(r io.Reader) (model.ChangeRequest, error) {
	req, body, err := parseFrontmatter[changeRequestFile](r)
	if err != nil {
		return model.ChangeRequest{}, fmt.Errorf("change request: %w", err)
	}
	return model.ChangeRequest{Href: req.Href, Status: req.Status, Memo: body}, nil
}

// MarshalChangeRequest is the inverse of ParseChangeRequest.
func MarshalChangeRequest(req model.ChangeRequest) ([]byte, error) {
	return marshalFrontmatter(changeRequestFile{Href: req.Href, Status: req.Status}, memoHint, req.Memo)
}

// changeRequestFile is the frontmatter of a change request. The memo lives
// in the body, so it has no field here.
type changeRequestFile struct {
	Href   string `yaml:"href"`
	Status string `yaml:"status"`
}

func (f *changeRequestFile) Validate() error {
	f.Href = strings.TrimSpace(f.Href)
	f.Status = strings.TrimSpace(f.Status)
	r := model.ChangeRequest{Href: f.Href, Status: f.Status}
	return r.Validate()
}
