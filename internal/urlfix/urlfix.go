// Package urlfix rewrites hrefs handed back by the asset-management server
// onto a single configured origin, repairing the path typos it is known to emit.
package urlfix

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rogersnm/fieldwork/internal/id"
)

// Typo replaces a run of whole path segments with another run.
type Typo struct {
	From []string
	To   []string
}

// ParseTypo builds a Typo from "a/b" style paths.
func ParseTypo(from, to string) (Typo, error) {
	f := splitSegments(from)
	if len(f) == 0 {
		return Typo{}, fmt.Errorf("typo %q: empty pattern", from)
	}
	for _, s := range f {
		if id.IsToken(s) {
			return Typo{}, fmt.Errorf("typo %q: pattern may not contain a resource token", from)
		}
	}
	tt := splitSegments(to)
	if containsRun(tt, f) {
		return Typo{}, fmt.Errorf("typo %q -> %q: replacement reintroduces the pattern", from, to)
	}
	return Typo{From: f, To: tt}, nil
}

// DefaultTypos are the misspellings observed from upstream.
var DefaultTypos = []Typo{
	{From: []string{"oslc", "oslc"}, To: []string{"oslc"}},
	{From: []string{"os", "os"}, To: []string{"os"}},
	{From: []string{"maximo", "maximo"}, To: []string{"maximo"}},
	{From: []string{"api", "api"}, To: []string{"api"}},
	{From: []string{"oslc", "so"}, To: []string{"oslc", "os"}},
	{From: []string{"mxapiwodetial"}, To: []string{"mxapiwodetail"}},
	{From: []string{"doclink"}, To: []string{"doclinks"}},
}

// maxPasses bounds the fixpoint loop; every typo strictly shortens or
// renames the path, so real inputs settle in two or three passes.
const maxPasses = 16

// Normalizer rewrites hrefs onto one origin.
type Normalizer struct {
	origin string   // scheme://host[:port]
	base   []string // base path segments, e.g. ["maximo"]
	typos  []Typo
}

// New parses origin (e.g. "https://host/maximo") and returns a Normalizer
// using DefaultTypos plus any extra rules.
func New(origin string, extra ...Typo) (*Normalizer, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return nil, fmt.Errorf("parsing origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin %q must be an absolute URL", origin)
	}
	typos := make([]Typo, 0, len(DefaultTypos)+len(extra))
	typos = append(typos, DefaultTypos...)
	typos = append(typos, extra...)
	return &Normalizer{
		origin: u.Scheme + "://" + u.Host,
		base:   splitSegments(u.Path),
		typos:  typos,
	}, nil
}

// Origin returns the configured origin including its base path.
func (n *Normalizer) Origin() string {
	return n.origin + joinPath(n.base)
}

// Normalize returns an absolute URL on the configured origin. It never fails:
// input without a scheme is treated as a path fragment.
func (n *Normalizer) Normalize(raw string) string {
	rest := stripAuthority(strings.TrimSpace(raw))

	path, suffix := rest, ""
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		path, suffix = rest[:i], rest[i:]
	}
	if suffix == "?" || suffix == "#" {
		suffix = ""
	}

	segs := splitSegments(path)
	for pass := 0; pass < maxPasses; pass++ {
		next := n.ensureBase(n.fixBase(n.fixTypos(segs)))
		if equal(next, segs) {
			break
		}
		segs = next
	}

	return n.origin + joinPath(segs) + suffix
}

// Resolve normalizes ref and appends query parameters, merging with any
// query ref already carries.
func (n *Normalizer) Resolve(ref string, q url.Values) string {
	out := n.Normalize(ref)
	if len(q) == 0 {
		return out
	}
	frag := ""
	if i := strings.Index(out, "#"); i >= 0 {
		out, frag = out[:i], out[i:]
	}
	sep := "?"
	if strings.Contains(out, "?") {
		sep = "&"
	}
	return out + sep + q.Encode() + frag
}

var schemeRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)

// stripAuthority drops "scheme://host" from absolute URLs. The check is
// lexical so that input net/url rejects (bad escapes) still loses its host.
func stripAuthority(s string) string {
	loc := schemeRE.FindStringIndex(s)
	if loc == nil {
		return s
	}
	after := s[loc[1]:]
	j := strings.IndexAny(after, "/?#")
	if j < 0 {
		return ""
	}
	return after[j:]
}

func (n *Normalizer) fixTypos(segs []string) []string {
	for _, t := range n.typos {
		segs = replaceRun(segs, t.From, t.To)
	}
	return segs
}

// fixBase collapses a doubled base path prefix.
func (n *Normalizer) fixBase(segs []string) []string {
	if len(n.base) == 0 {
		return segs
	}
	for hasPrefix(segs, n.base) && hasPrefix(segs[len(n.base):], n.base) {
		segs = segs[len(n.base):]
	}
	return segs
}

func (n *Normalizer) ensureBase(segs []string) []string {
	if len(n.base) == 0 || hasPrefix(segs, n.base) {
		return segs
	}
	out := make([]string, 0, len(n.base)+len(segs))
	out = append(out, n.base...)
	return append(out, segs...)
}

// splitSegments splits on "/", trims surrounding whitespace from each
// segment and drops the empty ones, which both collapses runs of slashes and
// removes leading and trailing ones. Tokens never contain whitespace.
func splitSegments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinPath(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	return "/" + strings.Join(segs, "/")
}

// replaceRun substitutes every non-overlapping occurrence of from with to.
// Token segments never match.
func replaceRun(segs, from, to []string) []string {
	if len(from) == 0 || len(segs) < len(from) {
		return segs
	}
	var out []string
	changed := false
	for i := 0; i < len(segs); {
		if i+len(from) <= len(segs) && matchAt(segs, i, from) {
			out = append(out, to...)
			i += len(from)
			changed = true
			continue
		}
		out = append(out, segs[i])
		i++
	}
	if !changed {
		return segs
	}
	return out
}

func matchAt(segs []string, i int, from []string) bool {
	for k, f := range from {
		s := segs[i+k]
		if id.IsToken(s) || s != f {
			return false
		}
	}
	return true
}

func containsRun(segs, run []string) bool {
	for i := 0; i+len(run) <= len(segs); i++ {
		if matchAt(segs, i, run) {
			return true
		}
	}
	return false
}

func hasPrefix(segs, prefix []string) bool {
	if len(segs) < len(prefix) {
		return false
	}
	for i := range prefix {
		if segs[i] != prefix[i] {
			return false
		}
	}
	return true
}

func equal(a, b []string) bool {
	return len(a) == len(b) && hasPrefix(a, b)
}
