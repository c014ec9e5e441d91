package id

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// TokenPrefix marks a resource-identifier path segment.
const TokenPrefix = "_"

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_=+"

// IsToken reports whether a single path segment is an opaque resource token,
// e.g. "_QkVERk9SRC8xMDAx".
func IsToken(segment string) bool {
	if len(segment) < 2 || !strings.HasPrefix(segment, TokenPrefix) {
		return false
	}
	for _, c := range segment[1:] {
		if !strings.ContainsRune(charset, c) {
			return false
		}
	}
	return true
}

// Decode returns the key a resource token encodes ("BEDFORD/1001").
func Decode(token string) (string, error) {
	if !IsToken(token) {
		return "", fmt.Errorf("invalid token %q: must start with %q followed by base64 characters", token, TokenPrefix)
	}
	raw := strings.TrimRight(token[1:], "=")
	for _, enc := range []*base64.Encoding{base64.RawStdEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(raw); err == nil {
			return string(b), nil
		}
	}
	return "", fmt.Errorf("invalid token %q: not base64", token)
}

// Encode builds a resource token from key parts, joined with "/".
func Encode(parts ...string) string {
	return TokenPrefix + base64.RawURLEncoding.EncodeToString([]byte(strings.Join(parts, "/")))
}

// Split decodes a token and returns its "/"-separated parts.
func Split(token string) ([]string, error) {
	key, err := Decode(token)
	if err != nil {
		return nil, err
	}
	return strings.Split(key, "/"), nil
}

// Find returns the last token segment in an href path, or "" if none.
func Find(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	segs := strings.Split(href, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if IsToken(segs[i]) {
			return segs[i]
		}
	}
	return ""
}
