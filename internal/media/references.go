package media

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

// trailing characters that end up glued to a URL in prose or markup
const trailingPunct = ".,;:!?"

// ExtractReferences returns the distinct bucket URLs embedded in content, in
// first-seen order. Entities are unescaped and keys percent-decoded so the
// same object always yields the same string.
func (m *Manager) ExtractReferences(content string) []string {
	if content == "" {
		return nil
	}
	matches := m.refPattern.FindAllString(html.UnescapeString(content), -1)

	seen := make(map[string]struct{}, len(matches))
	refs := make([]string, 0, len(matches))
	for _, raw := range matches {
		ref := m.normalize(strings.TrimRight(raw, trailingPunct))
		if ref == m.urlPrefix {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

// KeyFromURL returns the object key behind a bucket URL.
func (m *Manager) KeyFromURL(rawURL string) (string, bool) {
	ref := m.normalize(strings.TrimSpace(rawURL))
	if !strings.HasPrefix(ref, m.urlPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(ref, m.urlPrefix)
	if key == "" {
		return "", false
	}
	return key, true
}

// URLFor is the public URL of key.
func (m *Manager) URLFor(key string) string {
	return m.urlPrefix + key
}

// normalize percent-decodes the key part of a bucket URL. Anything else is
// returned untouched.
func (m *Manager) normalize(ref string) string {
	if !strings.HasPrefix(ref, m.urlPrefix) {
		return ref
	}
	key := strings.TrimPrefix(ref, m.urlPrefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if decoded, err := url.PathUnescape(key); err == nil {
		key = decoded
	}
	return m.urlPrefix + key
}

// difference returns the entries of a missing from b.
func difference(a, b []string) []string {
	keep := make(map[string]struct{}, len(b))
	for _, s := range b {
		keep[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := keep[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func referencePattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(prefix) + `[^"'()<>\s]+`)
}
