package util

import (
	"net/url"
	"strings"
)

// NormalizeID derives a team identifier from its display name: the name is
// lowercased and every space becomes a hyphen. Nothing else is touched, so
// accents, punctuation and slashes survive.
func NormalizeID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// URLExtension returns the extension of the last segment of the escaped URL
// path, including the leading dot. Leading dots of the segment never start an
// extension, and a trailing slash leaves an empty segment with none.
func URLExtension(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	p := u.EscapedPath()
	segment := strings.TrimLeft(p[strings.LastIndex(p, "/")+1:], ".")
	i := strings.LastIndex(segment, ".")
	if i < 0 {
		return ""
	}
	return segment[i:]
}

func LogoFilename(id, rawURL string) string {
	return id + URLExtension(rawURL)
}
