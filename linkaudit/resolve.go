package linkaudit

import (
	"net/url"
	"path"
	"strings"
)

// Resolve resolves href against base and sanitizes it:
// - Makes it absolute
// - Strips fragments (#...)
// - Normalizes path (removes duplicate slashes and dot segments)
func Resolve(base *url.URL, href string) (*url.URL, error) {
	parsedHref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, err
	}

	var resolved *url.URL
	if parsedHref.IsAbs() {
		resolved = parsedHref
	} else {
		resolved = base.ResolveReference(parsedHref)
	}

	resolved.Fragment = ""
	resolved.RawFragment = ""

	if resolved.Opaque == "" {
		resolved.Path = cleanPath(resolved.Path)
		resolved.RawPath = ""
	}

	return resolved, nil
}

// cleanPath collapses repeated slashes and uses path.Clean for dot segments.
// An empty path stays empty so hosts without a path keep serializing bare.
func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return path.Clean(p)
}
