// Package location models the "current location" a page is served from.
package location

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
)

// Location is a read-only snapshot of the current location.
// Search and Hash carry their leading '?' and '#' when non-empty.
type Location struct {
	Href     string
	Origin   string
	Host     string
	Pathname string
	Search   string
	Hash     string
}

// Source supplies location snapshots and accepts fragment updates.
type Source interface {
	Location() Location
	SetHash(hash string)
}

// OpaqueOrigin is the origin of URLs without a host-based authority.
const OpaqueOrigin = "null"

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

// IsSpecial reports whether scheme is one of the hierarchical web schemes
// that carry a host-based origin.
func IsSpecial(scheme string) bool {
	_, ok := defaultPorts[strings.ToLower(scheme)]
	return ok
}

// OriginOf returns the serialized origin of u: scheme, lower-cased host and a
// non-default port. URLs outside the special schemes have an opaque origin.
func OriginOf(u *url.URL) string {
	if !IsSpecial(u.Scheme) || u.Host == "" {
		return OpaqueOrigin
	}
	return strings.ToLower(u.Scheme) + "://" + hostOf(u)
}

func hostOf(u *url.URL) string {
	hostname := strings.ToLower(u.Hostname())
	port := u.Port()
	if port != "" && port != defaultPorts[strings.ToLower(u.Scheme)] {
		return net.JoinHostPort(hostname, port)
	}
	if strings.Contains(hostname, ":") {
		return "[" + hostname + "]"
	}
	return hostname
}

// Parse derives a Location from an absolute href. An href whose path,
// query or fragment net/url rejects, such as "https://example.com/50%off",
// is still accepted when its scheme and authority are sound; those parts
// are then kept as written.
func Parse(href string) (Location, error) {
	href = strings.TrimSpace(href)
	u, err := url.Parse(href)
	if err != nil {
		return parseLenient(href, err)
	}
	if !u.IsAbs() {
		return Location{}, fmt.Errorf("href %q is not absolute", href)
	}
	if IsSpecial(u.Scheme) && u.Host == "" {
		return Location{}, fmt.Errorf("href %q has no host", href)
	}
	Normalize(u)

	loc := Location{
		Href:     u.String(),
		Origin:   OriginOf(u),
		Pathname: u.EscapedPath(),
	}
	if u.Host != "" {
		loc.Host = hostOf(u)
	}
	if u.Opaque != "" {
		loc.Pathname = u.Opaque
	}
	if u.RawQuery != "" {
		loc.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		loc.Hash = "#" + u.EscapedFragment()
	}
	return loc, nil
}

func parseLenient(href string, cause error) (Location, error) {
	u, rest, err := SplitAuthority(href)
	if err != nil || !IsSpecial(u.Scheme) || u.Host == "" {
		return Location{}, fmt.Errorf("parse href %q: %w", href, cause)
	}
	path, search, hash := SplitHref(rest)
	if path == "" {
		path = "/"
	}
	if search == "?" {
		search = ""
	}
	if hash == "#" {
		hash = ""
	}
	return Location{
		Href:     u.String() + path + search + hash,
		Origin:   OriginOf(u),
		Host:     hostOf(u),
		Pathname: path,
		Search:   search,
		Hash:     hash,
	}, nil
}

// SplitAuthority parses only the scheme and authority of href, everything up
// to the first '/', '?' or '#' after "scheme://", and returns the rest
// unparsed.
func SplitAuthority(href string) (*url.URL, string, error) {
	i := strings.Index(href, "://")
	if i < 0 {
		return nil, "", fmt.Errorf("href %q has no authority", href)
	}
	end := len(href)
	if j := strings.IndexAny(href[i+3:], "/?#"); j >= 0 {
		end = i + 3 + j
	}
	u, err := url.Parse(href[:end])
	if err != nil {
		return nil, "", err
	}
	if !u.IsAbs() {
		return nil, "", fmt.Errorf("href %q is not absolute", href)
	}
	return u, href[end:], nil
}

// SplitHref cuts href at its first '?' and '#'. search and hash keep their
// leading delimiter.
func SplitHref(href string) (head, search, hash string) {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href, hash = href[:i], href[i:]
	}
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href, search = href[:i], href[i:]
	}
	return href, search, hash
}

// Normalize brings u to the serialized form a browser would produce:
// a hierarchical URL with a host always has at least "/" as its path, and
// a bare '?' or '#' with nothing after it is dropped.
func Normalize(u *url.URL) {
	if IsSpecial(u.Scheme) && u.Host != "" && u.Path == "" && u.Opaque == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	u.ForceQuery = false
	if u.Fragment == "" {
		u.RawFragment = ""
	}
}

// WithHash returns href with its fragment replaced by hash, which is either
// empty or starts with '#'.
func WithHash(href, hash string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	return href + hash
}

// Memory is an in-memory Source. It is safe for concurrent use.
type Memory struct {
	mu  sync.RWMutex
	loc Location
}

// NewMemory returns a Memory source holding loc verbatim.
func NewMemory(loc Location) *Memory {
	return &Memory{loc: loc}
}

// NewMemoryFromHref parses href into a Memory source.
func NewMemoryFromHref(href string) (*Memory, error) {
	loc, err := Parse(href)
	if err != nil {
		return nil, err
	}
	return NewMemory(loc), nil
}

// Location returns the current snapshot.
func (m *Memory) Location() Location {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loc
}

// SetHash stores hash as the fragment of both Hash and Href. The caller is
// expected to pass either "" or a value starting with '#'. Characters not
// allowed in a fragment are percent-encoded and a bare "#" clears it.
func (m *Memory) SetHash(hash string) {
	hash = EscapeHash(hash)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loc.Hash = hash
	m.loc.Href = WithHash(m.loc.Href, hash)
}

// EscapeHash percent-encodes the fragment of hash, leaving existing valid
// escapes alone. "" and "#" both yield "".
func EscapeHash(hash string) string {
	frag := strings.TrimPrefix(hash, "#")
	if frag == "" {
		return ""
	}
	u := &url.URL{Fragment: frag}
	if unescaped, err := url.PathUnescape(frag); err == nil {
		u.Fragment, u.RawFragment = unescaped, frag
	}
	return "#" + u.EscapedFragment()
}
