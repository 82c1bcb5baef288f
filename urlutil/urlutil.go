// Package urlutil reads, derives and builds URLs relative to a current
// location supplied by a location.Source.
//
// Every operation except SetHash works on a snapshot or a copy; the source
// itself is only written through SetHash. Util holds no lock of its own, so
// callers sharing a Source across goroutines rely on the Source for that.
package urlutil

import (
	"fmt"
	"net/url"
	"strings"

	"urlkit/location"
	"urlkit/logging"
	"urlkit/query"
)

// Util answers questions about the current location.
type Util struct {
	src    location.Source
	logger logging.Logger
}

// Option configures a Util.
type Option func(*Util)

// WithLogger sets the logger used for debug traces.
func WithLogger(logger logging.Logger) Option {
	return func(u *Util) {
		u.logger = logger
	}
}

// New returns a Util reading from src.
func New(src location.Source, opts ...Option) *Util {
	u := &Util{src: src, logger: logging.Nop()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ParseError reports a URL that had to be well-formed but was not.
type ParseError struct {
	Input string
	Err   error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid URL %q: %v", e.Input, e.Err)
}

// Unwrap returns the underlying parse failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}

func (u *Util) params() *query.Params {
	return query.Parse(u.src.Location().Search)
}

// Params returns the current query as a map. Repeated keys keep their last value.
func (u *Util) Params() map[string]string {
	return u.params().Map()
}

// Param returns the value of key in the current query. ok is false when the
// key is absent; a key present with no value yields ("", true). A repeated
// key yields its last value, the same one Params reports.
func (u *Util) Param(key string) (value string, ok bool) {
	return u.params().Get(key)
}

// HasParam reports whether key appears in the current query.
func (u *Util) HasParam(key string) bool {
	return u.params().Has(key)
}

// AddParam returns the current href with key set to value.
func (u *Util) AddParam(key, value string) (string, error) {
	return u.editQuery(func(p *query.Params) {
		p.Set(key, value)
	})
}

// RemoveParam returns the current href without key. The '?' is dropped when
// no parameters remain.
func (u *Util) RemoveParam(key string) (string, error) {
	return u.editQuery(func(p *query.Params) {
		p.Delete(key)
	})
}

func (u *Util) editQuery(edit func(*query.Params)) (string, error) {
	href := u.src.Location().Href
	parsed, err := url.Parse(href)
	if err != nil {
		return spliceQuery(href, err, edit)
	}
	p := query.Parse(parsed.RawQuery)
	edit(p)
	parsed.RawQuery = p.Encode()
	location.Normalize(parsed)
	return parsed.String(), nil
}

// spliceQuery edits the query of an href net/url cannot parse but
// location.Parse accepts, keeping the rest of it as written.
func spliceQuery(href string, cause error, edit func(*query.Params)) (string, error) {
	loc, err := location.Parse(href)
	if err != nil {
		return "", &ParseError{Input: href, Err: cause}
	}
	head, _, _ := location.SplitHref(loc.Href)
	p := query.Parse(loc.Search)
	edit(p)
	if encoded := p.Encode(); encoded != "" {
		head += "?" + encoded
	}
	return head + loc.Hash, nil
}

// Href returns the current location as a whole.
func (u *Util) Href() string {
	return u.src.Location().Href
}

// Path returns the current path.
func (u *Util) Path() string {
	return u.src.Location().Pathname
}

// Hash returns the current fragment including its '#', or "".
func (u *Util) Hash() string {
	return u.src.Location().Hash
}

// SetHash replaces the current fragment. An empty hash clears it; otherwise
// a missing leading '#' is added.
func (u *Util) SetHash(hash string) {
	u.src.SetHash(NormalizeHash(hash))
}

// NormalizeHash applies the SetHash rule to hash without storing it.
func NormalizeHash(hash string) string {
	if hash == "" || strings.HasPrefix(hash, "#") {
		return hash
	}
	return "#" + hash
}

// Origin returns the current origin, e.g. "https://example.com".
func (u *Util) Origin() string {
	return u.src.Location().Origin
}

// Host returns the current host, with its port when that is not the default.
func (u *Util) Host() string {
	return u.src.Location().Host
}

// IsExternal reports whether raw is an absolute URL on a different origin
// than the current one. Empty, relative and unparseable input is internal.
func (u *Util) IsExternal(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, ok := u.parseAbsolute(raw)
	if !ok {
		return false
	}
	return location.OriginOf(parsed) != u.Origin()
}

// parseAbsolute parses raw as an absolute URL. Any failure, including a
// relative reference, is reported through ok. When only the part after the
// authority is malformed, the scheme and authority are returned on their own.
func (u *Util) parseAbsolute(raw string) (*url.URL, bool) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil {
		authority, _, aerr := location.SplitAuthority(trimmed)
		if aerr != nil {
			u.logger.Debug("treating %q as internal: %v", raw, err)
			return nil, false
		}
		u.logger.Debug("classifying %q by its authority only: %v", raw, err)
		parsed = authority
	}
	if !parsed.IsAbs() {
		u.logger.Debug("treating %q as internal: relative reference", raw)
		return nil, false
	}
	if location.IsSpecial(parsed.Scheme) && parsed.Host == "" {
		u.logger.Debug("treating %q as internal: missing host", raw)
		return nil, false
	}
	return parsed, true
}

// BuildURL resolves path against the current origin and sets each present
// field in the query, in order. Null and absent fields are skipped. When no
// field is set the resolved URL's query is left as it was.
//
// path and the current origin must be well-formed; a *ParseError is
// returned otherwise.
func (u *Util) BuildURL(path string, fields ...Field) (string, error) {
	origin := u.Origin()
	base, err := url.Parse(origin)
	if err != nil || !base.IsAbs() {
		if err == nil {
			err = fmt.Errorf("origin is not absolute")
		}
		return "", &ParseError{Input: origin, Err: err}
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", &ParseError{Input: path, Err: err}
	}
	resolved := base.ResolveReference(ref)

	p := query.Parse(resolved.RawQuery)
	changed := false
	for _, field := range fields {
		if !field.Value.Present() {
			continue
		}
		p.Set(field.Key, field.Value.Text())
		changed = true
	}
	if changed {
		resolved.RawQuery = p.Encode()
	}
	location.Normalize(resolved)
	return resolved.String(), nil
}
