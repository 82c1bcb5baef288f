// Package query holds an ordered list of form-encoded query parameters.
//
// Unlike url.Values, a Params keeps the order pairs arrived in and
// serializes them back in that order, so that setting one key does not
// reshuffle the rest of a URL's query.
package query

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
)

// Pair is a single decoded key/value entry.
type Pair struct {
	Key   string
	Value string
}

// Params is an ordered collection of query pairs. Keys may repeat.
type Params struct {
	pairs []Pair
}

// Parse decodes a raw query string, with or without its leading '?'.
// Empty segments are skipped; a segment without '=' has an empty value.
func Parse(raw string) *Params {
	raw = strings.TrimPrefix(raw, "?")
	p := &Params{}
	if raw == "" {
		return p
	}
	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		p.pairs = append(p.pairs, Pair{Key: decode(key), Value: decode(value)})
	}
	return p
}

// Len returns the number of pairs, duplicates included.
func (p *Params) Len() int {
	return len(p.pairs)
}

// Pairs returns a copy of the pairs in order.
func (p *Params) Pairs() []Pair {
	out := make([]Pair, len(p.pairs))
	copy(out, p.pairs)
	return out
}

// Get returns the value of the last occurrence of key.
func (p *Params) Get(key string) (string, bool) {
	for i := len(p.pairs) - 1; i >= 0; i-- {
		if p.pairs[i].Key == key {
			return p.pairs[i].Value, true
		}
	}
	return "", false
}

// Has reports whether key occurs at least once.
func (p *Params) Has(key string) bool {
	return lo.ContainsBy(p.pairs, func(pair Pair) bool {
		return pair.Key == key
	})
}

// Map flattens the pairs into a map. Later duplicates overwrite earlier ones.
func (p *Params) Map() map[string]string {
	return lo.Associate(p.pairs, func(pair Pair) (string, string) {
		return pair.Key, pair.Value
	})
}

// Set assigns value to key. The first occurrence keeps its position and
// any later duplicates are dropped; an absent key is appended.
func (p *Params) Set(key, value string) {
	found := false
	p.pairs = lo.Reduce(p.pairs, func(acc []Pair, pair Pair, _ int) []Pair {
		if pair.Key != key {
			return append(acc, pair)
		}
		if found {
			return acc
		}
		found = true
		return append(acc, Pair{Key: key, Value: value})
	}, make([]Pair, 0, len(p.pairs)+1))
	if !found {
		p.pairs = append(p.pairs, Pair{Key: key, Value: value})
	}
}

// Delete removes every occurrence of key.
func (p *Params) Delete(key string) {
	p.pairs = lo.Filter(p.pairs, func(pair Pair, _ int) bool {
		return pair.Key != key
	})
}

// Encode serializes the pairs as application/x-www-form-urlencoded, in order.
// An empty Params encodes to "".
func (p *Params) Encode() string {
	var b strings.Builder
	for i, pair := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		escape(&b, pair.Key)
		b.WriteByte('=')
		escape(&b, pair.Value)
	}
	return b.String()
}

// String is an alias for Encode.
func (p *Params) String() string {
	return p.Encode()
}

const upperhex = "0123456789ABCDEF"

// escape writes s using the form-urlencoded byte set: alphanumerics and
// "*-._" pass through, space becomes '+', everything else is %XX.
func escape(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case shouldPass(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
}

func shouldPass(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '*', c == '-', c == '.', c == '_':
		return true
	}
	return false
}

// decode form-decodes s. Malformed percent sequences are kept literally
// rather than rejecting the whole value.
func decode(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
