package linkaudit

import (
	"encoding/xml"
	"strings"

	"github.com/samber/lo"
)

type urlSet struct {
	URLs []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

// ParseSitemap extracts the non-empty <loc> entries of a sitemap <urlset>.
func ParseSitemap(sitemap string) ([]string, error) {
	var set urlSet
	if err := xml.Unmarshal([]byte(sitemap), &set); err != nil {
		return nil, err
	}

	return lo.FilterMap(set.URLs, func(entry urlEntry, _ int) (string, bool) {
		loc := strings.TrimSpace(entry.Loc)
		return loc, loc != ""
	}), nil
}
