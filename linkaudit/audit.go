// Package linkaudit classifies the links found in a page or sitemap against
// the current location: internal or external, and allowed by robots.txt or not.
package linkaudit

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"

	"urlkit/location"
	"urlkit/logging"
	"urlkit/urlutil"
)

// DefaultUserAgent is the agent robots rules are tested against when none is set.
const DefaultUserAgent = "urlkit"

// Link is one audited reference.
type Link struct {
	Raw      string `json:"raw" yaml:"raw"`
	Resolved string `json:"resolved" yaml:"resolved"`
	External bool   `json:"external" yaml:"external"`
	Allowed  bool   `json:"allowed" yaml:"allowed"`
}

// Auditor resolves and classifies links relative to a urlutil.Util.
type Auditor struct {
	util      *urlutil.Util
	robots    *RobotsChecker
	userAgent string
	logger    logging.Logger
}

// AuditorOption configures an Auditor.
type AuditorOption func(*Auditor)

// WithRobots tests internal links against rc.
func WithRobots(rc *RobotsChecker) AuditorOption {
	return func(a *Auditor) {
		a.robots = rc
	}
}

// WithUserAgent sets the agent used for robots checks.
func WithUserAgent(userAgent string) AuditorOption {
	return func(a *Auditor) {
		a.userAgent = userAgent
	}
}

// WithLogger sets the logger for skipped links.
func WithLogger(logger logging.Logger) AuditorOption {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// NewAuditor returns an Auditor for the location behind util.
func NewAuditor(util *urlutil.Util, opts ...AuditorOption) *Auditor {
	a := &Auditor{
		util:      util,
		userAgent: DefaultUserAgent,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AuditHTML audits every link in an HTML document. A <base href> in the
// document changes the resolution base the way a browser would.
func (a *Auditor) AuditHTML(doc string) ([]Link, error) {
	links, err := ExtractLinks(doc)
	if err != nil {
		return nil, fmt.Errorf("extract links: %w", err)
	}
	base, err := a.base()
	if err != nil {
		return nil, err
	}
	if href, ok, err := BaseHref(doc); err == nil && ok {
		if docBase, err := base.Parse(strings.TrimSpace(href)); err == nil {
			base = docBase
		} else {
			a.logger.Warn("Ignoring invalid <base href=%q>: %v", href, err)
		}
	}
	return a.audit(base, links), nil
}

// AuditSitemap audits every <loc> of a sitemap.
func (a *Auditor) AuditSitemap(doc string) ([]Link, error) {
	locs, err := ParseSitemap(doc)
	if err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}
	base, err := a.base()
	if err != nil {
		return nil, err
	}
	return a.audit(base, locs), nil
}

// AuditLinks audits an already extracted list of hrefs.
func (a *Auditor) AuditLinks(hrefs []string) ([]Link, error) {
	base, err := a.base()
	if err != nil {
		return nil, err
	}
	return a.audit(base, hrefs), nil
}

func (a *Auditor) base() (*url.URL, error) {
	href := a.util.Href()
	base, err := url.Parse(href)
	if err != nil {
		return nil, &urlutil.ParseError{Input: href, Err: err}
	}
	return base, nil
}

func (a *Auditor) audit(base *url.URL, hrefs []string) []Link {
	links := lo.FilterMap(hrefs, func(href string, _ int) (Link, bool) {
		resolved, err := Resolve(base, href)
		if err != nil {
			a.logger.Warn("Skipping invalid link %s: %v", href, err)
			return Link{}, false
		}
		location.Normalize(resolved)
		link := Link{
			Raw:      href,
			Resolved: resolved.String(),
			External: a.util.IsExternal(resolved.String()),
		}
		link.Allowed = link.External || a.robots.IsAllowed(resolved.EscapedPath(), a.userAgent)
		if !link.Allowed {
			a.logger.Debug("Link disallowed by robots.txt: %s", link.Resolved)
		}
		return link, true
	})
	return lo.UniqBy(links, func(link Link) string {
		return link.Resolved
	})
}

// Summary counts audited links by class.
type Summary struct {
	Total      int `json:"total" yaml:"total"`
	Internal   int `json:"internal" yaml:"internal"`
	External   int `json:"external" yaml:"external"`
	Disallowed int `json:"disallowed" yaml:"disallowed"`
}

// Summarize tallies links.
func Summarize(links []Link) Summary {
	return lo.Reduce(links, func(s Summary, link Link, _ int) Summary {
		s.Total++
		if link.External {
			s.External++
		} else {
			s.Internal++
		}
		if !link.Allowed {
			s.Disallowed++
		}
		return s
	}, Summary{})
}
