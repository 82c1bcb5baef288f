package linkaudit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"urlkit/location"
	"urlkit/logging"
	"urlkit/urlutil"
)

func newTestUtil(t *testing.T, href string) *urlutil.Util {
	t.Helper()
	src, err := location.NewMemoryFromHref(href)
	require.NoError(t, err)
	return urlutil.New(src)
}

func TestAuditor_AuditHTML_ClassifiesLinks(t *testing.T) {
	util := newTestUtil(t, "https://example.com/blog/post?id=1#comments")
	auditor := NewAuditor(util)

	doc := `<html><body>
		<a href="/about">About</a>
		<a href="next">Next</a>
		<a href="https://example.com/contact#form">Contact</a>
		<a href="https://external.com/page">Elsewhere</a>
		<a href="http://example.com/insecure">Downgrade</a>
	</body></html>`

	links, err := auditor.AuditHTML(doc)
	require.NoError(t, err)

	assert.Equal(t, []Link{
		{Raw: "/about", Resolved: "https://example.com/about", External: false, Allowed: true},
		{Raw: "next", Resolved: "https://example.com/blog/next", External: false, Allowed: true},
		{Raw: "https://example.com/contact#form", Resolved: "https://example.com/contact", External: false, Allowed: true},
		{Raw: "https://external.com/page", Resolved: "https://external.com/page", External: true, Allowed: true},
		{Raw: "http://example.com/insecure", Resolved: "http://example.com/insecure", External: true, Allowed: true},
	}, links)
}

func TestAuditor_AuditHTML_DeduplicatesResolvedLinks(t *testing.T) {
	util := newTestUtil(t, "https://example.com/")
	auditor := NewAuditor(util)

	links, err := auditor.AuditHTML(`<a href="/a">1</a><a href="/a#top">2</a><a href="//example.com//a">3</a>`)
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "/a", links[0].Raw)
	assert.Equal(t, "https://example.com/a", links[0].Resolved)
}

func TestAuditor_AuditHTML_HonoursBaseElement(t *testing.T) {
	util := newTestUtil(t, "https://example.com/page")
	auditor := NewAuditor(util)

	links, err := auditor.AuditHTML(`<html><head><base href="https://cdn.example.net/assets/"></head><body><a href="img/logo.png">Logo</a></body></html>`)
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "https://cdn.example.net/assets/img/logo.png", links[0].Resolved)
	assert.True(t, links[0].External)
}

func TestAuditor_AuditHTML_SkipsInvalidLinks(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	util := newTestUtil(t, "https://example.com/")
	auditor := NewAuditor(util, WithLogger(logging.FromZap(zap.New(core))))

	links, err := auditor.AuditHTML(`<a href="http://[::1">Broken</a><a href="/ok">Ok</a>`)
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/ok", links[0].Resolved)
	assert.Equal(t, 1, logs.Len())
}

func TestAuditor_WithRobots_MarksDisallowedInternalLinks(t *testing.T) {
	robots, err := NewRobotsChecker("User-agent: *\nDisallow: /private")
	require.NoError(t, err)
	util := newTestUtil(t, "https://example.com/")
	auditor := NewAuditor(util, WithRobots(robots), WithUserAgent("TestBot"))

	links, err := auditor.AuditLinks([]string{"/private/page", "/public", "https://external.com/private"})
	require.NoError(t, err)

	require.Len(t, links, 3)
	assert.False(t, links[0].Allowed)
	assert.True(t, links[1].Allowed)
	assert.True(t, links[2].Allowed, "robots rules do not apply to other origins")
}

func TestAuditor_WithRobots_UsesUserAgentGroup(t *testing.T) {
	robots, err := NewRobotsChecker("User-agent: BadBot\nDisallow: /\n\nUser-agent: *\nAllow: /")
	require.NoError(t, err)
	util := newTestUtil(t, "https://example.com/")

	badLinks, err := NewAuditor(util, WithRobots(robots), WithUserAgent("BadBot")).AuditLinks([]string{"/page"})
	require.NoError(t, err)
	goodLinks, err := NewAuditor(util, WithRobots(robots), WithUserAgent("GoodBot")).AuditLinks([]string{"/page"})
	require.NoError(t, err)

	assert.False(t, badLinks[0].Allowed)
	assert.True(t, goodLinks[0].Allowed)
}

func TestAuditor_AuditSitemap(t *testing.T) {
	util := newTestUtil(t, "https://example.com/")
	auditor := NewAuditor(util)

	links, err := auditor.AuditSitemap(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
		<url><loc>/beans</loc></url>
		<url><loc>https://example.com/toast</loc></url>
		<url><loc>https://elsewhere.org/eggs</loc></url>
	</urlset>`)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/beans",
		"https://example.com/toast",
		"https://elsewhere.org/eggs",
	}, resolvedOf(links))
	assert.Equal(t, Summary{Total: 3, Internal: 2, External: 1}, Summarize(links))
}

func TestAuditor_AuditSitemap_InvalidXML(t *testing.T) {
	util := newTestUtil(t, "https://example.com/")

	_, err := NewAuditor(util).AuditSitemap(`<urlset><url>`)
	assert.Error(t, err)
}

func TestAuditor_BadAmbientHref(t *testing.T) {
	src := location.NewMemory(location.Location{Href: "http://[::1", Origin: "http://[::1]"})
	auditor := NewAuditor(urlutil.New(src))

	_, err := auditor.AuditLinks([]string{"/a"})
	var parseErr *urlutil.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestSummarize(t *testing.T) {
	links := []Link{
		{External: false, Allowed: true},
		{External: false, Allowed: false},
		{External: true, Allowed: true},
	}

	assert.Equal(t, Summary{Total: 3, Internal: 2, External: 1, Disallowed: 1}, Summarize(links))
	assert.Equal(t, Summary{}, Summarize(nil))
}

func resolvedOf(links []Link) []string {
	out := make([]string, 0, len(links))
	for _, link := range links {
		out = append(out, link.Resolved)
	}
	return out
}
