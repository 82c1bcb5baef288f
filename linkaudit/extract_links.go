package linkaudit

import (
	"strings"

	"golang.org/x/net/html"
)

// linkElements are the elements whose href attribute points somewhere.
var linkElements = map[string]bool{
	"a":    true,
	"area": true,
	"link": true,
}

// ExtractLinks returns the href of every <a>, <area> and <link> element in
// htmlContent, in document order. Empty hrefs are skipped.
func ExtractLinks(htmlContent string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && linkElements[n.Data] {
			if href, ok := attr(n, "href"); ok && strings.TrimSpace(href) != "" {
				links = append(links, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// BaseHref returns the href of the document's first <base> element, if any.
func BaseHref(htmlContent string) (string, bool, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", false, err
	}

	var found string
	var ok bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if ok {
			return
		}
		if n.Type == html.ElementNode && n.Data == "base" {
			found, ok = attr(n, "href")
			if ok {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return found, ok, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
