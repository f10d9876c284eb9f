package prparse

import (
	"strings"

	"golang.org/x/net/html"
)

// extractLinkFromHTML walks anchor tags in an HTML body looking for a
// GitHub pull-request URL. GitHub notification emails link the PR
// several times; the first match wins.
func extractLinkFromHTML(htmlBody string) string {
	doc, err := html.Parse(strings.NewReader(htmlBody))
	if err != nil {
		return ""
	}

	var found string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if strings.Contains(attr.Val, "github.com") && strings.Contains(attr.Val, "/pull/") {
					found = stripTracking(attr.Val)
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return found
}
