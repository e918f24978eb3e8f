package crawl

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// ParseAnchors returns the href of every <a> element in document order.
// Anchors without an href, or with an empty one, are dropped.
func ParseAnchors(body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var hrefs []string

	var walker func(*html.Node)
	walker = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if href != "" {
					hrefs = append(hrefs, href)
				}
				break
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walker(c)
		}
	}

	walker(doc)

	return hrefs, nil
}
