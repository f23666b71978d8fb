package source

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/avoronov/cryptomood/internal/model"
)

// nitterDateLayout matches timeline tooltip timestamps, e.g.
// "Aug 29, 2026 · 1:30 PM UTC".
const nitterDateLayout = "Jan 2, 2006 · 3:04 PM MST"

// ParseTimeline extracts the posts from a Nitter account timeline page.
// Items without readable content are skipped; an item without a parseable
// timestamp is kept with the current time so dedup still sees it.
func ParseTimeline(pageHTML, account string) ([]model.RawDocument, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var docs []model.RawDocument
	for _, item := range findAllByClass(doc, "timeline-item") {
		content := findFirstByClass(item, "tweet-content")
		if content == nil {
			continue
		}
		text := strings.TrimSpace(textContent(content))
		if text == "" {
			continue
		}

		observedAt := time.Now().UTC()
		if dateNode := findFirstByClass(item, "tweet-date"); dateNode != nil {
			if ts, ok := parseTweetDate(dateNode); ok {
				observedAt = ts
			}
		}

		docs = append(docs, model.RawDocument{
			Text:       text,
			Account:    account,
			ObservedAt: observedAt,
		})
	}

	return docs, nil
}

func parseTweetDate(dateNode *html.Node) (time.Time, bool) {
	for n := dateNode.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode || n.Data != "a" {
			continue
		}
		for _, attr := range n.Attr {
			if attr.Key != "title" {
				continue
			}
			if ts, err := time.Parse(nitterDateLayout, attr.Val); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func findAllByClass(root *html.Node, class string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if hasClass(n, class) {
			found = append(found, n)
			return // timeline items do not nest
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func findFirstByClass(root *html.Node, class string) *html.Node {
	var walk func(*html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if hasClass(n, class) {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(root)
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
