package scanner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLPage is a Page backed by a saved HTML snapshot of the seat map.  A
// second snapshot may stand in for the page after the zoom control has
// been clicked.
type HTMLPage struct {
	doc    *html.Node
	zoomed *html.Node
}

// NewHTMLPage parses a snapshot.
func NewHTMLPage(r io.Reader) (*HTMLPage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &HTMLPage{doc: doc}, nil
}

// WithZoomed sets the snapshot shown once the zoom control is activated.
func (p *HTMLPage) WithZoomed(r io.Reader) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse zoomed snapshot: %w", err)
	}
	p.zoomed = doc
	return nil
}

// Buttons returns every <button> in document order.
func (p *HTMLPage) Buttons(ctx context.Context) ([]Element, error) {
	var out []Element
	walk(p.doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Button {
			out = append(out, Element{Text: textContent(n), Classes: classes(n)})
		}
		return true
	})
	return out, nil
}

// ShowMeta reads the list that directly follows the .headline element.
func (p *HTMLPage) ShowMeta(ctx context.Context) (string, []string, error) {
	var headline, list *html.Node
	walk(p.doc, func(n *html.Node) bool {
		if headline != nil {
			return false
		}
		if n.Type == html.ElementNode && hasClass(n, "headline") {
			if next := nextElement(n); next != nil && next.DataAtom == atom.Ul {
				headline, list = n, next
				return false
			}
		}
		return true
	})
	if list == nil {
		return "", nil, ErrNoShowInfo
	}
	var items []string
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			items = append(items, textContent(c))
		}
	}
	return textContent(headline), items, nil
}

// ClickZoom reports whether the snapshot has a zoom control.  When a
// zoomed snapshot was supplied it replaces the current document.
func (p *HTMLPage) ClickZoom(ctx context.Context) (bool, error) {
	found := false
	walk(p.doc, func(n *html.Node) bool {
		if found {
			return false
		}
		if n.Type == html.ElementNode && hasClass(n, "rounded-full") && hasClass(n, "bg-gray-400") && hasClass(n, "p-4") {
			found = true
			return false
		}
		return true
	})
	if found && p.zoomed != nil {
		p.doc, p.zoomed = p.zoomed, nil
	}
	return found, nil
}

// walk visits n and its descendants depth first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

func classes(n *html.Node) []string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return strings.Fields(a.Val)
		}
	}
	return nil
}

func hasClass(n *html.Node, c string) bool {
	for _, cl := range classes(n) {
		if cl == c {
			return true
		}
	}
	return false
}

func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
