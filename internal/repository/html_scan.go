package repository

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

type nodeMatcher func(*html.Node) bool

func parseHTML(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func findAll(root *html.Node, match nodeMatcher) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

func findFirst(root *html.Node, match nodeMatcher) *html.Node {
	if nodes := findAll(root, match); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func tag(a atom.Atom) nodeMatcher {
	return func(n *html.Node) bool { return n.DataAtom == a }
}

func tagWithClasses(a atom.Atom, classes ...string) nodeMatcher {
	return func(n *html.Node) bool {
		if n.DataAtom != a {
			return false
		}
		for _, c := range classes {
			if !hasClass(n, c) {
				return false
			}
		}
		return true
	}
}

func tagWithAttr(a atom.Atom, key, value string) nodeMatcher {
	return func(n *html.Node) bool {
		return n.DataAtom == a && attr(n, key) == value
	}
}

func withID(id string) nodeMatcher {
	return func(n *html.Node) bool { return attr(n, "id") == id }
}

// textContent concatenates descendant text and collapses whitespace runs.
func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func directCells(row *html.Node) []*html.Node {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, c)
		}
	}
	return cells
}

// csrfToken reads the anti-forgery token from page metadata, falling back to the hidden
// form input.
func csrfToken(doc *html.Node) string {
	if meta := findFirst(doc, tagWithAttr(atom.Meta, "name", "csrf-token")); meta != nil {
		if token := attr(meta, "content"); token != "" {
			return token
		}
	}
	if input := findFirst(doc, tagWithAttr(atom.Input, "name", "csrf_token")); input != nil {
		return attr(input, "value")
	}
	return ""
}

// snapshotTable reads thead headers and tbody rows as text.
func snapshotTable(table *html.Node) models.TableSnapshot {
	var snap models.TableSnapshot
	if thead := findFirst(table, tag(atom.Thead)); thead != nil {
		for _, th := range findAll(thead, tag(atom.Th)) {
			snap.Headers = append(snap.Headers, textContent(th))
		}
	}
	tbody := findFirst(table, tag(atom.Tbody))
	if tbody == nil {
		return snap
	}
	for _, tr := range findAll(tbody, tag(atom.Tr)) {
		cells := directCells(tr)
		if len(cells) == 0 {
			continue
		}
		row := make([]string, 0, len(cells))
		for _, td := range cells {
			row = append(row, textContent(td))
		}
		snap.Rows = append(snap.Rows, row)
	}
	return snap
}
