// Package dom is the small mutable-document surface the loader writes
// through. It wraps a parsed golang.org/x/net/html tree and serialises
// access so detached cover probes can patch the page while the loader runs.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page. It is safe for concurrent use.
type Document struct {
	mu   sync.Mutex
	root *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Has reports whether an element with the given id exists.
func (d *Document) Has(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return byID(d.root, id) != nil
}

// SetText replaces the children of element id with a single text node.
// It reports false when no such element exists.
func (d *Document) SetText(id, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := byID(d.root, id)
	if n == nil {
		return false
	}
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return true
}

// Text returns the concatenated text content of element id.
func (d *Document) Text(id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := byID(d.root, id)
	if n == nil {
		return "", false
	}
	var b strings.Builder
	collectText(&b, n)
	return b.String(), true
}

// SetHTML parses markup in the context of element id and replaces its
// children with the result. It reports false when no such element exists.
func (d *Document) SetHTML(id, markup string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := byID(d.root, id)
	if n == nil {
		return false, nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return true, fmt.Errorf("parsing fragment for #%s: %w", id, err)
	}
	removeChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return true, nil
}

// InnerHTML serialises the children of element id.
func (d *Document) InnerHTML(id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := byID(d.root, id)
	if n == nil {
		return "", false
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", false
		}
	}
	return buf.String(), true
}

// Title returns the text of the document's <title>.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := findFirst(d.root, atom.Title)
	if t == nil {
		return ""
	}
	var b strings.Builder
	collectText(&b, t)
	return b.String()
}

// SetTitle replaces the document title, creating <title> in <head> when the
// page has none.
func (d *Document) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := findFirst(d.root, atom.Title)
	if t == nil {
		head := findFirst(d.root, atom.Head)
		if head == nil {
			return
		}
		t = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		head.AppendChild(t)
	}
	removeChildren(t)
	t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

// Attr returns the value of attribute key on element id.
func (d *Document) Attr(id, key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := byID(d.root, id)
	if n == nil {
		return "", false
	}
	return getAttr(n, key)
}

// SetAttr sets attribute key on element id.
func (d *Document) SetAttr(id, key, val string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := byID(d.root, id)
	if n == nil {
		return false
	}
	setAttr(n, key, val)
	return true
}

// Hide sets display:none on element id.
func (d *Document) Hide(id string) bool {
	return d.SetAttr(id, "style", "display:none")
}

// Show clears the inline style that Hide sets.
func (d *Document) Show(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := byID(d.root, id)
	if n == nil {
		return false
	}
	removeAttr(n, "style")
	return true
}

// Hidden reports whether element id carries the style Hide sets.
func (d *Document) Hidden(id string) bool {
	style, ok := d.Attr(id, "style")
	return ok && strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none")
}

// SetImageSource sets src on the first <img> inside element id.
func (d *Document) SetImageSource(id, src string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := byID(d.root, id)
	if n == nil {
		return false
	}
	img := findFirst(n, atom.Img)
	if img == nil {
		return false
	}
	setAttr(img, "src", src)
	return true
}

// ScriptSources lists the src attribute of every <script> in document order.
func (d *Document) ScriptSources() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var srcs []string
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script {
			if src, ok := getAttr(n, "src"); ok {
				srcs = append(srcs, src)
			}
		}
		return true
	})
	return srcs
}

// AppendToBody appends parsed markup at the end of <body>.
func (d *Document) AppendToBody(markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	body := findFirst(d.root, atom.Body)
	if body == nil {
		return fmt.Errorf("document has no body")
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return fmt.Errorf("parsing body fragment: %w", err)
	}
	for _, c := range nodes {
		body.AppendChild(c)
	}
	return nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the document, returning "" if rendering fails.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}
