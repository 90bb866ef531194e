package content

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed HTML page that can be queried by CSS selector.
// The extractors only depend on this capability, not on a concrete parser.
type Document interface {
	// Find returns every element matching selector, in document order
	Find(selector string) Selection
	// Remove detaches every element matching selector from the tree
	Remove(selector string)
}

// Selection is an ordered set of elements
type Selection interface {
	Len() int
	First() Selection
	Each(fn func(Selection))
	// Text is the combined text of the elements and their descendants
	Text() string
	// Attr reads an attribute of the first element
	Attr(name string) (string, bool)
	// NodeName is the lower-case tag name of the first element
	NodeName() string
}

// Parser turns an HTML string into a Document
type Parser interface {
	Parse(html string) (Document, error)
}

// GoqueryParser implements Parser with goquery
type GoqueryParser struct{}

// NewGoqueryParser creates a new goquery-backed parser
func NewGoqueryParser() *GoqueryParser {
	return &GoqueryParser{}
}

// Parse parses html into a Document
func (p *GoqueryParser) Parse(html string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &goqueryDocument{doc: doc}, nil
}

type goqueryDocument struct {
	doc *goquery.Document
}

func (d *goqueryDocument) Find(selector string) Selection {
	return goquerySelection{sel: d.doc.Find(selector)}
}

func (d *goqueryDocument) Remove(selector string) {
	d.doc.Find(selector).Remove()
}

type goquerySelection struct {
	sel *goquery.Selection
}

func (s goquerySelection) Len() int { return s.sel.Length() }

func (s goquerySelection) First() Selection { return goquerySelection{sel: s.sel.First()} }

func (s goquerySelection) Each(fn func(Selection)) {
	s.sel.Each(func(_ int, child *goquery.Selection) {
		fn(goquerySelection{sel: child})
	})
}

func (s goquerySelection) Text() string { return s.sel.Text() }

func (s goquerySelection) Attr(name string) (string, bool) { return s.sel.Attr(name) }

func (s goquerySelection) NodeName() string {
	if s.sel.Length() == 0 {
		return ""
	}
	return goquery.NodeName(s.sel)
}

// attrOf returns the named attribute of the first match of selector, or ""
func attrOf(doc Document, selector, name string) string {
	v, _ := doc.Find(selector).First().Attr(name)
	return v
}

// textOf returns the trimmed text of the first match of selector
func textOf(doc Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
