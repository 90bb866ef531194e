package content

import (
	"strings"
)

// fakeNode is an element of a synthetic document
type fakeNode struct {
	name  string
	text  string
	attrs map[string]string
}

// fakeDocument answers selectors from a fixed table, standing in for a real parser
type fakeDocument struct {
	nodes   map[string][]fakeNode
	removed []string
}

func (d *fakeDocument) Find(selector string) Selection {
	return fakeSelection(d.nodes[selector])
}

func (d *fakeDocument) Remove(selector string) {
	d.removed = append(d.removed, selector)
	for _, part := range strings.Split(selector, ",") {
		delete(d.nodes, strings.TrimSpace(part))
	}
}

type fakeSelection []fakeNode

func (s fakeSelection) Len() int { return len(s) }

func (s fakeSelection) First() Selection {
	if len(s) == 0 {
		return s
	}
	return s[:1]
}

func (s fakeSelection) Each(fn func(Selection)) {
	for i := range s {
		fn(s[i : i+1])
	}
}

func (s fakeSelection) Text() string {
	var b strings.Builder
	for _, n := range s {
		b.WriteString(n.text)
	}
	return b.String()
}

func (s fakeSelection) Attr(name string) (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	v, ok := s[0].attrs[name]
	return v, ok
}

func (s fakeSelection) NodeName() string {
	if len(s) == 0 {
		return ""
	}
	return s[0].name
}
