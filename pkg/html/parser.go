package html

import (
	"fmt"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML document with the WHATWG parser from golang.org/x/net/html
// and converts it to the renderer's DOM. The contents of <style> elements are
// collected into Document.Stylesheets; <script>, <head> metadata and comments
// are dropped.
func Parse(r io.Reader) (*Document, error) {
	root, err := xhtml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc := NewDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		convert(doc, doc.Root, c)
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func convert(doc *Document, parent *Node, n *xhtml.Node) {
	switch n.Type {
	case xhtml.TextNode:
		parent.AppendText(n.Data)
	case xhtml.ElementNode:
		switch n.DataAtom {
		case atom.Style:
			doc.Stylesheets = append(doc.Stylesheets, textOf(n))
			return
		case atom.Script, atom.Title, atom.Meta, atom.Link, atom.Template, atom.Noscript:
			return
		}
		node := &Node{
			Type:     ElementNode,
			TagName:  strings.ToLower(n.Data),
			Children: make([]*Node, 0),
		}
		if len(n.Attr) > 0 {
			node.Attributes = make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				node.Attributes[strings.ToLower(a.Key)] = a.Val
			}
		}
		parent.AddChild(node)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convert(doc, node, c)
		}
	}
}

func textOf(n *xhtml.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
