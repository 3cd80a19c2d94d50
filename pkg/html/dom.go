package html

import "strings"

// Node is an element or text node of a parsed document. The tree is the
// read-only input of the box tree builder.
type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Document is a parsed HTML document: the element tree plus the text of its
// <style> elements in source order.
type Document struct {
	Root        *Node
	Stylesheets []string
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
	}
}

// DocumentElement returns the <html> element, or the synthetic root when the
// document has no element children.
func (d *Document) DocumentElement() *Node {
	for _, c := range d.Root.Children {
		if c.Type == ElementNode {
			return c
		}
	}
	return d.Root
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// ID returns the id attribute, or "".
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// Classes returns the whitespace separated tokens of the class attribute.
func (n *Node) Classes() []string {
	class, ok := n.GetAttribute("class")
	if !ok {
		return nil
	}
	return strings.Fields(class)
}

// HasClass reports whether name is one of the node's classes.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(&Node{Type: TextNode, Text: text})
}

// PreviousElementSibling returns the closest preceding element sibling.
func (n *Node) PreviousElementSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	var prev *Node
	for _, c := range n.Parent.Children {
		if c == n {
			return prev
		}
		if c.Type == ElementNode {
			prev = c
		}
	}
	return nil
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}
