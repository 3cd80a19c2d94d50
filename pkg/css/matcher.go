package css

import (
	"slices"
	"strings"

	"github.com/mau4gdp/HTML-Renderer/pkg/html"
)

// Selector is a complex selector: compound parts joined by combinators,
// left to right as written.
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator // len(Parts)-1
	Specificity int
}

// SelectorPart is a compound selector such as `div.note#main[lang]`.
type SelectorPart struct {
	Element       string
	ID            string
	Classes       []string
	Attributes    []AttributeSelector
	PseudoClasses []string
}

type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "~=", "|=", "^=", "$=", "*="
	Value    string
}

type Combinator int

const (
	DescendantCombinator Combinator = iota
	ChildCombinator
	AdjacentSiblingCombinator
	GeneralSiblingCombinator
)

// ParseSelector parses one selector (no commas). Pseudo-elements are
// rejected; unknown pseudo-classes parse but never match.
func ParseSelector(text string) (Selector, bool) {
	sel := Selector{Raw: text}
	s := strings.TrimSpace(text)
	pendingComb := -1
	for s != "" {
		if s[0] == ' ' || s[0] == '>' || s[0] == '+' || s[0] == '~' {
			comb := DescendantCombinator
			trimmed := strings.TrimLeft(s, " ")
			if trimmed != "" {
				switch trimmed[0] {
				case '>':
					comb = ChildCombinator
					trimmed = trimmed[1:]
				case '+':
					comb = AdjacentSiblingCombinator
					trimmed = trimmed[1:]
				case '~':
					comb = GeneralSiblingCombinator
					trimmed = trimmed[1:]
				}
			}
			if len(sel.Parts) == 0 || pendingComb >= 0 {
				return Selector{}, false
			}
			pendingComb = int(comb)
			s = strings.TrimLeft(trimmed, " ")
			continue
		}
		part, rest, ok := parseCompound(s)
		if !ok {
			return Selector{}, false
		}
		if len(sel.Parts) > 0 {
			if pendingComb < 0 {
				return Selector{}, false
			}
			sel.Combinators = append(sel.Combinators, Combinator(pendingComb))
		}
		pendingComb = -1
		sel.Parts = append(sel.Parts, part)
		s = rest
	}
	if len(sel.Parts) == 0 || pendingComb >= 0 {
		return Selector{}, false
	}
	sel.Specificity = specificity(sel.Parts)
	return sel, true
}

func parseCompound(s string) (SelectorPart, string, bool) {
	var part SelectorPart
	start := true
	for s != "" {
		switch c := s[0]; {
		case c == ' ' || c == '>' || c == '+' || c == '~':
			return part, s, !start
		case c == '*' && start:
			part.Element = "*"
			s = s[1:]
		case c == '#':
			name, rest := ident(s[1:])
			if name == "" {
				return part, "", false
			}
			part.ID, s = name, rest
		case c == '.':
			name, rest := ident(s[1:])
			if name == "" {
				return part, "", false
			}
			part.Classes, s = append(part.Classes, name), rest
		case c == '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return part, "", false
			}
			attr, ok := parseAttributeSelector(s[1:end])
			if !ok {
				return part, "", false
			}
			part.Attributes, s = append(part.Attributes, attr), s[end+1:]
		case c == ':':
			if strings.HasPrefix(s, "::") {
				return part, "", false
			}
			name, rest := ident(s[1:])
			if name == "" {
				return part, "", false
			}
			name = strings.ToLower(name)
			switch name {
			case "before", "after", "first-line", "first-letter":
				return part, "", false
			}
			if strings.HasPrefix(rest, "(") {
				end := strings.IndexByte(rest, ')')
				if end < 0 {
					return part, "", false
				}
				rest = rest[end+1:]
			}
			part.PseudoClasses, s = append(part.PseudoClasses, name), rest
		case start:
			name, rest := ident(s)
			if name == "" {
				return part, "", false
			}
			part.Element, s = strings.ToLower(name), rest
		default:
			return part, "", false
		}
		start = false
	}
	return part, "", !start
}

func ident(s string) (string, string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '-' || c == '_' || c >= 0x80 || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}

func parseAttributeSelector(s string) (AttributeSelector, bool) {
	s = strings.TrimSpace(s)
	for _, op := range []string{"~=", "|=", "^=", "$=", "*=", "="} {
		if name, value, ok := strings.Cut(s, op); ok {
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			name = strings.ToLower(strings.TrimSpace(name))
			return AttributeSelector{Name: name, Operator: op, Value: value}, name != ""
		}
	}
	return AttributeSelector{Name: strings.ToLower(s)}, s != ""
}

// specificity packs (ids, classes+attributes+pseudo-classes, elements) into
// one comparable integer.
func specificity(parts []SelectorPart) int {
	var a, b, c int
	for _, p := range parts {
		if p.ID != "" {
			a++
		}
		b += len(p.Classes) + len(p.Attributes) + len(p.PseudoClasses)
		if p.Element != "" && p.Element != "*" {
			c++
		}
	}
	return a*10000 + b*100 + c
}

// MatchesSelector returns true if the node matches the complex selector
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode || len(selector.Parts) == 0 {
		return false
	}
	// Start matching from the rightmost part (the target element)
	return matchesCompoundSelector(node, selector, len(selector.Parts)-1)
}

// matchesCompoundSelector checks if the node matches the selector at the given part index
// and all ancestor requirements
func matchesCompoundSelector(node *html.Node, selector Selector, partIndex int) bool {
	if !matchesSelectorPart(node, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}

	prev := partIndex - 1
	switch selector.Combinators[prev] {
	case DescendantCombinator:
		for ancestor := node.Parent; ancestor != nil && !isDocumentNode(ancestor); ancestor = ancestor.Parent {
			if matchesCompoundSelector(ancestor, selector, prev) {
				return true
			}
		}
	case ChildCombinator:
		if node.Parent != nil && !isDocumentNode(node.Parent) {
			return matchesCompoundSelector(node.Parent, selector, prev)
		}
	case AdjacentSiblingCombinator:
		if sib := node.PreviousElementSibling(); sib != nil {
			return matchesCompoundSelector(sib, selector, prev)
		}
	case GeneralSiblingCombinator:
		for sib := node.PreviousElementSibling(); sib != nil; sib = sib.PreviousElementSibling() {
			if matchesCompoundSelector(sib, selector, prev) {
				return true
			}
		}
	}
	return false
}

func isDocumentNode(n *html.Node) bool { return n.Parent == nil && n.TagName == "document" }

// matchesSelectorPart checks if a node matches a single selector part
func matchesSelectorPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" && node.ID() != part.ID {
		return false
	}
	for _, class := range part.Classes {
		if !node.HasClass(class) {
			return false
		}
	}
	for _, attr := range part.Attributes {
		if !matchesAttributeSelector(node, attr) {
			return false
		}
	}
	for _, pc := range part.PseudoClasses {
		if !matchesPseudoClass(node, pc) {
			return false
		}
	}
	return true
}

// matchesPseudoClass supports the structural pseudo-classes that do not
// depend on user interaction; everything else never matches.
func matchesPseudoClass(node *html.Node, name string) bool {
	switch name {
	case "first-child":
		return node.PreviousElementSibling() == nil
	case "last-child":
		if node.Parent == nil {
			return true
		}
		for i := len(node.Parent.Children) - 1; i >= 0; i-- {
			if c := node.Parent.Children[i]; c.Type == html.ElementNode {
				return c == node
			}
		}
		return false
	case "root":
		return node.Parent != nil && isDocumentNode(node.Parent)
	case "link":
		_, ok := node.GetAttribute("href")
		return node.TagName == "a" && ok
	}
	return false
}

// matchesAttributeSelector checks if a node matches an attribute selector
func matchesAttributeSelector(node *html.Node, attr AttributeSelector) bool {
	value, ok := node.GetAttribute(attr.Name)
	if !ok {
		return false
	}

	switch attr.Operator {
	case "":
		return true
	case "=":
		return value == attr.Value
	case "^=":
		return attr.Value != "" && strings.HasPrefix(value, attr.Value)
	case "$=":
		return attr.Value != "" && strings.HasSuffix(value, attr.Value)
	case "*=":
		return attr.Value != "" && strings.Contains(value, attr.Value)
	case "~=":
		return slices.Contains(strings.Fields(value), attr.Value)
	case "|=":
		// Language prefix (starts with value or value-)
		return value == attr.Value || strings.HasPrefix(value, attr.Value+"-")
	}
	return false
}

type ruleMatch struct {
	origin      Origin
	specificity int
	sheet       int
	order       int
	decls       DeclarationSet
}

// MatchingRules returns the declarations of every rule in sheets that
// matches node, ordered for the cascade: by origin, then ascending
// specificity, then source order.
func MatchingRules(node *html.Node, sheets []*Stylesheet) []DeclarationSet {
	matches := matchRules(node, sheets)
	out := make([]DeclarationSet, len(matches))
	for i, m := range matches {
		out[i] = m.decls
	}
	return out
}

func matchRules(node *html.Node, sheets []*Stylesheet) []ruleMatch {
	var matches []ruleMatch
	for si, sheet := range sheets {
		for _, rule := range sheet.Rules {
			if MatchesSelector(node, rule.Selector) {
				matches = append(matches, ruleMatch{sheet.Origin, rule.Selector.Specificity, si, rule.Order, rule.Declarations})
			}
		}
	}
	slices.SortStableFunc(matches, func(a, b ruleMatch) int {
		if a.origin != b.origin {
			return int(a.origin) - int(b.origin)
		}
		if a.specificity != b.specificity {
			return a.specificity - b.specificity
		}
		if a.sheet != b.sheet {
			return a.sheet - b.sheet
		}
		return a.order - b.order
	})
	return matches
}
