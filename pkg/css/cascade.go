package css

import (
	"strings"

	"github.com/mau4gdp/HTML-Renderer/pkg/html"

	"go.uber.org/zap"
)

// Resolver merges declarations into ResolvedStyles. It holds no per-document
// state and may be shared by concurrent render requests.
type Resolver struct {
	log *zap.Logger
}

// NewResolver creates a resolver; a nil logger disables logging.
func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log.Named("cascade")}
}

// Resolve computes the style of one element.
//
// Order of precedence, lowest first: initial or inherited value, matched
// rules in the given (ascending specificity) order, the inline declarations,
// then !important rule declarations and finally !important inline
// declarations. A declaration whose value does not parse is skipped so that
// the previous winner stands.
func (r *Resolver) Resolve(inline DeclarationSet, parent *ResolvedStyle, rules []DeclarationSet) *ResolvedStyle {
	var declared [propCount]string
	var isSet [propCount]bool

	apply := func(set DeclarationSet, important bool) {
		for d := range set.All() {
			if d.Important != important {
				continue
			}
			p, ok := LookupProperty(d.Property)
			if !ok {
				r.log.Debug("ignoring unknown property", zap.String("property", d.Property))
				continue
			}
			v := strings.TrimSpace(d.Value)
			if !isKeywordValue(v) {
				if _, ok := properties[p].parse(v); !ok {
					r.log.Debug("ignoring unparseable value",
						zap.String("property", d.Property), zap.String("value", d.Value))
					continue
				}
			}
			declared[p] = v
			isSet[p] = true
		}
	}
	for _, important := range []bool{false, true} {
		for _, rule := range rules {
			apply(rule, important)
		}
		apply(inline, important)
	}

	if parent == nil {
		parent = InitialStyle()
	}
	style := &ResolvedStyle{}
	for p := range propCount {
		switch {
		case isSet[p] && strings.EqualFold(declared[p], "inherit"):
			style.values[p] = parent.values[p]
		case isSet[p] && strings.EqualFold(declared[p], "initial"):
			style.values[p] = initialValues[p]
		case isSet[p]:
			style.values[p], _ = properties[p].parse(declared[p])
		case properties[p].inherited:
			style.values[p] = parent.values[p]
		default:
			style.values[p] = initialValues[p]
		}
	}

	r.computeValues(style, parent)
	return style
}

func isKeywordValue(v string) bool {
	return strings.EqualFold(v, "inherit") || strings.EqualFold(v, "initial")
}

// computeValues turns specified values into computed values where the base
// is already known: font-size against the parent, line-height and border
// widths against the element's own font size, and currentcolor in `color`.
func (r *Resolver) computeValues(style, parent *ResolvedStyle) {
	parentSize := parent.FontSize()
	if fs := style.length(PropFontSize); fs.Unit != UnitPx {
		style.values[PropFontSize] = Px(fs.Resolve(parentSize, parentSize))
	}
	fontSize := style.FontSize()

	if _, ok := style.values[PropColor].(currentColor); ok {
		style.values[PropColor] = parent.Color()
	}

	if l, ok := style.values[PropLineHeight].(Length); ok {
		style.values[PropLineHeight] = LineHeight{Px: l.Resolve(fontSize, fontSize), IsPx: true}
	}

	for p := PropBorderTopWidth; p <= PropBorderLeftWidth; p++ {
		if l := style.length(p); l.Unit == UnitEm {
			style.values[p] = Px(l.Resolve(0, fontSize))
		}
	}
}

// ResolveNode matches node against sheets and resolves its style, using the
// node's style attribute and presentational attributes. Presentational hints
// rank above user agent rules and below author rules.
func (r *Resolver) ResolveNode(node *html.Node, parent *ResolvedStyle, sheets []*Stylesheet) *ResolvedStyle {
	matches := matchRules(node, sheets)
	rules := make([]DeclarationSet, 0, len(matches)+1)
	hints := presentationalHints(node)
	for _, m := range matches {
		if hints.Len() > 0 && m.origin >= OriginAuthor {
			rules = append(rules, hints)
			hints = DeclarationSet{}
		}
		rules = append(rules, m.decls)
	}
	if hints.Len() > 0 {
		rules = append(rules, hints)
	}
	var inline DeclarationSet
	if styleAttr, ok := node.GetAttribute("style"); ok {
		inline = ParseDeclarations(styleAttr)
	}
	return r.Resolve(inline, parent, rules)
}

// presentationalHints maps legacy HTML attributes to declarations.
func presentationalHints(node *html.Node) DeclarationSet {
	var decls []Declaration
	add := func(p, v string) { decls = append(decls, Declaration{Property: p, Value: v}) }
	pixels := func(v string) string {
		if strings.HasSuffix(v, "%") {
			return v
		}
		return v + "px"
	}

	switch node.TagName {
	case "img", "td", "th", "table", "col":
		if w, ok := node.GetAttribute("width"); ok {
			add("width", pixels(w))
		}
		if h, ok := node.GetAttribute("height"); ok {
			add("height", pixels(h))
		}
	}
	if bg, ok := node.GetAttribute("bgcolor"); ok {
		add("background-color", bg)
	}
	if node.TagName == "font" {
		if c, ok := node.GetAttribute("color"); ok {
			add("color", c)
		}
	}
	if a, ok := node.GetAttribute("align"); ok && node.TagName != "img" && node.TagName != "table" {
		add("text-align", a)
	}
	if va, ok := node.GetAttribute("valign"); ok {
		add("vertical-align", va)
	}
	if node.TagName == "table" {
		if b, ok := node.GetAttribute("border"); ok && b != "0" {
			add("border", pixels(b)+" outset")
		}
		if cs, ok := node.GetAttribute("cellspacing"); ok {
			add("border-spacing", pixels(cs))
		}
	}
	if len(decls) == 0 {
		return DeclarationSet{}
	}
	return NewDeclarationSet(decls...)
}
