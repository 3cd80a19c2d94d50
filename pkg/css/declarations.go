package css

import (
	"iter"
	"strings"
)

// Declaration is one `property: value` pair, longhand after shorthand
// expansion.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// DeclarationSet is an ordered, immutable list of declarations as produced by
// the parser for one rule or one style attribute.
type DeclarationSet struct {
	decls []Declaration
}

// NewDeclarationSet builds a set from raw declarations, expanding shorthands.
func NewDeclarationSet(decls ...Declaration) DeclarationSet {
	var out []Declaration
	for _, d := range decls {
		out = expandShorthand(out, strings.ToLower(strings.TrimSpace(d.Property)), strings.TrimSpace(d.Value), d.Important)
	}
	return DeclarationSet{decls: out}
}

// ParseDeclarations parses the body of a style attribute or rule block.
func ParseDeclarations(src string) DeclarationSet {
	var raw []Declaration
	for _, decl := range strings.Split(src, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		raw = append(raw, splitImportant(name, value))
	}
	return NewDeclarationSet(raw...)
}

// splitImportant strips a trailing `!important` from the value.
func splitImportant(name, value string) Declaration {
	value = strings.TrimSpace(value)
	d := Declaration{Property: name}
	if i := strings.LastIndex(value, "!"); i >= 0 {
		if strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
			d.Important = true
			value = strings.TrimSpace(value[:i])
		}
	}
	d.Value = value
	return d
}

// All yields the declarations in source order.
func (s DeclarationSet) All() iter.Seq[Declaration] {
	return func(yield func(Declaration) bool) {
		for _, d := range s.decls {
			if !yield(d) {
				return
			}
		}
	}
}

// Get returns the last declared value of a longhand property.
func (s DeclarationSet) Get(property string) (string, bool) {
	for i := len(s.decls) - 1; i >= 0; i-- {
		if s.decls[i].Property == property {
			return s.decls[i].Value, true
		}
	}
	return "", false
}

func (s DeclarationSet) Len() int { return len(s.decls) }

var sideNames = [4]string{"top", "right", "bottom", "left"}

// radius corners in the order corner-radius lists them
var cornerNames = [4]string{"nw", "ne", "se", "sw"}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(out []Declaration, property, value string, important bool) []Declaration {
	add := func(p, v string) {
		out = append(out, Declaration{Property: p, Value: v, Important: important})
	}
	switch property {
	case "margin", "padding":
		for i, v := range expandFourSides(value) {
			add(property+"-"+sideNames[i], v)
		}
	case "border-width", "border-style", "border-color":
		suffix := strings.TrimPrefix(property, "border")
		for i, v := range expandFourSides(value) {
			add("border-"+sideNames[i]+suffix, v)
		}
	case "border":
		w, st, c := splitBorder(value)
		for _, side := range sideNames {
			add("border-"+side+"-width", w)
			add("border-"+side+"-style", st)
			add("border-"+side+"-color", c)
		}
	case "border-top", "border-right", "border-bottom", "border-left":
		w, st, c := splitBorder(value)
		add(property+"-width", w)
		add(property+"-style", st)
		add(property+"-color", c)
	case "corner-radius", "border-radius":
		for i, v := range expandFourSides(value) {
			add("corner-"+cornerNames[i]+"-radius", v)
		}
	case "border-top-left-radius":
		add("corner-nw-radius", value)
	case "border-top-right-radius":
		add("corner-ne-radius", value)
	case "border-bottom-right-radius":
		add("corner-se-radius", value)
	case "border-bottom-left-radius":
		add("corner-sw-radius", value)
	case "background":
		// only the color component of the background shorthand is honored
		for _, part := range strings.Fields(value) {
			if _, ok := parseColorValue(part); ok {
				add("background-color", part)
			}
		}
	default:
		add(property, value)
	}
	return out
}

// expandFourSides expands the 1-4 value box shorthand syntax.
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
// "10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l)
func expandFourSides(value string) [4]string {
	parts := strings.Fields(value)
	switch len(parts) {
	case 1:
		return [4]string{parts[0], parts[0], parts[0], parts[0]}
	case 2:
		return [4]string{parts[0], parts[1], parts[0], parts[1]}
	case 3:
		return [4]string{parts[0], parts[1], parts[2], parts[1]}
	case 4:
		return [4]string{parts[0], parts[1], parts[2], parts[3]}
	}
	// Unparseable; the longhands will reject the raw value.
	return [4]string{value, value, value, value}
}

// splitBorder splits "1px solid black" into its components. Omitted
// components reset to their initial values.
func splitBorder(value string) (width, style, color string) {
	width, style, color = "medium", "none", "currentcolor"
	for _, part := range strings.Fields(value) {
		if _, ok := parseBorderStyle(part); ok {
			style = part
		} else if _, ok := parseBorderWidth(part); ok {
			width = part
		} else {
			color = part
		}
	}
	return width, style, color
}
