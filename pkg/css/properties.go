package css

import (
	"strconv"
	"strings"
)

// Property indexes the longhand properties the engine understands.
type Property int

const (
	PropDisplay Property = iota
	PropPosition
	PropFloat
	PropClear
	PropTop
	PropRight
	PropBottom
	PropLeft
	PropWidth
	PropHeight
	PropMinWidth
	PropMaxWidth
	PropMinHeight
	PropMaxHeight
	PropMarginTop
	PropMarginRight
	PropMarginBottom
	PropMarginLeft
	PropPaddingTop
	PropPaddingRight
	PropPaddingBottom
	PropPaddingLeft
	PropBorderTopWidth
	PropBorderRightWidth
	PropBorderBottomWidth
	PropBorderLeftWidth
	PropBorderTopStyle
	PropBorderRightStyle
	PropBorderBottomStyle
	PropBorderLeftStyle
	PropBorderTopColor
	PropBorderRightColor
	PropBorderBottomColor
	PropBorderLeftColor
	PropBorderSpacing
	PropBorderCollapse
	PropCornerNWRadius
	PropCornerNERadius
	PropCornerSERadius
	PropCornerSWRadius
	PropColor
	PropBackgroundColor
	PropFontFamily
	PropFontSize
	PropFontStyle
	PropFontWeight
	PropLineHeight
	PropVerticalAlign
	PropTextAlign
	PropTextIndent
	PropTextDecoration
	PropTextTransform
	PropWhiteSpace
	PropWordSpacing
	PropWordBreak
	PropVisibility
	PropOverflow
	PropZIndex
	PropEmptyCells
	PropPageBreakInside
	PropPageBreakBefore
	PropPageBreakAfter

	propCount
)

// propertyDef is one row of the property table: the CSS name, whether the
// value is inherited, the initial value, and how to parse a declared value.
type propertyDef struct {
	name      string
	inherited bool
	initial   string
	parse     func(string) (any, bool)
}

// currentColor marks a color that follows the element's `color`.
type currentColor struct{}

// BorderSpacing is the horizontal and vertical cell spacing.
type BorderSpacing struct {
	Horizontal Length
	Vertical   Length
}

var properties = [propCount]propertyDef{
	PropDisplay: {"display", false, "inline", keyword(
		"block", "inline", "inline-block", "list-item", "none", "table", "table-row", "table-cell",
		"table-row-group", "table-header-group", "table-footer-group", "table-caption")},
	PropPosition:  {"position", false, "static", keyword("static", "relative", "absolute", "fixed")},
	PropFloat:     {"float", false, "none", keyword("none", "left", "right")},
	PropClear:     {"clear", false, "none", keyword("none", "left", "right", "both")},
	PropTop:       {"top", false, "auto", parseLengthValue},
	PropRight:     {"right", false, "auto", parseLengthValue},
	PropBottom:    {"bottom", false, "auto", parseLengthValue},
	PropLeft:      {"left", false, "auto", parseLengthValue},
	PropWidth:     {"width", false, "auto", parseNonNegativeLength},
	PropHeight:    {"height", false, "auto", parseNonNegativeLength},
	PropMinWidth:  {"min-width", false, "0", parseNonNegativeLength},
	PropMaxWidth:  {"max-width", false, "none", parseMaxLength},
	PropMinHeight: {"min-height", false, "0", parseNonNegativeLength},
	PropMaxHeight: {"max-height", false, "none", parseMaxLength},

	PropMarginTop:    {"margin-top", false, "0", parseLengthValue},
	PropMarginRight:  {"margin-right", false, "0", parseLengthValue},
	PropMarginBottom: {"margin-bottom", false, "0", parseLengthValue},
	PropMarginLeft:   {"margin-left", false, "0", parseLengthValue},

	PropPaddingTop:    {"padding-top", false, "0", parsePadding},
	PropPaddingRight:  {"padding-right", false, "0", parsePadding},
	PropPaddingBottom: {"padding-bottom", false, "0", parsePadding},
	PropPaddingLeft:   {"padding-left", false, "0", parsePadding},

	PropBorderTopWidth:    {"border-top-width", false, "medium", parseBorderWidth},
	PropBorderRightWidth:  {"border-right-width", false, "medium", parseBorderWidth},
	PropBorderBottomWidth: {"border-bottom-width", false, "medium", parseBorderWidth},
	PropBorderLeftWidth:   {"border-left-width", false, "medium", parseBorderWidth},

	PropBorderTopStyle:    {"border-top-style", false, "none", parseBorderStyle},
	PropBorderRightStyle:  {"border-right-style", false, "none", parseBorderStyle},
	PropBorderBottomStyle: {"border-bottom-style", false, "none", parseBorderStyle},
	PropBorderLeftStyle:   {"border-left-style", false, "none", parseBorderStyle},

	PropBorderTopColor:    {"border-top-color", false, "currentcolor", parseColorValue},
	PropBorderRightColor:  {"border-right-color", false, "currentcolor", parseColorValue},
	PropBorderBottomColor: {"border-bottom-color", false, "currentcolor", parseColorValue},
	PropBorderLeftColor:   {"border-left-color", false, "currentcolor", parseColorValue},

	PropBorderSpacing:  {"border-spacing", true, "0", parseBorderSpacing},
	PropBorderCollapse: {"border-collapse", true, "separate", keyword("separate", "collapse")},

	PropCornerNWRadius: {"corner-nw-radius", false, "0", parseNonNegativeLength},
	PropCornerNERadius: {"corner-ne-radius", false, "0", parseNonNegativeLength},
	PropCornerSERadius: {"corner-se-radius", false, "0", parseNonNegativeLength},
	PropCornerSWRadius: {"corner-sw-radius", false, "0", parseNonNegativeLength},

	PropColor:           {"color", true, "black", parseColorValue},
	PropBackgroundColor: {"background-color", false, "transparent", parseColorValue},

	PropFontFamily:     {"font-family", true, "serif", parseFontFamily},
	PropFontSize:       {"font-size", true, "medium", parseFontSize},
	PropFontStyle:      {"font-style", true, "normal", parseFontStyle},
	PropFontWeight:     {"font-weight", true, "normal", parseFontWeight},
	PropLineHeight:     {"line-height", true, "normal", parseLineHeight},
	PropVerticalAlign:  {"vertical-align", false, "baseline", keyword("baseline", "top", "middle", "bottom", "text-top", "text-bottom", "super", "sub")},
	PropTextAlign:      {"text-align", true, "left", keyword("left", "right", "center", "justify")},
	PropTextIndent:     {"text-indent", true, "0", parseLengthValue},
	PropTextDecoration: {"text-decoration", false, "none", parseTextDecoration},
	PropTextTransform:  {"text-transform", true, "none", keyword("none", "uppercase", "lowercase", "capitalize")},
	PropWhiteSpace:     {"white-space", true, "normal", keyword("normal", "nowrap", "pre", "pre-wrap", "pre-line")},
	PropWordSpacing:    {"word-spacing", true, "normal", parseWordSpacing},
	PropWordBreak:      {"word-break", true, "normal", keyword("normal", "break-all", "keep-all")},
	PropVisibility:     {"visibility", true, "visible", keyword("visible", "hidden", "collapse")},
	PropOverflow:       {"overflow", false, "visible", keyword("visible", "hidden", "scroll", "auto")},
	PropZIndex:         {"z-index", false, "auto", parseZIndex},
	PropEmptyCells:     {"empty-cells", true, "show", keyword("show", "hide")},

	PropPageBreakInside: {"page-break-inside", false, "auto", keyword("auto", "avoid")},
	PropPageBreakBefore: {"page-break-before", false, "auto", keyword("auto", "always", "avoid", "left", "right")},
	PropPageBreakAfter:  {"page-break-after", false, "auto", keyword("auto", "always", "avoid", "left", "right")},
}

var propertyByName = func() map[string]Property {
	m := make(map[string]Property, propCount)
	for p := range propCount {
		m[properties[p].name] = p
	}
	return m
}()

// initialValues holds the parsed initial value of every property.
var initialValues = func() [propCount]any {
	var v [propCount]any
	for p := range propCount {
		val, ok := properties[p].parse(properties[p].initial)
		if !ok {
			panic("css: bad initial value for " + properties[p].name)
		}
		v[p] = val
	}
	return v
}()

// LookupProperty maps a longhand name to its Property.
func LookupProperty(name string) (Property, bool) {
	p, ok := propertyByName[strings.ToLower(name)]
	return p, ok
}

func (p Property) String() string {
	if p < 0 || p >= propCount {
		return "Property(" + strconv.Itoa(int(p)) + ")"
	}
	return properties[p].name
}

// Inherited reports whether the property inherits by default.
func (p Property) Inherited() bool { return properties[p].inherited }

func keyword(words ...string) func(string) (any, bool) {
	return func(s string) (any, bool) {
		s = strings.ToLower(s)
		for _, w := range words {
			if s == w {
				return w, true
			}
		}
		return nil, false
	}
}

func parseLengthValue(s string) (any, bool) {
	l, ok := ParseLength(s)
	if !ok {
		return nil, false
	}
	return l, true
}

func parseNonNegativeLength(s string) (any, bool) {
	l, ok := ParseLength(s)
	if !ok || l.Value < 0 {
		return nil, false
	}
	return l, true
}

// max-width/max-height: none is stored as Auto.
func parseMaxLength(s string) (any, bool) {
	if strings.EqualFold(s, "none") {
		return Auto, true
	}
	return parseNonNegativeLength(s)
}

func parsePadding(s string) (any, bool) {
	l, ok := ParseLength(s)
	if !ok || l.IsAuto() || l.Value < 0 {
		return nil, false
	}
	return l, true
}

func parseBorderWidth(s string) (any, bool) {
	switch strings.ToLower(s) {
	case "thin":
		return Px(1), true
	case "medium":
		return Px(3), true
	case "thick":
		return Px(5), true
	}
	l, ok := ParseLength(s)
	if !ok || l.IsAuto() || l.Unit == UnitPercent || l.Value < 0 {
		return nil, false
	}
	return l, true
}

func parseBorderStyle(s string) (any, bool) {
	v, ok := keyword("none", "hidden", "solid", "dotted", "dashed", "double", "groove", "ridge", "inset", "outset")(s)
	if !ok {
		return nil, false
	}
	return BorderStyle(v.(string)), true
}

func parseColorValue(s string) (any, bool) {
	if strings.EqualFold(s, "currentcolor") {
		return currentColor{}, true
	}
	c, ok := ParseColor(s)
	if !ok {
		return nil, false
	}
	return c, true
}

func parseBorderSpacing(s string) (any, bool) {
	parts := strings.Fields(s)
	if len(parts) == 0 || len(parts) > 2 {
		return nil, false
	}
	h, ok := ParseLength(parts[0])
	if !ok || h.IsAuto() || h.Unit == UnitPercent {
		return nil, false
	}
	v := h
	if len(parts) == 2 {
		v, ok = ParseLength(parts[1])
		if !ok || v.IsAuto() || v.Unit == UnitPercent {
			return nil, false
		}
	}
	return BorderSpacing{Horizontal: h, Vertical: v}, true
}

func parseFontFamily(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	return s, true
}

// font-size keywords in px at the medium=16px scale
var fontSizeKeywords = map[string]float64{
	"xx-small": 9,
	"x-small":  10,
	"small":    13,
	"medium":   16,
	"large":    18,
	"x-large":  24,
	"xx-large": 32,
}

func parseFontSize(s string) (any, bool) {
	s = strings.ToLower(s)
	if px, ok := fontSizeKeywords[s]; ok {
		return Px(px), true
	}
	switch s {
	case "smaller":
		return Em(0.83), true
	case "larger":
		return Em(1.2), true
	}
	return parsePadding(s)
}

func parseFontStyle(s string) (any, bool) {
	switch strings.ToLower(s) {
	case "normal":
		return FontStyleNormal, true
	case "italic", "oblique":
		return FontStyleItalic, true
	}
	return nil, false
}

func parseFontWeight(s string) (any, bool) {
	switch strings.ToLower(s) {
	case "normal", "lighter":
		return FontWeightNormal, true
	case "bold", "bolder":
		return FontWeightBold, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 1000 {
		return nil, false
	}
	if n >= 600 {
		return FontWeightBold, true
	}
	return FontWeightNormal, true
}

// line-height lengths are kept as Length here and resolved to px by the
// resolver once the element's font size is known.
func parseLineHeight(s string) (any, bool) {
	if strings.EqualFold(s, "normal") {
		return LineHeight{Normal: true}, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return nil, false
		}
		return LineHeight{Factor: f}, true
	}
	l, ok := ParseLength(s)
	if !ok || l.IsAuto() || l.Value < 0 {
		return nil, false
	}
	return l, true
}

func parseTextDecoration(s string) (any, bool) {
	var d TextDecoration
	for _, w := range strings.Fields(strings.ToLower(s)) {
		switch w {
		case "none":
		case "underline":
			d.Underline = true
		case "overline":
			d.Overline = true
		case "line-through":
			d.LineThrough = true
		case "blink":
		default:
			return nil, false
		}
	}
	return d, true
}

func parseWordSpacing(s string) (any, bool) {
	if strings.EqualFold(s, "normal") {
		return Px(0), true
	}
	l, ok := ParseLength(s)
	if !ok || l.IsAuto() || l.Unit == UnitPercent {
		return nil, false
	}
	return l, true
}

func parseZIndex(s string) (any, bool) {
	if strings.EqualFold(s, "auto") {
		return ZIndex{Auto: true}, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, false
	}
	return ZIndex{Level: n}, true
}
