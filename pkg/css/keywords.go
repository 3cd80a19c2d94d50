package css

// DisplayType is the `display` keyword.
type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayListItem    DisplayType = "list-item"
	DisplayNone        DisplayType = "none"
	DisplayTable       DisplayType = "table"
	DisplayTableRow    DisplayType = "table-row"
	DisplayTableCell   DisplayType = "table-cell"
	DisplayRowGroup    DisplayType = "table-row-group"
	DisplayHeaderGroup DisplayType = "table-header-group"
	DisplayFooterGroup DisplayType = "table-footer-group"
	DisplayCaption     DisplayType = "table-caption"
)

// Position type constants
type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
)

type FloatType string

const (
	FloatNone  FloatType = "none"
	FloatLeft  FloatType = "left"
	FloatRight FloatType = "right"
)

type ClearType string

const (
	ClearNone  ClearType = "none"
	ClearLeft  ClearType = "left"
	ClearRight ClearType = "right"
	ClearBoth  ClearType = "both"
)

type TextAlign string

const (
	TextAlignLeft    TextAlign = "left"
	TextAlignRight   TextAlign = "right"
	TextAlignCenter  TextAlign = "center"
	TextAlignJustify TextAlign = "justify"
)

type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

type FontStyle string

const (
	FontStyleNormal FontStyle = "normal"
	FontStyleItalic FontStyle = "italic"
)

type VerticalAlign string

const (
	VerticalAlignBaseline   VerticalAlign = "baseline"
	VerticalAlignTop        VerticalAlign = "top"
	VerticalAlignMiddle     VerticalAlign = "middle"
	VerticalAlignBottom     VerticalAlign = "bottom"
	VerticalAlignTextTop    VerticalAlign = "text-top"
	VerticalAlignTextBottom VerticalAlign = "text-bottom"
	VerticalAlignSuper      VerticalAlign = "super"
	VerticalAlignSub        VerticalAlign = "sub"
)

type WhiteSpace string

const (
	WhiteSpaceNormal  WhiteSpace = "normal"
	WhiteSpaceNowrap  WhiteSpace = "nowrap"
	WhiteSpacePre     WhiteSpace = "pre"
	WhiteSpacePreWrap WhiteSpace = "pre-wrap"
	WhiteSpacePreLine WhiteSpace = "pre-line"
)

// CollapsesSpaces reports whether runs of spaces and tabs collapse.
func (w WhiteSpace) CollapsesSpaces() bool {
	return w == WhiteSpaceNormal || w == WhiteSpaceNowrap || w == WhiteSpacePreLine
}

// PreservesNewlines reports whether source newlines force line breaks.
func (w WhiteSpace) PreservesNewlines() bool {
	return w == WhiteSpacePre || w == WhiteSpacePreWrap || w == WhiteSpacePreLine
}

// Wraps reports whether lines may break at soft wrap opportunities.
func (w WhiteSpace) Wraps() bool {
	return w != WhiteSpaceNowrap && w != WhiteSpacePre
}

type TextTransform string

const (
	TextTransformNone       TextTransform = "none"
	TextTransformUppercase  TextTransform = "uppercase"
	TextTransformLowercase  TextTransform = "lowercase"
	TextTransformCapitalize TextTransform = "capitalize"
)

type WordBreak string

const (
	WordBreakNormal   WordBreak = "normal"
	WordBreakBreakAll WordBreak = "break-all"
	WordBreakKeepAll  WordBreak = "keep-all"
)

type Visibility string

const (
	VisibilityVisible  Visibility = "visible"
	VisibilityHidden   Visibility = "hidden"
	VisibilityCollapse Visibility = "collapse"
)

type Overflow string

const (
	OverflowVisible Overflow = "visible"
	OverflowHidden  Overflow = "hidden"
	OverflowScroll  Overflow = "scroll"
	OverflowAuto    Overflow = "auto"
)

type BorderStyle string

const (
	BorderStyleNone   BorderStyle = "none"
	BorderStyleHidden BorderStyle = "hidden"
	BorderStyleSolid  BorderStyle = "solid"
	BorderStyleDotted BorderStyle = "dotted"
	BorderStyleDashed BorderStyle = "dashed"
	BorderStyleDouble BorderStyle = "double"
	BorderStyleGroove BorderStyle = "groove"
	BorderStyleRidge  BorderStyle = "ridge"
	BorderStyleInset  BorderStyle = "inset"
	BorderStyleOutset BorderStyle = "outset"
)

// Visible reports whether a border with this style occupies space.
func (b BorderStyle) Visible() bool {
	return b != BorderStyleNone && b != BorderStyleHidden
}

type PageBreak string

const (
	PageBreakAuto   PageBreak = "auto"
	PageBreakAlways PageBreak = "always"
	PageBreakAvoid  PageBreak = "avoid"
	PageBreakLeft   PageBreak = "left"
	PageBreakRight  PageBreak = "right"
)

// Forces reports whether the break is mandatory.
func (p PageBreak) Forces() bool {
	return p == PageBreakAlways || p == PageBreakLeft || p == PageBreakRight
}

// TextDecoration is the set of decoration lines drawn with a text run.
type TextDecoration struct {
	Underline   bool
	Overline    bool
	LineThrough bool
}

func (d TextDecoration) Any() bool { return d.Underline || d.Overline || d.LineThrough }

// LineHeight is `normal`, a multiplier of the font size, or an absolute
// length already resolved to px.
type LineHeight struct {
	Normal bool
	Factor float64
	Px     float64
	IsPx   bool
}

// Resolve returns the used line height for a font size; normal is 1.2em.
func (l LineHeight) Resolve(fontSize float64) float64 {
	switch {
	case l.Normal:
		return 1.2 * fontSize
	case l.IsPx:
		return l.Px
	default:
		return l.Factor * fontSize
	}
}

// ZIndex is an integer stack level or auto.
type ZIndex struct {
	Auto  bool
	Level int
}

// Side indexes the four box sides.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// RadiusCorner indexes the four corners in corner-radius order.
type RadiusCorner int

const (
	CornerNW RadiusCorner = iota
	CornerNE
	CornerSE
	CornerSW
)
