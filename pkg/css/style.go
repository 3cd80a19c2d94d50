package css

import (
	"fmt"
	"strings"
)

// ResolvedStyle is the cascaded, inherited value of every property for one
// box. Font size, line height and border widths are absolute; other lengths
// may still be em or percent and are resolved during layout.
type ResolvedStyle struct {
	values [propCount]any
}

// InitialStyle returns a style holding only CSS initial values.
func InitialStyle() *ResolvedStyle {
	return &ResolvedStyle{values: initialValues}
}

// AnonymousStyle returns the style of an anonymous box: inherited
// properties come from parent, everything else is initial.
func AnonymousStyle(parent *ResolvedStyle, display DisplayType) *ResolvedStyle {
	s := InitialStyle()
	if parent != nil {
		for p := range propCount {
			if properties[p].inherited {
				s.values[p] = parent.values[p]
			}
		}
	}
	s.values[PropDisplay] = string(display)
	return s
}

// Value returns the raw resolved value of a property.
func (s *ResolvedStyle) Value(p Property) any { return s.values[p] }

func (s *ResolvedStyle) keyword(p Property) string {
	v, _ := s.values[p].(string)
	return v
}

func (s *ResolvedStyle) length(p Property) Length {
	l, _ := s.values[p].(Length)
	return l
}

func (s *ResolvedStyle) Display() DisplayType   { return DisplayType(s.keyword(PropDisplay)) }
func (s *ResolvedStyle) Position() PositionType { return PositionType(s.keyword(PropPosition)) }
func (s *ResolvedStyle) Float() FloatType       { return FloatType(s.keyword(PropFloat)) }
func (s *ResolvedStyle) Clear() ClearType       { return ClearType(s.keyword(PropClear)) }

// IsPositioned reports position other than static.
func (s *ResolvedStyle) IsPositioned() bool { return s.Position() != PositionStatic }

// IsOutOfFlow reports absolute or fixed positioning.
func (s *ResolvedStyle) IsOutOfFlow() bool {
	p := s.Position()
	return p == PositionAbsolute || p == PositionFixed
}

// Offsets returns top/right/bottom/left; auto sides have Unit == UnitAuto.
func (s *ResolvedStyle) Offsets() Edges {
	return Edges{
		Top:    s.length(PropTop),
		Right:  s.length(PropRight),
		Bottom: s.length(PropBottom),
		Left:   s.length(PropLeft),
	}
}

func (s *ResolvedStyle) Width() Length     { return s.length(PropWidth) }
func (s *ResolvedStyle) Height() Length    { return s.length(PropHeight) }
func (s *ResolvedStyle) MinWidth() Length  { return s.length(PropMinWidth) }
func (s *ResolvedStyle) MinHeight() Length { return s.length(PropMinHeight) }

// MaxWidth is Auto when the declared value is none.
func (s *ResolvedStyle) MaxWidth() Length  { return s.length(PropMaxWidth) }
func (s *ResolvedStyle) MaxHeight() Length { return s.length(PropMaxHeight) }

func (s *ResolvedStyle) Margin() Edges {
	return Edges{
		Top:    s.length(PropMarginTop),
		Right:  s.length(PropMarginRight),
		Bottom: s.length(PropMarginBottom),
		Left:   s.length(PropMarginLeft),
	}
}

func (s *ResolvedStyle) Padding() Edges {
	return Edges{
		Top:    s.length(PropPaddingTop),
		Right:  s.length(PropPaddingRight),
		Bottom: s.length(PropPaddingBottom),
		Left:   s.length(PropPaddingLeft),
	}
}

// BorderStyle returns the style of one side.
func (s *ResolvedStyle) BorderStyle(side Side) BorderStyle {
	st, _ := s.values[PropBorderTopStyle+Property(side)].(BorderStyle)
	return st
}

// BorderWidth returns the used border widths in px; a side whose style is
// none or hidden has zero width (CSS 2.1 §8.5.1).
func (s *ResolvedStyle) BorderWidth() BoxEdge {
	w := func(side Side) float64 {
		if !s.BorderStyle(side).Visible() {
			return 0
		}
		return s.length(PropBorderTopWidth + Property(side)).Value
	}
	return BoxEdge{Top: w(SideTop), Right: w(SideRight), Bottom: w(SideBottom), Left: w(SideLeft)}
}

// BorderColor returns the color of one side, following `color` for
// currentcolor.
func (s *ResolvedStyle) BorderColor(side Side) Color {
	if c, ok := s.values[PropBorderTopColor+Property(side)].(Color); ok {
		return c
	}
	return s.Color()
}

func (s *ResolvedStyle) BorderSpacing() BorderSpacing {
	b, _ := s.values[PropBorderSpacing].(BorderSpacing)
	return b
}

func (s *ResolvedStyle) BorderCollapse() bool { return s.keyword(PropBorderCollapse) == "collapse" }

// CornerRadius returns the radius of one corner.
func (s *ResolvedStyle) CornerRadius(c RadiusCorner) Length {
	return s.length(PropCornerNWRadius + Property(c))
}

func (s *ResolvedStyle) Color() Color {
	c, ok := s.values[PropColor].(Color)
	if !ok {
		return Black
	}
	return c
}

func (s *ResolvedStyle) BackgroundColor() Color {
	if c, ok := s.values[PropBackgroundColor].(Color); ok {
		return c
	}
	return s.Color()
}

func (s *ResolvedStyle) FontFamily() string { return s.keyword(PropFontFamily) }

// FontSize returns the computed font size in px.
func (s *ResolvedStyle) FontSize() float64 { return s.length(PropFontSize).Value }

func (s *ResolvedStyle) FontStyle() FontStyle {
	f, _ := s.values[PropFontStyle].(FontStyle)
	return f
}

func (s *ResolvedStyle) FontWeight() FontWeight {
	f, _ := s.values[PropFontWeight].(FontWeight)
	return f
}

func (s *ResolvedStyle) LineHeight() LineHeight {
	l, _ := s.values[PropLineHeight].(LineHeight)
	return l
}

func (s *ResolvedStyle) VerticalAlign() VerticalAlign {
	return VerticalAlign(s.keyword(PropVerticalAlign))
}
func (s *ResolvedStyle) TextAlign() TextAlign { return TextAlign(s.keyword(PropTextAlign)) }
func (s *ResolvedStyle) TextIndent() Length   { return s.length(PropTextIndent) }

func (s *ResolvedStyle) TextDecoration() TextDecoration {
	d, _ := s.values[PropTextDecoration].(TextDecoration)
	return d
}

func (s *ResolvedStyle) TextTransform() TextTransform {
	return TextTransform(s.keyword(PropTextTransform))
}
func (s *ResolvedStyle) WhiteSpace() WhiteSpace { return WhiteSpace(s.keyword(PropWhiteSpace)) }

// WordSpacing is extra space added to each inter-word gap; normal is 0.
func (s *ResolvedStyle) WordSpacing() Length    { return s.length(PropWordSpacing) }
func (s *ResolvedStyle) WordBreak() WordBreak   { return WordBreak(s.keyword(PropWordBreak)) }
func (s *ResolvedStyle) Visibility() Visibility { return Visibility(s.keyword(PropVisibility)) }
func (s *ResolvedStyle) Overflow() Overflow     { return Overflow(s.keyword(PropOverflow)) }

func (s *ResolvedStyle) ZIndex() ZIndex {
	z, _ := s.values[PropZIndex].(ZIndex)
	return z
}

func (s *ResolvedStyle) HideEmptyCells() bool { return s.keyword(PropEmptyCells) == "hide" }

func (s *ResolvedStyle) PageBreakInside() PageBreak {
	return PageBreak(s.keyword(PropPageBreakInside))
}
func (s *ResolvedStyle) PageBreakBefore() PageBreak {
	return PageBreak(s.keyword(PropPageBreakBefore))
}
func (s *ResolvedStyle) PageBreakAfter() PageBreak {
	return PageBreak(s.keyword(PropPageBreakAfter))
}

// String lists the properties that differ from their initial values.
func (s *ResolvedStyle) String() string {
	var b strings.Builder
	for p := range propCount {
		if s.values[p] == initialValues[p] {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %v", p, s.values[p])
	}
	return b.String()
}
