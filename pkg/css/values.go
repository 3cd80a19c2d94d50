package css

import (
	"image/color"
	"strconv"
	"strings"
)

// Unit is the unit a Length was specified in. Absolute units are folded into
// UnitPx at parse time; only the units whose base is unknown until layout
// survive in a resolved style.
type Unit uint8

const (
	UnitPx Unit = iota
	UnitEm
	UnitPercent
	UnitAuto
)

// Length is a CSS length, possibly relative.
type Length struct {
	Value float64
	Unit  Unit
}

// Auto is the `auto` keyword as a length.
var Auto = Length{Unit: UnitAuto}

// Px returns an absolute length in device units.
func Px(v float64) Length { return Length{Value: v, Unit: UnitPx} }

// Em returns a length relative to the font size.
func Em(v float64) Length { return Length{Value: v, Unit: UnitEm} }

// Percent returns a length relative to the containing block.
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }

func (l Length) IsAuto() bool { return l.Unit == UnitAuto }

// Resolve converts the length to device units. Percentages are taken of
// percentBase, em of fontSize; auto resolves to 0 and callers that care must
// test IsAuto first.
func (l Length) Resolve(percentBase, fontSize float64) float64 {
	switch l.Unit {
	case UnitEm:
		return l.Value * fontSize
	case UnitPercent:
		return l.Value * percentBase / 100
	case UnitAuto:
		return 0
	default:
		return l.Value
	}
}

func (l Length) String() string {
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	switch l.Unit {
	case UnitEm:
		return v + "em"
	case UnitPercent:
		return v + "%"
	case UnitAuto:
		return "auto"
	default:
		return v + "px"
	}
}

// absolute unit factors at 96 device units per inch
var absoluteUnits = []struct {
	suffix string
	factor float64
}{
	{"px", 1},
	{"pt", 96.0 / 72.0},
	{"pc", 16},
	{"in", 96},
	{"cm", 96 / 2.54},
	{"mm", 96 / 25.4},
}

// ParseLength parses a length value ("10px", "1.5em", "50%", "12pt", "auto").
// A bare number is taken as px, as the original renderer did.
func ParseLength(val string) (Length, bool) {
	val = strings.ToLower(strings.TrimSpace(val))
	if val == "" {
		return Length{}, false
	}
	if val == "auto" {
		return Auto, true
	}
	if rest, ok := strings.CutSuffix(val, "%"); ok {
		n, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return Length{}, false
		}
		return Percent(n), true
	}
	if rest, ok := strings.CutSuffix(val, "em"); ok && !strings.HasSuffix(rest, "r") {
		n, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return Length{}, false
		}
		return Em(n), true
	}
	if rest, ok := strings.CutSuffix(val, "ex"); ok {
		n, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return Length{}, false
		}
		return Em(n / 2), true
	}
	for _, u := range absoluteUnits {
		if rest, ok := strings.CutSuffix(val, u.suffix); ok {
			n, err := strconv.ParseFloat(rest, 64)
			if err != nil {
				return Length{}, false
			}
			return Px(n * u.factor), true
		}
	}
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return Length{}, false
	}
	return Px(n), true
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Horizontal is Left+Right.
func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

// Vertical is Top+Bottom.
func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

// Edges holds unresolved lengths for the four sides.
type Edges struct {
	Top    Length
	Right  Length
	Bottom Length
	Left   Length
}

// Resolve converts all four sides; percentages on every side refer to the
// containing block width (CSS 2.1 §8.3).
func (e Edges) Resolve(containingWidth, fontSize float64) BoxEdge {
	return BoxEdge{
		Top:    e.Top.Resolve(containingWidth, fontSize),
		Right:  e.Right.Resolve(containingWidth, fontSize),
		Bottom: e.Bottom.Resolve(containingWidth, fontSize),
		Left:   e.Left.Resolve(containingWidth, fontSize),
	}
}

// Color is an sRGB color with straight alpha.
type Color struct {
	R, G, B uint8
	A       uint8
}

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{}
)

func (c Color) IsTransparent() bool { return c.A == 0 }

// NRGBA converts to the image/color representation used by the backends.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c Color) String() string {
	if c.A == 255 {
		return "rgb(" + strconv.Itoa(int(c.R)) + "," + strconv.Itoa(int(c.G)) + "," + strconv.Itoa(int(c.B)) + ")"
	}
	return "rgba(" + strconv.Itoa(int(c.R)) + "," + strconv.Itoa(int(c.G)) + "," + strconv.Itoa(int(c.B)) + "," +
		strconv.FormatFloat(float64(c.A)/255, 'f', 2, 64) + ")"
}

var namedColors = map[string]Color{
	"black":       {0, 0, 0, 255},
	"silver":      {192, 192, 192, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"white":       {255, 255, 255, 255},
	"maroon":      {128, 0, 0, 255},
	"red":         {255, 0, 0, 255},
	"purple":      {128, 0, 128, 255},
	"fuchsia":     {255, 0, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"green":       {0, 128, 0, 255},
	"lime":        {0, 255, 0, 255},
	"olive":       {128, 128, 0, 255},
	"yellow":      {255, 255, 0, 255},
	"navy":        {0, 0, 128, 255},
	"blue":        {0, 0, 255, 255},
	"teal":        {0, 128, 128, 255},
	"aqua":        {0, 255, 255, 255},
	"cyan":        {0, 255, 255, 255},
	"orange":      {255, 165, 0, 255},
	"pink":        {255, 192, 203, 255},
	"brown":       {165, 42, 42, 255},
	"gold":        {255, 215, 0, 255},
	"darkgray":    {169, 169, 169, 255},
	"darkgrey":    {169, 169, 169, 255},
	"lightgray":   {211, 211, 211, 255},
	"lightgrey":   {211, 211, 211, 255},
	"whitesmoke":  {245, 245, 245, 255},
	"darkblue":    {0, 0, 139, 255},
	"darkred":     {139, 0, 0, 255},
	"darkgreen":   {0, 100, 0, 255},
	"lightblue":   {173, 216, 230, 255},
	"lightgreen":  {144, 238, 144, 255},
	"lightyellow": {255, 255, 224, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor parses named colors, #rgb, #rrggbb, #rrggbbaa, rgb() and rgba().
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	if hex, ok := strings.CutPrefix(colorStr, "#"); ok {
		return parseHexColor(hex)
	}
	if args, ok := functionArgs(colorStr, "rgba"); ok {
		return parseRGBArgs(args, true)
	}
	if args, ok := functionArgs(colorStr, "rgb"); ok {
		return parseRGBArgs(args, false)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	if len(hex) == 6 {
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, true
	}
	return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

func functionArgs(s, name string) ([]string, bool) {
	rest, ok := strings.CutPrefix(s, name+"(")
	if !ok {
		return nil, false
	}
	rest, ok = strings.CutSuffix(rest, ")")
	if !ok {
		return nil, false
	}
	parts := strings.Split(rest, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

func parseRGBArgs(args []string, alpha bool) (Color, bool) {
	if (alpha && len(args) != 4) || (!alpha && len(args) != 3) {
		return Color{}, false
	}
	var c [3]uint8
	for i := range 3 {
		v, ok := parseChannel(args[i])
		if !ok {
			return Color{}, false
		}
		c[i] = v
	}
	a := uint8(255)
	if alpha {
		f, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return Color{}, false
		}
		a = uint8(clamp(f, 0, 1)*255 + 0.5)
	}
	return Color{c[0], c[1], c[2], a}, true
}

func parseChannel(s string) (uint8, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return uint8(clamp(f, 0, 100)*255/100 + 0.5), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return uint8(clamp(f, 0, 255) + 0.5), true
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
