package layout

import (
	"math"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

// Exclusion is the margin box of a placed float.
type Exclusion struct {
	Rect Rect
	Side css.FloatType
}

// ExclusionSpace is the set of floats placed so far in one block
// formatting context. It is immutable: Add returns a new space.
type ExclusionSpace struct {
	exclusions []Exclusion
}

func NewExclusionSpace() *ExclusionSpace {
	return &ExclusionSpace{}
}

// IsEmpty returns true if there are no exclusions.
func (es *ExclusionSpace) IsEmpty() bool {
	return es == nil || len(es.exclusions) == 0
}

// Add returns a new space with exclusion added.
func (es *ExclusionSpace) Add(exclusion Exclusion) *ExclusionSpace {
	n := make([]Exclusion, len(es.exclusions)+1)
	copy(n, es.exclusions)
	n[len(es.exclusions)] = exclusion
	return &ExclusionSpace{exclusions: n}
}

// AvailableInlineSize narrows the span [left, right] by the floats that
// overlap the band [y, y+height).
func (es *ExclusionSpace) AvailableInlineSize(y, height, left, right float64) (float64, float64) {
	if es == nil {
		return left, right
	}
	for _, excl := range es.exclusions {
		if !overlapsBand(excl.Rect, y, height) {
			continue
		}
		switch excl.Side {
		case css.FloatLeft:
			left = max(left, excl.Rect.Right())
		case css.FloatRight:
			right = min(right, excl.Rect.X)
		}
	}
	return left, right
}

func overlapsBand(r Rect, y, height float64) bool {
	if r.Height <= 0 {
		return false
	}
	if height <= 0 {
		return r.Y <= y && r.Bottom() > y
	}
	return r.Y < y+height && r.Bottom() > y
}

// ClearY returns the lowest bottom edge of the floats a clear value has to
// move past, or -Inf when there are none.
func (es *ExclusionSpace) ClearY(clear css.ClearType) float64 {
	y := math.Inf(-1)
	if es == nil || clear == css.ClearNone {
		return y
	}
	for _, excl := range es.exclusions {
		if clear == css.ClearBoth || string(clear) == string(excl.Side) {
			y = max(y, excl.Rect.Bottom())
		}
	}
	return y
}

// NextBottom returns the nearest float bottom edge below y, or y when no
// float ends below it. Content that does not fit beside the floats moves
// down to that edge.
func (es *ExclusionSpace) NextBottom(y float64) float64 {
	next := math.Inf(1)
	if es != nil {
		for _, excl := range es.exclusions {
			if b := excl.Rect.Bottom(); b > y && b < next {
				next = b
			}
		}
	}
	if math.IsInf(next, 1) {
		return y
	}
	return next
}

// LastTop returns the top of the most recently placed float; a later float
// may not be placed above it.
func (es *ExclusionSpace) LastTop() float64 {
	if es.IsEmpty() {
		return math.Inf(-1)
	}
	return es.exclusions[len(es.exclusions)-1].Rect.Y
}

// Bottom returns the lowest float bottom edge, or -Inf.
func (es *ExclusionSpace) Bottom() float64 {
	return es.ClearY(css.ClearBoth)
}

// blockContext is the state shared by the boxes of one block formatting
// context.
type blockContext struct {
	space *ExclusionSpace
}

func newBlockContext() *blockContext {
	return &blockContext{space: NewExclusionSpace()}
}
