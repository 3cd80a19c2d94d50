package layout

// collapseMargins returns the collapsed margin value for two adjoining vertical margins.
// Per CSS 2.1: both positive => max, both negative => most negative, mixed => sum.
func collapseMargins(margin1, margin2 float64) float64 {
	if margin1 >= 0 && margin2 >= 0 {
		return max(margin1, margin2)
	}
	if margin1 < 0 && margin2 < 0 {
		return min(margin1, margin2)
	}
	return margin1 + margin2
}

// marginStrut accumulates adjoining margins until a border edge or line
// box resolves them: the largest positive and the most negative margin.
type marginStrut struct {
	pos, neg float64
}

func (s marginStrut) with(m float64) marginStrut {
	if m > s.pos {
		s.pos = m
	}
	if m < s.neg {
		s.neg = m
	}
	return s
}

func (s marginStrut) sum() float64 { return collapseMargins(s.pos, s.neg) }

// flow is the vertical cursor of a block container's content. While no
// content has been placed, the container's own top may still be unresolved
// because its top margin collapses with its first child's.
type flow struct {
	cursor    float64
	strut     marginStrut
	committed bool
	// top is where the content started, valid once committed.
	top float64
	// outer is the flow of the parent when the box's top margin collapses
	// through into it.
	outer *flow
}

// position returns where content would start if placed now.
func (f *flow) position() float64 { return f.cursor + f.strut.sum() }

// commit resolves the pending margins and returns the new cursor.
func (f *flow) commit() float64 {
	y := f.position()
	f.resolve(y)
	f.cursor, f.strut = y, marginStrut{}
	return y
}

func (f *flow) resolve(y float64) {
	if f.committed {
		return
	}
	f.committed, f.top = true, y
	if f.outer != nil {
		f.outer.cursor, f.outer.strut = y, marginStrut{}
		f.outer.resolve(y)
	}
}
