package layout

import (
	"unicode/utf8"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
	"github.com/mau4gdp/HTML-Renderer/pkg/text"
)

const tabSize = 8

type segmentKind uint8

const (
	segWord segmentKind = iota
	segSpace
	segNewline
)

// segment is a word, a run of spaces, or a preserved newline.
type segment struct {
	kind   segmentKind
	text   string
	spaces int
}

// splitSegments cuts already collapsed text into words and space runs.
// Newlines only survive collapsing when white-space preserves them.
func splitSegments(s string, ws css.WhiteSpace) []segment {
	var segs []segment
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == '\n':
			if ws.PreservesNewlines() {
				segs = append(segs, segment{kind: segNewline})
			} else {
				segs = append(segs, segment{kind: segSpace, text: " ", spaces: 1})
			}
			i++
		case c == ' ' || c == '\t':
			j, n := i, 0
			for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
				if s[j] == '\t' {
					n += tabSize
				} else {
					n++
				}
				j++
			}
			segs = append(segs, segment{kind: segSpace, text: s[i:j], spaces: n})
			i = j
		default:
			j := i
			for j < len(s) && s[j] != ' ' && s[j] != '\t' && s[j] != '\n' {
				j++
			}
			segs = append(segs, segment{kind: segWord, text: s[i:j]})
			i = j
		}
	}
	return segs
}

// spaceWidth is the width of one inter-word space: the font's whitespace
// advance plus word-spacing.
func (e *Engine) spaceWidth(st *css.ResolvedStyle) float64 {
	f := text.FontOf(st)
	return e.measurer.MeasureWhitespace(f) + st.WordSpacing().Resolve(0, f.Size)
}

// fitPrefix returns the longest prefix of word no wider than width,
// keeping at least one rune when force is set.
func (e *Engine) fitPrefix(f text.Font, word string, width float64, force bool) string {
	end := 0
	for i := 0; i < len(word); {
		_, size := utf8.DecodeRuneInString(word[i:])
		next := i + size
		if e.measurer.MeasureRun(f, word[:next]) > width {
			break
		}
		end = next
		i = next
	}
	if end == 0 && force && word != "" {
		_, size := utf8.DecodeRuneInString(word)
		end = size
	}
	return word[:end]
}

// widestRune returns the advance of the widest single character in word.
func (e *Engine) widestRune(f text.Font, word string) float64 {
	var w float64
	for _, r := range word {
		w = max(w, e.measurer.MeasureRun(f, string(r)))
	}
	return w
}
