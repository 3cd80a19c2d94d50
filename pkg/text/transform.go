package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mau4gdp/HTML-Renderer/pkg/css"
)

// Transform applies text-transform for the document language.
func Transform(s string, tt css.TextTransform, lang language.Tag) string {
	switch tt {
	case css.TextTransformUppercase:
		return cases.Upper(lang).String(s)
	case css.TextTransformLowercase:
		return cases.Lower(lang).String(s)
	case css.TextTransformCapitalize:
		// cases.Title lowercases the rest of each word; capitalize must not.
		return capitalize(s, lang)
	}
	return s
}

func capitalize(s string, lang language.Tag) string {
	upper := cases.Upper(lang)
	var b strings.Builder
	atWordStart := true
	for _, r := range s {
		if unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '\'') {
			atWordStart = true
			b.WriteRune(r)
			continue
		}
		if atWordStart {
			b.WriteString(upper.String(string(r)))
			atWordStart = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Collapse applies white-space processing (CSS 2.1 §16.6.1) to source text.
// Where spaces collapse, runs of spaces, tabs and (unless preserved) newlines
// become one space. leadingSpace reports whether the text preceding s already
// ended in a collapsible space, in which case a leading space is dropped.
// Preserved newlines are returned as '\n'.
func Collapse(s string, ws css.WhiteSpace, leadingSpace bool) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if !ws.CollapsesSpaces() {
		return strings.ReplaceAll(s, "\t", "        ")
	}
	var b strings.Builder
	pendingSpace := false
	lastWasSpace := leadingSpace
	for _, r := range s {
		switch {
		case r == '\n' && ws.PreservesNewlines():
			pendingSpace = false
			b.WriteByte('\n')
			lastWasSpace = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\f':
			pendingSpace = true
		default:
			if pendingSpace && !lastWasSpace {
				b.WriteByte(' ')
			}
			pendingSpace = false
			lastWasSpace = false
			b.WriteRune(r)
		}
	}
	if pendingSpace && !lastWasSpace {
		b.WriteByte(' ')
	}
	return b.String()
}
