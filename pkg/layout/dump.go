package layout

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented listing of the subtree of id with its geometry.
func (t *Tree) Dump(w io.Writer, id BoxID) error {
	return t.dump(w, id, 0)
}

func (t *Tree) dump(w io.Writer, id BoxID, depth int) error {
	b := t.Box(id)
	indent := strings.Repeat("  ", depth)
	name := b.Kind.String()
	if tag := b.TagName(); tag != "" {
		name = "<" + tag + "> " + name
	}
	if b.Anonymous {
		name += " (anonymous)"
	}
	if _, err := fmt.Fprintf(w, "%s%s: pos=(%.1f,%.1f) size=(%.1fx%.1f)",
		indent, name, b.Rect.X, b.Rect.Y, b.Rect.Width, b.Rect.Height); err != nil {
		return err
	}
	if b.IsFloat() {
		fmt.Fprintf(w, " float=%s", b.Float)
	}
	if b.IsAbsolute() {
		fmt.Fprintf(w, " position=%s", b.Position)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, l := range b.Lines {
		fmt.Fprintf(w, "%s  line: pos=(%.1f,%.1f) size=(%.1fx%.1f) baseline=%.1f\n",
			indent, l.Rect.X, l.Rect.Y, l.Rect.Width, l.Rect.Height, l.Baseline)
		for _, f := range l.Fragments {
			if f.Kind == FragmentText {
				text := f.Text
				if len(text) > 20 {
					text = text[:20] + "..."
				}
				fmt.Fprintf(w, "%s    TEXT(%q): x=%.1f width=%.1f\n", indent, text, f.Rect.X, f.Rect.Width)
			}
		}
	}
	for _, c := range b.Children {
		if err := t.dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
