package markup

import "strings"

// Indent pretty prints the tree in place, the way ElementTree's classic
// indent recipe does: only blank text and tails are replaced, so running it
// twice yields the same tree.
func Indent(e *Element, level, width int) {
	spaces := strings.Repeat(" ", width)
	i := "\n" + strings.Repeat(spaces, level)

	if len(e.Children) == 0 {
		if level > 0 && isBlank(e.Tail) {
			e.Tail = i
		}
		return
	}

	if isBlank(e.Text) {
		e.Text = i + spaces
	}
	if isBlank(e.Tail) {
		e.Tail = i
	}
	for _, c := range e.Children {
		Indent(c, level+1, width)
	}
	if last := e.Children[len(e.Children)-1]; isBlank(last.Tail) {
		last.Tail = i
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
