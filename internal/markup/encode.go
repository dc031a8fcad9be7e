package markup

import (
	"bufio"
	"io"
	"strings"
)

// Declaration is the XML declaration written in front of documents.
const Declaration = "<?xml version='1.0' encoding='UTF-8'?>\n"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\r", "&#13;", "\n", "&#10;", "\t", "&#09;",
	)
)

// Encode writes the element, its subtree and its tail to w. Elements without
// text and children are written in the short form <tag />.
func Encode(w io.Writer, e *Element) error {
	bw := bufio.NewWriter(w)
	writeElement(bw, e)
	return bw.Flush()
}

// EncodeDocument writes the XML declaration followed by the root element.
func EncodeDocument(w io.Writer, root *Element) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(Declaration)
	writeElement(bw, root)
	return bw.Flush()
}

// String returns the serialized element including its tail.
func String(e *Element) string {
	var sb strings.Builder
	_ = Encode(&sb, e)
	return sb.String()
}

func writeElement(w *bufio.Writer, e *Element) {
	w.WriteByte('<')
	w.WriteString(e.Tag)
	for _, a := range e.Attrs {
		w.WriteByte(' ')
		w.WriteString(a.Name)
		w.WriteString(`="`)
		w.WriteString(attrEscaper.Replace(a.Value))
		w.WriteByte('"')
	}
	if e.Text == "" && len(e.Children) == 0 {
		w.WriteString(" />")
	} else {
		w.WriteByte('>')
		w.WriteString(textEscaper.Replace(e.Text))
		for _, c := range e.Children {
			writeElement(w, c)
		}
		w.WriteString("</")
		w.WriteString(e.Tag)
		w.WriteByte('>')
	}
	w.WriteString(textEscaper.Replace(e.Tail))
}
