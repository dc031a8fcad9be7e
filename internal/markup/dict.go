package markup

import (
	"strings"

	"github.com/iancoleman/orderedmap"
)

// NewObject returns an empty ordered map that keeps markup characters
// unescaped when marshalled.
func NewObject() *orderedmap.OrderedMap {
	o := orderedmap.New()
	o.SetEscapeHTML(false)
	return o
}

// ToMap converts the element into a one-key object {tag: value}, following
// the xmltodict conventions: attributes become "@name" keys, repeated
// children collapse into lists, mixed text goes to "#text" and a leaf
// without attributes maps to its trimmed text (nil when empty).
func ToMap(e *Element) *orderedmap.OrderedMap {
	o := NewObject()
	o.Set(e.Tag, Value(e))
	return o
}

// Value converts the content of e without the enclosing tag.
func Value(e *Element) interface{} {
	text := strings.TrimSpace(mixedText(e))
	if len(e.Attrs) == 0 && len(e.Children) == 0 {
		if text == "" {
			return nil
		}
		return text
	}

	o := NewObject()
	for _, a := range e.Attrs {
		o.Set("@"+a.Name, a.Value)
	}
	for _, c := range e.Children {
		v := Value(c)
		existing, ok := o.Get(c.Tag)
		switch {
		case !ok:
			o.Set(c.Tag, v)
		case isList(existing):
			o.Set(c.Tag, append(existing.([]interface{}), v))
		default:
			o.Set(c.Tag, []interface{}{existing, v})
		}
	}
	if text != "" {
		o.Set("#text", text)
	}
	return o
}

func isList(v interface{}) bool {
	_, ok := v.([]interface{})
	return ok
}

func mixedText(e *Element) string {
	if len(e.Children) == 0 {
		return e.Text
	}
	var sb strings.Builder
	sb.WriteString(e.Text)
	for _, c := range e.Children {
		sb.WriteString(c.Tail)
	}
	return sb.String()
}
