// Package markup provides a small XML element tree with ElementTree-style
// text and tail content, used to read gamelist documents, carry unknown
// content through edits verbatim, and write markup back out.
package markup

// Attr is a single element attribute. Attribute order is preserved.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the markup tree. Text is the character data before the
// first child; Tail is the character data following the element's end tag
// inside its parent.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Tail     string
	Children []*Element
}

// NewElement returns an element without content.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// SubElement creates a child element of parent and returns it.
func SubElement(parent *Element, tag string) *Element {
	child := NewElement(tag)
	parent.Children = append(parent.Children, child)
	return child
}

// Append adds children to the element.
func (e *Element) Append(children ...*Element) {
	e.Children = append(e.Children, children...)
}

// Get returns the value of the named attribute.
func (e *Element) Get(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Set sets the named attribute, keeping the position of an existing one.
func (e *Element) Set(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Find returns the first direct child with the given tag, or nil.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns every direct child with the given tag.
func (e *Element) FindAll(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// IsLeaf reports whether the element has no children.
func (e *Element) IsLeaf() bool {
	return len(e.Children) == 0
}

// Clone returns a deep copy of the element and its subtree.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := &Element{
		Tag:  e.Tag,
		Text: e.Text,
		Tail: e.Tail,
	}
	if e.Attrs != nil {
		out.Attrs = make([]Attr, len(e.Attrs))
		copy(out.Attrs, e.Attrs)
	}
	if e.Children != nil {
		out.Children = make([]*Element, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Detached returns a deep copy without the tail, suitable for moving the
// element under another parent.
func (e *Element) Detached() *Element {
	out := e.Clone()
	out.Tail = ""
	return out
}

// CloneAll deep-copies a list of elements.
func CloneAll(elements []*Element) []*Element {
	if elements == nil {
		return nil
	}
	out := make([]*Element, len(elements))
	for i, e := range elements {
		out[i] = e.Clone()
	}
	return out
}

// Equal reports whether two trees have the same tags, attributes, text and
// tails.
func Equal(a, b *Element) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag || a.Text != b.Text || a.Tail != b.Tail {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i] != b.Attrs[i] {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
