package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// SyntaxError reports malformed markup with the position it was detected at.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Parse reads one document from r and returns its root element. Comments,
// processing instructions and directives are dropped. Documents declaring a
// non UTF-8 encoding are transcoded. Namespace prefixes are
// kept as part of the tag and attribute names.
func Parse(r io.Reader) (*Element, error) {
	d := xml.NewDecoder(r)
	d.Strict = true
	d.CharsetReader = charset.NewReaderLabel

	var (
		root  *Element
		stack []*Element
	)
	fail := func(msg string) error {
		line, col := d.InputPos()
		return &SyntaxError{Line: line, Column: col, Msg: msg}
	}

	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var se *xml.SyntaxError
			if errors.As(err, &se) {
				_, col := d.InputPos()
				return nil, &SyntaxError{Line: se.Line, Column: col, Msg: se.Msg}
			}
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: qualifiedName(t.Name)}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: qualifiedName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fail("junk after document element")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fail("unexpected end element </" + qualifiedName(t.Name) + ">")
			}
			top := stack[len(stack)-1]
			if name := qualifiedName(t.Name); name != top.Tag {
				return nil, fail("mismatched tag: <" + top.Tag + "> closed by </" + name + ">")
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, fail("text outside of document element")
				}
				continue
			}
			top := stack[len(stack)-1]
			if n := len(top.Children); n > 0 {
				top.Children[n-1].Tail += string(t)
			} else {
				top.Text += string(t)
			}
		}
	}

	if len(stack) > 0 {
		return nil, fail("unclosed element <" + stack[len(stack)-1].Tag + ">")
	}
	if root == nil {
		return nil, fail("no element found")
	}
	return root, nil
}

// ParseString parses a document held in a string.
func ParseString(s string) (*Element, error) {
	return Parse(strings.NewReader(s))
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
