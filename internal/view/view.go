// Package view computes which rows of a document are visible, and in which
// order, for a filter and a list of sort tags. Exports use the result as
// their row selection.
package view

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fvbommel/sortorder"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
	"github.com/gamelistedit/gamelistedit/internal/gamelist"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

// Selection lists row indexes in display order.
type Selection []int

// Filter matches rows by the content of one column or of any column.
type Filter struct {
	// Tag restricts matching to one column. Empty matches any column.
	Tag string
	// Pattern is a substring, or a regular expression when Regex is set.
	// An empty pattern matches every row.
	Pattern       string
	Regex         bool
	CaseSensitive bool
}

type matchFunc func(string) bool

func (f *Filter) matcher() (matchFunc, error) {
	if f.Regex {
		flags := "(?s)"
		if !f.CaseSensitive {
			flags = "(?is)"
		}
		re, err := regexp.Compile(flags + f.Pattern)
		if err != nil {
			return nil, gerrors.Wrap(gerrors.ErrCategoryConfig, gerrors.CodeInvalidArgument,
				fmt.Sprintf("invalid filter expression %q", f.Pattern), err)
		}
		return re.MatchString, nil
	}
	if f.CaseSensitive {
		return func(s string) bool { return strings.Contains(s, f.Pattern) }, nil
	}
	p := strings.ToLower(f.Pattern)
	return func(s string) bool { return strings.Contains(strings.ToLower(s), p) }, nil
}

// View is a filter plus sort order over a document.
type View struct {
	Filter *Filter
	// Sort lists the tags to sort by. Sorting is applied tag by tag with a
	// stable sort, so the last tag is the primary key.
	Sort []string
}

// Select returns the visible rows of doc in display order. Unknown filter or
// sort tags are ignored.
func (v *View) Select(doc *gamelist.Document) (Selection, error) {
	sel, err := Apply(doc, v.Filter)
	if err != nil {
		return nil, err
	}
	SortBy(doc, sel, v.Sort...)
	return sel, nil
}

// Apply returns the rows of doc that pass f, in document order. A nil filter
// passes every row.
func Apply(doc *gamelist.Document, f *Filter) (Selection, error) {
	sel := make(Selection, 0, doc.Len())
	if f == nil || f.Pattern == "" {
		for i := 0; i < doc.Len(); i++ {
			sel = append(sel, i)
		}
		return sel, nil
	}

	match, err := f.matcher()
	if err != nil {
		return nil, err
	}
	cols := []int(nil)
	if f.Tag != "" {
		col, ok := doc.Schema().Index(f.Tag)
		if !ok {
			return nil, gerrors.Wrap(gerrors.ErrCategoryConfig, gerrors.CodeInvalidArgument, fmt.Sprintf("filter tag %q", f.Tag), types.ErrUnknownTag)
		}
		cols = []int{col}
	}

	for i, row := range doc.Rows() {
		if cols == nil {
			for _, v := range row.Current {
				if match(v) {
					sel = append(sel, i)
					break
				}
			}
			continue
		}
		if match(row.Current[cols[0]]) {
			sel = append(sel, i)
		}
	}
	return sel, nil
}

// SortBy sorts sel in place by each tag in turn using natural order.
func SortBy(doc *gamelist.Document, sel Selection, tags ...string) {
	for _, tag := range tags {
		col, ok := doc.Schema().Index(tag)
		if !ok {
			continue
		}
		sort.SliceStable(sel, func(a, b int) bool {
			return sortorder.NaturalLess(doc.Cell(sel[a], col), doc.Cell(sel[b], col))
		})
	}
}
