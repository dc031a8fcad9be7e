package gamelist

import (
	"fmt"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
	"github.com/gamelistedit/gamelistedit/internal/markup"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

// Insert appends an empty row and returns its index.
func (d *Document) Insert() int {
	d.unsaved = true
	return d.appendRow(&Row{
		Current:  d.schema.NewRecord(),
		Original: d.schema.NewRecord(),
	})
}

// Duplicate appends a copy of row src and returns the new index. Cells of
// clearTags are blanked in the copy; unknown tags are ignored. The copy starts
// out unedited.
func (d *Document) Duplicate(src int, clearTags []string) int {
	from := d.rows[src]
	current := from.Current.Clone()
	for _, tag := range clearTags {
		if col, ok := d.schema.Index(tag); ok {
			current[col] = ""
		}
	}
	d.unsaved = true
	return d.appendRow(&Row{
		Current:  current,
		Original: current.Clone(),
		Foreign:  markup.CloneAll(from.Foreign),
	})
}

// Remove deletes row i and returns i. It panics when i is out of range.
func (d *Document) Remove(i int) int {
	if i < 0 || i >= len(d.rows) {
		panic(fmt.Sprintf("gamelist: remove index %d out of range [0,%d)", i, len(d.rows)))
	}
	copy(d.rows[i:], d.rows[i+1:])
	d.rows[len(d.rows)-1] = nil
	d.rows = d.rows[:len(d.rows)-1]
	d.unsaved = true
	return i
}

// Cell returns the current value at row, col.
func (d *Document) Cell(row, col int) string {
	return d.rows[row].Current[col]
}

// SetCell replaces the current value at row, col. Locked columns are still
// writable; locks only affect presentation.
func (d *Document) SetCell(row, col int, value string) {
	d.rows[row].Current[col] = value
	d.unsaved = true
}

// Value returns the current value of tag in row, or "" for unknown tags.
func (d *Document) Value(row int, tag string) string {
	col, ok := d.schema.Index(tag)
	if !ok {
		return ""
	}
	return d.rows[row].Current[col]
}

// SetValue sets the current value of tag in row.
func (d *Document) SetValue(row int, tag, value string) error {
	col, ok := d.schema.Index(tag)
	if !ok {
		return gerrors.Wrap(gerrors.ErrCategoryEdit, gerrors.CodeInvalidArgument, fmt.Sprintf("tag %q", tag), types.ErrUnknownTag)
	}
	d.SetCell(row, col, value)
	return nil
}

// RevertRow restores the current values of row i from its original snapshot.
func (d *Document) RevertRow(i int) {
	r := d.rows[i]
	r.Current = r.Original.Clone()
	d.unsaved = true
}
