package gamelist

// IsCellEdited reports whether the current value at row, col differs from the
// original snapshot.
func (d *Document) IsCellEdited(row, col int) bool {
	r := d.rows[row]
	return r.Current[col] != r.Original[col]
}

// IsRowEdited reports whether any cell of row differs from its snapshot.
func (d *Document) IsRowEdited(row int) bool {
	r := d.rows[row]
	return !r.Current.Equal(r.Original)
}

// EditedCells returns the column indexes of edited cells in row.
func (d *Document) EditedCells(row int) []int {
	r := d.rows[row]
	var cols []int
	for col := range r.Current {
		if r.Current[col] != r.Original[col] {
			cols = append(cols, col)
		}
	}
	return cols
}

// IsEdited reports whether any row is edited.
func (d *Document) IsEdited() bool {
	for i := range d.rows {
		if d.IsRowEdited(i) {
			return true
		}
	}
	return false
}

// IsUnsaved reports whether the document was mutated since it was loaded or
// last exported. Unlike IsEdited it stays set after removals, insertions and
// edits that were typed back to their original value.
func (d *Document) IsUnsaved() bool {
	return d.unsaved
}

// MarkSaved records a successful export: the unsaved flag is cleared and every
// row's original snapshot is taken from its current values.
func (d *Document) MarkSaved() {
	for _, r := range d.rows {
		r.Original = r.Current.Clone()
	}
	d.unsaved = false
}
