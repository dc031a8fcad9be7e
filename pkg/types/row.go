// Package types provides the core gamelist data types.
package types

// Record holds one cell value per schema column.
type Record []string

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// Equal reports whether both records hold the same cells.
func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

// IsBlank reports whether every cell is empty.
func (r Record) IsBlank() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}
