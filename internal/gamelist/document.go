// Package gamelist holds the in-memory gamelist document: rows with their
// current and original cell values, passthrough markup the schema does not
// model, and the edit tracking derived from both snapshots.
package gamelist

import (
	"fmt"

	"github.com/gamelistedit/gamelistedit/internal/markup"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

// Reserved element names of the gamelist format.
const (
	RootTag     = "gameList"
	GameTag     = "game"
	GroupingTag = "folder"
)

// Row is one game entry. Current is edited, Original is the snapshot taken at
// load or at the last successful export, and Foreign holds the row's child
// elements the schema does not know about.
type Row struct {
	Current  types.Record
	Original types.Record
	Foreign  []*markup.Element
}

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	return &Row{
		Current:  r.Current.Clone(),
		Original: r.Original.Clone(),
		Foreign:  markup.CloneAll(r.Foreign),
	}
}

// Document is a loaded gamelist. It is owned by a single editing session and
// is not safe for concurrent use.
type Document struct {
	schema *types.Schema
	rows   []*Row

	// Groupings are the <folder> elements of the root, in document order.
	Groupings []*markup.Element
	// Others are all root children that are neither games nor groupings.
	Others []*markup.Element
	// Source is the file the document was loaded from, empty for new documents.
	Source string

	unsaved bool
	locked  map[int]struct{}
}

// New returns an empty document using schema.
func New(schema *types.Schema) *Document {
	if schema == nil {
		schema = types.NewSchema(nil)
	}
	return &Document{
		schema: schema,
		locked: make(map[int]struct{}),
	}
}

// Schema returns the column layout of the document.
func (d *Document) Schema() *types.Schema {
	return d.schema
}

// Len returns the number of rows.
func (d *Document) Len() int {
	return len(d.rows)
}

// Row returns row i.
func (d *Document) Row(i int) *Row {
	return d.rows[i]
}

// Rows returns the rows in document order. The slice must not be modified.
func (d *Document) Rows() []*Row {
	return d.rows
}

// HasData reports whether the document has at least one row.
func (d *Document) HasData() bool {
	return len(d.rows) > 0
}

// appendRow adds a row after checking it fits the schema.
func (d *Document) appendRow(r *Row) int {
	width := d.schema.Len()
	if len(r.Current) != width || len(r.Original) != width {
		panic(fmt.Errorf("gamelist: %w: row %d/%d, schema %d",
			types.ErrRecordLength, len(r.Current), len(r.Original), width))
	}
	d.rows = append(d.rows, r)
	return len(d.rows) - 1
}
