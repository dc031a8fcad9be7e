package export

import (
	"context"

	"github.com/gamelistedit/gamelistedit/internal/gamelist"
	"github.com/gamelistedit/gamelistedit/internal/markup"
	"github.com/gamelistedit/gamelistedit/internal/progress"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

// Rows returns the rows to export. A nil selection selects every row in
// document order; otherwise the listed rows are returned in selection order
// and indexes outside the document are skipped.
func Rows(doc *gamelist.Document, selection []int) []*gamelist.Row {
	if selection == nil {
		return doc.Rows()
	}
	rows := make([]*gamelist.Row, 0, len(selection))
	for _, i := range selection {
		if i >= 0 && i < doc.Len() {
			rows = append(rows, doc.Row(i))
		}
	}
	return rows
}

type field struct {
	tag   string
	value string
}

// reduce returns the non-excluded schema fields of rec in schema order.
// Empty id/source and boolean cells holding anything but true/false are
// blanked. With RemoveEmpty blank fields are dropped.
func reduce(schema *types.Schema, rec types.Record, o *Options) []field {
	fields := make([]field, 0, schema.Len())
	for col, tag := range schema.Tags() {
		if o.IsExcluded(tag) {
			continue
		}
		v := rec[col]
		if types.IsBoolTag(tag) && v != types.True && v != types.False {
			v = ""
		}
		if v == "" && o.RemoveEmpty {
			continue
		}
		fields = append(fields, field{tag: tag, value: v})
	}
	return fields
}

func hasContent(fields []field) bool {
	for _, f := range fields {
		if f.value != "" {
			return true
		}
	}
	return false
}

// foreignOf returns the fragments of row that go into the output.
func foreignOf(row *gamelist.Row, o *Options) []*markup.Element {
	if o.ExcludeForeign || len(row.Foreign) == 0 {
		return nil
	}
	out := make([]*markup.Element, 0, len(row.Foreign))
	for _, el := range row.Foreign {
		if !o.IsExcluded(el.Tag) {
			out = append(out, el)
		}
	}
	return out
}

// emit decides whether a reduced row is written. Without RemoveEmpty every
// row is; otherwise a row needs content, foreign fragments or, for XML,
// document groupings that will be written alongside.
func emit(fields []field, foreign []*markup.Element, o *Options, groupings bool) bool {
	if !o.RemoveEmpty {
		return true
	}
	return hasContent(fields) || len(foreign) > 0 || groupings
}

// rowLoop runs fn for every row, reporting progress and stopping when ctx is
// done.
func rowLoop(ctx context.Context, rows []*gamelist.Row, sink progress.Sink, fn func(*gamelist.Row) error) error {
	if len(rows) > 0 {
		sink.SetRange(0, len(rows))
	}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
		sink.SetValue(i + 1)
	}
	return nil
}
