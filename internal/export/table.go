package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"

	"github.com/spf13/cast"

	"github.com/gamelistedit/gamelistedit/internal/gamelist"
	"github.com/gamelistedit/gamelistedit/internal/markup"
	"github.com/gamelistedit/gamelistedit/internal/progress"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

// table collects flat string records for the CSV and TXT formats. Foreign
// fragments add columns in the order they are first seen; the column set
// only grows.
type table struct {
	header []string
	known  map[string]struct{}
}

func newTable(doc *gamelist.Document, o *Options) *table {
	t := &table{known: make(map[string]struct{})}
	for _, tag := range doc.Schema().Tags() {
		if !o.IsExcluded(tag) {
			t.addColumn(tag)
		}
	}
	return t
}

func (t *table) addColumn(name string) {
	if _, ok := t.known[name]; ok {
		return
	}
	t.known[name] = struct{}{}
	t.header = append(t.header, name)
}

// record flattens fields and fragments into one record, discovering new
// columns on the way.
func (t *table) record(fields []field, foreign []*markup.Element) map[string]string {
	rec := make(map[string]string, len(fields)+len(foreign))
	for _, f := range fields {
		rec[f.tag] = f.value
	}
	for _, el := range foreign {
		m := markup.ToMap(el)
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			t.addColumn(k)
			rec[k] = flatten(v)
		}
	}
	return rec
}

// flatten renders a converted fragment value as a single cell. Scalars are
// stringified, objects and lists become compact JSON, null is empty.
func flatten(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	data, err := marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func encodeCSV(ctx context.Context, doc *gamelist.Document, rows []*gamelist.Row, o *Options, sink progress.Sink) ([]byte, int, error) {
	t := newTable(doc, o)
	var records []map[string]string
	err := rowLoop(ctx, rows, sink, func(row *gamelist.Row) error {
		fields := reduce(doc.Schema(), row.Current, o)
		foreign := foreignOf(row, o)
		if !emit(fields, foreign, o, false) {
			return nil
		}
		records = append(records, t.record(fields, foreign))
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(t.header); err != nil {
		return nil, 0, err
	}
	line := make([]string, len(t.header))
	for _, rec := range records {
		for i, col := range t.header {
			line[i] = rec[col]
		}
		if err := w.Write(line); err != nil {
			return nil, 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(records), nil
}

func encodeTXT(ctx context.Context, doc *gamelist.Document, rows []*gamelist.Row, o *Options, sink progress.Sink) ([]byte, int, error) {
	t := newTable(doc, o)
	pad := ""
	if o.Indent != nil {
		pad = strings.Repeat("\n", *o.Indent)
	}

	var lines []string
	emitted := 0
	err := rowLoop(ctx, rows, sink, func(row *gamelist.Row) error {
		fields := reduce(doc.Schema(), row.Current, o)
		foreign := foreignOf(row, o)
		if !emit(fields, foreign, o, false) {
			return nil
		}
		rec := t.record(fields, foreign)

		var game []string
		for _, col := range t.header {
			v, ok := rec[col]
			if (!ok || v == "") && o.RemoveEmpty {
				continue
			}
			game = append(game, v)
		}
		if pad != "" && len(lines) > 0 && len(game) > 0 {
			game[0] = pad + game[0]
		}
		lines = append(lines, game...)
		emitted++
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return joinLines(lines), emitted, nil
}

func encodeCFG(ctx context.Context, doc *gamelist.Document, rows []*gamelist.Row, _ *Options, sink progress.Sink) ([]byte, int, error) {
	col, ok := doc.Schema().Index(types.TagPath)
	if !ok {
		return joinLines(nil), 0, nil
	}
	var lines []string
	err := rowLoop(ctx, rows, sink, func(row *gamelist.Row) error {
		if p := row.Current[col]; p != "" {
			lines = append(lines, p)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return joinLines(lines), len(lines), nil
}

func joinLines(lines []string) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
