package export

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cast"

	"github.com/gamelistedit/gamelistedit/internal/gamelist"
	"github.com/gamelistedit/gamelistedit/internal/markup"
	"github.com/gamelistedit/gamelistedit/internal/progress"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

func encodeJSON(ctx context.Context, doc *gamelist.Document, rows []*gamelist.Row, o *Options, sink progress.Sink) ([]byte, int, error) {
	list := make([]interface{}, 0, len(rows))
	err := rowLoop(ctx, rows, sink, func(row *gamelist.Row) error {
		fields := reduce(doc.Schema(), row.Current, o)
		foreign := foreignOf(row, o)
		if !emit(fields, foreign, o, false) {
			return nil
		}
		game := markup.NewObject()
		for _, f := range fields {
			game.Set(f.tag, jsonValue(f.tag, f.value))
		}
		for _, el := range foreign {
			merge(game, markup.ToMap(el))
		}
		list = append(list, game)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	emitted := len(list)

	if !o.ExcludeForeign {
		for _, el := range doc.Groupings {
			list = append(list, markup.ToMap(el))
		}
		for _, el := range doc.Others {
			list = append(list, markup.ToMap(el))
		}
	}

	root := markup.NewObject()
	root.Set(gamelist.RootTag, list)
	data, err := marshal(root)
	if err != nil {
		return nil, 0, err
	}
	if o.Indent != nil {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", strings.Repeat(" ", *o.Indent)); err != nil {
			return nil, 0, err
		}
		data = buf.Bytes()
	}
	return append(data, '\n'), emitted, nil
}

// marshal encodes v compactly without escaping markup characters.
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func merge(dst, src *orderedmap.OrderedMap) {
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		dst.Set(k, v)
	}
}

// jsonValue coerces a non-empty cell to its JSON type. Values that do not
// parse keep their string form.
func jsonValue(tag, v string) interface{} {
	if v == "" {
		return v
	}
	switch tag {
	case types.TagFavorite, types.TagHidden, types.TagKidGame:
		return v == types.True
	case types.TagID, types.TagPlayers, types.TagPlayCount:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	case types.TagRating:
		if f, err := cast.ToFloat64E(strings.TrimSpace(v)); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	case types.TagGenre:
		return splitGenre(v)
	}
	return v
}

// splitGenre splits on "/", or on "," when there is no slash. A value
// without separators stays a string.
func splitGenre(v string) interface{} {
	sep := ""
	switch {
	case strings.Contains(v, "/"):
		sep = "/"
	case strings.Contains(v, ","):
		sep = ","
	default:
		return v
	}
	parts := strings.Split(v, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
