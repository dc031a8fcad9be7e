package export

import (
	"bytes"
	"context"
	"html"

	"github.com/gamelistedit/gamelistedit/internal/gamelist"
	"github.com/gamelistedit/gamelistedit/internal/markup"
	"github.com/gamelistedit/gamelistedit/internal/progress"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

// BuildXML builds the <gameList> tree for rows. The document's own
// fragments are cloned, never shared. Field values are HTML-escaped before
// they enter the tree, so the encoder escapes them a second time; the loader
// undoes both.
func BuildXML(ctx context.Context, doc *gamelist.Document, rows []*gamelist.Row, o *Options, sink progress.Sink) (*markup.Element, int, error) {
	root := markup.NewElement(gamelist.RootTag)
	passthrough := !o.ExcludeForeign
	groupings := passthrough && len(doc.Groupings) > 0

	emitted := 0
	err := rowLoop(ctx, rows, sink, func(row *gamelist.Row) error {
		fields := reduce(doc.Schema(), row.Current, o)
		foreign := foreignOf(row, o)
		if !emit(fields, foreign, o, groupings) {
			return nil
		}
		game := markup.SubElement(root, gamelist.GameTag)
		for _, f := range fields {
			v := html.EscapeString(f.value)
			if types.IsAttributeTag(f.tag) {
				game.Set(f.tag, v)
			} else {
				markup.SubElement(game, f.tag).Text = v
			}
		}
		game.Append(markup.CloneAll(foreign)...)
		emitted++
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	if passthrough {
		root.Append(markup.CloneAll(doc.Groupings)...)
		root.Append(markup.CloneAll(doc.Others)...)
	}
	if o.Indent != nil {
		markup.Indent(root, 0, *o.Indent)
	}
	return root, emitted, nil
}

func encodeXML(ctx context.Context, doc *gamelist.Document, rows []*gamelist.Row, o *Options, sink progress.Sink) ([]byte, int, error) {
	root, emitted, err := BuildXML(ctx, doc, rows, o, sink)
	if err != nil {
		return nil, 0, err
	}
	var buf bytes.Buffer
	if err := markup.EncodeDocument(&buf, root); err != nil {
		return nil, 0, err
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), emitted, nil
}
