package gamelist

import (
	"context"
	"errors"
	"html"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
	"github.com/gamelistedit/gamelistedit/internal/markup"
	"github.com/gamelistedit/gamelistedit/internal/progress"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

type loadConfig struct {
	logger *zap.Logger
}

// LoadOption customizes Load and Read.
type LoadOption func(*loadConfig)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) LoadOption {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newLoadConfig(opts []LoadOption) *loadConfig {
	c := &loadConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the gamelist file at path. An empty path yields a new, empty
// document. On failure an empty document is returned together with a typed
// error (NOT_FOUND, IS_DIRECTORY, PARSE_ERROR, PERMISSION_DENIED, IO_ERROR);
// partially read data is never returned.
func Load(ctx context.Context, fs afero.Fs, path string, schema *types.Schema, sink progress.Sink, opts ...LoadOption) (*Document, error) {
	cfg := newLoadConfig(opts)
	if path == "" {
		return New(schema), nil
	}

	info, err := fs.Stat(path)
	if err != nil {
		return New(schema), gerrors.FromOS(gerrors.ErrCategoryLoad, path, err)
	}
	if info.IsDir() {
		return New(schema), gerrors.NewLoadError(gerrors.CodeIsDirectory, "path is a directory", path, nil)
	}

	f, err := fs.Open(path)
	if err != nil {
		return New(schema), gerrors.FromOS(gerrors.ErrCategoryLoad, path, err)
	}
	defer f.Close()

	doc, err := read(ctx, f, path, schema, sink, cfg)
	if err != nil {
		return New(schema), err
	}
	doc.Source = path

	cfg.logger.Debug("gamelist loaded",
		zap.String("path", path),
		zap.Int("rows", doc.Len()),
		zap.Int("groupings", len(doc.Groupings)),
		zap.Int("others", len(doc.Others)))
	return doc, nil
}

// Read parses a gamelist from r. The returned document has no Source.
func Read(ctx context.Context, r io.Reader, schema *types.Schema, sink progress.Sink, opts ...LoadOption) (*Document, error) {
	doc, err := read(ctx, r, "", schema, sink, newLoadConfig(opts))
	if err != nil {
		return New(schema), err
	}
	return doc, nil
}

func read(ctx context.Context, r io.Reader, path string, schema *types.Schema, sink progress.Sink, cfg *loadConfig) (*Document, error) {
	sink = progress.OrNop(sink)

	root, err := markup.Parse(r)
	if err != nil {
		var se *markup.SyntaxError
		if errors.As(err, &se) {
			cfg.logger.Debug("gamelist parse failed", zap.String("path", path), zap.Error(err))
			return nil, gerrors.NewLoadError(gerrors.CodeParseError, "could not parse gamelist XML file", path, err)
		}
		return nil, gerrors.FromOS(gerrors.ErrCategoryLoad, path, err)
	}

	doc := New(schema)
	var games []*markup.Element
	for _, child := range root.Children {
		switch child.Tag {
		case GameTag:
			games = append(games, child)
		case GroupingTag:
			doc.Groupings = append(doc.Groupings, child.Detached())
		default:
			doc.Others = append(doc.Others, child.Detached())
		}
	}

	sink.SetRange(0, len(games))
	for i, game := range games {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.appendRow(rowFromElement(doc.schema, game))
		sink.SetValue(i + 1)
	}
	return doc, nil
}

// rowFromElement maps a <game> element onto the schema. Known child tags fill
// their column (first occurrence wins), unknown ones are kept as foreign
// fragments.
func rowFromElement(schema *types.Schema, game *markup.Element) *Row {
	current := schema.NewRecord()
	for _, tag := range []string{types.TagID, types.TagSource} {
		col, ok := schema.Index(tag)
		if !ok {
			continue
		}
		if v, ok := game.Get(tag); ok {
			current[col] = html.UnescapeString(v)
		}
	}

	var foreign []*markup.Element
	filled := make(map[int]struct{})
	for _, child := range game.Children {
		col, ok := schema.Index(child.Tag)
		if !ok {
			foreign = append(foreign, child.Detached())
			continue
		}
		if _, done := filled[col]; done {
			continue
		}
		filled[col] = struct{}{}
		current[col] = html.UnescapeString(child.Text)
	}

	return &Row{
		Current:  current,
		Original: current.Clone(),
		Foreign:  foreign,
	}
}
