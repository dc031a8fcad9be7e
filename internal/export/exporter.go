package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
	"github.com/gamelistedit/gamelistedit/internal/gamelist"
	"github.com/gamelistedit/gamelistedit/internal/journal"
	"github.com/gamelistedit/gamelistedit/internal/markup"
	"github.com/gamelistedit/gamelistedit/internal/progress"
	"github.com/gamelistedit/gamelistedit/internal/storage"
)

type encoder func(context.Context, *gamelist.Document, []*gamelist.Row, *Options, progress.Sink) ([]byte, int, error)

var encoders = map[Format]encoder{
	FormatXML:  encodeXML,
	FormatJSON: encodeJSON,
	FormatCSV:  encodeCSV,
	FormatTXT:  encodeTXT,
	FormatCFG:  encodeCFG,
}

// Result is a serialized document.
type Result struct {
	Format Format
	Data   []byte
	// Rows is the number of rows written.
	Rows int
}

// Serialize renders doc in memory. selection is honored when
// o.ApplyFilter is set; see Rows.
func Serialize(ctx context.Context, doc *gamelist.Document, selection []int, o *Options, sink progress.Sink) (*Result, error) {
	if doc == nil {
		return nil, gerrors.NewInvalidArgument(gerrors.ErrCategoryExport, "no document")
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if !o.ApplyFilter {
		selection = nil
	}
	data, n, err := encoders[o.Format](ctx, doc, Rows(doc, selection), o, progress.OrNop(sink))
	if err != nil {
		return nil, err
	}
	return &Result{Format: o.Format, Data: data, Rows: n}, nil
}

// Confirm asks the user a yes/no question.
type Confirm func(message string) bool

// Exporter writes serialized documents to files.
type Exporter struct {
	storage storage.FileStorage
	journal journal.Journal
	confirm Confirm
	sink    progress.Sink
	logger  *zap.Logger
	backup  bool
	noSame  bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithJournal records every successful file export in j.
func WithJournal(j journal.Journal) Option {
	return func(e *Exporter) { e.journal = j }
}

// WithConfirm sets the callback consulted before risky overwrites. Without
// one every overwrite is allowed.
func WithConfirm(c Confirm) Option {
	return func(e *Exporter) { e.confirm = c }
}

// WithProgress sets the progress sink.
func WithProgress(s progress.Sink) Option {
	return func(e *Exporter) { e.sink = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBackup keeps a compressed copy of a replaced target.
func WithBackup(enabled bool) Option {
	return func(e *Exporter) { e.backup = enabled }
}

// WithNoSame refuses to overwrite the file the document was loaded from.
func WithNoSame(enabled bool) Option {
	return func(e *Exporter) { e.noSame = enabled }
}

// NewExporter creates an exporter writing through s.
func NewExporter(s storage.FileStorage, opts ...Option) *Exporter {
	e := &Exporter{
		storage: s,
		sink:    progress.Nop{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export serializes doc and writes it to path. The document is marked saved
// only after the target is confirmed to exist; on any error it is left
// untouched, as is the previous content of path.
func (e *Exporter) Export(ctx context.Context, doc *gamelist.Document, selection []int, path string, o *Options) (*Result, error) {
	if path == "" {
		return nil, gerrors.NewInvalidArgument(gerrors.ErrCategoryExport, "no export path")
	}
	if doc != nil && doc.Source != "" && samePath(doc.Source, path) {
		if e.noSame {
			return nil, gerrors.NewExportError(gerrors.CodeDeclined, "cannot overwrite the loaded file", path, nil)
		}
		if !e.ask(fmt.Sprintf("The export file is the same as the loaded file and will be overwritten: %s", path)) {
			return nil, gerrors.NewExportError(gerrors.CodeDeclined, "export declined", path, nil)
		}
	}
	if o != nil && o.Format == FormatXML {
		if err := e.checkXMLTarget(ctx, path); err != nil {
			return nil, err
		}
	}

	res, err := Serialize(ctx, doc, selection, o, e.sink)
	if err != nil {
		return nil, err
	}

	var backup string
	if e.backup {
		if backup, err = e.storage.Backup(ctx, path); err != nil {
			return nil, err
		}
	}
	if err := e.storage.WriteFile(ctx, path, res.Data); err != nil {
		e.logger.Warn("export failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	ok, err := e.storage.Exists(ctx, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, gerrors.NewExportError(gerrors.CodeIOError, "file missing after write", path, nil)
	}
	doc.MarkSaved()

	e.logger.Info("file successfully exported",
		zap.String("path", path),
		zap.String("format", string(res.Format)),
		zap.Int("rows", res.Rows),
		zap.Int("bytes", len(res.Data)))

	if e.journal != nil {
		target := path
		if abs, err := filepath.Abs(path); err == nil {
			target = abs
		}
		entry := &journal.Entry{
			Target:   target,
			Source:   doc.Source,
			Format:   string(res.Format),
			Rows:     res.Rows,
			Bytes:    int64(len(res.Data)),
			Checksum: journal.Checksum(res.Data),
			Backup:   backup,
		}
		if err := e.journal.Record(ctx, entry); err != nil {
			e.logger.Warn("failed to journal export", zap.String("path", path), zap.Error(err))
		}
	}
	return res, nil
}

// WriteTo serializes doc to w. The unsaved state of doc is not changed.
func (e *Exporter) WriteTo(ctx context.Context, doc *gamelist.Document, selection []int, w io.Writer, o *Options) (*Result, error) {
	res, err := Serialize(ctx, doc, selection, o, e.sink)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(res.Data); err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCategoryExport, gerrors.CodeIOError, "write failed", err)
	}
	return res, nil
}

// checkXMLTarget asks before replacing an existing file that is not XML.
func (e *Exporter) checkXMLTarget(ctx context.Context, path string) error {
	exists, err := e.storage.Exists(ctx, path)
	if err != nil || !exists {
		return nil
	}
	data, err := e.storage.ReadFile(ctx, path)
	if err != nil {
		return nil
	}
	if _, err := markup.Parse(bytes.NewReader(data)); err == nil {
		return nil
	}
	if e.ask(fmt.Sprintf("You are about to overwrite and replace a non XML file: %s", path)) {
		return nil
	}
	return gerrors.NewExportError(gerrors.CodeDeclined, "export declined", path, nil)
}

func (e *Exporter) ask(msg string) bool {
	if e.confirm == nil {
		return true
	}
	return e.confirm(msg)
}

func samePath(a, b string) bool {
	if aa, err := filepath.Abs(a); err == nil {
		a = aa
	}
	if bb, err := filepath.Abs(b); err == nil {
		b = bb
	}
	return a == b
}
