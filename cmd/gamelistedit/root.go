package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gamelistedit/gamelistedit/internal/config"
	"github.com/gamelistedit/gamelistedit/internal/export"
	"github.com/gamelistedit/gamelistedit/internal/gamelist"
	"github.com/gamelistedit/gamelistedit/internal/journal"
	"github.com/gamelistedit/gamelistedit/internal/logging"
	"github.com/gamelistedit/gamelistedit/internal/progress"
	"github.com/gamelistedit/gamelistedit/internal/storage"
)

// flags holds the command line overrides. Zero values leave the
// configuration untouched unless the flag was set explicitly.
type flags struct {
	configFile string
	envFile    string
	importPath string
	exportPath string

	format             string
	indent             int
	noIndent           bool
	keepEmpty          bool
	exclude            []string
	excludeWhitelist   []string
	excludeTurnoff     bool
	excludeLock        bool
	excludeUnsupported bool
	applyFilter        bool
	backup             bool
	noSame             bool

	tagOrder []string
	sort     []string
	noSort   bool
	filter   string
	filterBy string
	regex    bool
	caseSens bool

	journalPath string
	logLevel    string
	logFormat   string
	yes         bool
	quiet       bool
}

// env carries what every command needs at run time.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return newRootCmdFs(env{stdin: stdin, stdout: stdout, stderr: stderr, fs: afero.NewOsFs()})
}

func newRootCmdFs(e env) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "gamelistedit",
		Short: "Edit, filter and convert gamelist.xml files",
		Long: "gamelistedit loads a gamelist.xml file and exports it as XML, JSON, CSV,\n" +
			"plain text or a path list, optionally filtered and sorted.\n\n" +
			"Settings are read from the --config file, then GAMELISTEDIT_* environment\n" +
			"variables (a .env file is honored), then command line flags.",
		Example: "  gamelistedit -i gamelist.xml -e games.csv\n" +
			"  gamelistedit -i gamelist.xml --filter pac --filter-by name -f json\n" +
			"  gamelistedit -i gamelist.xml -e gamelist.xml --indent 4",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), e, f, cfg)
		},
	}
	cmd.SetIn(e.stdin)
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)

	fl := cmd.PersistentFlags()
	fl.StringVarP(&f.configFile, "config", "c", "", "configuration file (YAML or JSON)")
	fl.StringVar(&f.envFile, "env-file", ".env", "dotenv file with GAMELISTEDIT_* variables")
	fl.StringVarP(&f.importPath, "import", "i", "", "gamelist file to load")
	fl.StringVarP(&f.exportPath, "export", "e", "", "file to export to, empty or - for stdout")
	fl.StringVarP(&f.format, "format", "f", "", "export format: xml, json, csv, txt, cfg (default from extension)")
	fl.IntVar(&f.indent, "indent", 0, "indent width for xml/json, blank lines between txt rows")
	fl.BoolVar(&f.noIndent, "no-indent", false, "disable pretty printing")
	fl.BoolVar(&f.keepEmpty, "keep-empty", false, "keep empty values and rows")
	fl.StringSliceVarP(&f.exclude, "exclude", "x", nil, "tags to leave out of the export")
	fl.StringSliceVar(&f.excludeWhitelist, "exclude-whitelist", nil, "export only these tags")
	fl.BoolVar(&f.excludeTurnoff, "exclude-turnoff", false, "also exclude the hidden columns")
	fl.BoolVar(&f.excludeLock, "exclude-lock", false, "also exclude the locked columns")
	fl.BoolVar(&f.excludeUnsupported, "exclude-unsupported", false, "drop tags the editor does not know")
	fl.BoolVar(&f.applyFilter, "apply-filter", false, "export only the filtered and sorted rows")
	fl.BoolVar(&f.backup, "backup", false, "keep a compressed backup of a replaced file")
	fl.BoolVar(&f.noSame, "no-same", false, "refuse to overwrite the imported file")
	fl.StringSliceVar(&f.tagOrder, "tag-order", nil, "tags moved to the front of the column order")
	fl.StringSliceVarP(&f.sort, "sort", "s", nil, "tags to sort by, the last one is primary")
	fl.BoolVar(&f.noSort, "no-sort", false, "keep the document order")
	fl.StringVar(&f.filter, "filter", "", "only rows containing this text")
	fl.StringVar(&f.filterBy, "filter-by", "", "tag the filter applies to (default all)")
	fl.BoolVar(&f.regex, "regex", false, "treat the filter as a regular expression")
	fl.BoolVar(&f.caseSens, "case", false, "case sensitive filter")
	fl.StringVar(&f.journalPath, "journal", "", "SQLite export journal")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fl.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
	fl.BoolVarP(&f.yes, "yes", "y", false, "answer yes to overwrite questions")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "no progress bar")

	cmd.AddCommand(newHistoryCmd(e, f), newRestoreCmd(e), newGenresCmd(e, f))
	return cmd
}

// loadConfig layers the configuration: defaults or file, environment, flags.
// cmd is the command being executed, so persistent flags resolve for
// subcommands too.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	if f.envFile != "" {
		if err := godotenv.Load(f.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	var cfg *config.Config
	if f.configFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(f.configFile); err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	config.LoadFromEnv(cfg)

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("format") {
		cfg.Export.Format = f.format
	}
	if changed("indent") {
		n := f.indent
		cfg.Export.Indent = &n
	}
	if f.noIndent {
		cfg.Export.Indent = nil
	}
	if changed("keep-empty") {
		cfg.Export.KeepEmpty = f.keepEmpty
	}
	if changed("exclude") {
		cfg.Export.Exclude = f.exclude
	}
	if changed("exclude-whitelist") {
		cfg.Export.ExcludeWhitelist = f.excludeWhitelist
	}
	if changed("exclude-turnoff") {
		cfg.Export.ExcludeTurnoff = f.excludeTurnoff
	}
	if changed("exclude-lock") {
		cfg.Export.ExcludeLock = f.excludeLock
	}
	if changed("exclude-unsupported") {
		cfg.Export.ExcludeUnsupported = f.excludeUnsupported
	}
	if changed("apply-filter") {
		cfg.Export.ApplyFilter = f.applyFilter
	}
	if changed("backup") {
		cfg.Export.Backup = f.backup
	}
	if changed("no-same") {
		cfg.Export.NoSame = f.noSame
	}
	if changed("tag-order") {
		cfg.TagOrder = f.tagOrder
	}
	if changed("sort") {
		cfg.Sort = f.sort
	}
	if f.noSort {
		cfg.Sort = nil
	}
	if changed("filter") {
		cfg.Filter.Pattern = f.filter
	}
	if changed("filter-by") {
		cfg.Filter.By = f.filterBy
	}
	if changed("regex") {
		cfg.Filter.Regex = f.regex
	}
	if changed("case") {
		cfg.Filter.Case = f.caseSens
	}
	if changed("journal") {
		cfg.JournalPath = f.journalPath
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = f.logFormat
	}

	// without an interactive table the filter and sort only matter for export
	if cfg.Filter.Pattern != "" || len(cfg.Sort) > 0 {
		cfg.Export.ApplyFilter = true
	}

	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, e env, f *flags, cfg *config.Config) error {
	logger, err := logging.New(e.stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	sink, finish := newSink(e, f.quiet)
	defer finish()

	doc, err := gamelist.Load(ctx, e.fs, f.importPath, cfg.Schema(), sink, gamelist.WithLogger(logger))
	if err != nil {
		return err
	}
	doc.LockColumns(cfg.Lock)

	sel, err := cfg.View().Select(doc)
	if err != nil {
		return err
	}

	opts, err := cfg.ExportOptions(f.exportPath)
	if err != nil {
		return err
	}

	exOpts := []export.Option{
		export.WithLogger(logger),
		export.WithProgress(sink),
		export.WithBackup(cfg.Export.Backup),
		export.WithNoSame(cfg.Export.NoSame),
		export.WithConfirm(newConfirm(e, f.yes)),
	}
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		exOpts = append(exOpts, export.WithJournal(j))
	}
	ex := export.NewExporter(storage.NewLocalStorage(e.fs), exOpts...)

	if f.exportPath == "" || f.exportPath == "-" {
		_, err = ex.WriteTo(ctx, doc, sel, e.stdout, opts)
		return err
	}
	res, err := ex.Export(ctx, doc, sel, f.exportPath, opts)
	if err != nil {
		return err
	}
	logger.Debug("export finished", zap.Int("rows", res.Rows), zap.Int("selected", len(sel)))
	return nil
}

// newSink returns the progress bar on stderr, or a no-op sink when quiet.
func newSink(e env, quiet bool) (progress.Sink, func()) {
	if quiet {
		return progress.Nop{}, func() {}
	}
	bar := progress.NewBar(e.stderr, "rows")
	return bar, func() { _ = bar.Finish() }
}

// newConfirm asks on stdin, defaulting to no.
func newConfirm(e env, yes bool) export.Confirm {
	if yes {
		return func(string) bool { return true }
	}
	reader := bufio.NewReader(e.stdin)
	return func(msg string) bool {
		fmt.Fprintf(e.stderr, "%s\nDo you want to continue? [y/N] ", msg)
		answer, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
