// Package config holds the settings of a gamelistedit run: column order and
// locks, the active filter and sort, and the export options.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
	"github.com/gamelistedit/gamelistedit/internal/export"
	"github.com/gamelistedit/gamelistedit/internal/view"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

// EnvPrefix prefixes every environment variable read by LoadFromEnv.
const EnvPrefix = "GAMELISTEDIT_"

// Config holds the settings of one run.
type Config struct {
	// TagOrder moves the listed tags to the front of the column order.
	TagOrder []string `json:"tag_order" yaml:"tag_order"`

	// Sort lists the tags the view is sorted by; the last one is primary.
	Sort []string `json:"sort" yaml:"sort"`

	// Turnoff lists columns hidden in the view.
	Turnoff []string `json:"turnoff" yaml:"turnoff"`

	// Lock lists columns protected from editing.
	Lock []string `json:"lock" yaml:"lock"`

	// IgnoreCopy lists tags cleared when a row is duplicated. Empty means
	// the locked tags.
	IgnoreCopy []string `json:"ignore_copy" yaml:"ignore_copy"`

	// GenreGroups keeps "A/B" genres as one entry in genre lists.
	GenreGroups bool `json:"genre_groups" yaml:"genre_groups"`

	// Filter is the active row filter.
	Filter FilterConfig `json:"filter" yaml:"filter"`

	// Export configures exports.
	Export ExportConfig `json:"export" yaml:"export"`

	// JournalPath is the SQLite export journal. Empty disables it.
	JournalPath string `json:"journal_path" yaml:"journal_path"`

	// Log configures logging.
	Log LogConfig `json:"log" yaml:"log"`
}

// FilterConfig holds the active filter.
type FilterConfig struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	// By restricts the filter to one tag. Empty matches all columns.
	By    string `json:"by" yaml:"by"`
	Regex bool   `json:"regex" yaml:"regex"`
	Case  bool   `json:"case" yaml:"case"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	// Format is xml, json, csv, txt or cfg. Empty derives it from the
	// target file extension.
	Format string `json:"format" yaml:"format"`

	// Exclude lists tags left out of exports.
	Exclude []string `json:"exclude" yaml:"exclude"`

	// ExcludeWhitelist, when set, excludes every tag not listed.
	ExcludeWhitelist []string `json:"exclude_whitelist" yaml:"exclude_whitelist"`

	// ExcludeTurnoff and ExcludeLock also exclude the hidden and locked tags.
	ExcludeTurnoff bool `json:"exclude_turnoff" yaml:"exclude_turnoff"`
	ExcludeLock    bool `json:"exclude_lock" yaml:"exclude_lock"`

	// ExcludeUnsupported drops tags the editor does not know.
	ExcludeUnsupported bool `json:"exclude_unsupported" yaml:"exclude_unsupported"`

	// KeepEmpty writes empty values and rows.
	KeepEmpty bool `json:"keep_empty" yaml:"keep_empty"`

	// Indent pretty prints XML and JSON, and separates TXT rows. Nil
	// disables it.
	Indent *int `json:"indent" yaml:"indent"`

	// ApplyFilter exports only the rows of the active filter and sort.
	ApplyFilter bool `json:"apply_filter" yaml:"apply_filter"`

	// Backup keeps a compressed copy of a replaced export target.
	Backup bool `json:"backup" yaml:"backup"`

	// NoSame refuses to overwrite the loaded file.
	NoSame bool `json:"no_same" yaml:"no_same"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level" yaml:"level"`
	// Format is console or json.
	Format string `json:"format" yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sort:    []string{types.TagName},
		Turnoff: []string{types.TagSortName, types.TagThumbnail},
		Lock:    []string{types.TagLastPlayed, types.TagPlayCount, types.TagID, types.TagSource},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Resolve applies the derived settings: the export exclude list absorbs the
// turnoff and lock lists when requested and is inverted by a whitelist, and
// IgnoreCopy defaults to the locked tags. The resulting exclude list is
// deduplicated and sorted. Resolve is idempotent.
func (c *Config) Resolve() {
	exclude := append([]string(nil), c.Export.Exclude...)
	if c.Export.ExcludeTurnoff {
		exclude = append(exclude, c.Turnoff...)
	}
	if c.Export.ExcludeLock {
		exclude = append(exclude, c.Lock...)
	}
	if len(c.Export.ExcludeWhitelist) > 0 {
		allowed := make(map[string]struct{}, len(c.Export.ExcludeWhitelist))
		for _, tag := range c.Export.ExcludeWhitelist {
			allowed[tag] = struct{}{}
		}
		for _, tag := range types.DefaultTags() {
			if _, ok := allowed[tag]; !ok {
				exclude = append(exclude, tag)
			}
		}
	}
	c.Export.Exclude = dedupe(exclude)

	if len(c.IgnoreCopy) == 0 {
		c.IgnoreCopy = append([]string(nil), c.Lock...)
	}
}

func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok || tag == "" {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Export.Format != "" {
		if _, err := export.ParseFormat(c.Export.Format); err != nil {
			return gerrors.NewConfigError(fmt.Sprintf("invalid export.format: %s", c.Export.Format), err)
		}
	}
	if c.Export.Indent != nil && *c.Export.Indent < 0 {
		return gerrors.NewConfigError(fmt.Sprintf("export.indent must not be negative, got %d", *c.Export.Indent), nil)
	}
	if c.Filter.By != "" && !types.IsKnownTag(c.Filter.By) {
		return gerrors.NewConfigError(fmt.Sprintf("invalid filter.by: %s", c.Filter.By), nil)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return gerrors.NewConfigError(fmt.Sprintf("invalid log.level: %s (must be debug, info, warn or error)", c.Log.Level), nil)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return gerrors.NewConfigError(fmt.Sprintf("invalid log.format: %s (must be console or json)", c.Log.Format), nil)
	}
	return nil
}

// Schema returns the column layout for TagOrder.
func (c *Config) Schema() *types.Schema {
	return types.NewSchema(c.TagOrder)
}

// View returns the filter and sort order.
func (c *Config) View() *view.View {
	v := &view.View{Sort: append([]string(nil), c.Sort...)}
	if c.Filter.Pattern != "" {
		v.Filter = &view.Filter{
			Tag:           c.Filter.By,
			Pattern:       c.Filter.Pattern,
			Regex:         c.Filter.Regex,
			CaseSensitive: c.Filter.Case,
		}
	}
	return v
}

// ExportOptions returns the export options for a target path. The format
// comes from export.format, else from the path extension, else XML. Resolve
// should have been called first.
func (c *Config) ExportOptions(path string) (*export.Options, error) {
	format := export.FormatXML
	if c.Export.Format != "" {
		f, err := export.ParseFormat(c.Export.Format)
		if err != nil {
			return nil, err
		}
		format = f
	} else if f, ok := export.FormatFromPath(path); ok {
		format = f
	}

	o := &export.Options{
		Format:         format,
		ExcludeForeign: c.Export.ExcludeUnsupported,
		RemoveEmpty:    !c.Export.KeepEmpty,
		ApplyFilter:    c.Export.ApplyFilter,
	}
	if c.Export.Indent != nil {
		o.Indent = export.IndentOf(*c.Export.Indent)
	}
	o.Exclude(c.Export.Exclude...)
	return o, nil
}

// LoadFromFile loads configuration from a YAML or JSON file on top of the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gerrors.FromOS(gerrors.ErrCategoryConfig, path, err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, gerrors.Wrap(gerrors.ErrCategoryConfig, gerrors.CodeParseError, "failed to parse YAML config", err).WithPath(path)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, gerrors.Wrap(gerrors.ErrCategoryConfig, gerrors.CodeParseError, "failed to parse JSON config", err).WithPath(path)
		}
	default:
		return nil, gerrors.NewConfigError(fmt.Sprintf("unsupported config file format: %s", ext), nil).WithPath(path)
	}

	return cfg, nil
}

// LoadFromEnv overrides cfg from GAMELISTEDIT_* environment variables. Lists
// are comma separated. Values that do not parse are ignored.
func LoadFromEnv(cfg *Config) {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = splitList(v)
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			if b, err := cast.ToBoolE(v); err == nil {
				*dst = b
			}
		}
	}

	list("TAG_ORDER", &cfg.TagOrder)
	list("SORT", &cfg.Sort)
	list("TURNOFF", &cfg.Turnoff)
	list("LOCK", &cfg.Lock)
	list("IGNORE_COPY", &cfg.IgnoreCopy)
	boolean("GENRE_GROUPS", &cfg.GenreGroups)

	str("FILTER", &cfg.Filter.Pattern)
	str("FILTER_BY", &cfg.Filter.By)
	boolean("FILTER_REGEX", &cfg.Filter.Regex)
	boolean("FILTER_CASE", &cfg.Filter.Case)

	str("EXPORT_FORMAT", &cfg.Export.Format)
	list("EXPORT_EXCLUDE", &cfg.Export.Exclude)
	list("EXPORT_EXCLUDE_WHITELIST", &cfg.Export.ExcludeWhitelist)
	boolean("EXPORT_EXCLUDE_TURNOFF", &cfg.Export.ExcludeTurnoff)
	boolean("EXPORT_EXCLUDE_LOCK", &cfg.Export.ExcludeLock)
	boolean("EXPORT_EXCLUDE_UNSUPPORTED", &cfg.Export.ExcludeUnsupported)
	boolean("EXPORT_KEEP_EMPTY", &cfg.Export.KeepEmpty)
	boolean("EXPORT_APPLY_FILTER", &cfg.Export.ApplyFilter)
	boolean("EXPORT_BACKUP", &cfg.Export.Backup)
	boolean("EXPORT_NO_SAME", &cfg.Export.NoSame)
	if v, ok := os.LookupEnv(EnvPrefix + "EXPORT_INDENT"); ok && v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			cfg.Export.Indent = &n
		}
	}

	str("JOURNAL_PATH", &cfg.JournalPath)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
