package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
	"github.com/gamelistedit/gamelistedit/internal/export"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"name"}, cfg.Sort)
	assert.Equal(t, []string{"sortname", "thumbnail"}, cfg.Turnoff)
	assert.Equal(t, []string{"lastplayed", "playcount", "id", "source"}, cfg.Lock)

	cfg.Resolve()
	assert.Equal(t, cfg.Lock, cfg.IgnoreCopy)
	assert.Empty(t, cfg.Export.Exclude)
}

func TestResolve_Exclude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.Exclude = []string{"desc", "desc"}
	cfg.Export.ExcludeTurnoff = true
	cfg.Export.ExcludeLock = true
	cfg.Resolve()
	assert.Equal(t, []string{"desc", "id", "lastplayed", "playcount", "sortname", "source", "thumbnail"}, cfg.Export.Exclude)

	before := append([]string(nil), cfg.Export.Exclude...)
	cfg.Resolve()
	assert.Equal(t, before, cfg.Export.Exclude)
}

func TestResolve_Whitelist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.ExcludeWhitelist = []string{"name", "path", "desc"}
	cfg.Export.Exclude = []string{"desc"}
	cfg.Resolve()

	assert.Len(t, cfg.Export.Exclude, len(types.DefaultTags())-2)
	assert.NotContains(t, cfg.Export.Exclude, "name")
	assert.NotContains(t, cfg.Export.Exclude, "path")
	assert.Contains(t, cfg.Export.Exclude, "desc")
}

func TestResolve_KeepsIgnoreCopy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IgnoreCopy = []string{"path"}
	cfg.Resolve()
	assert.Equal(t, []string{"path"}, cfg.IgnoreCopy)
}

func TestValidate(t *testing.T) {
	neg := -1
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"format", func(c *Config) { c.Export.Format = "yaml" }},
		{"indent", func(c *Config) { c.Export.Indent = &neg }},
		{"filter by", func(c *Config) { c.Filter.By = "bogus" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Equal(t, gerrors.ErrCategoryConfig, gerrors.GetCategory(err))
		})
	}
}

func TestExportOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.Exclude = []string{"desc"}
	cfg.Export.ExcludeUnsupported = true
	four := 4
	cfg.Export.Indent = &four
	cfg.Resolve()

	o, err := cfg.ExportOptions("out/games.csv")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, o.Format)
	assert.True(t, o.RemoveEmpty)
	assert.True(t, o.ExcludeForeign)
	assert.True(t, o.IsExcluded("desc"))
	require.NotNil(t, o.Indent)
	assert.Equal(t, 4, *o.Indent)

	o, err = cfg.ExportOptions("out/games")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXML, o.Format)

	cfg.Export.Format = "JSON"
	cfg.Export.KeepEmpty = true
	o, err = cfg.ExportOptions("out/games.csv")
	require.NoError(t, err)
	assert.Equal(t, export.FormatJSON, o.Format)
	assert.False(t, o.RemoveEmpty)
}

func TestView(t *testing.T) {
	cfg := DefaultConfig()
	v := cfg.View()
	assert.Nil(t, v.Filter)
	assert.Equal(t, []string{"name"}, v.Sort)

	cfg.Filter = FilterConfig{Pattern: "pac", By: "name", Regex: true, Case: true}
	v = cfg.View()
	require.NotNil(t, v.Filter)
	assert.Equal(t, "name", v.Filter.Tag)
	assert.True(t, v.Filter.Regex)
	assert.True(t, v.Filter.CaseSensitive)
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamelistedit.yaml")
	content := `
tag_order: [path, name]
sort: [genre, name]
export:
  format: csv
  exclude: [desc]
  keep_empty: true
  indent: 2
journal_path: /tmp/journal.db
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"path", "name"}, cfg.TagOrder)
	assert.Equal(t, []string{"genre", "name"}, cfg.Sort)
	assert.Equal(t, "csv", cfg.Export.Format)
	assert.True(t, cfg.Export.KeepEmpty)
	require.NotNil(t, cfg.Export.Indent)
	assert.Equal(t, 2, *cfg.Export.Indent)
	assert.Equal(t, "/tmp/journal.db", cfg.JournalPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	// defaults survive
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []string{"sortname", "thumbnail"}, cfg.Turnoff)

	assert.Equal(t, "path", cfg.Schema().Tag(0))
}

func TestLoadFromFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamelistedit.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lock": [], "export": {"backup": true}}`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Lock)
	assert.True(t, cfg.Export.Backup)
}

func TestLoadFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, gerrors.ErrNotFound)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sort: [unclosed"), 0o644))
	_, err = LoadFromFile(bad)
	assert.ErrorIs(t, err, gerrors.ErrParse)

	toml := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(toml, []byte(""), 0o644))
	_, err = LoadFromFile(toml)
	assert.ErrorIs(t, err, gerrors.ErrInvalidArgument)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GAMELISTEDIT_SORT", "genre, name")
	t.Setenv("GAMELISTEDIT_LOCK", "")
	t.Setenv("GAMELISTEDIT_EXPORT_FORMAT", "txt")
	t.Setenv("GAMELISTEDIT_EXPORT_KEEP_EMPTY", "1")
	t.Setenv("GAMELISTEDIT_EXPORT_INDENT", "3")
	t.Setenv("GAMELISTEDIT_EXPORT_BACKUP", "not-a-bool")
	t.Setenv("GAMELISTEDIT_FILTER", "pac")
	t.Setenv("GAMELISTEDIT_LOG_FORMAT", "json")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)
	assert.Equal(t, []string{"genre", "name"}, cfg.Sort)
	assert.Empty(t, cfg.Lock)
	assert.Equal(t, "txt", cfg.Export.Format)
	assert.True(t, cfg.Export.KeepEmpty)
	require.NotNil(t, cfg.Export.Indent)
	assert.Equal(t, 3, *cfg.Export.Indent)
	assert.False(t, cfg.Export.Backup)
	assert.Equal(t, "pac", cfg.Filter.Pattern)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}
