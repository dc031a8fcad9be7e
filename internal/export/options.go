// Package export serializes gamelist documents to XML, JSON, CSV, plain
// text and path lists, and writes the result through the storage layer.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
)

// Format is an output format.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
	FormatCFG  Format = "cfg"
)

// Formats lists the supported formats.
var Formats = []Format{FormatXML, FormatJSON, FormatCSV, FormatTXT, FormatCFG}

// ParseFormat validates a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", gerrors.NewInvalidArgument(gerrors.ErrCategoryExport, fmt.Sprintf("unsupported format %q", s))
}

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// Options configures one export.
type Options struct {
	Format Format

	// ExcludedTags are schema tags left out of the output.
	ExcludedTags map[string]struct{}

	// ExcludeForeign drops per-row foreign fragments and the document level
	// groupings and other elements.
	ExcludeForeign bool

	// RemoveEmpty drops empty values and rows without content.
	RemoveEmpty bool

	// Indent is the indent width for XML and JSON and the number of blank
	// lines between rows for TXT. Nil disables pretty printing.
	Indent *int

	// ApplyFilter restricts the export to the rows of the active selection.
	ApplyFilter bool
}

// IndentOf returns a pointer to n, for use as Options.Indent.
func IndentOf(n int) *int {
	return &n
}

// Exclude adds tags to the excluded set.
func (o *Options) Exclude(tags ...string) {
	if o.ExcludedTags == nil {
		o.ExcludedTags = make(map[string]struct{}, len(tags))
	}
	for _, tag := range tags {
		o.ExcludedTags[tag] = struct{}{}
	}
}

// IsExcluded reports whether tag is excluded.
func (o *Options) IsExcluded(tag string) bool {
	_, ok := o.ExcludedTags[tag]
	return ok
}

func (o *Options) validate() error {
	if o == nil {
		return gerrors.NewInvalidArgument(gerrors.ErrCategoryExport, "no export options")
	}
	if _, err := ParseFormat(string(o.Format)); err != nil {
		return err
	}
	if o.Indent != nil && *o.Indent < 0 {
		return gerrors.NewInvalidArgument(gerrors.ErrCategoryExport, "indent must not be negative")
	}
	return nil
}
