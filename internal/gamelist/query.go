package gamelist

import (
	"sort"
	"strings"

	"github.com/fvbommel/sortorder"

	"github.com/gamelistedit/gamelistedit/pkg/types"
)

// LockColumns marks the given tags as locked and returns the ones that are
// schema columns. Locks are advisory: they are honored by editors and the
// export exclude rules, never by SetCell.
func (d *Document) LockColumns(tags []string) []string {
	var locked []string
	for _, tag := range tags {
		if col, ok := d.schema.Index(tag); ok {
			d.locked[col] = struct{}{}
			locked = append(locked, tag)
		}
	}
	return locked
}

// UnlockColumns removes locks from the given tags and returns the ones that
// are schema columns.
func (d *Document) UnlockColumns(tags []string) []string {
	var unlocked []string
	for _, tag := range tags {
		if col, ok := d.schema.Index(tag); ok {
			delete(d.locked, col)
			unlocked = append(unlocked, tag)
		}
	}
	return unlocked
}

// LockedTags returns the locked tags in schema order.
func (d *Document) LockedTags() []string {
	cols := make([]int, 0, len(d.locked))
	for col := range d.locked {
		cols = append(cols, col)
	}
	sort.Ints(cols)
	tags := make([]string, len(cols))
	for i, col := range cols {
		tags[i] = d.schema.Tag(col)
	}
	return tags
}

// IsLocked reports whether column col is locked.
func (d *Document) IsLocked(col int) bool {
	_, ok := d.locked[col]
	return ok
}

// Genres returns the distinct genres of all rows, trimmed and naturally
// sorted. Unless groups is set, a value like "Action/Platform" contributes
// each part separately.
func (d *Document) Genres(groups bool) []string {
	col, ok := d.schema.Index(types.TagGenre)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	for _, r := range d.rows {
		v := r.Current[col]
		if v == "" {
			continue
		}
		parts := []string{v}
		if !groups {
			parts = strings.Split(v, "/")
		}
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				seen[p] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

// WordList returns the distinct non-empty values of the given tags, used as
// completion candidates.
func (d *Document) WordList(tags ...string) []string {
	seen := make(map[string]struct{})
	for _, tag := range tags {
		col, ok := d.schema.Index(tag)
		if !ok {
			continue
		}
		for _, r := range d.rows {
			if v := r.Current[col]; v != "" {
				seen[v] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Sort(sortorder.Natural(out))
	return out
}
