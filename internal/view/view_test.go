package view

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
	"github.com/gamelistedit/gamelistedit/internal/gamelist"
)

const games = `<gameList>
	<game><name>Pac-Man</name><genre>Maze</genre><players>1</players></game>
	<game><name>Galaga</name><genre>Shooter</genre><players>2</players></game>
	<game><name>Ms. Pac-Man</name><genre>Maze</genre><players>2</players></game>
	<game><name>Game 10</name><genre>Puzzle</genre><players>1</players></game>
	<game><name>Game 9</name><genre>Puzzle</genre><players>1</players></game>
</gameList>`

func load(t *testing.T) *gamelist.Document {
	t.Helper()
	doc, err := gamelist.Read(context.Background(), strings.NewReader(games), nil, nil)
	require.NoError(t, err)
	return doc
}

func TestApply(t *testing.T) {
	doc := load(t)
	tests := []struct {
		name   string
		filter *Filter
		want   Selection
	}{
		{"nil", nil, Selection{0, 1, 2, 3, 4}},
		{"empty pattern", &Filter{Tag: "name"}, Selection{0, 1, 2, 3, 4}},
		{"substring any column", &Filter{Pattern: "maze"}, Selection{0, 2}},
		{"case sensitive", &Filter{Pattern: "maze", CaseSensitive: true}, Selection{}},
		{"tag", &Filter{Tag: "name", Pattern: "pac"}, Selection{0, 2}},
		{"regex", &Filter{Tag: "name", Pattern: `^game \d+$`, Regex: true}, Selection{3, 4}},
		{"regex case", &Filter{Tag: "name", Pattern: `^game`, Regex: true, CaseSensitive: true}, Selection{}},
		{"no match", &Filter{Pattern: "zzz"}, Selection{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(doc, tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_Errors(t *testing.T) {
	doc := load(t)
	_, err := Apply(doc, &Filter{Pattern: "(", Regex: true})
	assert.ErrorIs(t, err, gerrors.ErrInvalidArgument)

	_, err = Apply(doc, &Filter{Tag: "bogus", Pattern: "x"})
	assert.ErrorIs(t, err, gerrors.ErrInvalidArgument)
}

func TestSortBy(t *testing.T) {
	doc := load(t)
	sel, err := Apply(doc, nil)
	require.NoError(t, err)

	SortBy(doc, sel, "name")
	assert.Equal(t, Selection{1, 4, 3, 2, 0}, sel)

	// the last tag is the primary key, earlier ones break ties
	SortBy(doc, sel, "players")
	assert.Equal(t, Selection{4, 3, 0, 1, 2}, sel)
}

func TestView_Select(t *testing.T) {
	doc := load(t)
	v := &View{Filter: &Filter{Tag: "genre", Pattern: "a"}, Sort: []string{"name", "unknown"}}
	sel, err := v.Select(doc)
	require.NoError(t, err)
	assert.Equal(t, Selection{2, 0}, sel)
}
