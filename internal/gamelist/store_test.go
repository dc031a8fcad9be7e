package gamelist

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
	"github.com/gamelistedit/gamelistedit/pkg/types"
)

func loadSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Read(context.Background(), strings.NewReader(sampleList), nil, nil)
	require.NoError(t, err)
	return doc
}

func TestInsert(t *testing.T) {
	doc := New(nil)
	i := doc.Insert()
	assert.Equal(t, 0, i)
	assert.True(t, doc.Row(i).Current.IsBlank())
	assert.Empty(t, doc.Row(i).Foreign)
	assert.False(t, doc.IsEdited())
	assert.True(t, doc.IsUnsaved())
}

func TestDuplicate(t *testing.T) {
	doc := loadSample(t)
	i := doc.Duplicate(0, []string{types.TagID, types.TagSource, "nope"})
	assert.Equal(t, 2, i)

	assert.Equal(t, "", doc.Value(i, types.TagID))
	assert.Equal(t, "", doc.Value(i, types.TagSource))
	assert.Equal(t, doc.Value(0, types.TagName), doc.Value(i, types.TagName))
	assert.False(t, doc.IsRowEdited(i))
	assert.True(t, doc.IsUnsaved())

	require.Len(t, doc.Row(i).Foreign, 1)
	doc.Row(i).Foreign[0].Text = "changed"
	assert.Equal(t, "1", doc.Row(0).Foreign[0].Text)
}

func TestRemove(t *testing.T) {
	doc := loadSample(t)
	assert.Equal(t, 0, doc.Remove(0))
	require.Equal(t, 1, doc.Len())
	assert.Equal(t, "./galaga.zip", doc.Value(0, types.TagPath))
	assert.True(t, doc.IsUnsaved())
	assert.False(t, doc.IsEdited())

	assert.Panics(t, func() { doc.Remove(5) })
	assert.PanicsWithError(t, "gamelist: record length does not match schema: row 1/1, schema "+strconv.Itoa(doc.Schema().Len()), func() {
		doc.appendRow(&Row{Current: types.Record{""}, Original: types.Record{""}})
	})
}

func TestSetCellAndDirtyTracking(t *testing.T) {
	doc := loadSample(t)
	col, _ := doc.Schema().Index(types.TagName)

	doc.SetCell(1, col, "Galaga")
	assert.True(t, doc.IsCellEdited(1, col))
	assert.True(t, doc.IsRowEdited(1))
	assert.False(t, doc.IsRowEdited(0))
	assert.True(t, doc.IsEdited())
	assert.Equal(t, []int{col}, doc.EditedCells(1))

	doc.SetCell(1, col, "")
	assert.False(t, doc.IsEdited())
	assert.True(t, doc.IsUnsaved())
}

func TestSetValue(t *testing.T) {
	doc := loadSample(t)
	require.NoError(t, doc.SetValue(0, types.TagRating, "0.8"))
	assert.Equal(t, "0.8", doc.Value(0, types.TagRating))

	err := doc.SetValue(0, "extra", "x")
	assert.ErrorIs(t, err, gerrors.ErrInvalidArgument)
	assert.ErrorIs(t, err, types.ErrUnknownTag)
	assert.Equal(t, gerrors.ErrCategoryEdit, gerrors.GetCategory(err))
	assert.Equal(t, "", doc.Value(0, "extra"))
}

func TestRevertRow(t *testing.T) {
	doc := loadSample(t)
	require.NoError(t, doc.SetValue(0, types.TagName, "other"))
	doc.RevertRow(0)
	assert.Equal(t, "Pac-Man & Co", doc.Value(0, types.TagName))
	assert.False(t, doc.IsEdited())
}

func TestMarkSaved(t *testing.T) {
	doc := loadSample(t)
	require.NoError(t, doc.SetValue(0, types.TagName, "other"))
	doc.MarkSaved()
	assert.False(t, doc.IsUnsaved())
	assert.False(t, doc.IsEdited())
	assert.Equal(t, "other", doc.Value(0, types.TagName))
	assert.Empty(t, cmp.Diff(doc.Row(0).Current, doc.Row(0).Original))
}

func TestLockColumns(t *testing.T) {
	doc := loadSample(t)
	got := doc.LockColumns([]string{types.TagSource, "bogus", types.TagID})
	assert.Equal(t, []string{types.TagSource, types.TagID}, got)
	assert.Equal(t, []string{types.TagID, types.TagSource}, doc.LockedTags())

	col, _ := doc.Schema().Index(types.TagID)
	assert.True(t, doc.IsLocked(col))
	doc.SetCell(0, col, "1")
	assert.Equal(t, "1", doc.Cell(0, col))

	assert.Equal(t, []string{types.TagID}, doc.UnlockColumns([]string{types.TagID}))
	assert.False(t, doc.IsLocked(col))
	assert.Equal(t, []string{types.TagSource}, doc.LockedTags())
}

func TestGenres(t *testing.T) {
	doc := New(nil)
	for _, g := range []string{"Maze / Action", "Action", "", "Shooter 10", "Shooter 9"} {
		require.NoError(t, doc.SetValue(doc.Insert(), types.TagGenre, g))
	}
	assert.Equal(t, []string{"Action", "Maze", "Shooter 9", "Shooter 10"}, doc.Genres(false))
	assert.Equal(t, []string{"Action", "Maze / Action", "Shooter 9", "Shooter 10"}, doc.Genres(true))
	assert.Nil(t, New(nil).Genres(false))
}

func TestWordList(t *testing.T) {
	doc := loadSample(t)
	require.NoError(t, doc.SetValue(1, types.TagDeveloper, "Namco"))
	require.NoError(t, doc.SetValue(0, types.TagPublisher, "Namco"))
	assert.Equal(t, []string{"Namco"}, doc.WordList(types.TagDeveloper, types.TagPublisher))
	assert.Nil(t, doc.WordList("unknown"))
}
