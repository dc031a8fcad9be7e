package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchema_DefaultOrder(t *testing.T) {
	s := NewSchema(nil)
	assert.Equal(t, DefaultTags(), s.Tags())
	assert.Equal(t, 21, s.Len())

	i, ok := s.Index(TagName)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = s.Index(TagSource)
	require.True(t, ok)
	assert.Equal(t, 20, i)
}

func TestNewSchema_UserOrder(t *testing.T) {
	s := NewSchema([]string{"path", "bogus", "name", "path", "rating"})

	tags := s.Tags()
	assert.Equal(t, []string{"path", "name", "rating", "sortname", "desc"}, tags[:5])
	assert.Equal(t, len(DefaultTags()), len(tags))
	assert.Equal(t, "source", tags[len(tags)-1])
	assert.False(t, s.Has("bogus"))
}

func TestNewSchema_IndexIsBijection(t *testing.T) {
	s := NewSchema([]string{"genre", "id"})
	seen := make(map[int]bool)
	for _, tag := range s.Tags() {
		i, ok := s.Index(tag)
		require.True(t, ok)
		assert.Equal(t, tag, s.Tag(i))
		assert.False(t, seen[i], "index %d used twice", i)
		seen[i] = true
	}
}

func TestSchema_TagsReturnsCopy(t *testing.T) {
	s := NewSchema(nil)
	tags := s.Tags()
	tags[0] = "mutated"
	assert.Equal(t, TagName, s.Tag(0))
}

func TestTagPredicates(t *testing.T) {
	assert.True(t, IsKnownTag("kidgame"))
	assert.False(t, IsKnownTag("extra"))
	assert.True(t, IsAttributeTag(TagID))
	assert.True(t, IsAttributeTag(TagSource))
	assert.False(t, IsAttributeTag(TagName))
	assert.True(t, IsBoolTag(TagHidden))
	assert.False(t, IsBoolTag(TagRating))
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	r := Record{"a", "b"}
	c := r.Clone()
	c[0] = "z"
	assert.Equal(t, "a", r[0])
	assert.True(t, r.Equal(Record{"a", "b"}))
	assert.False(t, r.Equal(c))
	assert.False(t, r.Equal(Record{"a"}))
}

func TestRecord_IsBlank(t *testing.T) {
	assert.True(t, NewSchema(nil).NewRecord().IsBlank())
	assert.False(t, Record{"", "x"}.IsBlank())
}
