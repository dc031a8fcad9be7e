package types

// Canonical gamelist tag names.
const (
	TagName        = "name"
	TagSortName    = "sortname"
	TagDesc        = "desc"
	TagDeveloper   = "developer"
	TagPublisher   = "publisher"
	TagReleaseDate = "releasedate"
	TagPlayers     = "players"
	TagPath        = "path"
	TagThumbnail   = "thumbnail"
	TagImage       = "image"
	TagMarquee     = "marquee"
	TagVideo       = "video"
	TagGenre       = "genre"
	TagRating      = "rating"
	TagFavorite    = "favorite"
	TagHidden      = "hidden"
	TagKidGame     = "kidgame"
	TagLastPlayed  = "lastplayed"
	TagPlayCount   = "playcount"
	TagID          = "id"
	TagSource      = "source"
)

// Boolean cell tokens.
const (
	True  = "true"
	False = "false"
)

var defaultTags = []string{
	TagName, TagSortName, TagDesc,
	TagDeveloper, TagPublisher, TagReleaseDate, TagPlayers,
	TagPath, TagThumbnail, TagImage, TagMarquee, TagVideo,
	TagGenre, TagRating,
	TagFavorite, TagHidden, TagKidGame,
	TagLastPlayed, TagPlayCount,
	TagID, TagSource,
}

var knownTags = func() map[string]struct{} {
	m := make(map[string]struct{}, len(defaultTags))
	for _, tag := range defaultTags {
		m[tag] = struct{}{}
	}
	return m
}()

// DefaultTags returns the canonical tag list in default column order.
func DefaultTags() []string {
	out := make([]string, len(defaultTags))
	copy(out, defaultTags)
	return out
}

// IsKnownTag reports whether tag is part of the canonical tag list.
func IsKnownTag(tag string) bool {
	_, ok := knownTags[tag]
	return ok
}

// IsAttributeTag reports whether tag is stored as a <game> attribute.
func IsAttributeTag(tag string) bool {
	return tag == TagID || tag == TagSource
}

// IsBoolTag reports whether tag only accepts the True/False tokens.
func IsBoolTag(tag string) bool {
	return tag == TagFavorite || tag == TagHidden || tag == TagKidGame
}

// Schema is the ordered column layout shared by every record of a document.
// It is immutable after construction.
type Schema struct {
	tags  []string
	index map[string]int
}

// NewSchema builds a schema from the default tag list. Valid entries of
// userOrder are moved to the front in the given order; unknown and duplicate
// entries are dropped silently.
func NewSchema(userOrder []string) *Schema {
	front := make([]string, 0, len(userOrder))
	seen := make(map[string]struct{}, len(userOrder))
	for _, tag := range userOrder {
		if !IsKnownTag(tag) {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		front = append(front, tag)
	}

	tags := make([]string, 0, len(defaultTags))
	tags = append(tags, front...)
	for _, tag := range defaultTags {
		if _, moved := seen[tag]; !moved {
			tags = append(tags, tag)
		}
	}

	index := make(map[string]int, len(tags))
	for i, tag := range tags {
		index[tag] = i
	}
	return &Schema{tags: tags, index: index}
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.tags)
}

// Tags returns a copy of the ordered tag list.
func (s *Schema) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Tag returns the tag at column i.
func (s *Schema) Tag(i int) string {
	return s.tags[i]
}

// Index returns the column of tag.
func (s *Schema) Index(tag string) (int, bool) {
	i, ok := s.index[tag]
	return i, ok
}

// Has reports whether tag is a column of the schema.
func (s *Schema) Has(tag string) bool {
	_, ok := s.index[tag]
	return ok
}

// NewRecord returns an all-empty record sized for the schema.
func (s *Schema) NewRecord() Record {
	return make(Record, len(s.tags))
}
