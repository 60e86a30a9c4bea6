package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"notekeeper-be/internal/pkg/tags"
)

// OwnedBy scopes notes to a single owner.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.user_id = ?", s.UserID)
}

// TitleOrContentContains matches the keyword as a case-insensitive substring
// of title OR content. A blank term is the neutral predicate: it adds no
// clause and matches everything.
type TitleOrContentContains struct {
	Term string
}

func (s TitleOrContentContains) Apply(db *gorm.DB) *gorm.DB {
	pattern := keywordPattern(s.Term)
	if pattern == "" {
		return db
	}
	return db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
}

// HasAnyTag matches notes whose normalized tag set intersects the requested
// set: OR across the requested tags, unlike the AND composition between
// filter dimensions. Empty input is the neutral predicate.
//
// The tags column holds a JSON array of lowercase strings, so matching the
// quoted element ("%\"work\"%") against the serialized text is an exact
// set-membership test, not a substring guess.
type HasAnyTag struct {
	Tags []string
}

func (s HasAnyTag) Apply(db *gorm.DB) *gorm.DB {
	normalized := tags.Normalize(s.Tags)
	if len(normalized) == 0 {
		return db
	}

	query := db.Session(&gorm.Session{NewDB: true}).Where("tags::text LIKE ?", tagPattern(normalized[0]))
	for _, tag := range normalized[1:] {
		query = query.Or("tags::text LIKE ?", tagPattern(tag))
	}
	return db.Where(query)
}
