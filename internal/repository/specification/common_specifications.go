package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by primary key
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// activeClause is the canonical "active" condition. An inverted variant
// (deleted_at IS NOT NULL) once shipped in a historical version of this
// module and silently hid every live note; the direction is pinned by a test.
const activeClause = "deleted_at IS NULL"

// NotDeleted keeps only records that have not been soft-deleted.
type NotDeleted struct{}

func (s NotDeleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(activeClause)
}

// sortColumns whitelists sortable fields, keyed by the names the API accepts.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"updatedAt":  "updated_at",
	"title":      "title",
}

// OrderBy applies ordering. Unknown fields fall back to created_at so a
// caller-supplied sort string can never inject SQL.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	column, ok := sortColumns[s.Field]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", column, direction))
}

// Pagination applies limit/offset
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}
