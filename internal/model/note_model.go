package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Note keeps deleted_at as a plain nullable column instead of gorm.DeletedAt:
// soft-deleted rows must stay reachable through the same FindOne/FindAll paths
// so they can be restored, and the NotDeleted specification carries the
// visibility rule explicitly.
type Note struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Content   string         `gorm:"type:text"`
	Tags      datatypes.JSON `gorm:"type:json"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt *time.Time     `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
