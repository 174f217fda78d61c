package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Base replaces gorm.Model for every entity: UUID string keys instead of
// auto-increment integers, so IDs are safe to expose in URLs.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a fresh UUID unless the caller already set one.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// IsUUID reports whether id is a syntactically valid UUID.
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// StringList is a []string persisted as a Postgres text[] column.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	return pq.StringArray(s).Value()
}

func (s *StringList) Scan(src interface{}) error {
	return (*pq.StringArray)(s).Scan(src)
}

// GormDataType is the generic column type; schema parsing needs it.
func (StringList) GormDataType() string {
	return "text"
}

// GormDBDataType keeps the array column portable to dialects without arrays.
func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
