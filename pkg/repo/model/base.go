package model

import (
	"time"

	"github.com/scienceol/chemstock/pkg/common/uuid"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if b.UUID.IsNil() {
		b.UUID = uuid.NewV4()
	}
	return nil
}
