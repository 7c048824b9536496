package model

import "time"

// ParentCounter is the allocator state of one chemical.
type ParentCounter struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	ChemicalID      int64     `gorm:"not null;uniqueIndex:idx_parent_counter_chemical" json:"chemicalId"`
	ParentID        string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_parent_counter_parent" json:"parentId"`
	NextChildNumber int       `gorm:"not null;check:chk_parent_counter_next,next_child_number > 0" json:"nextChildNumber"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (*ParentCounter) TableName() string { return "parent_counters" }

// IDSequence mints the numeric part of new parent ids, one row per prefix.
type IDSequence struct {
	Prefix        string    `gorm:"type:varchar(16);primaryKey" json:"prefix"`
	CurrentNumber int64     `gorm:"not null;default:0" json:"currentNumber"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (*IDSequence) TableName() string { return "id_sequences" }
