package model

import "time"

type BottleStatus string

const (
	BottleActive   BottleStatus = "active"
	BottleEmpty    BottleStatus = "empty"
	BottleDisposed BottleStatus = "disposed"
	BottleExpired  BottleStatus = "expired"
)

func (s BottleStatus) Valid() bool {
	switch s {
	case BottleActive, BottleEmpty, BottleDisposed, BottleExpired:
		return true
	}
	return false
}

type Bottle struct {
	BaseModel
	BottleID       string       `gorm:"type:varchar(64);not null;uniqueIndex:idx_bottle_bottle_id" json:"bottleId"`
	ParentID       string       `gorm:"type:varchar(32);not null;uniqueIndex:idx_bottle_parent_child,priority:1" json:"parentId"`
	ChildNumber    int          `gorm:"not null;uniqueIndex:idx_bottle_parent_child,priority:2;check:chk_bottle_child_number,child_number > 0" json:"childNumber"`
	ChemicalID     int64        `gorm:"not null;index:idx_bottle_chemical_id" json:"chemicalId"`
	Chemical       *Chemical    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"chemical,omitempty"`
	LocationID     *int64       `gorm:"index:idx_bottle_location_id" json:"locationId"`
	Location       *Location    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"location,omitempty"`
	Quantity       *float64     `json:"quantity"`
	Unit           *string      `gorm:"type:varchar(32)" json:"unit"`
	OrderDate      *time.Time   `json:"orderDate"`
	ReceivedDate   *time.Time   `json:"receivedDate"`
	ExpirationDate *time.Time   `gorm:"index:idx_bottle_expiration_date" json:"expirationDate"`
	Status         BottleStatus `gorm:"type:varchar(16);not null;default:active;index:idx_bottle_status" json:"status"`
	LotNumber      *string      `gorm:"type:varchar(128)" json:"lotNumber"`
	PONumber       *string      `gorm:"type:varchar(128)" json:"poNumber"`
	Notes          *string      `gorm:"type:text" json:"notes"`
}

func (*Bottle) TableName() string { return "bottles" }
