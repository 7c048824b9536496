package model

type Location struct {
	BaseModel
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_location_scope,priority:3" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Room        string    `gorm:"type:varchar(128);not null;default:'';uniqueIndex:idx_location_scope,priority:2" json:"room"`
	Building    string    `gorm:"type:varchar(128);not null;default:'';uniqueIndex:idx_location_scope,priority:1" json:"building"`
	StorageType *string   `gorm:"type:varchar(64)" json:"storageType"`
	Bottles     []*Bottle `gorm:"foreignKey:LocationID" json:"bottles,omitempty"`
}

func (*Location) TableName() string { return "locations" }
