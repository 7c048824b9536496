package model

import "gorm.io/datatypes"

type Chemical struct {
	BaseModel
	CASNumber       *string  `gorm:"type:varchar(16);uniqueIndex:idx_chemical_cas" json:"casNumber"`
	Name            string   `gorm:"type:varchar(255);not null;index:idx_chemical_name" json:"name"`
	Formula         *string  `gorm:"type:varchar(128)" json:"formula"`
	MolecularWeight *float64 `json:"molecularWeight"`
	NFPAHealth      *int8    `gorm:"type:smallint" json:"nfpaHealth"`
	NFPAFire        *int8    `gorm:"type:smallint" json:"nfpaFire"`
	NFPAReactivity  *int8    `gorm:"type:smallint" json:"nfpaReactivity"`
	NFPASpecial     *string  `gorm:"type:varchar(8)" json:"nfpaSpecial"`
	SDSURL          *string  `gorm:"type:text" json:"sdsUrl"`
	Supplier        *string  `gorm:"type:varchar(255)" json:"supplier"`
	// LookupSources records which metadata sources filled the form, e.g. ["builtin","pubchem"].
	LookupSources datatypes.JSON `json:"lookupSources,omitempty"`
	Bottles       []*Bottle      `gorm:"foreignKey:ChemicalID" json:"bottles,omitempty"`
}

func (*Chemical) TableName() string { return "chemicals" }
