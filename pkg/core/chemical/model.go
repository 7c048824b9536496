package chemical

import "github.com/scienceol/chemstock/pkg/common"

type ListReq struct {
	common.PageReq
	Search string `form:"search"`
}

// ChemicalReq is the full editable field set; PUT replaces every field.
type ChemicalReq struct {
	CASNumber       *string  `json:"casNumber" binding:"omitempty,cas"`
	Name            string   `json:"name" binding:"required"`
	Formula         *string  `json:"formula"`
	MolecularWeight *float64 `json:"molecularWeight"`
	NFPAHealth      *int8    `json:"nfpaHealth" binding:"omitempty,min=0,max=4"`
	NFPAFire        *int8    `json:"nfpaFire" binding:"omitempty,min=0,max=4"`
	NFPAReactivity  *int8    `json:"nfpaReactivity" binding:"omitempty,min=0,max=4"`
	NFPASpecial     *string  `json:"nfpaSpecial" binding:"omitempty,max=8"`
	SDSURL          *string  `json:"sdsUrl"`
	Supplier        *string  `json:"supplier"`
	// LookupSources lists the metadata sources that prefilled the form.
	LookupSources []string `json:"lookupSources"`
}
