package bottle

import (
	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

type ListReq struct {
	common.PageReq
	Search     string `form:"search"`
	ChemicalID *int64 `form:"chemicalId"`
	LocationID *int64 `form:"locationId"`
	Status     string `form:"status"`
	Expired    bool   `form:"expired"`
}

// CreateReq describes a batch of identical bottles. Dates accept
// YYYY-MM-DD or RFC3339.
type CreateReq struct {
	ChemicalID int64 `json:"chemicalId" binding:"required"`
	// NumberOfBottles defaults to 1 when omitted.
	NumberOfBottles *int     `json:"numberOfBottles"`
	LocationID      *int64   `json:"locationId"`
	Quantity        *float64 `json:"quantity"`
	Unit            *string  `json:"unit"`
	OrderDate       *string  `json:"orderDate"`
	ReceivedDate    *string  `json:"receivedDate"`
	ExpirationDate  *string  `json:"expirationDate"`
	LotNumber       *string  `json:"lotNumber"`
	PONumber        *string  `json:"poNumber"`
	Notes           *string  `json:"notes"`
}

type CreateResp struct {
	Message  string          `json:"message"`
	ParentID string          `json:"parentId"`
	Bottles  []*model.Bottle `json:"bottles"`
}

// UpdateReq is a partial update: an absent key leaves a field untouched,
// while null, a zero location id, zero quantity or an empty string clears it.
type UpdateReq struct {
	LocationID     common.Optional[int64]   `json:"locationId" swaggertype:"integer"`
	Quantity       common.Optional[float64] `json:"quantity" swaggertype:"number"`
	Unit           common.Optional[string]  `json:"unit" swaggertype:"string"`
	OrderDate      common.Optional[string]  `json:"orderDate" swaggertype:"string"`
	ReceivedDate   common.Optional[string]  `json:"receivedDate" swaggertype:"string"`
	ExpirationDate common.Optional[string]  `json:"expirationDate" swaggertype:"string"`
	Status         *string                  `json:"status"`
	LotNumber      common.Optional[string]  `json:"lotNumber" swaggertype:"string"`
	PONumber       common.Optional[string]  `json:"poNumber" swaggertype:"string"`
	Notes          common.Optional[string]  `json:"notes" swaggertype:"string"`
}

type BulkStatusReq struct {
	BottleIDs []int64 `json:"bottleIds" binding:"required,min=1"`
	Status    string  `json:"status" binding:"required"`
}

type BulkStatusResp struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}
