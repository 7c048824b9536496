package repo

import (
	"context"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

type ChemicalQuery struct {
	Search string
	Page   common.PageReq
}

// ChemicalWithCounts is a list row with its bottle tallies.
type ChemicalWithCounts struct {
	*model.Chemical
	ActiveBottles int64 `json:"activeBottles"`
	TotalBottles  int64 `json:"totalBottles"`
}

type ChemicalRepo interface {
	CreateChemical(ctx context.Context, data *model.Chemical) error
	UpdateChemical(ctx context.Context, id int64, data map[string]any) error
	DeleteChemical(ctx context.Context, id int64) error
	GetChemicalByID(ctx context.Context, id int64) (*model.Chemical, error)
	// GetChemicalDetail loads the chemical with its bottles ordered by child number.
	GetChemicalDetail(ctx context.Context, id int64) (*model.Chemical, error)
	GetChemicalByCAS(ctx context.Context, cas string) (*model.Chemical, error)
	ListChemicals(ctx context.Context, q *ChemicalQuery) ([]*ChemicalWithCounts, int64, error)
	CountChemicals(ctx context.Context) (int64, error)
}
