package chemical

import (
	"context"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/repo"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

type Service interface {
	ListChemicals(ctx context.Context, req *ListReq) (*common.PageResp[[]*repo.ChemicalWithCounts], error)
	GetChemical(ctx context.Context, id int64) (*model.Chemical, error)
	CreateChemical(ctx context.Context, req *ChemicalReq) (*model.Chemical, error)
	UpdateChemical(ctx context.Context, id int64, req *ChemicalReq) (*model.Chemical, error)
	DeleteChemical(ctx context.Context, id int64) error
}
