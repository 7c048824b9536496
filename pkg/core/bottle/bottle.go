package bottle

import (
	"context"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

type Service interface {
	ListBottles(ctx context.Context, req *ListReq) (*common.PageResp[[]*model.Bottle], error)
	GetBottle(ctx context.Context, id int64) (*model.Bottle, error)
	// CreateBottles allocates ids for a batch and stores it atomically.
	CreateBottles(ctx context.Context, req *CreateReq) (*CreateResp, error)
	UpdateBottle(ctx context.Context, id int64, req *UpdateReq) (*model.Bottle, error)
	DeleteBottle(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, req *BulkStatusReq) (*BulkStatusResp, error)
}
