package location

import (
	"context"

	"github.com/scienceol/chemstock/pkg/repo"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

type Service interface {
	ListLocations(ctx context.Context) ([]*repo.LocationWithCount, error)
	GetLocation(ctx context.Context, id int64) (*model.Location, error)
	CreateLocation(ctx context.Context, req *LocationReq) (*model.Location, error)
	UpdateLocation(ctx context.Context, id int64, req *LocationReq) (*model.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
}
