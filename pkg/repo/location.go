package repo

import (
	"context"

	"github.com/scienceol/chemstock/pkg/repo/model"
)

type LocationWithCount struct {
	*model.Location
	BottleCount int64 `json:"bottleCount"`
}

type LocationRepo interface {
	CreateLocation(ctx context.Context, data *model.Location) error
	UpdateLocation(ctx context.Context, id int64, data map[string]any) error
	DeleteLocation(ctx context.Context, id int64) error
	GetLocationByID(ctx context.Context, id int64) (*model.Location, error)
	// GetLocationDetail loads the location with its active bottles and their chemicals.
	GetLocationDetail(ctx context.Context, id int64) (*model.Location, error)
	// FindByScope finds the location named name in room/building, nil if none.
	FindByScope(ctx context.Context, name, room, building string) (*model.Location, error)
	ListLocations(ctx context.Context) ([]*LocationWithCount, error)
	CountLocations(ctx context.Context) (int64, error)
}
