package repo

import (
	"context"
	"time"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

type BottleQuery struct {
	Search     string
	ChemicalID *int64
	LocationID *int64
	Status     *model.BottleStatus
	// ExpiredAt selects active bottles whose expiration date is before it.
	ExpiredAt *time.Time
	Page      common.PageReq
}

// HighWater is the highest child number stored for a chemical.
type HighWater struct {
	ParentID    string
	ChildNumber int
}

type BottleStats struct {
	Total   int64
	Active  int64
	Expired int64
}

type BottleRepo interface {
	BatchCreateBottles(ctx context.Context, bottles []*model.Bottle) error
	GetBottleByID(ctx context.Context, id int64) (*model.Bottle, error)
	ListBottles(ctx context.Context, q *BottleQuery) ([]*model.Bottle, int64, error)
	UpdateBottle(ctx context.Context, id int64, data map[string]any) error
	DeleteBottle(ctx context.Context, id int64) (int64, error)
	BulkUpdateStatus(ctx context.Context, ids []int64, status model.BottleStatus) (int64, error)
	CountByChemical(ctx context.Context, chemicalID int64) (int64, error)
	CountByLocation(ctx context.Context, locationID int64) (int64, error)
	// MaxChildNumber returns nil when the chemical has no bottles.
	MaxChildNumber(ctx context.Context, chemicalID int64) (*HighWater, error)
	Stats(ctx context.Context, now time.Time) (*BottleStats, error)
}
