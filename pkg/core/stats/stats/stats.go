package stats

import (
	"context"
	"time"

	"github.com/scienceol/chemstock/pkg/core/stats"
	"github.com/scienceol/chemstock/pkg/repo"
	bStore "github.com/scienceol/chemstock/pkg/repo/bottle"
	cStore "github.com/scienceol/chemstock/pkg/repo/chemical"
	lStore "github.com/scienceol/chemstock/pkg/repo/location"
)

type statsImpl struct {
	chemicalStore repo.ChemicalRepo
	bottleStore   repo.BottleRepo
	locationStore repo.LocationRepo
	now           func() time.Time
}

func New() stats.Service {
	return &statsImpl{
		chemicalStore: cStore.New(),
		bottleStore:   bStore.New(),
		locationStore: lStore.New(),
		now:           time.Now,
	}
}

func (s *statsImpl) GetStats(ctx context.Context) (*stats.Stats, error) {
	chemicals, err := s.chemicalStore.CountChemicals(ctx)
	if err != nil {
		return nil, err
	}
	bottles, err := s.bottleStore.Stats(ctx, s.now())
	if err != nil {
		return nil, err
	}
	locations, err := s.locationStore.CountLocations(ctx)
	if err != nil {
		return nil, err
	}
	return &stats.Stats{
		TotalChemicals: chemicals,
		TotalBottles:   bottles.Total,
		ActiveBottles:  bottles.Active,
		ExpiredBottles: bottles.Expired,
		TotalLocations: locations,
	}, nil
}
