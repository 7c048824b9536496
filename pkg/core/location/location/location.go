package location

import (
	"context"
	"strings"

	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/location"
	"github.com/scienceol/chemstock/pkg/core/notify"
	"github.com/scienceol/chemstock/pkg/core/notify/events"
	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/repo"
	bStore "github.com/scienceol/chemstock/pkg/repo/bottle"
	lStore "github.com/scienceol/chemstock/pkg/repo/location"
	"github.com/scienceol/chemstock/pkg/repo/model"
	"github.com/scienceol/chemstock/pkg/utils"
)

type locationImpl struct {
	*db.Datastore
	locationStore repo.LocationRepo
	bottleStore   repo.BottleRepo
	msgCenter     notify.MsgCenter
}

func New() location.Service {
	return &locationImpl{
		Datastore:     db.DB(),
		locationStore: lStore.New(),
		bottleStore:   bStore.New(),
		msgCenter:     events.NewEvents(),
	}
}

func (l *locationImpl) ListLocations(ctx context.Context) ([]*repo.LocationWithCount, error) {
	return l.locationStore.ListLocations(ctx)
}

func (l *locationImpl) GetLocation(ctx context.Context, id int64) (*model.Location, error) {
	return l.locationStore.GetLocationDetail(ctx, id)
}

func (l *locationImpl) CreateLocation(ctx context.Context, req *location.LocationReq) (*model.Location, error) {
	data, err := toModel(req)
	if err != nil {
		return nil, err
	}
	if err := l.checkScope(ctx, data, 0); err != nil {
		return nil, err
	}
	if err := l.locationStore.CreateLocation(ctx, data); err != nil {
		return nil, err
	}

	notify.Emit(ctx, l.msgCenter, &notify.InventoryEvent{Type: notify.LocationChanged, LocationID: data.ID})
	return data, nil
}

func (l *locationImpl) UpdateLocation(ctx context.Context, id int64, req *location.LocationReq) (*model.Location, error) {
	data, err := toModel(req)
	if err != nil {
		return nil, err
	}
	if _, err := l.locationStore.GetLocationByID(ctx, id); err != nil {
		return nil, err
	}
	if err := l.checkScope(ctx, data, id); err != nil {
		return nil, err
	}
	if err := l.locationStore.UpdateLocation(ctx, id, map[string]any{
		"name":         data.Name,
		"description":  data.Description,
		"room":         data.Room,
		"building":     data.Building,
		"storage_type": data.StorageType,
	}); err != nil {
		return nil, err
	}

	notify.Emit(ctx, l.msgCenter, &notify.InventoryEvent{Type: notify.LocationChanged, LocationID: id})
	return l.locationStore.GetLocationByID(ctx, id)
}

func (l *locationImpl) DeleteLocation(ctx context.Context, id int64) error {
	err := l.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := l.locationStore.GetLocationByID(txCtx, id); err != nil {
			return err
		}
		count, err := l.bottleStore.CountByLocation(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return code.LocationHasBottlesErr.WithField("bottleCount", count)
		}
		return l.locationStore.DeleteLocation(txCtx, id)
	})
	if err != nil {
		return err
	}

	notify.Emit(ctx, l.msgCenter, &notify.InventoryEvent{Type: notify.LocationDeleted, LocationID: id})
	return nil
}

func (l *locationImpl) checkScope(ctx context.Context, data *model.Location, self int64) error {
	existing, err := l.locationStore.FindByScope(ctx, data.Name, data.Room, data.Building)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return code.LocationNameExistErr.WithField("existingId", existing.ID)
	}
	return nil
}

func toModel(req *location.LocationReq) (*model.Location, error) {
	if req == nil {
		return nil, code.ParamErr
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, code.ParamErr.WithMsg("name is required")
	}
	data := &model.Location{
		Name:        name,
		Description: utils.TrimToNil(req.Description),
		StorageType: utils.TrimToNil(req.StorageType),
	}
	if room := utils.TrimToNil(req.Room); room != nil {
		data.Room = *room
	}
	if building := utils.TrimToNil(req.Building); building != nil {
		data.Building = *building
	}
	return data, nil
}
