package bottle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/allocator"
	aImpl "github.com/scienceol/chemstock/pkg/core/allocator/allocator"
	"github.com/scienceol/chemstock/pkg/core/bottle"
	"github.com/scienceol/chemstock/pkg/core/notify"
	"github.com/scienceol/chemstock/pkg/core/notify/events"
	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/repo"
	bStore "github.com/scienceol/chemstock/pkg/repo/bottle"
	cStore "github.com/scienceol/chemstock/pkg/repo/chemical"
	lStore "github.com/scienceol/chemstock/pkg/repo/location"
	"github.com/scienceol/chemstock/pkg/repo/model"
	"github.com/scienceol/chemstock/pkg/utils"
)

type bottleImpl struct {
	*db.Datastore
	allocator     allocator.Service
	bottleStore   repo.BottleRepo
	chemicalStore repo.ChemicalRepo
	locationStore repo.LocationRepo
	msgCenter     notify.MsgCenter
	now           func() time.Time
}

func New() bottle.Service {
	return NewWithAllocator(aImpl.New())
}

func NewWithAllocator(alloc allocator.Service) bottle.Service {
	return &bottleImpl{
		Datastore:     db.DB(),
		allocator:     alloc,
		bottleStore:   bStore.New(),
		chemicalStore: cStore.New(),
		locationStore: lStore.New(),
		msgCenter:     events.NewEvents(),
		now:           time.Now,
	}
}

func (b *bottleImpl) ListBottles(ctx context.Context, req *bottle.ListReq) (*common.PageResp[[]*model.Bottle], error) {
	req.Normalize()
	q := &repo.BottleQuery{
		Search:     strings.TrimSpace(req.Search),
		ChemicalID: req.ChemicalID,
		LocationID: req.LocationID,
		Page:       req.PageReq,
	}
	if req.Status != "" {
		status := model.BottleStatus(req.Status)
		if !status.Valid() {
			return nil, code.InvalidBottleStatus.WithMsgf("invalid bottle status: %s", req.Status)
		}
		q.Status = &status
	}
	if req.Expired {
		now := b.now()
		q.ExpiredAt = &now
	}

	datas, total, err := b.bottleStore.ListBottles(ctx, q)
	if err != nil {
		return nil, err
	}
	return common.NewPageResp(datas, total, &req.PageReq), nil
}

func (b *bottleImpl) GetBottle(ctx context.Context, id int64) (*model.Bottle, error) {
	return b.bottleStore.GetBottleByID(ctx, id)
}

func (b *bottleImpl) CreateBottles(ctx context.Context, req *bottle.CreateReq) (*bottle.CreateResp, error) {
	count := 1
	if req.NumberOfBottles != nil {
		count = *req.NumberOfBottles
	}
	if count < 1 {
		return nil, code.InvalidQuantityErr
	}

	template, err := b.template(req)
	if err != nil {
		return nil, err
	}

	chem, err := b.chemicalStore.GetChemicalByID(ctx, req.ChemicalID)
	if err != nil {
		return nil, err
	}
	var loc *model.Location
	if template.LocationID != nil {
		if loc, err = b.locationStore.GetLocationByID(ctx, *template.LocationID); err != nil {
			return nil, err
		}
	}

	var bottles []*model.Bottle
	alloc, err := b.allocator.Allocate(ctx, &allocator.Request{
		ChemicalID: req.ChemicalID,
		Quantity:   count,
	}, func(txCtx context.Context, alloc *allocator.Allocation) error {
		bottles = make([]*model.Bottle, 0, len(alloc.Assignments))
		for _, a := range alloc.Assignments {
			data := *template
			data.BottleID = a.BottleID
			data.ParentID = alloc.ParentID
			data.ChildNumber = a.ChildNumber
			bottles = append(bottles, &data)
		}
		return b.bottleStore.BatchCreateBottles(txCtx, bottles)
	})
	if err != nil {
		return nil, err
	}

	bottleIDs := make([]string, 0, len(bottles))
	for _, data := range bottles {
		data.Chemical = chem
		data.Location = loc
		bottleIDs = append(bottleIDs, data.BottleID)
	}
	notify.Emit(ctx, b.msgCenter, &notify.InventoryEvent{
		Type:       notify.BottlesCreated,
		ChemicalID: req.ChemicalID,
		ParentID:   alloc.ParentID,
		BottleIDs:  bottleIDs,
	})

	return &bottle.CreateResp{
		Message:  fmt.Sprintf("Created %d bottle(s)", len(bottles)),
		ParentID: alloc.ParentID,
		Bottles:  bottles,
	}, nil
}

// template holds the attributes shared by every bottle of a batch.
func (b *bottleImpl) template(req *bottle.CreateReq) (*model.Bottle, error) {
	data := &model.Bottle{
		ChemicalID: req.ChemicalID,
		Quantity:   req.Quantity,
		Unit:       utils.TrimToNil(req.Unit),
		Status:     model.BottleActive,
		LotNumber:  utils.TrimToNil(req.LotNumber),
		PONumber:   utils.TrimToNil(req.PONumber),
		Notes:      utils.TrimToNil(req.Notes),
	}
	if req.LocationID != nil && *req.LocationID != 0 {
		data.LocationID = req.LocationID
	}

	var err error
	if data.OrderDate, err = parseDate("orderDate", req.OrderDate); err != nil {
		return nil, err
	}
	if data.ReceivedDate, err = parseDate("receivedDate", req.ReceivedDate); err != nil {
		return nil, err
	}
	if data.ExpirationDate, err = parseDate("expirationDate", req.ExpirationDate); err != nil {
		return nil, err
	}
	return data, nil
}

func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := utils.ParseDate(*s)
	if err != nil {
		return nil, code.ParamErr.WithMsgf("invalid %s: %s", field, *s)
	}
	return t, nil
}

func (b *bottleImpl) UpdateBottle(ctx context.Context, id int64, req *bottle.UpdateReq) (*model.Bottle, error) {
	if _, err := b.bottleStore.GetBottleByID(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]any, 10)
	if loc := req.LocationID; loc.Set {
		if loc.Value == nil || *loc.Value == 0 {
			updates["location_id"] = nil
		} else {
			if _, err := b.locationStore.GetLocationByID(ctx, *loc.Value); err != nil {
				return nil, err
			}
			updates["location_id"] = *loc.Value
		}
	}
	if qty := req.Quantity; qty.Set {
		if qty.Value == nil || *qty.Value == 0 {
			updates["quantity"] = nil
		} else {
			updates["quantity"] = *qty.Value
		}
	}
	if req.Status != nil {
		status := model.BottleStatus(*req.Status)
		if !status.Valid() {
			return nil, code.InvalidBottleStatus.WithMsgf("invalid bottle status: %s", *req.Status)
		}
		updates["status"] = status
	}

	dates := []struct {
		field  string
		column string
		value  common.Optional[string]
	}{
		{"orderDate", "order_date", req.OrderDate},
		{"receivedDate", "received_date", req.ReceivedDate},
		{"expirationDate", "expiration_date", req.ExpirationDate},
	}
	for _, d := range dates {
		if !d.value.Set {
			continue
		}
		t, err := parseDate(d.field, d.value.Value)
		if err != nil {
			return nil, err
		}
		updates[d.column] = t
	}

	texts := []struct {
		column string
		value  common.Optional[string]
	}{
		{"unit", req.Unit},
		{"lot_number", req.LotNumber},
		{"po_number", req.PONumber},
		{"notes", req.Notes},
	}
	for _, t := range texts {
		if t.value.Set {
			updates[t.column] = utils.TrimToNil(t.value.Value)
		}
	}

	if len(updates) > 0 {
		if err := b.bottleStore.UpdateBottle(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	data, err := b.bottleStore.GetBottleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	notify.Emit(ctx, b.msgCenter, &notify.InventoryEvent{
		Type:       notify.BottleUpdated,
		ChemicalID: data.ChemicalID,
		ParentID:   data.ParentID,
		BottleIDs:  []string{data.BottleID},
		Status:     string(data.Status),
	})
	return data, nil
}

func (b *bottleImpl) DeleteBottle(ctx context.Context, id int64) error {
	data, err := b.bottleStore.GetBottleByID(ctx, id)
	if err != nil {
		return err
	}
	affected, err := b.bottleStore.DeleteBottle(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return code.BottleNotFound
	}

	notify.Emit(ctx, b.msgCenter, &notify.InventoryEvent{
		Type:       notify.BottleDeleted,
		ChemicalID: data.ChemicalID,
		ParentID:   data.ParentID,
		BottleIDs:  []string{data.BottleID},
	})
	return nil
}

func (b *bottleImpl) BulkUpdateStatus(ctx context.Context, req *bottle.BulkStatusReq) (*bottle.BulkStatusResp, error) {
	status := model.BottleStatus(req.Status)
	if !status.Valid() {
		return nil, code.InvalidBottleStatus.WithMsgf("invalid bottle status: %s", req.Status)
	}
	ids := utils.Unique(req.BottleIDs)
	if len(ids) == 0 {
		return nil, code.ParamErr.WithMsg("bottleIds is required")
	}

	count, err := b.bottleStore.BulkUpdateStatus(ctx, ids, status)
	if err != nil {
		return nil, err
	}

	notify.Emit(ctx, b.msgCenter, &notify.InventoryEvent{
		Type:   notify.BottlesStatus,
		IDs:    ids,
		Status: string(status),
	})
	return &bottle.BulkStatusResp{
		Message: fmt.Sprintf("Updated %d bottles", count),
		Updated: count,
	}, nil
}
