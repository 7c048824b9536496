package chemical

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/datatypes"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/allocator"
	aImpl "github.com/scienceol/chemstock/pkg/core/allocator/allocator"
	"github.com/scienceol/chemstock/pkg/core/chemical"
	"github.com/scienceol/chemstock/pkg/core/notify"
	"github.com/scienceol/chemstock/pkg/core/notify/events"
	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/repo"
	bStore "github.com/scienceol/chemstock/pkg/repo/bottle"
	cStore "github.com/scienceol/chemstock/pkg/repo/chemical"
	counterStore "github.com/scienceol/chemstock/pkg/repo/counter"
	"github.com/scienceol/chemstock/pkg/repo/model"
	"github.com/scienceol/chemstock/pkg/utils"
)

type chemicalImpl struct {
	*db.Datastore
	chemicalStore repo.ChemicalRepo
	bottleStore   repo.BottleRepo
	counterStore  repo.CounterRepo
	allocator     allocator.Service
	msgCenter     notify.MsgCenter
}

func New() chemical.Service {
	return NewWithAllocator(aImpl.New())
}

func NewWithAllocator(alloc allocator.Service) chemical.Service {
	return &chemicalImpl{
		Datastore:     db.DB(),
		chemicalStore: cStore.New(),
		bottleStore:   bStore.New(),
		counterStore:  counterStore.New(),
		allocator:     alloc,
		msgCenter:     events.NewEvents(),
	}
}

func (c *chemicalImpl) ListChemicals(ctx context.Context, req *chemical.ListReq) (*common.PageResp[[]*repo.ChemicalWithCounts], error) {
	req.Normalize()
	rows, total, err := c.chemicalStore.ListChemicals(ctx, &repo.ChemicalQuery{
		Search: strings.TrimSpace(req.Search),
		Page:   req.PageReq,
	})
	if err != nil {
		return nil, err
	}
	return common.NewPageResp(rows, total, &req.PageReq), nil
}

func (c *chemicalImpl) GetChemical(ctx context.Context, id int64) (*model.Chemical, error) {
	return c.chemicalStore.GetChemicalDetail(ctx, id)
}

func (c *chemicalImpl) CreateChemical(ctx context.Context, req *chemical.ChemicalReq) (*model.Chemical, error) {
	data, err := toModel(req)
	if err != nil {
		return nil, err
	}
	if err := c.checkCAS(ctx, data.CASNumber, 0); err != nil {
		return nil, err
	}

	if err := c.chemicalStore.CreateChemical(ctx, data); err != nil {
		// lost a race with another create of the same CAS number
		if errors.Is(err, code.ChemicalCASExistErr) {
			if dupErr := c.checkCAS(ctx, data.CASNumber, 0); dupErr != nil {
				return nil, dupErr
			}
		}
		return nil, err
	}

	notify.Emit(ctx, c.msgCenter, &notify.InventoryEvent{Type: notify.ChemicalChanged, ChemicalID: data.ID})
	return data, nil
}

func (c *chemicalImpl) UpdateChemical(ctx context.Context, id int64, req *chemical.ChemicalReq) (*model.Chemical, error) {
	data, err := toModel(req)
	if err != nil {
		return nil, err
	}
	if _, err := c.chemicalStore.GetChemicalByID(ctx, id); err != nil {
		return nil, err
	}
	if err := c.checkCAS(ctx, data.CASNumber, id); err != nil {
		return nil, err
	}

	if err := c.chemicalStore.UpdateChemical(ctx, id, map[string]any{
		"cas_number":       data.CASNumber,
		"name":             data.Name,
		"formula":          data.Formula,
		"molecular_weight": data.MolecularWeight,
		"nfpa_health":      data.NFPAHealth,
		"nfpa_fire":        data.NFPAFire,
		"nfpa_reactivity":  data.NFPAReactivity,
		"nfpa_special":     data.NFPASpecial,
		"sds_url":          data.SDSURL,
		"supplier":         data.Supplier,
		"lookup_sources":   data.LookupSources,
	}); err != nil {
		if errors.Is(err, code.ChemicalCASExistErr) {
			if dupErr := c.checkCAS(ctx, data.CASNumber, id); dupErr != nil {
				return nil, dupErr
			}
		}
		return nil, err
	}

	notify.Emit(ctx, c.msgCenter, &notify.InventoryEvent{Type: notify.ChemicalChanged, ChemicalID: id})
	return c.chemicalStore.GetChemicalByID(ctx, id)
}

func (c *chemicalImpl) DeleteChemical(ctx context.Context, id int64) error {
	err := c.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := c.chemicalStore.GetChemicalByID(txCtx, id); err != nil {
			return err
		}
		count, err := c.bottleStore.CountByChemical(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return code.ChemicalHasBottlesErr.WithField("bottleCount", count)
		}
		// the parent id is retired with the chemical
		if err := c.counterStore.DeleteParentCounter(txCtx, id); err != nil {
			return err
		}
		return c.chemicalStore.DeleteChemical(txCtx, id)
	})
	if err != nil {
		return err
	}
	c.allocator.Forget(id)

	notify.Emit(ctx, c.msgCenter, &notify.InventoryEvent{Type: notify.ChemicalDeleted, ChemicalID: id})
	return nil
}

// checkCAS fails with the id of the chemical already holding cas, ignoring self.
func (c *chemicalImpl) checkCAS(ctx context.Context, cas *string, self int64) error {
	if cas == nil {
		return nil
	}
	existing, err := c.chemicalStore.GetChemicalByCAS(ctx, *cas)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		logger.Infof(ctx, "duplicate cas number: %s, existing chemical: %d", *cas, existing.ID)
		return code.ChemicalCASExistErr.WithField("existingId", existing.ID)
	}
	return nil
}

func toModel(req *chemical.ChemicalReq) (*model.Chemical, error) {
	if req == nil {
		return nil, code.ParamErr
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, code.ParamErr.WithMsg("name is required")
	}

	cas := utils.TrimToNil(req.CASNumber)
	if cas != nil && !utils.ValidCAS(*cas) {
		return nil, code.InvalidCASErr
	}
	ratings := []struct {
		field string
		v     *int8
	}{
		{"nfpaHealth", req.NFPAHealth},
		{"nfpaFire", req.NFPAFire},
		{"nfpaReactivity", req.NFPAReactivity},
	}
	for _, r := range ratings {
		if r.v != nil && (*r.v < 0 || *r.v > 4) {
			return nil, code.ParamErr.WithMsgf("%s must be between 0 and 4", r.field)
		}
	}
	special := utils.TrimToNil(req.NFPASpecial)
	if special != nil {
		if len(*special) > 8 {
			return nil, code.ParamErr.WithMsg("nfpaSpecial must be at most 8 characters")
		}
		upper := strings.ToUpper(*special)
		special = &upper
	}

	data := &model.Chemical{
		CASNumber:       cas,
		Name:            name,
		Formula:         utils.TrimToNil(req.Formula),
		MolecularWeight: req.MolecularWeight,
		NFPAHealth:      req.NFPAHealth,
		NFPAFire:        req.NFPAFire,
		NFPAReactivity:  req.NFPAReactivity,
		NFPASpecial:     special,
		SDSURL:          utils.TrimToNil(req.SDSURL),
		Supplier:        utils.TrimToNil(req.Supplier),
	}
	if sources := utils.Unique(req.LookupSources); len(sources) > 0 {
		raw, err := json.Marshal(sources)
		if err != nil {
			return nil, code.ParamErr.WithErr(err)
		}
		data.LookupSources = datatypes.JSON(raw)
	}
	return data, nil
}
