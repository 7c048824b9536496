package bottle

import (
	"github.com/gin-gonic/gin"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/bottle"
	impl "github.com/scienceol/chemstock/pkg/core/bottle/bottle"
)

type Handle struct{ svc bottle.Service }

func NewHandle() *Handle { return &Handle{svc: impl.New()} }

// List godoc
// @Summary List bottles
// @Description Filters are AND-combined; expired selects active bottles past their expiration date
// @Tags bottles
// @Produce json
// @Param search query string false "substring of bottle id, lot number, chemical name or CAS"
// @Param chemicalId query int false "chemical id"
// @Param locationId query int false "location id"
// @Param status query string false "active, empty, disposed or expired"
// @Param expired query bool false "only expired active bottles"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} common.Resp
// @Router /bottles [get]
func (h *Handle) List(ctx *gin.Context) {
	in := &bottle.ListReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.ListBottles(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.svc.GetBottle(ctx, id)
	common.Reply(ctx, err, resp)
}

// Create godoc
// @Summary Create a batch of bottles
// @Description Allocates numberOfBottles consecutive ids under the chemical's parent id
// @Tags bottles
// @Accept json
// @Produce json
// @Param body body bottle.CreateReq true "batch"
// @Success 201 {object} common.Resp
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /bottles [post]
func (h *Handle) Create(ctx *gin.Context) {
	in := &bottle.CreateReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.CreateBottles(ctx, in)
	common.ReplyCreated(ctx, err, resp)
}

func (h *Handle) Update(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	in := &bottle.UpdateReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.UpdateBottle(ctx, id, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Delete(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	if err := h.svc.DeleteBottle(ctx, id); err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	common.ReplyOk(ctx, gin.H{"message": "Bottle deleted successfully"})
}

// BulkStatus godoc
// @Summary Set the status of many bottles
// @Tags bottles
// @Accept json
// @Produce json
// @Param body body bottle.BulkStatusReq true "ids and status"
// @Success 200 {object} common.Resp
// @Router /bottles/bulk-status [post]
func (h *Handle) BulkStatus(ctx *gin.Context) {
	in := &bottle.BulkStatusReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.BulkUpdateStatus(ctx, in)
	common.Reply(ctx, err, resp)
}
