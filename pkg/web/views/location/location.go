package location

import (
	"github.com/gin-gonic/gin"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/location"
	impl "github.com/scienceol/chemstock/pkg/core/location/location"
)

type Handle struct{ svc location.Service }

func NewHandle() *Handle { return &Handle{svc: impl.New()} }

func (h *Handle) List(ctx *gin.Context) {
	resp, err := h.svc.ListLocations(ctx)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.svc.GetLocation(ctx, id)
	common.Reply(ctx, err, resp)
}

// Create godoc
// @Summary Create a storage location
// @Description Names are unique within a room and building; a collision fails with 409
// @Tags locations
// @Accept json
// @Produce json
// @Param body body location.LocationReq true "location"
// @Success 201 {object} common.Resp
// @Failure 409 {object} map[string]any
// @Router /locations [post]
func (h *Handle) Create(ctx *gin.Context) {
	in := &location.LocationReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.CreateLocation(ctx, in)
	common.ReplyCreated(ctx, err, resp)
}

func (h *Handle) Update(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	in := &location.LocationReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.UpdateLocation(ctx, id, in)
	common.Reply(ctx, err, resp)
}

// Delete godoc
// @Summary Delete a storage location
// @Description Fails with 400 and bottleCount while bottles reference it
// @Tags locations
// @Param id path int true "location id"
// @Success 200 {object} common.Resp
// @Router /locations/{id} [delete]
func (h *Handle) Delete(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	if err := h.svc.DeleteLocation(ctx, id); err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	common.ReplyOk(ctx, gin.H{"message": "Location deleted successfully"})
}
