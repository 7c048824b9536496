package chemical

import (
	"github.com/gin-gonic/gin"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/chemical"
	impl "github.com/scienceol/chemstock/pkg/core/chemical/chemical"
)

type Handle struct{ svc chemical.Service }

func NewHandle() *Handle { return &Handle{svc: impl.New()} }

// List godoc
// @Summary List chemicals
// @Description Paginated chemicals with active and total bottle counts
// @Tags chemicals
// @Produce json
// @Param search query string false "substring of name, CAS number or formula"
// @Param page query int false "page, default 1"
// @Param limit query int false "page size, default 50, max 200"
// @Success 200 {object} common.Resp
// @Router /chemicals [get]
func (h *Handle) List(ctx *gin.Context) {
	in := &chemical.ListReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.ListChemicals(ctx, in)
	common.Reply(ctx, err, resp)
}

// Get godoc
// @Summary Get a chemical with its bottles
// @Tags chemicals
// @Produce json
// @Param id path int true "chemical id"
// @Success 200 {object} common.Resp
// @Failure 404 {object} map[string]any
// @Router /chemicals/{id} [get]
func (h *Handle) Get(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.svc.GetChemical(ctx, id)
	common.Reply(ctx, err, resp)
}

// Create godoc
// @Summary Create a chemical
// @Description A duplicate CAS number fails with 400 and the existingId
// @Tags chemicals
// @Accept json
// @Produce json
// @Param body body chemical.ChemicalReq true "chemical"
// @Success 201 {object} common.Resp
// @Failure 400 {object} map[string]any
// @Router /chemicals [post]
func (h *Handle) Create(ctx *gin.Context) {
	in := &chemical.ChemicalReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.CreateChemical(ctx, in)
	common.ReplyCreated(ctx, err, resp)
}

func (h *Handle) Update(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	in := &chemical.ChemicalReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.UpdateChemical(ctx, id, in)
	common.Reply(ctx, err, resp)
}

// Delete godoc
// @Summary Delete a chemical
// @Description Fails with 400 and bottleCount while bottles reference it
// @Tags chemicals
// @Param id path int true "chemical id"
// @Success 200 {object} common.Resp
// @Router /chemicals/{id} [delete]
func (h *Handle) Delete(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	if err := h.svc.DeleteChemical(ctx, id); err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	common.ReplyOk(ctx, gin.H{"message": "Chemical deleted successfully"})
}
