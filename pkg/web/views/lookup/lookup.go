package lookup

import (
	"github.com/gin-gonic/gin"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/core/lookup"
	impl "github.com/scienceol/chemstock/pkg/core/lookup/lookup"
)

type Handle struct{ svc lookup.Service }

func NewHandle() *Handle { return &Handle{svc: impl.New()} }

// CAS godoc
// @Summary Look up chemical metadata by CAS number
// @Description Best effort; curated NFPA ratings win over external sources
// @Tags lookup
// @Produce json
// @Param casNumber path string true "CAS registry number"
// @Success 200 {object} common.Resp
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /lookup/cas/{casNumber} [get]
func (h *Handle) CAS(ctx *gin.Context) {
	resp, err := h.svc.LookupCAS(ctx, ctx.Param("casNumber"))
	common.Reply(ctx, err, resp)
}

func (h *Handle) Search(ctx *gin.Context) {
	resp, err := h.svc.Search(ctx, ctx.Query("q"))
	common.Reply(ctx, err, resp)
}

func (h *Handle) SDS(ctx *gin.Context) {
	resp, err := h.svc.SDSLinks(ctx, ctx.Param("casNumber"))
	common.Reply(ctx, err, resp)
}
