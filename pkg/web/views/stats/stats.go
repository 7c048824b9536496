package stats

import (
	"github.com/gin-gonic/gin"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/core/stats"
	impl "github.com/scienceol/chemstock/pkg/core/stats/stats"
)

type Handle struct{ svc stats.Service }

func NewHandle() *Handle { return &Handle{svc: impl.New()} }

// Get godoc
// @Summary Dashboard counts
// @Tags stats
// @Produce json
// @Success 200 {object} common.Resp
// @Router /stats [get]
func (h *Handle) Get(ctx *gin.Context) {
	resp, err := h.svc.GetStats(ctx)
	common.Reply(ctx, err, resp)
}
