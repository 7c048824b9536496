package sse

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scienceol/chemstock/pkg/core/feed"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
)

const heartbeat = 25 * time.Second

type Handle struct {
	fService feed.Service
}

func NewHandle(fService feed.Service) *Handle {
	return &Handle{fService: fService}
}

// Notify streams inventory events as server-sent events until the client leaves.
//
//	@Summary	Inventory event stream (SSE)
//	@Tags		events
//	@Produce	text/event-stream
//	@Router		/events/inventory [get]
func (h *Handle) Notify(ctx *gin.Context) {
	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.Header().Set("X-Accel-Buffering", "no")

	msgs, cancel := h.fService.Subscribe(ctx)
	defer cancel()
	logger.Infof(ctx, "inventory sse client connected")

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Request.Context().Done():
			return false
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			ctx.SSEvent(string(feed.Event), msg)
			return true
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		}
	})
	logger.Infof(ctx, "inventory sse client disconnected")
}
