package feed

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"

	"github.com/scienceol/chemstock/pkg/core/feed"
	impl "github.com/scienceol/chemstock/pkg/core/feed/feed"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
)

const maxMessageSize = 4 << 10

type Handle struct {
	fService feed.Service
	wsClient *melody.Melody
}

func NewFeedHandle(ctx context.Context) *Handle {
	wsClient := melody.New()
	wsClient.Config.MaxMessageSize = maxMessageSize

	h := &Handle{
		fService: impl.NewFeed(ctx, wsClient),
		wsClient: wsClient,
	}
	h.initFeedWebSocket()
	return h
}

// Inventory upgrades the request to the inventory event stream.
func (h *Handle) Inventory(ctx *gin.Context) {
	if err := h.wsClient.HandleRequestWithKeys(ctx.Writer, ctx.Request, map[string]any{
		"ctx": ctx.Request.Context(),
	}); err != nil {
		logger.Errorf(ctx, "Inventory HandleRequestWithKeys err: %+v", err)
	}
}

// Service exposes the feed to the other event transports.
func (h *Handle) Service() feed.Service {
	return h.fService
}

func (h *Handle) Close(_ context.Context) error {
	return h.wsClient.Close()
}

func sessionCtx(s *melody.Session) context.Context {
	if v, ok := s.Get("ctx"); ok {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return context.Background()
}

func (h *Handle) initFeedWebSocket() {
	h.wsClient.HandleDisconnect(func(s *melody.Session) {
		logger.Infof(sessionCtx(s), "inventory ws client disconnected")
	})

	h.wsClient.HandleError(func(s *melody.Session, err error) {
		if errors.Is(err, melody.ErrMessageBufferFull) {
			return
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseGoingAway {
			return
		}
		logger.Errorf(sessionCtx(s), "inventory ws error err: %+v", err)
	})

	h.wsClient.HandleConnect(func(s *melody.Session) {
		ctx := sessionCtx(s)
		if err := h.fService.OnWSConnect(ctx, s); err != nil {
			logger.Errorf(ctx, "inventory OnWSConnect err: %+v", err)
		}
	})

	h.wsClient.HandleMessage(func(s *melody.Session, b []byte) {
		ctx := sessionCtx(s)
		if err := h.fService.OnWSMsg(ctx, s, b); err != nil {
			logger.Errorf(ctx, "inventory handle msg err: %+v", err)
		}
	})
}
