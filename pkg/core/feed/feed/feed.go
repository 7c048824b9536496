package feed

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/olahol/melody"

	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/feed"
	"github.com/scienceol/chemstock/pkg/core/notify"
	"github.com/scienceol/chemstock/pkg/core/notify/events"
	"github.com/scienceol/chemstock/pkg/core/stats"
	sImpl "github.com/scienceol/chemstock/pkg/core/stats/stats"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
)

// subscriberBuffer bounds how far a slow stream consumer may lag before
// messages are dropped for it.
const subscriberBuffer = 32

type feedImpl struct {
	wsClient  *melody.Melody
	msgCenter notify.MsgCenter
	stats     stats.Service

	subMu  sync.RWMutex
	subs   map[int64]chan string
	nextID atomic.Int64
}

func NewFeed(ctx context.Context, wsClient *melody.Melody) feed.Service {
	return NewFeedWithCenter(ctx, wsClient, events.NewEvents())
}

func NewFeedWithCenter(ctx context.Context, wsClient *melody.Melody, msgCenter notify.MsgCenter) feed.Service {
	f := &feedImpl{
		wsClient:  wsClient,
		msgCenter: msgCenter,
		stats:     sImpl.New(),
		subs:      make(map[int64]chan string),
	}
	if err := msgCenter.Registry(ctx, notify.InventoryChange, f.OnInventoryNotify); err != nil {
		logger.Errorf(ctx, "Registry InventoryChange fail err: %+v", err)
	}
	return f
}

func (f *feedImpl) OnWSMsg(ctx context.Context, s *melody.Session, b []byte) error {
	wsMsg := &common.WsMsgType{}
	if err := json.Unmarshal(b, wsMsg); err != nil {
		logger.Warnf(ctx, "OnWSMsg unmarshal err: %+v", err)
		return common.ReplyWSErr(s, "", wsMsg.MsgUUID, code.UnmarshalWSDataErr)
	}

	switch feed.WSAction(wsMsg.Action) {
	case feed.Ping:
		return common.ReplyWSOk(s, string(feed.Ping), wsMsg.MsgUUID, "pong")
	case feed.FetchStats:
		resp, err := f.stats.GetStats(ctx)
		if err != nil {
			return common.ReplyWSErr(s, wsMsg.Action, wsMsg.MsgUUID, err)
		}
		return common.ReplyWSOk(s, wsMsg.Action, wsMsg.MsgUUID, resp)
	default:
		logger.Warnf(ctx, "unknown ws action: %s", wsMsg.Action)
		return common.ReplyWSErr(s, wsMsg.Action, wsMsg.MsgUUID, code.UnknownWSActionErr)
	}
}

func (f *feedImpl) OnWSConnect(ctx context.Context, _ *melody.Session) error {
	logger.Infof(ctx, "inventory feed connect, sessions: %d", f.wsClient.Len())
	return nil
}

// OnInventoryNotify forwards a broadcast message to every connected session.
func (f *feedImpl) OnInventoryNotify(ctx context.Context, msg string) error {
	out := &struct {
		Action string          `json:"action"`
		Data   json.RawMessage `json:"data"`
	}{Action: string(feed.Event), Data: json.RawMessage(msg)}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	f.fanOut(ctx, msg)
	if f.wsClient.IsClosed() {
		return nil
	}
	return f.wsClient.Broadcast(b)
}

func (f *feedImpl) fanOut(ctx context.Context, msg string) {
	f.subMu.RLock()
	defer f.subMu.RUnlock()
	for id, ch := range f.subs {
		select {
		case ch <- msg:
		default:
			logger.Warnf(ctx, "inventory stream subscriber %d lagging, message dropped", id)
		}
	}
}

func (f *feedImpl) Subscribe(_ context.Context) (<-chan string, context.CancelFunc) {
	id := f.nextID.Add(1)
	ch := make(chan string, subscriberBuffer)
	f.subMu.Lock()
	f.subs[id] = ch
	f.subMu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.subMu.Lock()
			delete(f.subs, id)
			f.subMu.Unlock()
			close(ch)
		})
	}
}
