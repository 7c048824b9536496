package feed

import (
	"context"

	"github.com/olahol/melody"
)

type WSAction string

const (
	Ping       WSAction = "ping"
	FetchStats WSAction = "fetch_stats"
	// Event frames are pushed by the server only.
	Event WSAction = "inventory_event"
)

// Service pushes inventory events to websocket clients and answers their requests.
type Service interface {
	OnWSConnect(ctx context.Context, s *melody.Session) error
	OnWSMsg(ctx context.Context, s *melody.Session, b []byte) error
	OnInventoryNotify(ctx context.Context, msg string) error
	// Subscribe returns a stream of raw event messages for non-websocket
	// consumers. The stream closes when cancel is called.
	Subscribe(ctx context.Context) (<-chan string, context.CancelFunc)
}
