package notify

import (
	"context"

	"github.com/scienceol/chemstock/pkg/common/uuid"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
)

type Action string

const (
	InventoryChange Action = "inventory-change"
)

// EventType names what happened to the inventory.
type EventType string

const (
	BottlesCreated  EventType = "bottles.created"
	BottleUpdated   EventType = "bottle.updated"
	BottleDeleted   EventType = "bottle.deleted"
	BottlesStatus   EventType = "bottles.status"
	ChemicalChanged EventType = "chemical.changed"
	ChemicalDeleted EventType = "chemical.deleted"
	LocationChanged EventType = "location.changed"
	LocationDeleted EventType = "location.deleted"
)

type InventoryEvent struct {
	Type       EventType `json:"type"`
	ChemicalID int64     `json:"chemicalId,omitempty"`
	LocationID int64     `json:"locationId,omitempty"`
	ParentID   string    `json:"parentId,omitempty"`
	BottleIDs  []string  `json:"bottleIds,omitempty"`
	IDs        []int64   `json:"ids,omitempty"`
	Status     string    `json:"status,omitempty"`
}

type SendMsg struct {
	Channel   Action    `json:"action"`
	Data      any       `json:"data"`
	UUID      uuid.UUID `json:"uuid"`
	Timestamp int64     `json:"timestamp"`
}

type HandleFunc func(ctx context.Context, msg string) error

type MsgCenter interface {
	Registry(ctx context.Context, msgName Action, handleFunc HandleFunc) error
	Broadcast(ctx context.Context, msg *SendMsg) error
	Close(ctx context.Context) error
}

// Emit broadcasts an inventory event. Failures are logged and dropped.
func Emit(ctx context.Context, mc MsgCenter, evt *InventoryEvent) {
	if mc == nil || evt == nil {
		return
	}
	if err := mc.Broadcast(ctx, &SendMsg{Channel: InventoryChange, Data: evt}); err != nil {
		logger.Warnf(ctx, "emit inventory event type: %s, err: %+v", evt.Type, err)
	}
}
