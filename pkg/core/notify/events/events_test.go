package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/notify"
)

func TestLocalDelivery(t *testing.T) {
	ctx := context.Background()
	center := New(nil)

	var got []string
	if err := center.Registry(ctx, notify.InventoryChange, func(_ context.Context, msg string) error {
		got = append(got, msg)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	notify.Emit(ctx, center, &notify.InventoryEvent{Type: notify.BottlesCreated, ChemicalID: 7, ParentID: "CHEM0007"})
	if len(got) != 1 {
		t.Fatalf("delivered = %d", len(got))
	}

	msg := struct {
		Action    notify.Action         `json:"action"`
		Data      notify.InventoryEvent `json:"data"`
		UUID      string                `json:"uuid"`
		Timestamp int64                 `json:"timestamp"`
	}{}
	if err := json.Unmarshal([]byte(got[0]), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Action != notify.InventoryChange || msg.Data.ParentID != "CHEM0007" || msg.UUID == "" || msg.Timestamp == 0 {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestRegistryTwice(t *testing.T) {
	ctx := context.Background()
	center := New(nil)
	noop := func(context.Context, string) error { return nil }

	if err := center.Registry(ctx, notify.InventoryChange, noop); err != nil {
		t.Fatal(err)
	}
	if err := center.Registry(ctx, notify.InventoryChange, noop); !errors.Is(err, code.NotifyActionAlreadyRegistryErr) {
		t.Fatalf("err = %v", err)
	}
}

func TestBroadcastWithoutHandler(t *testing.T) {
	if err := New(nil).Broadcast(context.Background(), &notify.SendMsg{Channel: notify.InventoryChange, Data: 1}); err != nil {
		t.Fatalf("err = %v", err)
	}
}

func TestHandlerErrorSurfaces(t *testing.T) {
	ctx := context.Background()
	center := New(nil)
	_ = center.Registry(ctx, notify.InventoryChange, func(context.Context, string) error { return errors.New("boom") })

	err := center.Broadcast(ctx, &notify.SendMsg{Channel: notify.InventoryChange})
	if !errors.Is(err, code.NotifySendMsgErr) {
		t.Fatalf("err = %v", err)
	}
}
