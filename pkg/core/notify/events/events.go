package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	r "github.com/redis/go-redis/v9"

	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/common/uuid"
	"github.com/scienceol/chemstock/pkg/core/notify"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/middleware/redis"
	"github.com/scienceol/chemstock/pkg/utils"
)

// Redis pub/sub fans messages out to every process. Without a redis client
// messages are delivered to the local handlers only.

var (
	once   sync.Once
	center *Events
)

type Events struct {
	actions sync.Map
	subs    sync.Map
	client  *r.Client
	wait    sync.WaitGroup
}

func NewEvents() notify.MsgCenter {
	once.Do(func() {
		center = New(redis.GetClient())
	})

	return center
}

// New builds a center that is not shared with NewEvents callers.
func New(client *r.Client) *Events {
	return &Events{client: client}
}

func (e *Events) Registry(ctx context.Context, msgName notify.Action, handleFunc notify.HandleFunc) error {
	if _, ok := e.actions.LoadOrStore(msgName, handleFunc); ok {
		return code.NotifyActionAlreadyRegistryErr.WithMsg(string(msgName))
	}
	if e.client == nil {
		return nil
	}

	sub := e.client.Subscribe(ctx, string(msgName))
	e.subs.Store(msgName, sub)

	e.wait.Add(1)
	utils.SafelyGo(func() {
		defer e.wait.Done()

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					logger.Infof(ctx, "exit redis channel name: %s", string(msgName))
					e.actions.Delete(msgName)
					return
				}

				if msg == nil {
					continue
				}
				if err := handleFunc(ctx, msg.Payload); err != nil {
					logger.Errorf(ctx, "handle redis msg fail name: %s, err: %+v", msgName, err)
				}
			case <-ctx.Done():
				logger.Infof(ctx, "exit redis channel name: %s", string(msgName))
				if err := sub.Unsubscribe(context.Background(), string(msgName)); err != nil {
					logger.Errorf(ctx, "unsubscribe fail msg name: %s, err: %+v", msgName, err)
				}
				e.actions.Delete(msgName)
				return
			}
		}
	}, func(err error) {
		logger.Errorf(ctx, "Registry handle msg err: %+v", err)
	})
	return nil
}

func (e *Events) Broadcast(ctx context.Context, msg *notify.SendMsg) error {
	msg.Timestamp = time.Now().Unix()
	if msg.UUID.IsNil() {
		msg.UUID = uuid.NewV4()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return code.NotifySendMsgErr.WithErr(err)
	}

	if e.client == nil {
		handle, ok := e.actions.Load(msg.Channel)
		if !ok {
			return nil
		}
		if err := handle.(notify.HandleFunc)(ctx, string(data)); err != nil {
			logger.Errorf(ctx, "handle local msg fail action: %s, err: %+v", msg.Channel, err)
			return code.NotifySendMsgErr.WithErr(err)
		}
		return nil
	}

	if err := e.client.Publish(ctx, string(msg.Channel), data).Err(); err != nil {
		logger.Errorf(ctx, "send msg fail action: %s, err: %+v", msg.Channel, err)
		return code.NotifySendMsgErr.WithErr(err)
	}
	return nil
}

func (e *Events) Close(_ context.Context) error {
	e.subs.Range(func(_, v any) bool {
		if sub, ok := v.(*r.PubSub); ok {
			_ = sub.Close()
		}
		return true
	})
	e.wait.Wait()
	return nil
}
