package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RedisRelay กระจาย change ผ่าน redis pub/sub ให้ทุกโปรเซส (server หลายตัว, CLI watch)
// Publish ไม่ส่งเข้า hub ตรง ๆ; event กลับเข้ามาทาง Start -> hub.Dispatch
type RedisRelay struct {
	client  *redis.Client
	channel string
	hub     *ApplicationHub
	log     *logrus.Entry
}

func NewRedisRelay(client *redis.Client, channel string, hub *ApplicationHub, log *logrus.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
		log:     log.WithFields(logrus.Fields{"component": "relay", "channel": channel}),
	}
}

func (r *RedisRelay) Publish(ctx context.Context, change entity.ApplicationChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

func (r *RedisRelay) Subscribe(userID string, fn func(updated, previous entity.CourierApplication)) func() {
	return r.hub.Subscribe(userID, fn)
}

// Start subscribes to the channel and relays messages until ctx is done.
// It returns once the subscription is confirmed.
func (r *RedisRelay) Start(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var change entity.ApplicationChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					r.log.WithError(err).Warn("invalid change payload")
					continue
				}
				r.hub.Dispatch(change)
			}
		}
	}()
	return nil
}
