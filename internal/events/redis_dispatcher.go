package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisDispatcher queues events on a Redis list and drains them in a
// background consumer, decoupling lifecycle mutations from delivery
// latency. Subscriptions are process-local.
type RedisDispatcher struct {
	client   *redis.Client
	queueKey string
	logger   *zap.Logger

	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

// NewRedisDispatcher creates a Redis-backed dispatcher.
func NewRedisDispatcher(client *redis.Client, queueKey string, logger *zap.Logger) *RedisDispatcher {
	return &RedisDispatcher{
		client:    client,
		queueKey:  queueKey,
		logger:    logger,
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish enqueues the event. Queue failures are logged and dropped so the
// triggering operation is never rolled back.
func (d *RedisDispatcher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("marshal event", zap.String("event_id", event.ID), zap.Error(err))
		return nil
	}
	if err := d.client.LPush(ctx, d.queueKey, payload).Err(); err != nil {
		d.logger.Error("enqueue event", zap.String("event_id", event.ID), zap.Error(err))
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *RedisDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Run consumes queued events until the context is cancelled.
func (d *RedisDispatcher) Run(ctx context.Context) {
	for {
		res, err := d.client.BRPop(ctx, 2*time.Second, d.queueKey).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			if !errors.Is(err, redis.Nil) {
				d.logger.Warn("dequeue event", zap.Error(err))
			}
			continue
		}
		// BRPop returns [key, value].
		if len(res) != 2 {
			continue
		}

		var event Event
		if err := json.Unmarshal([]byte(res[1]), &event); err != nil {
			d.logger.Error("decode event", zap.Error(err))
			continue
		}
		d.dispatch(ctx, event)
	}
}

func (d *RedisDispatcher) dispatch(ctx context.Context, event Event) {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
}
