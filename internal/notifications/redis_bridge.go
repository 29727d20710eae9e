package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const broadcastChannel = "admin_broadcast"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisBridge carries broadcasts across instances through Redis
// pub/sub: local publishes go to Redis, and the subscription loop feeds
// everything (own messages included) into the local hub.
type RedisBridge struct {
	hub *Hub
	rdb *redis.Client
	log *slog.Logger
}

func NewRedisBridge(hub *Hub, cfg RedisConfig, log *slog.Logger) *RedisBridge {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if log == nil {
		log = slog.Default()
	}

	return &RedisBridge{
		hub: hub,
		rdb: rdb,
		log: log,
	}
}

// this ping function checks redis connectivity

func (b *RedisBridge) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

func (b *RedisBridge) Close() error {
	return b.rdb.Close()
}

func (b *RedisBridge) Publish(ctx context.Context, payload json.RawMessage) error {
	err := b.rdb.Publish(ctx, broadcastChannel, []byte(payload)).Err()

	if err != nil {
		// fire and forget: deliver locally anyway, log the miss
		b.log.Warn("redis broadcast publish failed", "err", err)
		return b.hub.Publish(ctx, payload)
	}

	return nil
}

// Run forwards Redis messages into the local hub until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, broadcastChannel)
	defer sub.Close()

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_ = b.hub.Publish(ctx, json.RawMessage(msg.Payload))
		}
	}
}
