package realtime

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/logger"
)

const channelPrefix = "notifications:"

func Channel(userID uuid.UUID) string {
	return channelPrefix + userID.String()
}

func NewRedis(addr, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	logger.Info("redis client created", "addr", addr)
	return rdb
}

// RedisNotifier publishes events on the user's notifications channel so
// every API instance can deliver them.
type RedisNotifier struct {
	RDB *redis.Client
}

func (n *RedisNotifier) Notify(ctx context.Context, userID uuid.UUID, ev Event) {
	payload, err := ev.Marshal()
	if err != nil {
		logger.WithError(err).Warn("marshal notification", "type", ev.Type)
		return
	}
	if err := n.RDB.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		logger.WithError(err).Warn("publish notification", "type", ev.Type, "user_id", userID)
	}
}

// Relay forwards every notifications:* message to the local hub until ctx
// is cancelled.
func Relay(ctx context.Context, rdb *redis.Client, hub *Hub) error {
	sub := rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			deliver(hub, msg.Channel, msg.Payload)
		}
	}
}

func deliver(hub *Hub, channel, payload string) bool {
	raw, ok := strings.CutPrefix(channel, channelPrefix)
	if !ok {
		return false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("notification on malformed channel", "channel", channel)
		return false
	}
	hub.SendToUser(userID, []byte(payload))
	return true
}
