package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/config"
	goredis "github.com/redis/go-redis/v9"
)

const reminderKeyPrefix = "commission:reminded:"

// Connect builds a client from the redis config section and checks it answers.
func Connect(ctx context.Context, cfg config.Redis) (*goredis.Client, error) {
	var opts *goredis.Options
	if strings.HasPrefix(cfg.Addr, "redis://") {
		parsed, err := goredis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &goredis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}

	client := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ReminderStore keeps one key per reminded order. Keys expire on their own
// once the order is past expiry.
type ReminderStore struct {
	client *goredis.Client
}

func NewReminderStore(client *goredis.Client) *ReminderStore {
	return &ReminderStore{client: client}
}

func (s *ReminderStore) MarkReminded(ctx context.Context, orderID string, ttl time.Duration) error {
	return s.client.Set(ctx, reminderKeyPrefix+orderID, time.Now().UTC().Format(time.RFC3339), ttl).Err()
}

func (s *ReminderStore) Reminded(ctx context.Context, orderIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	keys := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		keys[i] = reminderKeyPrefix + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if v != nil {
			out[orderIDs[i]] = true
		}
	}
	return out, nil
}
