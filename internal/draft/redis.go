package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces draft keys in Redis.
const KeyPrefix = "loan:draft:"

// RedisStore keeps drafts in Redis. Every Save refreshes the draft's TTL;
// a zero TTL keeps drafts until they are deleted.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewRedisStore creates a RedisStore on client.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func key(id string) string {
	return KeyPrefix + id
}

// Save stores app, stamping UpdatedAt.
func (s *RedisStore) Save(ctx context.Context, app *Application) error {
	app.UpdatedAt = s.now().UTC()
	data, err := Encode(app)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, key(app.ID), data, s.ttl).Err(); err != nil {
		s.logger.Error("failed to save draft",
			zap.String("op", "draft.RedisStore.Save"),
			zap.String("draft_id", app.ID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save draft %s: %w", app.ID, err)
	}

	s.logger.Debug("draft saved",
		zap.String("op", "draft.RedisStore.Save"),
		zap.String("draft_id", app.ID),
		zap.Duration("ttl", s.ttl),
	)
	return nil
}

// Load returns the draft stored under id.
func (s *RedisStore) Load(ctx context.Context, id string) (*Application, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}

	app, err := Decode(data)
	if err != nil {
		s.logger.Warn("stored draft failed to decode",
			zap.String("op", "draft.RedisStore.Load"),
			zap.String("draft_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return app, nil
}

// Delete removes the draft stored under id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}
