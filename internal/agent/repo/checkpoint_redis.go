package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nutripal/server/internal/agent/model"
	errx "github.com/nutripal/server/internal/core/error"
	logx "github.com/nutripal/server/pkg/logger"
)

// RedisCheckpointStore keeps each thread's checkpoint chain as a Redis list of
// JSON snapshots. Appending preserves write order, so the list is the durable
// ordering of the chain. Callers serialize turns per thread; the length read
// that assigns Seq therefore never races with another writer of the same
// thread.
type RedisCheckpointStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCheckpointStore(rdb redis.Cmdable, ttl time.Duration) *RedisCheckpointStore {
	return &RedisCheckpointStore{rdb: rdb, ttl: ttl}
}

func (r *RedisCheckpointStore) threadKey(threadID string) string {
	return fmt.Sprintf("thread:%s:checkpoints", threadID)
}

func (r *RedisCheckpointStore) Save(ctx context.Context, cp *model.Checkpoint) error {
	key := r.threadKey(cp.ThreadID)

	n, err := r.rdb.LLen(ctx, key).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to read checkpoint chain length")
		return errx.WrapRedis(err)
	}
	cp.Seq = n + 1

	b, err := json.Marshal(cp)
	if err != nil {
		logx.Error().Err(err).Str("threadID", cp.ThreadID).Msg("failed to marshal checkpoint")
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push checkpoint to redis")
		return errx.WrapRedis(err)
	}
	// extend TTL on touch
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on checkpoint key")
		}
	}
	return nil
}

func (r *RedisCheckpointStore) Latest(ctx context.Context, threadID string) (*model.Checkpoint, error) {
	key := r.threadKey(threadID)

	raw, err := r.rdb.LIndex(ctx, key, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, model.ErrNoCheckpoint
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load latest checkpoint from redis")
		return nil, errx.WrapRedis(err)
	}

	var cp model.Checkpoint
	if err := json.Unmarshal([]byte(raw), &cp); err != nil {
		logx.Error().Err(err).Str("threadID", threadID).Msg("failed to unmarshal checkpoint")
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	return &cp, nil
}

func (r *RedisCheckpointStore) History(ctx context.Context, threadID string) ([]*model.Checkpoint, error) {
	key := r.threadKey(threadID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load checkpoint history from redis")
		return nil, errx.WrapRedis(err)
	}

	// stored oldest first; history is served newest first
	cps := make([]*model.Checkpoint, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		var cp model.Checkpoint
		if err := json.Unmarshal([]byte(rows[i]), &cp); err != nil {
			logx.Error().Err(err).Str("threadID", threadID).Int("index", i).Msg("failed to unmarshal checkpoint")
			return nil, fmt.Errorf("unmarshal checkpoint at index %d: %w", i, err)
		}
		cps = append(cps, &cp)
	}
	return cps, nil
}

var _ model.CheckpointStore = (*RedisCheckpointStore)(nil)
