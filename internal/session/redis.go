package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	errx "github.com/dynamic-shelf-pricer/console/internal/core/error"
	"github.com/dynamic-shelf-pricer/console/internal/model"
	"github.com/dynamic-shelf-pricer/console/internal/view"
	logx "github.com/dynamic-shelf-pricer/console/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic retries when another request for the same
// session commits between WATCH and EXEC.
const maxTxRetries = 10

var ErrTooManyConflicts = errors.New("session update kept conflicting")

// Client is what RedisStore needs from go-redis; *redis.Client satisfies it.
type Client interface {
	redis.Cmdable
	Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error
}

// RedisStore keeps each session's state as one JSON value with a sliding TTL.
type RedisStore struct {
	rdb Client
	ttl time.Duration
}

func NewRedisStore(rdb Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (r *RedisStore) stateKey(sessionID string) string {
	return fmt.Sprintf("session:%s:state", sessionID)
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) (view.State, error) {
	key := r.stateKey(sessionID)
	state, err := r.read(ctx, r.rdb, key)
	if err != nil {
		return view.State{}, err
	}
	// extend TTL on touch
	if r.ttl > 0 {
		if err := r.rdb.Expire(ctx, key, r.ttl).Err(); err != nil {
			logx.Warn().Err(err).Str("key", key).Dur("ttl", r.ttl).Msg("failed to refresh session TTL")
		}
	}
	return state, nil
}

// Update is a WATCH/MULTI read-modify-write. fn is re-run when another
// writer commits in between.
func (r *RedisStore) Update(ctx context.Context, sessionID string, fn func(view.State) view.State) (view.State, error) {
	key := r.stateKey(sessionID)

	var next view.State
	txf := func(tx *redis.Tx) error {
		current, err := r.read(ctx, tx, key)
		if err != nil {
			return err
		}
		next = fn(current)
		b, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal session state: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, r.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			logx.Debug().Str("key", key).Int("attempt", attempt+1).Msg("session update conflicted, retrying")
			continue
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to update session state")
		var appErr *errx.AppError
		if errors.As(err, &appErr) {
			return view.State{}, err
		}
		return view.State{}, errx.WrapRedis(err)
	}
	return view.State{}, errx.WrapRedis(ErrTooManyConflicts)
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	key := r.stateKey(sessionID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete session state")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisStore) read(ctx context.Context, rdb redis.Cmdable, key string) (view.State, error) {
	b, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return view.NewState(), nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session state from redis")
		return view.State{}, errx.WrapRedis(err)
	}

	var state view.State
	if err := json.Unmarshal(b, &state); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to unmarshal session state")
		return view.State{}, fmt.Errorf("unmarshal session state: %w", err)
	}
	if state.Recommendations == nil {
		state.Recommendations = map[string]model.Recommendation{}
	}
	return state, nil
}

var _ view.Store = (*RedisStore)(nil)
