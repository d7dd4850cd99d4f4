package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/forgo/mergington/api/internal/database"
	"github.com/forgo/mergington/api/internal/model"
)

// maxWatchRetries bounds optimistic-lock retries on a contended roster
const maxWatchRetries = 10

// RedisActivityRepository stores each activity as a hash plus a list for
// the roster, and keeps the set of activity names in an index key:
//
//	{prefix}:activities                      SET of names
//	{prefix}:activity:{name}                 HASH description/schedule/max_participants
//	{prefix}:activity:{name}:participants    LIST of emails in signup order
type RedisActivityRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisActivityRepository creates a new Redis-backed repository
func NewRedisActivityRepository(client *redis.Client, prefix string) *RedisActivityRepository {
	if prefix == "" {
		prefix = "mergington"
	}
	return &RedisActivityRepository{client: client, prefix: prefix}
}

func (r *RedisActivityRepository) indexKey() string {
	return r.prefix + ":activities"
}

func (r *RedisActivityRepository) activityKey(name string) string {
	return r.prefix + ":activity:" + name
}

func (r *RedisActivityRepository) participantsKey(name string) string {
	return r.activityKey(name) + ":participants"
}

// List retrieves every activity ordered by name
func (r *RedisActivityRepository) List(ctx context.Context) ([]*model.Activity, error) {
	names, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
	sort.Strings(names)

	activities := make([]*model.Activity, 0, len(names))
	for _, name := range names {
		a, err := r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if a != nil {
			activities = append(activities, a)
		}
	}
	return activities, nil
}

// GetByName retrieves an activity by name, or nil if absent
func (r *RedisActivityRepository) GetByName(ctx context.Context, name string) (*model.Activity, error) {
	var (
		fields       *redis.MapStringStringCmd
		participants *redis.StringSliceCmd
	)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, r.activityKey(name))
		participants = pipe.LRange(ctx, r.participantsKey(name), 0, -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrQuery, err)
	}

	m := fields.Val()
	if len(m) == 0 {
		return nil, nil
	}
	maxParticipants, _ := strconv.Atoi(m["max_participants"])
	roster := participants.Val()
	if roster == nil {
		roster = []string{}
	}

	return &model.Activity{
		Name:            name,
		Description:     m["description"],
		Schedule:        m["schedule"],
		MaxParticipants: maxParticipants,
		Participants:    roster,
	}, nil
}

// AddParticipant appends email under WATCH so the membership check and the
// push commit together or not at all.
func (r *RedisActivityRepository) AddParticipant(ctx context.Context, name, email string) error {
	listKey := r.participantsKey(name)

	txf := func(tx *redis.Tx) error {
		exists, err := tx.SIsMember(ctx, r.indexKey(), name).Result()
		if err != nil {
			return err
		}
		if !exists {
			return database.ErrNotFound
		}

		_, err = tx.LPos(ctx, listKey, email, redis.LPosArgs{}).Result()
		switch {
		case err == nil:
			return database.ErrDuplicate
		case !errors.Is(err, redis.Nil):
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, listKey, email)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.client.Watch(ctx, txf, listKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return wrapRedisError(err)
	}
	return fmt.Errorf("%w: roster for %q kept changing", database.ErrQuery, name)
}

// RemoveParticipant removes the first (only) occurrence of email
func (r *RedisActivityRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	removed, err := r.client.LRem(ctx, r.participantsKey(name), 1, email).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
	if removed > 0 {
		return nil
	}

	exists, err := r.client.SIsMember(ctx, r.indexKey(), name).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
	if !exists {
		return database.ErrNotFound
	}
	return ErrParticipantNotFound
}

// Seed writes activities that have no hash yet. The index entry, hash and
// roster for one activity commit in a single MULTI, so a failed write never
// leaves a name indexed without its data. A name indexed without a hash is
// written again.
func (r *RedisActivityRepository) Seed(ctx context.Context, activities []*model.Activity) error {
	for _, a := range activities {
		if err := r.seedOne(ctx, a); err != nil {
			return fmt.Errorf("seed %q: %w", a.Name, err)
		}
	}
	return nil
}

func (r *RedisActivityRepository) seedOne(ctx context.Context, a *model.Activity) error {
	hashKey := r.activityKey(a.Name)
	listKey := r.participantsKey(a.Name)

	txf := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, hashKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hashKey, map[string]interface{}{
				"description":      a.Description,
				"schedule":         a.Schedule,
				"max_participants": a.MaxParticipants,
			})
			pipe.Del(ctx, listKey)
			if len(a.Participants) > 0 {
				values := make([]interface{}, len(a.Participants))
				for i, p := range a.Participants {
					values[i] = p
				}
				pipe.RPush(ctx, listKey, values...)
			}
			pipe.SAdd(ctx, r.indexKey(), a.Name)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.client.Watch(ctx, txf, hashKey, listKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return wrapRedisError(err)
	}
	return fmt.Errorf("%w: %q kept changing during seed", database.ErrQuery, a.Name)
}

// Ping checks the Redis connection
func (r *RedisActivityRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	return nil
}

// Close closes the Redis client
func (r *RedisActivityRepository) Close() error {
	return r.client.Close()
}

// wrapRedisError passes sentinel errors through and tags the rest as query errors
func wrapRedisError(err error) error {
	if err == nil ||
		errors.Is(err, database.ErrNotFound) ||
		errors.Is(err, database.ErrDuplicate) {
		return err
	}
	return fmt.Errorf("%w: %v", database.ErrQuery, err)
}
