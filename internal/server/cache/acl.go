package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	aclKeyPrefix = "acl:note:"
	genKeyPrefix = "acl:gen:"
)

// errStaleViewers means the note was invalidated after the generation was read
var errStaleViewers = errors.New("acl generation changed")

// aclKey returns the Redis set holding the viewers of a note
func aclKey(noteID string) string {
	return aclKeyPrefix + noteID
}

// genKey returns the key holding the invalidation token of a note
func genKey(noteID string) string {
	return genKeyPrefix + noteID
}

// GetViewers returns the cached viewers of a note. ok is false on a miss.
func (c *Cache) GetViewers(ctx context.Context, noteID string) ([]string, bool, error) {
	viewers, err := c.client.SMembers(ctx, aclKey(noteID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get note viewers: %w", err)
	}

	// Пустое множество в Redis не хранится, значит это промах
	if len(viewers) == 0 {
		return nil, false, nil
	}

	return viewers, true, nil
}

// Generation returns the current invalidation token of a note; "" if none.
// Read it before loading viewers from the database and pass it to SetViewers.
func (c *Cache) Generation(ctx context.Context, noteID string) (string, error) {
	gen, err := c.client.Get(ctx, genKey(noteID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get acl generation: %w", err)
	}
	return gen, nil
}

// SetViewers replaces the cached viewers of a note unless the note was
// invalidated after gen was read. A skipped write is not an error.
func (c *Cache) SetViewers(ctx context.Context, noteID, gen string, viewers []string) error {
	if len(viewers) == 0 {
		return nil
	}

	members := make([]interface{}, len(viewers))
	for i, v := range viewers {
		members[i] = v
	}

	key, gk := aclKey(noteID), genKey(noteID)

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, gk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleViewers
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.SAdd(ctx, key, members...)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, gk)

	switch {
	case err == nil, errors.Is(err, errStaleViewers), errors.Is(err, redis.TxFailedErr):
		// TxFailedErr: Invalidate изменил gen между WATCH и EXEC
		return nil
	default:
		return fmt.Errorf("set note viewers: %w", err)
	}
}

// Invalidate drops the cached viewers of a note and rotates its generation,
// so that viewers loaded before this call are never written back.
func (c *Cache) Invalidate(ctx context.Context, noteID string) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, genKey(noteID), uuid.NewString(), c.ttl)
	pipe.Del(ctx, aclKey(noteID))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate note viewers: %w", err)
	}
	return nil
}
