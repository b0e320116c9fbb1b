package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const messageSeqKey = "seq:messages"

// Sequence hands out monotonically increasing message ids with INCR, so
// every API replica sharing the Redis instance draws from one counter.
type Sequence struct {
	client *redis.Client
	key    string
}

func NewSequence(client *redis.Client) *Sequence {
	return &Sequence{client: client, key: messageSeqKey}
}

func (s *Sequence) Next(ctx context.Context) (int64, error) {
	id, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", s.key, err)
	}
	return id, nil
}
