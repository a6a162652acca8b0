package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store remembers payment callbacks that were already dispatched, so a
// redelivered callback does not repeat the notification sequence. Entries
// expire after the retention TTL; the payment gateway stops redelivering
// long before that.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Key includes the callback status so a PENDING notification for a
// reference does not suppress the later SUCCESS one.
func (s *Store) Key(referenceID, status string) string {
	return fmt.Sprintf("notified:%s:%s", referenceID, status)
}

// Seen atomically records the key and reports whether it was already
// present. SetNX is the check-and-insert, so two concurrent deliveries of
// the same callback race safely.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}

	return !ok, nil
}
