package blocked

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisBlockedSetKey = "blocked_dates"

const dateLayout = "2006-01-02"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore keeps blocked dates as a set of YYYY-MM-DD members.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Add(ctx context.Context, date time.Time) error {
	added, err := s.client.SAdd(ctx, redisBlockedSetKey, date.Format(dateLayout)).Result()
	if err != nil {
		return fmt.Errorf("block date failed: %w", err)
	}
	if added == 0 {
		return ErrAlreadyBlocked
	}
	return nil
}

func (s *redisStore) Remove(ctx context.Context, date time.Time) error {
	removed, err := s.client.SRem(ctx, redisBlockedSetKey, date.Format(dateLayout)).Result()
	if err != nil {
		return fmt.Errorf("unblock date failed: %w", err)
	}
	if removed == 0 {
		return ErrNotBlocked
	}
	return nil
}

func (s *redisStore) List(ctx context.Context) ([]time.Time, error) {
	members, err := s.client.SMembers(ctx, redisBlockedSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list blocked dates failed: %w", err)
	}

	var dates []time.Time
	for _, member := range members {
		d, err := time.Parse(dateLayout, member)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
