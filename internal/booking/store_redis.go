package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisIDCounterKey  = "bookings:next_id"
	redisIDSetKey      = "bookings:ids"
	redisBookingPrefix = "booking:"
)

const dateLayout = "2006-01-02"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore persists bookings as one hash per booking plus an id set and
// an INCR-backed id counter.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) key(id int64) string {
	return redisBookingPrefix + strconv.FormatInt(id, 10)
}

func (s *redisStore) Create(ctx context.Context, b *Booking) error {
	id, err := s.client.Incr(ctx, redisIDCounterKey).Result()
	if err != nil {
		return fmt.Errorf("allocate booking id failed: %w", err)
	}

	b.ID = id
	b.Status = StatusPending
	b.CreatedAt = time.Now().UTC()

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(id), bookingFields(b))
	pipe.SAdd(ctx, redisIDSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store booking failed: %w", err)
	}
	return nil
}

func (s *redisStore) GetByID(ctx context.Context, id int64) (*Booking, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return bookingFromFields(id, fields)
}

func (s *redisStore) ListAll(ctx context.Context) ([]*Booking, error) {
	return s.list(ctx, func(*Booking) bool { return true })
}

func (s *redisStore) ListActive(ctx context.Context) ([]*Booking, error) {
	return s.list(ctx, func(b *Booking) bool {
		return b.Status == StatusPending || b.Status == StatusPaid
	})
}

func (s *redisStore) list(ctx context.Context, keep func(*Booking) bool) ([]*Booking, error) {
	ids, err := s.client.SMembers(ctx, redisIDSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list booking ids failed: %w", err)
	}

	var bookings []*Booking
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		b, err := s.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if keep(b) {
			bookings = append(bookings, b)
		}
	}

	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].ID > bookings[j].ID
	})
	return bookings, nil
}

func (s *redisStore) MarkPaid(ctx context.Context, id int64, sessionID string) (*Booking, bool, error) {
	key := s.key(id)
	transitioned := false

	// WATCH-guarded compare-and-set on status so racing confirmations
	// (webhook vs poll) resolve to a single transition.
	txn := func(tx *redis.Tx) error {
		status, err := tx.HGet(ctx, key, "status").Result()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if Status(status) != StatusPending {
			transitioned = false
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "status", string(StatusPaid), "stripe_session_id", sessionID)
			return nil
		})
		if err == nil {
			transitioned = true
		}
		return err
	}

	for range 3 {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, false, ErrNotFound
			}
			return nil, false, fmt.Errorf("mark booking paid failed: %w", err)
		}
		b, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, false, err
		}
		return b, transitioned, nil
	}
	return nil, false, fmt.Errorf("mark booking paid failed: transaction retries exhausted")
}

func (s *redisStore) Delete(ctx context.Context, id int64) error {
	removed, err := s.client.SRem(ctx, redisIDSetKey, id).Result()
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete booking hash failed: %w", err)
	}
	return nil
}

func bookingFields(b *Booking) map[string]any {
	return map[string]any{
		"date_arrivee":      b.DateArrivee.Format(dateLayout),
		"date_depart":       b.DateDepart.Format(dateLayout),
		"pack":              b.Pack,
		"nom":               b.Nom,
		"email":             b.Email,
		"telephone":         b.Telephone,
		"message":           b.Message,
		"amount_cents":      b.AmountCents,
		"stripe_session_id": b.StripeSessionID,
		"status":            string(b.Status),
		"created_at":        b.CreatedAt.Format(time.RFC3339Nano),
	}
}

func bookingFromFields(id int64, fields map[string]string) (*Booking, error) {
	arrivee, err := time.Parse(dateLayout, fields["date_arrivee"])
	if err != nil {
		return nil, fmt.Errorf("booking %d has invalid date_arrivee: %w", id, err)
	}
	depart, err := time.Parse(dateLayout, fields["date_depart"])
	if err != nil {
		return nil, fmt.Errorf("booking %d has invalid date_depart: %w", id, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("booking %d has invalid created_at: %w", id, err)
	}
	amount, err := strconv.ParseInt(fields["amount_cents"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("booking %d has invalid amount_cents: %w", id, err)
	}

	return &Booking{
		ID:              id,
		DateArrivee:     arrivee,
		DateDepart:      depart,
		Pack:            fields["pack"],
		Nom:             fields["nom"],
		Email:           fields["email"],
		Telephone:       fields["telephone"],
		Message:         fields["message"],
		AmountCents:     amount,
		StripeSessionID: fields["stripe_session_id"],
		Status:          Status(fields["status"]),
		CreatedAt:       createdAt,
	}, nil
}
