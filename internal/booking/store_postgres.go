package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxStore struct {
	pool *pgxpool.Pool
}

func NewPgxStore(pool *pgxpool.Pool) Store {
	return &pgxStore{pool: pool}
}

const bookingColumns = "id, date_arrivee, date_depart, pack, nom, email, " +
	"coalesce(telephone, ''), coalesce(message, ''), amount_cents, " +
	"coalesce(stripe_session_id, ''), status, created_at"

func (s *pgxStore) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("date_arrivee", "date_depart", "pack", "nom", "email", "telephone", "message", "amount_cents", "status").
		Values(b.DateArrivee, b.DateDepart, b.Pack, b.Nom, b.Email, b.Telephone, b.Message, b.AmountCents, StatusPending).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	b.Status = StatusPending
	return s.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt)
}

func (s *pgxStore) GetByID(ctx context.Context, id int64) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (s *pgxStore) ListAll(ctx context.Context) ([]*Booking, error) {
	return s.list(ctx, squirrel.Sqlizer(nil))
}

func (s *pgxStore) ListActive(ctx context.Context) ([]*Booking, error) {
	return s.list(ctx, squirrel.Eq{"status": []Status{StatusPending, StatusPaid}})
}

func (s *pgxStore) list(ctx context.Context, where squirrel.Sqlizer) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns).
		From("public.bookings").
		OrderBy("created_at DESC", "id DESC")
	if where != nil {
		query = query.Where(where)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (s *pgxStore) MarkPaid(ctx context.Context, id int64, sessionID string) (*Booking, bool, error) {
	// Compare-and-set on status so the webhook and the confirmation poll
	// can race: exactly one caller observes the transition.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", StatusPaid).
		Set("stripe_session_id", sessionID).
		Where(squirrel.Eq{"id": id, "status": StatusPending}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build mark paid query failed: %w", err)
	}

	ct, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("mark booking paid failed: %w", err)
	}

	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return b, ct.RowsAffected() > 0, nil
}

func (s *pgxStore) Delete(ctx context.Context, id int64) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.DateArrivee, &b.DateDepart, &b.Pack, &b.Nom, &b.Email,
		&b.Telephone, &b.Message, &b.AmountCents, &b.StripeSessionID,
		&b.Status, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
