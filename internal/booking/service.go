package booking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AvailabilityChecker answers whether a stay range is free of blocked days and
// competing reservations. Declared here so the availability package can depend
// on this package's Store without a cycle.
type AvailabilityChecker interface {
	IsRangeFree(ctx context.Context, arrivee, depart time.Time) (bool, error)
}

// Mailer delivers the confirmation email once a booking is paid. Sending is
// best-effort: failures are logged, never surfaced to the payer.
type Mailer interface {
	SendConfirmation(ctx context.Context, b *Booking) error
}

type Service struct {
	store        Store
	availability AvailabilityChecker
	mailer       Mailer
	logger       *zap.Logger
}

func NewService(store Store, availability AvailabilityChecker, mailer Mailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:        store,
		availability: availability,
		mailer:       mailer,
		logger:       logger,
	}
}

type CreateRequest struct {
	DateArrivee time.Time
	DateDepart  time.Time
	Pack        string
	Nom         string
	Email       string
	Telephone   string
	Message     string
	AmountCents int64
}

// Create validates contact fields, re-checks availability against the current
// calendar and persists the booking as pending.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if strings.TrimSpace(req.Nom) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, ErrMissingContact
	}

	free, err := s.availability.IsRangeFree(ctx, req.DateArrivee, req.DateDepart)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrDatesUnavailable
	}

	b := &Booking{
		DateArrivee: req.DateArrivee,
		DateDepart:  req.DateDepart,
		Pack:        req.Pack,
		Nom:         strings.TrimSpace(req.Nom),
		Email:       strings.TrimSpace(req.Email),
		Telephone:   strings.TrimSpace(req.Telephone),
		Message:     strings.TrimSpace(req.Message),
		AmountCents: req.AmountCents,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.String("date_arrivee", b.DateArrivee.Format("2006-01-02")),
		zap.String("date_depart", b.DateDepart.Format("2006-01-02")),
		zap.Int64("amount_cents", b.AmountCents),
	)
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]*Booking, error) {
	return s.store.ListAll(ctx)
}

// MarkPaid records the payment. The webhook and the browser confirmation poll
// both land here; the store's compare-and-set guarantees the confirmation
// email goes out once no matter how many callers race. The bool reports
// whether this call performed the transition.
func (s *Service) MarkPaid(ctx context.Context, id int64, sessionID string) (*Booking, bool, error) {
	b, transitioned, err := s.store.MarkPaid(ctx, id, sessionID)
	if err != nil {
		return nil, false, err
	}

	if transitioned {
		s.logger.Info("booking paid",
			zap.Int64("booking_id", b.ID),
			zap.String("stripe_session_id", sessionID),
		)
		if s.mailer != nil {
			if err := s.mailer.SendConfirmation(ctx, b); err != nil {
				s.logger.Warn("confirmation email failed",
					zap.Int64("booking_id", b.ID),
					zap.Error(err),
				)
			}
		}
	}
	return b, transitioned, nil
}

// Delete removes a booking regardless of status. Paid bookings are deletable
// too (manual refunds happen); the snapshot is logged so the record survives
// in the logs.
func (s *Service) Delete(ctx context.Context, id int64) error {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("booking deleted",
		zap.Int64("booking_id", b.ID),
		zap.String("status", string(b.Status)),
		zap.String("nom", b.Nom),
		zap.String("email", b.Email),
		zap.String("date_arrivee", b.DateArrivee.Format("2006-01-02")),
		zap.String("date_depart", b.DateDepart.Format("2006-01-02")),
		zap.Int64("amount_cents", b.AmountCents),
	)
	return nil
}
