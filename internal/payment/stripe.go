package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/nuitdor/booking-backend/internal/booking"
	"github.com/nuitdor/booking-backend/internal/pkg/apperror"
)

const metadataBookingID = "booking_id"

// StripeProvider drives Stripe hosted checkout. A provider constructed without
// a secret key answers ErrNotConfigured on every call, which keeps the wiring
// uniform for deployments that take reservations without online payment.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
	baseURL       string
}

func NewStripeProvider(secretKey, webhookSecret, baseURL string) *StripeProvider {
	p := &StripeProvider{webhookSecret: webhookSecret, baseURL: baseURL}
	if secretKey != "" {
		p.api = client.New(secretKey, nil)
	}
	return p
}

func (p *StripeProvider) Configured() bool {
	return p.api != nil
}

func (p *StripeProvider) CreateSession(ctx context.Context, b *booking.Booking) (*Session, error) {
	if p.api == nil {
		return nil, ErrNotConfigured
	}

	description := fmt.Sprintf("Séjour du %s au %s",
		b.DateArrivee.Format("02/01/2006"), b.DateDepart.Format("02/01/2006"))

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyEUR)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String("Réservation Nuit d'Or"),
					Description: stripe.String(description),
				},
				UnitAmount: stripe.Int64(b.AmountCents),
			},
			Quantity: stripe.Int64(1),
		}},
		CustomerEmail: stripe.String(b.Email),
		SuccessURL:    stripe.String(p.baseURL + "/merci.html?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(p.baseURL + "/reservation.html?cancelled=1"),
		Metadata: map[string]string{
			metadataBookingID: strconv.FormatInt(b.ID, 10),
		},
	}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, apperror.Wrap(err, http.StatusBadGateway, "payment provider request failed")
	}
	return sessionFromStripe(sess), nil
}

func (p *StripeProvider) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	if p.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, apperror.Wrap(err, http.StatusBadGateway, "payment provider request failed")
	}
	return sessionFromStripe(sess), nil
}

func (p *StripeProvider) ParseWebhookEvent(payload []byte, signature string) (*Event, error) {
	if p.webhookSecret == "" {
		return nil, ErrNotConfigured
	}

	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, apperror.Wrap(err, http.StatusBadRequest, "webhook signature verification failed")
	}

	if event.Type != "checkout.session.completed" {
		return &Event{}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout session failed: %w", err)
	}
	return &Event{Completed: true, Session: *sessionFromStripe(&sess)}, nil
}

func sessionFromStripe(sess *stripe.CheckoutSession) *Session {
	bookingID, _ := strconv.ParseInt(sess.Metadata[metadataBookingID], 10, 64)
	return &Session{
		ID:        sess.ID,
		URL:       sess.URL,
		Paid:      sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		BookingID: bookingID,
	}
}
