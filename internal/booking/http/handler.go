package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuitdor/booking-backend/internal/booking"
	"github.com/nuitdor/booking-backend/internal/payment"
	"github.com/nuitdor/booking-backend/internal/pkg/logging"
	"github.com/nuitdor/booking-backend/internal/pkg/request"
	"github.com/nuitdor/booking-backend/internal/pkg/response"
	"github.com/nuitdor/booking-backend/internal/pricing"
	"github.com/nuitdor/booking-backend/internal/promo"
)

type Handler struct {
	service    *booking.Service
	calculator *pricing.Calculator
	promos     promo.Validator
	checkout   payment.CheckoutProvider
}

func NewHandler(
	service *booking.Service,
	calculator *pricing.Calculator,
	promos promo.Validator,
	checkout payment.CheckoutProvider,
) *Handler {
	return &Handler{
		service:    service,
		calculator: calculator,
		promos:     promos,
		checkout:   checkout,
	}
}

// CreateReservation quotes the stay server-side, records the pending booking
// and opens a checkout session. The client never supplies an amount.
func (h *Handler) CreateReservation(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "detail": err.Error()})
		return
	}

	arrivee, err := pricing.ParseDate(body.DateArrivee)
	if err != nil {
		response.Error(c, err)
		return
	}
	depart, err := pricing.ParseDate(body.DateDepart)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()

	promoResult := promo.Check(ctx, h.promos, body.PromoCode)

	quote, err := h.calculator.Quote(arrivee, depart, pricing.Selection{
		Options: body.Addons,
		Pack:    body.Pack,
	}, promoResult.DiscountPercent)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Create(ctx, booking.CreateRequest{
		DateArrivee: arrivee,
		DateDepart:  depart,
		Pack:        body.packField(),
		Nom:         body.Nom,
		Email:       body.Email,
		Telephone:   body.Telephone,
		Message:     body.Message,
		AmountCents: quote.TotalCents,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	sess, err := h.checkout.CreateSession(ctx, b)
	if err != nil {
		// The booking is already recorded; tell the caller which one so it
		// can be settled out of band or retried.
		if errors.Is(err, payment.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":      "online payment is not available",
				"message":    "Configurez STRIPE_SECRET_KEY pour activer le paiement en ligne.",
				"booking_id": b.ID,
			})
			return
		}
		logging.FromContext(c).Error("checkout session creation failed",
			zap.Int64("booking_id", b.ID), zap.Error(err))
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateReservationResponse{
		URL:         sess.URL,
		SessionID:   sess.ID,
		BookingID:   b.ID,
		AmountCents: b.AmountCents,
	})
}

// ConfirmSession is the browser-side fallback for the webhook: the success
// page polls it with the session id from the redirect URL.
func (h *Handler) ConfirmSession(c *gin.Context) {
	var query ConfirmSessionRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	ctx := c.Request.Context()

	sess, err := h.checkout.RetrieveSession(ctx, query.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if sess.BookingID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "session does not reference a booking"})
		return
	}

	if !sess.Paid {
		b, err := h.service.GetByID(ctx, sess.BookingID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, ConfirmSessionResponse{OK: false, Booking: NewBookingResponse(b)})
		return
	}

	b, transitioned, err := h.service.MarkPaid(ctx, sess.BookingID, sess.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ConfirmSessionResponse{
		OK:      true,
		Already: !transitioned,
		Booking: NewBookingResponse(b),
	})
}

// Webhook handles payment provider notifications. The signature is verified
// against the raw body, so this route must be registered without any body
// parsing middleware.
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	event, err := h.checkout.ParseWebhookEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if event.Completed && event.Session.BookingID != 0 {
		_, _, err := h.service.MarkPaid(c.Request.Context(), event.Session.BookingID, event.Session.ID)
		if err != nil && !errors.Is(err, booking.ErrNotFound) {
			response.Error(c, err)
			return
		}
		if errors.Is(err, booking.ErrNotFound) {
			logging.FromContext(c).Warn("webhook for unknown booking",
				zap.Int64("booking_id", event.Session.BookingID),
				zap.String("session_id", event.Session.ID))
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) AdminList(c *gin.Context) {
	bookings, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) AdminDelete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
