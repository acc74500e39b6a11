package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nuitdor/booking-backend/internal/auth"
	authHttp "github.com/nuitdor/booking-backend/internal/auth/http"
	"github.com/nuitdor/booking-backend/internal/availability"
	availabilityHttp "github.com/nuitdor/booking-backend/internal/availability/http"
	"github.com/nuitdor/booking-backend/internal/blocked"
	blockedHttp "github.com/nuitdor/booking-backend/internal/blocked/http"
	"github.com/nuitdor/booking-backend/internal/booking"
	bookingHttp "github.com/nuitdor/booking-backend/internal/booking/http"
	"github.com/nuitdor/booking-backend/internal/gallery"
	galleryHttp "github.com/nuitdor/booking-backend/internal/gallery/http"
	"github.com/nuitdor/booking-backend/internal/payment"
	"github.com/nuitdor/booking-backend/internal/pkg/storage"
	"github.com/nuitdor/booking-backend/internal/pricing"
	"github.com/nuitdor/booking-backend/internal/promo"
	promoHttp "github.com/nuitdor/booking-backend/internal/promo/http"
)

// fakeCheckout stands in for the payment provider. Sessions are keyed by id;
// markPaid flips what RetrieveSession reports.
type fakeCheckout struct {
	configured bool
	nextID     int
	sessions   map[string]*payment.Session
	event      *payment.Event
}

func newFakeCheckout() *fakeCheckout {
	return &fakeCheckout{configured: true, sessions: map[string]*payment.Session{}}
}

func (f *fakeCheckout) CreateSession(_ context.Context, b *booking.Booking) (*payment.Session, error) {
	if !f.configured {
		return nil, payment.ErrNotConfigured
	}
	f.nextID++
	sess := &payment.Session{
		ID:        fmt.Sprintf("cs_test_%d", f.nextID),
		URL:       fmt.Sprintf("https://checkout.example.com/%d", f.nextID),
		BookingID: b.ID,
	}
	f.sessions[sess.ID] = sess
	return sess, nil
}

func (f *fakeCheckout) RetrieveSession(_ context.Context, sessionID string) (*payment.Session, error) {
	if !f.configured {
		return nil, payment.ErrNotConfigured
	}
	sess, ok := f.sessions[sessionID]
	if !ok {
		return &payment.Session{ID: sessionID}, nil
	}
	copied := *sess
	return &copied, nil
}

func (f *fakeCheckout) ParseWebhookEvent([]byte, string) (*payment.Event, error) {
	if f.event == nil {
		return &payment.Event{}, nil
	}
	return f.event, nil
}

func (f *fakeCheckout) pay(sessionID string) {
	if sess, ok := f.sessions[sessionID]; ok {
		sess.Paid = true
	}
}

type testEnv struct {
	router   *gin.Engine
	checkout *fakeCheckout
	bookings *booking.MemoryStore
	blocked  *blocked.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	bookings := booking.NewMemoryStore()
	blockedStore := blocked.NewMemoryStore()
	availabilityService := availability.NewService(bookings, blockedStore)
	bookingService := booking.NewService(bookings, availabilityService, nil, logger)

	calculator := pricing.NewCalculator(pricing.Config{
		Mode:                      pricing.ModeDayOfWeek,
		WeekdayRateCents:          15500,
		WeekendRateCents:          20500,
		WeekendDays:               []time.Weekday{time.Friday, time.Saturday},
		AddonMode:                 pricing.AddonMenu,
		OptionPricesCents:         map[string]int64{"petales": 3000, "champagne": 5000},
		MultiNightMinNights:       2,
		MultiNightDiscountPercent: 15,
		MinAmountCents:            100,
	})
	promoValidator := promo.NewStaticValidator(map[string]float64{"BIENVENUE10": 10})

	checkout := newFakeCheckout()

	uploadStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	galleryService := gallery.NewService(uploadStorage, 1600, "http://localhost:8080")

	verifier := auth.NewStaticVerifier("hunter2", "")
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	router := NewRouter(Config{
		Logger:     logger,
		Verifier:   verifier,
		JWTManager: jwtManager,

		AuthHandler:         authHttp.NewHandler(verifier, jwtManager),
		AvailabilityHandler: availabilityHttp.NewHandler(availabilityService),
		BlockedHandler:      blockedHttp.NewHandler(blockedStore),
		BookingHandler:      bookingHttp.NewHandler(bookingService, calculator, promoValidator, checkout),
		GalleryHandler:      galleryHttp.NewHandler(galleryService),
		PromoHandler:        promoHttp.NewHandler(promoValidator),
	})

	return &testEnv{
		router:   router,
		checkout: checkout,
		bookings: bookings,
		blocked:  blockedStore,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func reservationBody() map[string]any {
	return map[string]any{
		// 2024-03-08 is a Friday: two weekend nights at 20500 plus the
		// petales option, then the multi-night discount.
		"date_arrivee": "2024-03-08",
		"date_depart":  "2024-03-10",
		"addons":       []string{"petales"},
		"nom":          "Claire Dubois",
		"email":        "claire@example.com",
	}
}

func TestCreateReservationFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/create-reservation", reservationBody(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[bookingHttp.CreateReservationResponse](t, rec)
	// (20500*2 + 3000) * 0.85 = 37400
	assert.Equal(t, int64(37400), resp.AmountCents)
	assert.NotEmpty(t, resp.URL)
	assert.NotEmpty(t, resp.SessionID)

	b, err := env.bookings.GetByID(context.Background(), resp.BookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, b.Status)
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/create-reservation", reservationBody(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/create-reservation", reservationBody(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateReservationWithPromo(t *testing.T) {
	env := newTestEnv(t)

	body := reservationBody()
	body["promo_code"] = "bienvenue10"
	rec := env.do(t, http.MethodPost, "/api/create-reservation", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[bookingHttp.CreateReservationResponse](t, rec)
	// 44000 * 0.85 * 0.90 = 33660
	assert.Equal(t, int64(33660), resp.AmountCents)
}

func TestCreateReservationPaymentUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	env.checkout.configured = false

	rec := env.do(t, http.MethodPost, "/api/create-reservation", reservationBody(), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	resp := decode[map[string]any](t, rec)
	assert.NotZero(t, resp["booking_id"], "booking must be recorded before the payment step")
	assert.Contains(t, resp["message"], "STRIPE_SECRET_KEY")
}

func TestCreateReservationValidation(t *testing.T) {
	env := newTestEnv(t)

	body := reservationBody()
	body["date_depart"] = "2024-03-08"
	rec := env.do(t, http.MethodPost, "/api/create-reservation", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = reservationBody()
	delete(body, "email")
	rec = env.do(t, http.MethodPost, "/api/create-reservation", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmSession(t *testing.T) {
	env := newTestEnv(t)

	created := decode[bookingHttp.CreateReservationResponse](t,
		env.do(t, http.MethodPost, "/api/create-reservation", reservationBody(), nil))

	// Not paid yet.
	rec := env.do(t, http.MethodGet, "/api/confirm-session?session_id="+created.SessionID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	confirm := decode[bookingHttp.ConfirmSessionResponse](t, rec)
	assert.False(t, confirm.OK)

	env.checkout.pay(created.SessionID)

	rec = env.do(t, http.MethodGet, "/api/confirm-session?session_id="+created.SessionID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	confirm = decode[bookingHttp.ConfirmSessionResponse](t, rec)
	assert.True(t, confirm.OK)
	assert.False(t, confirm.Already)
	assert.Equal(t, "paid", confirm.Booking.Status)

	// Second poll is idempotent.
	rec = env.do(t, http.MethodGet, "/api/confirm-session?session_id="+created.SessionID, nil, nil)
	confirm = decode[bookingHttp.ConfirmSessionResponse](t, rec)
	assert.True(t, confirm.OK)
	assert.True(t, confirm.Already)
}

func TestWebhookMarksPaid(t *testing.T) {
	env := newTestEnv(t)

	created := decode[bookingHttp.CreateReservationResponse](t,
		env.do(t, http.MethodPost, "/api/create-reservation", reservationBody(), nil))

	env.checkout.event = &payment.Event{
		Completed: true,
		Session:   payment.Session{ID: created.SessionID, Paid: true, BookingID: created.BookingID},
	}

	rec := env.do(t, http.MethodPost, "/api/webhook/stripe", map[string]any{}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	b, err := env.bookings.GetByID(context.Background(), created.BookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPaid, b.Status)
}

func TestBookedDates(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/create-reservation", reservationBody(), nil)
	require.NoError(t, env.blocked.Add(context.Background(), mustDay("2024-03-15")))

	rec := env.do(t, http.MethodGet, "/api/booked-dates", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	resp := decode[availabilityHttp.BookedDatesResponse](t, rec)
	assert.Equal(t, []string{"2024-03-08", "2024-03-09", "2024-03-15"}, resp.Dates)
}

func TestValidatePromo(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/validate-promo?code=BIENVENUE10", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[promoHttp.ValidatePromoResponse](t, rec)
	assert.True(t, resp.Valid)
	assert.Equal(t, float64(10), resp.DiscountPercent)

	rec = env.do(t, http.MethodGet, "/api/validate-promo?code=NOPE", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[promoHttp.ValidatePromoResponse](t, rec)
	assert.False(t, resp.Valid)

	// Empty and absent codes are answered, not rejected.
	for _, path := range []string{"/api/validate-promo?code=", "/api/validate-promo"} {
		rec = env.do(t, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp = decode[promoHttp.ValidatePromoResponse](t, rec)
		assert.False(t, resp.Valid)
	}
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/admin/bookings", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/bookings", nil, map[string]string{"x-admin-password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/bookings", nil, map[string]string{"x-admin-password": "hunter2"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminLoginAndBookingManagement(t *testing.T) {
	env := newTestEnv(t)

	created := decode[bookingHttp.CreateReservationResponse](t,
		env.do(t, http.MethodPost, "/api/create-reservation", reservationBody(), nil))

	rec := env.do(t, http.MethodPost, "/api/admin/login", map[string]string{"password": "hunter2"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[authHttp.LoginResponse](t, rec)
	require.NotEmpty(t, login.Token)

	bearer := map[string]string{"Authorization": "Bearer " + login.Token}

	rec = env.do(t, http.MethodGet, "/api/admin/bookings", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]bookingHttp.BookingResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, created.BookingID, list[0].ID)

	rec = env.do(t, http.MethodDelete, "/api/admin/bookings/"+strconv.FormatInt(created.BookingID, 10), nil, bearer)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/admin/bookings/"+strconv.FormatInt(created.BookingID, 10), nil, bearer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminBlockedDates(t *testing.T) {
	env := newTestEnv(t)
	admin := map[string]string{"x-admin-password": "hunter2"}

	rec := env.do(t, http.MethodPost, "/api/admin/blocked-dates", map[string]string{"date": "2024-07-14"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/admin/blocked-dates", map[string]string{"date": "2024-07-14"}, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/blocked-dates", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[blockedHttp.BlockedDatesResponse](t, rec)
	assert.Equal(t, []string{"2024-07-14"}, list.Dates)

	// A blocked day refuses reservations covering it.
	body := map[string]any{
		"date_arrivee": "2024-07-13",
		"date_depart":  "2024-07-15",
		"nom":          "Claire Dubois",
		"email":        "claire@example.com",
	}
	rec = env.do(t, http.MethodPost, "/api/create-reservation", body, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/admin/blocked-dates/2024-07-14", nil, admin)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/admin/blocked-dates/2024-07-14", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminUnconfigured(t *testing.T) {
	env := newTestEnv(t)

	// Rebuild the router with no credential configured at all.
	gin.SetMode(gin.TestMode)
	verifier := auth.NewStaticVerifier("", "")
	jwtManager := auth.NewJWTManager("", time.Hour)

	router := NewRouter(Config{
		Logger:     zap.NewNop(),
		Verifier:   verifier,
		JWTManager: jwtManager,

		AuthHandler:         authHttp.NewHandler(verifier, jwtManager),
		AvailabilityHandler: availabilityHttp.NewHandler(availability.NewService(env.bookings, env.blocked)),
		BlockedHandler:      blockedHttp.NewHandler(env.blocked),
		BookingHandler:      bookingHttp.NewHandler(booking.NewService(env.bookings, availability.NewService(env.bookings, env.blocked), nil, zap.NewNop()), pricing.NewCalculator(pricing.Config{}), promo.NewStaticValidator(nil), env.checkout),
		GalleryHandler:      galleryHttp.NewHandler(gallery.NewService(mustLocalStorage(t), 1600, "")),
		PromoHandler:        promoHttp.NewHandler(promo.NewStaticValidator(nil)),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	req.Header.Set("x-admin-password", "anything")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func mustDay(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func mustLocalStorage(t *testing.T) storage.Storage {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return s
}
