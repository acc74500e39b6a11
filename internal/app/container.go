package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nuitdor/booking-backend/internal/api"
	"github.com/nuitdor/booking-backend/internal/auth"
	authHttp "github.com/nuitdor/booking-backend/internal/auth/http"
	"github.com/nuitdor/booking-backend/internal/availability"
	availabilityHttp "github.com/nuitdor/booking-backend/internal/availability/http"
	"github.com/nuitdor/booking-backend/internal/blocked"
	blockedHttp "github.com/nuitdor/booking-backend/internal/blocked/http"
	"github.com/nuitdor/booking-backend/internal/booking"
	bookingHttp "github.com/nuitdor/booking-backend/internal/booking/http"
	"github.com/nuitdor/booking-backend/internal/config"
	"github.com/nuitdor/booking-backend/internal/gallery"
	galleryHttp "github.com/nuitdor/booking-backend/internal/gallery/http"
	"github.com/nuitdor/booking-backend/internal/mail"
	"github.com/nuitdor/booking-backend/internal/payment"
	"github.com/nuitdor/booking-backend/internal/pkg/storage"
	"github.com/nuitdor/booking-backend/internal/pricing"
	"github.com/nuitdor/booking-backend/internal/promo"
	promoHttp "github.com/nuitdor/booking-backend/internal/promo/http"
)

// Deps are the externally managed resources the container wires together.
// DBPool and Redis may be nil when the configured store driver does not need
// them.
type Deps struct {
	Config *config.Config
	Logger *zap.Logger
	DBPool *pgxpool.Pool
	Redis  *redis.Client
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(deps Deps) (*Container, error) {
	cfg := deps.Config

	bookingStore, blockedStore, err := newStores(deps)
	if err != nil {
		return nil, err
	}

	// Auth components
	verifier := auth.NewStaticVerifier(cfg.AdminPassword, cfg.AdminPasswordHash)
	tokenSecret := cfg.AdminTokenSecret
	if tokenSecret == "" {
		// Session tokens stay usable without a dedicated secret; they are
		// invalidated whenever the admin credential changes. The hash
		// fallback keeps the secret non-empty in hash-only deployments.
		tokenSecret = cfg.AdminPassword
	}
	if tokenSecret == "" {
		tokenSecret = cfg.AdminPasswordHash
	}
	jwtManager := auth.NewJWTManager(tokenSecret, cfg.AdminTokenTTL)

	// Pricing and promos
	calculator := pricing.NewCalculator(pricing.Config{
		Mode:                      pricing.Mode(cfg.PricingMode),
		NightlyRateCents:          cfg.NightlyRateCents,
		WeekdayRateCents:          cfg.WeekdayRateCents,
		WeekendRateCents:          cfg.WeekendRateCents,
		WeekendDays:               cfg.WeekendDays,
		AddonMode:                 pricing.AddonMode(cfg.AddonMode),
		OptionPricesCents:         cfg.OptionPricesCents,
		PackPricesCents:           cfg.PackPricesCents,
		MultiNightMinNights:       cfg.MultiNightMinNights,
		MultiNightDiscountPercent: cfg.MultiNightDiscountPercent,
		MinAmountCents:            cfg.MinAmountCents,
	})
	promoValidator := promo.NewStaticValidator(cfg.PromoCodes)

	// Availability over both stores
	availabilityService := availability.NewService(bookingStore, blockedStore)

	// Outbound integrations. Both are optional; say so once at startup
	// instead of on every request.
	mailer := mail.NewMailer(cfg.ResendAPIKey, cfg.EmailFrom, cfg.NotifyEmail, deps.Logger)
	checkout := payment.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.BaseURL)
	if !checkout.Configured() {
		deps.Logger.Warn("online payment disabled, STRIPE_SECRET_KEY is not set")
	}
	if !mailer.Configured() {
		deps.Logger.Info("confirmation emails disabled, RESEND_API_KEY is not set")
	}

	// Booking module
	bookingService := booking.NewService(bookingStore, availabilityService, mailer, deps.Logger)

	// Gallery module
	uploadStorage, err := storage.NewLocalStorage(cfg.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("init uploads storage: %w", err)
	}
	galleryService := gallery.NewService(uploadStorage, cfg.GalleryMaxWidth, cfg.BaseURL)

	router := api.NewRouter(api.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		PublicDir:    cfg.PublicDir,
		UploadsDir:   cfg.UploadsDir,
		Logger:       deps.Logger,
		Verifier:     verifier,
		JWTManager:   jwtManager,

		AuthHandler:         authHttp.NewHandler(verifier, jwtManager),
		AvailabilityHandler: availabilityHttp.NewHandler(availabilityService),
		BlockedHandler:      blockedHttp.NewHandler(blockedStore),
		BookingHandler:      bookingHttp.NewHandler(bookingService, calculator, promoValidator, checkout),
		GalleryHandler:      galleryHttp.NewHandler(galleryService),
		PromoHandler:        promoHttp.NewHandler(promoValidator),
	})

	return &Container{Router: router}, nil
}

func newStores(deps Deps) (booking.Store, blocked.Store, error) {
	switch deps.Config.StoreDriver {
	case "postgres":
		if deps.DBPool == nil {
			return nil, nil, fmt.Errorf("postgres store driver requires a database pool")
		}
		return booking.NewPgxStore(deps.DBPool), blocked.NewPgxStore(deps.DBPool), nil
	case "redis":
		if deps.Redis == nil {
			return nil, nil, fmt.Errorf("redis store driver requires a redis client")
		}
		return booking.NewRedisStore(deps.Redis), blocked.NewRedisStore(deps.Redis), nil
	case "memory":
		return booking.NewMemoryStore(), blocked.NewMemoryStore(), nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", deps.Config.StoreDriver)
	}
}
