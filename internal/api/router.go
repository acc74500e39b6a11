package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuitdor/booking-backend/internal/auth"
	authHttp "github.com/nuitdor/booking-backend/internal/auth/http"
	availabilityHttp "github.com/nuitdor/booking-backend/internal/availability/http"
	blockedHttp "github.com/nuitdor/booking-backend/internal/blocked/http"
	bookingHttp "github.com/nuitdor/booking-backend/internal/booking/http"
	galleryHttp "github.com/nuitdor/booking-backend/internal/gallery/http"
	promoHttp "github.com/nuitdor/booking-backend/internal/promo/http"
)

// Config carries everything the router needs, already constructed.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	PublicDir    string
	UploadsDir   string

	Logger *zap.Logger

	Verifier   auth.PasswordVerifier
	JWTManager *auth.JWTManager

	AuthHandler         *authHttp.Handler
	AvailabilityHandler *availabilityHttp.Handler
	BlockedHandler      *blockedHttp.Handler
	BookingHandler      *bookingHttp.Handler
	GalleryHandler      *galleryHttp.Handler
	PromoHandler        *promoHttp.Handler
}

// NewRouter assembles middleware (logging, recovery, CORS), static serving and
// the API routes for every module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "x-admin-password"}
	r.Use(cors.New(corsConfig))

	// Gallery uploads get their own prefix; the site itself is served from
	// the root for every path the API does not claim.
	if cfg.UploadsDir != "" {
		r.Static("/uploads", cfg.UploadsDir)
	}
	if cfg.PublicDir != "" {
		siteFS := http.Dir(cfg.PublicDir)
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.FileFromFS(c.Request.URL.Path, siteFS)
		})
	}

	public := r.Group("/api")
	admin := r.Group("/api/admin")
	admin.Use(auth.AdminRequired(cfg.Verifier, cfg.JWTManager))

	authHttp.RegisterRoutes(public, cfg.AuthHandler)
	availabilityHttp.RegisterRoutes(public, cfg.AvailabilityHandler)
	promoHttp.RegisterRoutes(public, cfg.PromoHandler)
	bookingHttp.RegisterRoutes(public, admin, cfg.BookingHandler)
	blockedHttp.RegisterRoutes(admin, cfg.BlockedHandler)
	galleryHttp.RegisterRoutes(public, admin, cfg.GalleryHandler)

	return r
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
