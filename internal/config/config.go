package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const prodString = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	BaseURL      string

	// Persistence. StoreDriver selects the backend for bookings and
	// blocked dates: "memory", "postgres" or "redis".
	StoreDriver   string
	DBDSN         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Admin gate. Either the plain password or a bcrypt hash of it may be
	// configured; when both are empty the admin surface answers 503.
	AdminPassword     string
	AdminPasswordHash string
	AdminTokenSecret  string
	AdminTokenTTL     time.Duration

	// Payment provider.
	StripeSecretKey     string
	StripeWebhookSecret string

	// Outbound email.
	ResendAPIKey string
	EmailFrom    string
	NotifyEmail  string

	// Pricing tables, all amounts in cents.
	PricingMode               string
	NightlyRateCents          int64
	WeekdayRateCents          int64
	WeekendRateCents          int64
	WeekendDays               []time.Weekday
	AddonMode                 string
	OptionPricesCents         map[string]int64
	PackPricesCents           map[string]int64
	MultiNightMinNights       int
	MultiNightDiscountPercent float64
	MinAmountCents            int64

	// Static promo table, code -> discount percent.
	PromoCodes map[string]float64

	// Static assets and gallery uploads.
	PublicDir       string
	UploadsDir      string
	GalleryMaxWidth int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("PROD_ORIGINS", "")
	v.SetDefault("STORE_DRIVER", "memory")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("ADMIN_TOKEN_SECRET", "")
	v.SetDefault("ADMIN_TOKEN_TTL", "12h")
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "Nuit d'Or Loveroom <onboarding@resend.dev>")
	v.SetDefault("NOTIFY_EMAIL", "")
	v.SetDefault("PRICING_MODE", "dayofweek")
	v.SetDefault("NIGHTLY_RATE_CENTS", 15500)
	v.SetDefault("WEEKDAY_RATE_CENTS", 15500)
	v.SetDefault("WEEKEND_RATE_CENTS", 20500)
	v.SetDefault("WEEKEND_DAYS", "friday,saturday")
	v.SetDefault("ADDON_MODE", "menu")
	v.SetDefault("OPTION_PRICES", "petales=3000,bouquet=5000,champagne=5000,formule80=8000,arrivee15=4000,depart14=4000")
	v.SetDefault("PACK_PRICES", "champagne=5000,romance=9000,luxe=14000,evasion=12000")
	v.SetDefault("MULTI_NIGHT_MIN_NIGHTS", 2)
	v.SetDefault("MULTI_NIGHT_DISCOUNT_PERCENT", 15)
	v.SetDefault("MIN_AMOUNT_CENTS", 100)
	v.SetDefault("PROMO_CODES", "")
	v.SetDefault("PUBLIC_DIR", "public")
	v.SetDefault("UPLOADS_DIR", "uploads")
	v.SetDefault("GALLERY_MAX_WIDTH", 1600)

	cfg := &Config{
		IsProduction:      v.GetString("APP_ENV") == prodString,
		ProdOrigins:       v.GetString("PROD_ORIGINS"),
		HTTPAddr:          v.GetString("HTTP_ADDR"),
		BaseURL:           strings.TrimRight(v.GetString("BASE_URL"), "/"),
		StoreDriver:       v.GetString("STORE_DRIVER"),
		DBDSN:             v.GetString("DB_DSN"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		AdminTokenSecret:  v.GetString("ADMIN_TOKEN_SECRET"),

		StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),

		ResendAPIKey: v.GetString("RESEND_API_KEY"),
		EmailFrom:    v.GetString("EMAIL_FROM"),
		NotifyEmail:  v.GetString("NOTIFY_EMAIL"),

		PricingMode:               v.GetString("PRICING_MODE"),
		NightlyRateCents:          v.GetInt64("NIGHTLY_RATE_CENTS"),
		WeekdayRateCents:          v.GetInt64("WEEKDAY_RATE_CENTS"),
		WeekendRateCents:          v.GetInt64("WEEKEND_RATE_CENTS"),
		AddonMode:                 v.GetString("ADDON_MODE"),
		MultiNightMinNights:       v.GetInt("MULTI_NIGHT_MIN_NIGHTS"),
		MultiNightDiscountPercent: v.GetFloat64("MULTI_NIGHT_DISCOUNT_PERCENT"),
		MinAmountCents:            v.GetInt64("MIN_AMOUNT_CENTS"),

		PublicDir:       v.GetString("PUBLIC_DIR"),
		UploadsDir:      v.GetString("UPLOADS_DIR"),
		GalleryMaxWidth: v.GetInt("GALLERY_MAX_WIDTH"),
	}

	ttl, err := time.ParseDuration(v.GetString("ADMIN_TOKEN_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TOKEN_TTL: %w", err)
	}
	cfg.AdminTokenTTL = ttl

	switch cfg.StoreDriver {
	case "memory", "redis":
	case "postgres":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	cfg.WeekendDays, err = parseWeekdays(v.GetString("WEEKEND_DAYS"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEEKEND_DAYS: %w", err)
	}

	cfg.OptionPricesCents, err = parsePriceTable(v.GetString("OPTION_PRICES"))
	if err != nil {
		return nil, fmt.Errorf("invalid OPTION_PRICES: %w", err)
	}
	cfg.PackPricesCents, err = parsePriceTable(v.GetString("PACK_PRICES"))
	if err != nil {
		return nil, fmt.Errorf("invalid PACK_PRICES: %w", err)
	}

	cfg.PromoCodes, err = parsePromoTable(v.GetString("PROMO_CODES"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROMO_CODES: %w", err)
	}

	return cfg, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseWeekdays parses a comma-separated list of weekday names, e.g. "friday,saturday".
func parseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		day, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, day)
	}
	return days, nil
}

// parsePriceTable parses "key=cents,key=cents" into a price map.
func parsePriceTable(s string) (map[string]int64, error) {
	table := make(map[string]int64)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("entry %q is not key=cents", part)
		}
		cents, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil || cents < 0 {
			return nil, fmt.Errorf("entry %q has invalid amount", part)
		}
		table[strings.TrimSpace(key)] = cents
	}
	return table, nil
}

// parsePromoTable parses "CODE=percent,CODE=percent" into a discount map.
func parsePromoTable(s string) (map[string]float64, error) {
	table := make(map[string]float64)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("entry %q is not code=percent", part)
		}
		percent, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || percent <= 0 || percent > 100 {
			return nil, fmt.Errorf("entry %q has invalid percent", part)
		}
		table[strings.ToUpper(strings.TrimSpace(key))] = percent
	}
	return table, nil
}
