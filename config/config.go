package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/burger-storefront/utils"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DB_DSN" envDefault:"storefront.db"`

	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev-storefront-secret"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	MenuFeedURL      string        `env:"MENU_FEED_URL" envDefault:"https://free-food-menus-api-two.vercel.app/burgers"`
	OrderEndpointURL string        `env:"ORDER_ENDPOINT_URL" envDefault:"https://script.google.com/macros/s/AKfycbxgS55kSFxYvim4mEckm5_fVmgiNiwgDo817kxMCJWld6OFnu0MMRzSyvYiByRjjS561g/exec"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`

	// Overrides for the content store constants. Unset fee and rate stay nil
	// so an explicit 0 can be told apart from no override.
	DeliveryFee      *float64      `env:"DELIVERY_FEE"`
	TaxRate          *float64      `env:"TAX_RATE"`
	Currency         string        `env:"CURRENCY"`
	CarouselInterval time.Duration `env:"CAROUSEL_INTERVAL"`
	ContentFile      string        `env:"CONTENT_FILE"`

	CORSAllowOrigin       string `env:"CORS_ALLOW_ORIGIN"`
	CheckoutRatePerMinute int    `env:"CHECKOUT_RATE_PER_MINUTE" envDefault:"5"`

	AMQPURL  string `env:"AMQP_URL"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (when present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.Info().Println("Warning: .env file not found, using environment only")
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "mysql" {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if (cfg.TaxRate != nil && *cfg.TaxRate < 0) || (cfg.DeliveryFee != nil && *cfg.DeliveryFee < 0) {
		return Config{}, fmt.Errorf("DELIVERY_FEE and TAX_RATE must not be negative")
	}
	return cfg, nil
}
