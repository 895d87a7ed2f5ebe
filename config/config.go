package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	// Database
	DBDriver    string // postgres or sqlite
	DatabaseURL string
	AutoMigrate bool

	// Sessions
	JWTSecret  string
	TokenTTL   time.Duration
	CookieName string

	CartPricePolicy string
	RequestTimeout  time.Duration

	// Image storage
	StorageDriver string // local or firebase
	UploadsDir    string
	PublicBaseURL string

	// Firebase (Google sign-in and the firebase storage driver)
	FirebaseCredentialsJSON string
	FirebaseProjectID       string
	FirebaseBucket          string

	AMQPURL string

	OpsAPIKey        string
	CORSAllowOrigins []string

	// Orphaned image sweep
	SweepHour  int
	SweepGrace time.Duration

	CatalogMenuFile string
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:     getenv("PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AutoMigrate: parseBool(getenv("DB_AUTO_MIGRATE", "false")),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   parseDuration(getenv("TOKEN_TTL", "24h"), 24*time.Hour),
		CookieName: getenv("SESSION_COOKIE", "storegbs_session"),

		CartPricePolicy: getenv("CART_PRICE_POLICY", "live"),
		RequestTimeout:  parseDuration(getenv("REQUEST_TIMEOUT", "5s"), 5*time.Second),

		StorageDriver: strings.ToLower(getenv("STORAGE_DRIVER", "local")),
		UploadsDir:    getenv("UPLOADS_DIR", "./uploads"),
		PublicBaseURL: strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		FirebaseCredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseBucket:          os.Getenv("FIREBASE_BUCKET"),

		AMQPURL: os.Getenv("AMQP_URL"),

		OpsAPIKey:        os.Getenv("OPS_API_KEY"),
		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),

		SweepHour:  parseInt(getenv("SWEEP_HOUR", "3"), 3),
		SweepGrace: parseDuration(getenv("SWEEP_GRACE", "24h"), 24*time.Hour),

		CatalogMenuFile: os.Getenv("CATALOG_MENU_FILE"),
	}

	if cfg.DBDriver == "sqlite" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "storegbs.db"
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config: DATABASE_URL must be set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET must be set")
	}
	switch c.StorageDriver {
	case "local":
	case "firebase":
		if c.FirebaseCredentialsJSON == "" || c.FirebaseBucket == "" {
			return fmt.Errorf("config: firebase storage needs FIREBASE_CREDENTIALS_JSON and FIREBASE_BUCKET")
		}
	default:
		return fmt.Errorf("config: unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.SweepHour < 0 || c.SweepHour > 23 {
		return fmt.Errorf("config: SWEEP_HOUR must be between 0 and 23")
	}
	return nil
}

// FirebaseEnabled reports whether Google sign-in can be offered.
func (c Config) FirebaseEnabled() bool {
	return c.FirebaseCredentialsJSON != "" && c.FirebaseProjectID != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func parseBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
