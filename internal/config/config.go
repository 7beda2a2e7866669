package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for admin auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// FirebaseCredentials は FCM 初期化に使う認証情報の候補をまとめたもの。
// ファイルパス・JSON 文字列・個別フィールドの 3 形態のいずれかで渡される。
type FirebaseCredentials struct {
	CredentialsFile    string
	ServiceAccountJSON string
	ProjectID          string
	ClientEmail        string
	PrivateKey         string
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                   string
	MongoURI               string
	MongoDatabase          string
	StadiumCollection      string
	ShopCollection         string
	UserCollection         string
	DeliveryUserCollection string
	RateCollection         string
	Timeout                time.Duration
	Timezone               string
	ServerLog              *log.Logger
	JWTConfigs             []JWTConfig
	JWTAudience            string
	AllowedOrigins         []string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeFallbackKey   string

	AirwallexEnv      string
	AirwallexClientID string
	AirwallexAPIKey   string
	AirwallexBaseURL  string

	ExchangeRateURL string

	Firebase FirebaseCredentials
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	addr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if addr == "" {
		if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("ADMIN_JWT_ISSUER", "stadimeshi-auth"),
			Secret: []byte(secret),
		})
	}

	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secret not configured. Set ADMIN_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE"))

	cfg := Config{
		Addr:                   addr,
		MongoURI:               envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:          envOrDefault("MONGO_DB", "stadimeshi"),
		StadiumCollection:      envOrDefault("STADIUM_COLLECTION", "stadiums"),
		ShopCollection:         envOrDefault("SHOP_COLLECTION", "shops"),
		UserCollection:         envOrDefault("USER_COLLECTION", "users"),
		DeliveryUserCollection: envOrDefault("DELIVERY_USER_COLLECTION", "deliveryUsers"),
		RateCollection:         envOrDefault("RATE_COLLECTION", "currency_rates"),
		Timeout:                timeout,
		Timezone:               envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:              log.New(os.Stdout, "[stadimeshi-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:             jwtConfigs,
		JWTAudience:            jwtAudience,
		AllowedOrigins:         allowedOrigins,

		StripeSecretKey:     strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		StripeWebhookSecret: strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET")),
		StripeFallbackKey:   strings.TrimSpace(os.Getenv("REACT_APP_STRIPE_SECRET_KEY")),

		AirwallexEnv:      envOrDefault("AIRWALLEX_ENV", "demo"),
		AirwallexClientID: strings.TrimSpace(os.Getenv("AIRWALLEX_CLIENT_ID")),
		AirwallexAPIKey:   strings.TrimSpace(os.Getenv("AIRWALLEX_API_KEY")),
		AirwallexBaseURL:  strings.TrimSpace(os.Getenv("AIRWALLEX_BASE_URL")),

		ExchangeRateURL: envOrDefault("EXCHANGE_RATE_API_URL", "https://open.er-api.com/v6/latest/USD"),

		Firebase: FirebaseCredentials{
			CredentialsFile:    strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
			ServiceAccountJSON: strings.TrimSpace(os.Getenv("FIREBASE_SERVICE_ACCOUNT")),
			ProjectID:          strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
			ClientEmail:        strings.TrimSpace(os.Getenv("FIREBASE_CLIENT_EMAIL")),
			PrivateKey:         os.Getenv("FIREBASE_PRIVATE_KEY"),
		},
	}

	cfg.ServerLog.Printf("loaded config: addr=%q mongoDB=%q airwallexEnv=%q stripeConfigured=%t", cfg.Addr, cfg.MongoDatabase, cfg.AirwallexEnv, cfg.StripeSecretKey != "")

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
