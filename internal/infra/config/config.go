package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию лендинга.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   int    `envconfig:"PORT" default:"8080"`

	Supabase struct {
		URL     string        `envconfig:"SUPABASE_URL"`
		AnonKey string        `envconfig:"SUPABASE_ANON_KEY"`
		Timeout time.Duration `envconfig:"SUPABASE_TIMEOUT" default:"10s"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Site struct {
		LandingDomain string   `envconfig:"LANDING_DOMAIN" default:"jikonify.seanmotanya.dev"`
		BaseURL       string   `envconfig:"PUBLIC_BASE_URL"`
		StaticDir     string   `envconfig:"STATIC_DIR" default:"web/static"`
		Screenshots   []string `envconfig:"LANDING_SCREENSHOTS" default:"https://pub-b8705b045735410bb811cf444c1ed133.r2.dev/jikonifyscreen1.png,https://pub-b8705b045735410bb811cf444c1ed133.r2.dev/jikonifyscreen2.png,https://pub-b8705b045735410bb811cf444c1ed133.r2.dev/jikonifyscreen3.png,https://pub-b8705b045735410bb811cf444c1ed133.r2.dev/jikonifyscreen6.png"`
	} `envconfig:""`

	App struct {
		BranchKey      string `envconfig:"BRANCH_KEY"`
		PlayStoreURL   string `envconfig:"PLAY_STORE_URL"`
		APKURL         string `envconfig:"APK_URL" default:"https://pub-b8705b045735410bb811cf444c1ed133.r2.dev/jikonify.apk"`
		DeepLinkScheme string `envconfig:"DEEP_LINK_SCHEME" default:"roycorecipe"`
	} `envconfig:""`

	Meta struct {
		Revalidate   time.Duration `envconfig:"META_REVALIDATE" default:"1h"`
		FetchTimeout time.Duration `envconfig:"META_FETCH_TIMEOUT" default:"10s"`
	} `envconfig:""`

	API struct {
		RatePerSec    float64  `envconfig:"API_RATE_PER_SEC" default:"10"`
		RateBurst     int      `envconfig:"API_RATE_BURST" default:"20"`
		CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"*"`
		InternalToken string   `envconfig:"API_INTERNAL_TOKEN"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения. Файл .env, если есть, подмешивается до чтения.
func Load() AppConfig {
	_ = godotenv.Load()
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

// Parse читает окружение без побочных эффектов.
func Parse() (AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("envconfig: %w", err)
	}
	cfg.Supabase.URL = strings.TrimRight(strings.TrimSpace(cfg.Supabase.URL), "/")
	cfg.Site.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Site.BaseURL), "/")
	return cfg, nil
}

// SupabaseConfigured сообщает, заданы ли URL и anon key.
func (c AppConfig) SupabaseConfigured() bool {
	return c.Supabase.URL != "" && c.Supabase.AnonKey != ""
}

// PublicBaseURL возвращает базовый адрес для абсолютных ссылок.
func (c AppConfig) PublicBaseURL() string {
	if c.Site.BaseURL != "" {
		return c.Site.BaseURL
	}
	return "https://" + c.Site.LandingDomain
}

// Addr возвращает адрес для http.Server.
func (c AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
