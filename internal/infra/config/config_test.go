package config

import (
	"os"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "SUPABASE_URL", "SUPABASE_ANON_KEY", "PUBLIC_BASE_URL", "LANDING_DOMAIN", "BRANCH_KEY", "PLAY_STORE_URL", "APK_URL", "META_REVALIDATE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("ожидали порт 8080, получили %d", cfg.Port)
	}
	if cfg.SupabaseConfigured() {
		t.Fatalf("без переменных supabase не должен считаться настроенным")
	}
	if got := cfg.PublicBaseURL(); got != "https://jikonify.seanmotanya.dev" {
		t.Fatalf("неожиданный base url %s", got)
	}
	if cfg.Meta.Revalidate != time.Hour {
		t.Fatalf("ожидали окно ревалидации в час, получили %s", cfg.Meta.Revalidate)
	}
	if cfg.App.DeepLinkScheme != "roycorecipe" {
		t.Fatalf("неожиданная схема %s", cfg.App.DeepLinkScheme)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("PUBLIC_BASE_URL", "https://share.example.com/")
	t.Setenv("PORT", "9000")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !cfg.SupabaseConfigured() {
		t.Fatalf("ожидали настроенный supabase")
	}
	if cfg.Supabase.URL != "https://proj.supabase.co" {
		t.Fatalf("ожидали URL без слеша, получили %s", cfg.Supabase.URL)
	}
	if cfg.PublicBaseURL() != "https://share.example.com" {
		t.Fatalf("неожиданный base url %s", cfg.PublicBaseURL())
	}
	if cfg.Addr() != ":9000" {
		t.Fatalf("неожиданный адрес %s", cfg.Addr())
	}
}

func TestParseRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	if _, err := Parse(); err == nil {
		t.Fatalf("ожидали ошибку для некорректного порта")
	}
}
