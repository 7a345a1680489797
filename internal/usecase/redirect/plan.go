package redirect

import (
	"net/url"
	"time"
)

const (
	// DefaultWarmUp даёт скрипту SDK время загрузиться.
	DefaultWarmUp   = time.Second
	// DefaultOpenWait: если приложение перехватило deep link, страница к этому моменту уже в фоне.
	DefaultOpenWait = 2 * time.Second

	DefaultScheme = "roycorecipe"
)

// Config описывает параметры попытки открытия приложения.
type Config struct {
	SDKKey         string
	DeepLinkScheme string
	PlayStoreURL   string
	APKURL         string
	WarmUp         time.Duration
	OpenWait       time.Duration
}

func (c Config) withDefaults() Config {
	if c.DeepLinkScheme == "" {
		c.DeepLinkScheme = DefaultScheme
	}
	if c.WarmUp <= 0 {
		c.WarmUp = DefaultWarmUp
	}
	if c.OpenWait <= 0 {
		c.OpenWait = DefaultOpenWait
	}
	return c
}

// Install — цель кнопки установки.
type Install struct {
	URL        string `json:"url"`
	Label      string `json:"label"`
	NewTab     bool   `json:"new_tab"`
	Production bool   `json:"production"`
}

// InstallTarget выбирает Google Play, если он настроен, иначе прямую загрузку APK.
func (c Config) InstallTarget() Install {
	if c.PlayStoreURL != "" {
		return Install{URL: c.PlayStoreURL, Label: "Get on Google Play", NewTab: true, Production: true}
	}
	return Install{URL: c.APKURL, Label: "Download APK"}
}

// DeepLink строит URI вида roycorecipe://recipe/<id>.
func DeepLink(scheme, recipeID string) string {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return scheme + "://recipe/" + url.PathEscape(recipeID)
}

// Plan — всё, что нужно скрипту страницы шаринга.
type Plan struct {
	RecipeID     string                       `json:"recipe_id"`
	InitialState State                        `json:"initial_state"`
	InitialEvent Event                        `json:"initial_event"`
	SDKKey       string                       `json:"sdk_key,omitempty"`
	WarmUpMs     int64                        `json:"warm_up_ms"`
	OpenWaitMs   int64                        `json:"open_wait_ms"`
	DeepLink     string                       `json:"deep_link"`
	Install      Install                      `json:"install"`
	ContentURL   string                       `json:"content_url"`
	Transitions  map[string]map[string]string `json:"transitions"`
}

// NewPlan собирает план для страницы рецепта. contentURL указывает на GET /api/recipe/{id}.
func NewPlan(cfg Config, recipeID, contentURL string) Plan {
	cfg = cfg.withDefaults()
	initial := EventStart
	if cfg.SDKKey == "" {
		initial = EventNoSDKKey
	}
	return Plan{
		RecipeID:     recipeID,
		InitialState: StateInitializing,
		InitialEvent: initial,
		SDKKey:       cfg.SDKKey,
		WarmUpMs:     cfg.WarmUp.Milliseconds(),
		OpenWaitMs:   cfg.OpenWait.Milliseconds(),
		DeepLink:     DeepLink(cfg.DeepLinkScheme, recipeID),
		Install:      cfg.InstallTarget(),
		ContentURL:   contentURL,
		Transitions:  Table(),
	}
}

// AttemptsOpen сообщает, будет ли страница пытаться открыть приложение.
func (p Plan) AttemptsOpen() bool {
	return p.InitialEvent == EventStart
}
