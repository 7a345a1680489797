package domain

// ShareMeta содержит данные для превью ссылки на рецепт.
type ShareMeta struct {
	Title        string
	PageTitle    string
	Description  string
	ImageURL     string
	CanonicalURL string
	SiteName     string
	// Fallback выставляется, если рецепт получить не удалось.
	Fallback bool
}
