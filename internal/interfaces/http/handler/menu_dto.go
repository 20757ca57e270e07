package handler

import (
	"time"

	"github.com/menulink/backend/internal/domain/menu"
	"github.com/menulink/backend/internal/domain/registry"
)

// MenuQuery carries the viewer's presentation preferences
type MenuQuery struct {
	Lang     string `form:"lang"`
	Currency string `form:"currency"`
}

// TenantResponse identifies the resolved tenant in menu responses
type TenantResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
}

// ProfileResponse represents a restaurant profile in API responses
type ProfileResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
}

// CategoryResponse represents a menu section in API responses
type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// MenuItemResponse represents one dish or drink in API responses.
// Price is rendered in the viewer's display currency.
type MenuItemResponse struct {
	ID           string `json:"id"`
	CategoryID   string `json:"category_id,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	ImageURL     string `json:"image_url,omitempty"`
	Featured     bool   `json:"featured"`
	DisplayOrder int    `json:"display_order"`
}

// ThemeResponse represents the tenant's look-and-feel settings
type ThemeResponse struct {
	Theme  string `json:"theme,omitempty"`
	Layout string `json:"layout,omitempty"`
}

// LanguagesResponse represents the tenant's language configuration
type LanguagesResponse struct {
	Default  string   `json:"default,omitempty"`
	Enabled  []string `json:"enabled,omitempty"`
	Selected string   `json:"selected,omitempty"`
}

// CurrenciesResponse represents the tenant's currency configuration
type CurrenciesResponse struct {
	Base     string   `json:"base"`
	Enabled  []string `json:"enabled,omitempty"`
	Selected string   `json:"selected"`
}

// PopupResponse represents the active promotion popup
type PopupResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// MenuResponse is the full public menu view for one tenant
type MenuResponse struct {
	Tenant     TenantResponse     `json:"tenant"`
	Profile    *ProfileResponse   `json:"profile,omitempty"`
	Categories []CategoryResponse `json:"categories"`
	Items      []MenuItemResponse `json:"items"`
	Theme      *ThemeResponse     `json:"theme,omitempty"`
	Languages  *LanguagesResponse `json:"languages,omitempty"`
	Currencies CurrenciesResponse `json:"currencies"`
	Popup      *PopupResponse     `json:"popup,omitempty"`
	HasMenu    bool               `json:"has_menu"`
	Partial    bool               `json:"partial"`
	FetchedAt  string             `json:"fetched_at"`
}

func toTenantResponse(record *registry.TenantRecord) TenantResponse {
	return TenantResponse{
		ID:          record.ID.String(),
		DisplayName: record.DisplayName,
		Status:      string(record.ConnectionStatus),
	}
}

func toProfileResponse(p *menu.Profile, lang string) *ProfileResponse {
	if p == nil {
		return nil
	}
	return &ProfileResponse{
		ID:          p.ID,
		Name:        menu.Localize(p.Fields, "name", lang),
		Description: menu.Localize(p.Fields, "description", lang),
		Address:     p.Address,
		Phone:       p.Phone,
		LogoURL:     p.LogoURL,
		CoverURL:    p.CoverURL,
	}
}

func toCategoryResponses(categories []menu.Category, lang string) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, CategoryResponse{
			ID:           cat.ID,
			Name:         menu.Localize(cat.Fields, "name", lang),
			Description:  menu.Localize(cat.Fields, "description", lang),
			ImageURL:     cat.ImageURL,
			DisplayOrder: cat.DisplayOrder,
		})
	}
	return out
}

func toMenuItemResponses(items []menu.MenuItem, lang, display string, ctx menu.CurrencyContext) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		from := item.Currency
		if from == "" {
			from = ctx.Base
		}
		price := menu.Convert(item.Price, from, display, ctx)
		out = append(out, MenuItemResponse{
			ID:           item.ID,
			CategoryID:   item.CategoryID,
			Name:         menu.Localize(item.Fields, "name", lang),
			Description:  menu.Localize(item.Fields, "description", lang),
			Price:        price.StringFixed(2),
			Currency:     display,
			ImageURL:     item.ImageURL,
			Featured:     item.Featured,
			DisplayOrder: item.DisplayOrder,
		})
	}
	return out
}

func toThemeResponse(c *menu.Customization) *ThemeResponse {
	if c == nil {
		return nil
	}
	return &ThemeResponse{
		Theme:  c.Theme,
		Layout: c.Layout,
	}
}

func toLanguagesResponse(l *menu.LanguageSettings, selected string) *LanguagesResponse {
	if l == nil {
		return nil
	}
	return &LanguagesResponse{
		Default:  l.DefaultLanguage,
		Enabled:  l.Enabled,
		Selected: selected,
	}
}

func toPopupResponse(p *menu.PopupSettings) *PopupResponse {
	if p == nil || !p.Active {
		return nil
	}
	return &PopupResponse{
		ID:       p.ID,
		Title:    p.Title,
		Body:     p.Body,
		ImageURL: p.ImageURL,
	}
}

// toMenuResponse assembles the full view. The display language defaults
// to the tenant's configured one and the display currency falls back to
// the tenant base when the requested currency is not enabled.
func toMenuResponse(record *registry.TenantRecord, snap *menu.Snapshot, q MenuQuery) MenuResponse {
	lang := displayLanguage(snap, q)
	ctx := snap.CurrencyContext()
	display := displayCurrency(ctx, q)

	return MenuResponse{
		Tenant:     toTenantResponse(record),
		Profile:    toProfileResponse(snap.Profile, lang),
		Categories: toCategoryResponses(snap.Categories, lang),
		Items:      toMenuItemResponses(snap.Items, lang, display, ctx),
		Theme:      toThemeResponse(snap.Customization),
		Languages:  toLanguagesResponse(snap.Language, lang),
		Currencies: CurrenciesResponse{
			Base:     ctx.Base,
			Enabled:  ctx.Enabled,
			Selected: display,
		},
		Popup:     toPopupResponse(snap.Popup),
		HasMenu:   snap.HasMenu(),
		Partial:   snap.Partial(),
		FetchedAt: snap.FetchedAt.UTC().Format(time.RFC3339),
	}
}

func displayLanguage(snap *menu.Snapshot, q MenuQuery) string {
	if q.Lang != "" {
		return q.Lang
	}
	return snap.DefaultLanguage()
}

func displayCurrency(ctx menu.CurrencyContext, q MenuQuery) string {
	if q.Currency != "" && ctx.IsEnabled(q.Currency) {
		return q.Currency
	}
	return ctx.Base
}
