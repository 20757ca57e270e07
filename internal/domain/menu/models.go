package menu

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Read models for the tenant-backend collections. Each model decodes
// from the raw backend row: well-known columns are lifted into typed
// fields, and the full row is retained in Fields for localized lookups.

// Profile is the restaurant's public profile (0 or 1 row per tenant)
type Profile struct {
	ID          string
	Name        string
	Description string
	Address     string
	Phone       string
	LogoURL     string
	CoverURL    string
	Fields      Fields
}

// Category is one active menu section, in display order
type Category struct {
	ID           string
	Name         string
	Description  string
	ImageURL     string
	DisplayOrder int
	Active       bool
	Fields       Fields
}

// MenuItem is one available dish or drink
type MenuItem struct {
	ID           string
	CategoryID   string
	Name         string
	Description  string
	Price        decimal.Decimal
	Currency     string // authoring currency, empty means the tenant base
	ImageURL     string
	Featured     bool
	DisplayOrder int
	Available    bool
	Fields       Fields
}

// Customization is the tenant's theme/layout descriptor; when several
// rows exist the most recently updated one wins.
type Customization struct {
	ID        string
	Theme     string
	Layout    string
	UpdatedAt time.Time
	Fields    Fields
}

// LanguageSettings lists the languages a tenant's menu is translated into
type LanguageSettings struct {
	ID              string
	DefaultLanguage string
	Enabled         []string
	Fields          Fields
}

// CurrencySettings carries the tenant's base currency and rate table
type CurrencySettings struct {
	ID           string
	BaseCurrency string
	Enabled      []string
	Rates        map[string]decimal.Decimal
	Fields       Fields
}

// PopupSettings is the newest promotion/popup record, by creation time
type PopupSettings struct {
	ID        string
	Title     string
	Body      string
	ImageURL  string
	Active    bool
	CreatedAt time.Time
	Fields    Fields
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var row Fields
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	p.ID = row.String("id")
	p.Name = row.String("name")
	p.Description = row.String("description")
	p.Address = row.String("address")
	p.Phone = row.String("phone")
	p.LogoURL = row.String("logo_url")
	p.CoverURL = row.String("cover_url")
	p.Fields = row
	return nil
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var row Fields
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	c.ID = row.String("id")
	c.Name = row.String("name")
	c.Description = row.String("description")
	c.ImageURL = row.String("image_url")
	c.DisplayOrder = row.Int("display_order")
	c.Active = row.Bool("is_active")
	c.Fields = row
	return nil
}

func (m *MenuItem) UnmarshalJSON(data []byte) error {
	var row Fields
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	m.ID = row.String("id")
	m.CategoryID = row.String("category_id")
	m.Name = row.String("name")
	m.Description = row.String("description")
	m.Price = row.Decimal("price")
	m.Currency = row.String("currency")
	m.ImageURL = row.String("image_url")
	m.Featured = row.Bool("is_featured")
	m.DisplayOrder = row.Int("display_order")
	m.Available = row.Bool("is_available")
	m.Fields = row
	return nil
}

func (c *Customization) UnmarshalJSON(data []byte) error {
	var row Fields
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	c.ID = row.String("id")
	c.Theme = row.String("theme")
	c.Layout = row.String("layout")
	c.UpdatedAt = row.Time("updated_at")
	c.Fields = row
	return nil
}

func (l *LanguageSettings) UnmarshalJSON(data []byte) error {
	var row Fields
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	l.ID = row.String("id")
	l.DefaultLanguage = row.String("default_language")
	l.Enabled = stringSlice(row["enabled_languages"])
	l.Fields = row
	return nil
}

func (c *CurrencySettings) UnmarshalJSON(data []byte) error {
	var row Fields
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	c.ID = row.String("id")
	c.BaseCurrency = row.String("base_currency")
	c.Enabled = stringSlice(row["enabled_currencies"])
	c.Rates = rateTable(row["rates"])
	c.Fields = row
	return nil
}

func (p *PopupSettings) UnmarshalJSON(data []byte) error {
	var row Fields
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	p.ID = row.String("id")
	p.Title = row.String("title")
	p.Body = row.String("body")
	p.ImageURL = row.String("image_url")
	p.Active = row.Bool("is_active")
	p.CreatedAt = row.Time("created_at")
	p.Fields = row
	return nil
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func rateTable(v any) map[string]decimal.Decimal {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	rates := make(map[string]decimal.Decimal, len(raw))
	wrapped := Fields(raw)
	for code := range raw {
		rates[code] = wrapped.Decimal(code)
	}
	return rates
}
