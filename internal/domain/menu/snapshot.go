package menu

import "time"

// Source identifies one of the independent reads behind a snapshot
type Source string

const (
	SourceProfile       Source = "profile"
	SourceCategories    Source = "categories"
	SourceItems         Source = "menu_items"
	SourceCustomization Source = "customization"
	SourceLanguage      Source = "language_settings"
	SourceCurrency      Source = "currency_settings"
	SourcePopup         Source = "popup_settings"
)

// Sources lists every read in a fixed order
var Sources = []Source{
	SourceProfile,
	SourceCategories,
	SourceItems,
	SourceCustomization,
	SourceLanguage,
	SourceCurrency,
	SourcePopup,
}

// Snapshot is the aggregate result of one fan-out against a tenant
// backend. Every field is independently nullable or empty: a failed read
// leaves its field zero-valued and records the error in Failures instead
// of rejecting the snapshot. A snapshot is immutable once built, the next
// aggregation supersedes it.
type Snapshot struct {
	Profile       *Profile
	Categories    []Category
	Items         []MenuItem
	Customization *Customization
	Language      *LanguageSettings
	Currency      *CurrencySettings
	Popup         *PopupSettings

	// Failures maps each failed read to its error, for logging only.
	// Presentation treats a failed read the same as an empty one.
	Failures map[Source]error

	FetchedAt time.Time
}

// Partial reports whether at least one read failed
func (s *Snapshot) Partial() bool {
	return len(s.Failures) > 0
}

// Failed reports whether a specific read failed
func (s *Snapshot) Failed(src Source) bool {
	_, ok := s.Failures[src]
	return ok
}

// HasMenu reports whether there is anything to render at all; when false
// the presentation layer shows its "menu coming soon" state.
func (s *Snapshot) HasMenu() bool {
	return len(s.Categories) > 0 || len(s.Items) > 0
}

// CurrencyContext derives the conversion context from the snapshot's
// currency settings, falling back to a bare default when the read failed
// or the tenant never configured currencies.
func (s *Snapshot) CurrencyContext() CurrencyContext {
	if s.Currency == nil {
		return CurrencyContext{Base: DefaultBaseCurrency}
	}
	base := s.Currency.BaseCurrency
	if base == "" {
		base = DefaultBaseCurrency
	}
	return CurrencyContext{
		Base:    base,
		Enabled: s.Currency.Enabled,
		Rates:   s.Currency.Rates,
	}
}

// DefaultLanguage returns the tenant's default menu language, empty when
// language settings are missing.
func (s *Snapshot) DefaultLanguage() string {
	if s.Language == nil {
		return ""
	}
	return s.Language.DefaultLanguage
}
