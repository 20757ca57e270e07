package menu

import "github.com/shopspring/decimal"

// DefaultBaseCurrency is assumed when a tenant has no currency settings
const DefaultBaseCurrency = "ALL"

// displayPlaces is the fraction-digit precision of converted amounts
const displayPlaces = 2

// CurrencyContext holds a tenant's conversion inputs. Rates are expressed
// relative to the base: rates[code] is how many base-currency units equal
// one unit of code. The base itself is never looked up and is always 1.
type CurrencyContext struct {
	Base    string
	Enabled []string
	Rates   map[string]decimal.Decimal
}

// IsEnabled reports whether a currency is selectable by viewers. The base
// currency is always considered enabled.
func (c CurrencyContext) IsEnabled(code string) bool {
	if code == c.Base {
		return true
	}
	for _, e := range c.Enabled {
		if e == code {
			return true
		}
	}
	return false
}

// Rate returns the base-units-per-unit rate for a currency and whether it
// was actually configured. A missing or zero rate yields 1: a broken
// exchange-rate row must never take down menu rendering, so conversion
// degrades to a no-op instead.
func (c CurrencyContext) Rate(code string) (decimal.Decimal, bool) {
	if code == c.Base {
		return decimal.NewFromInt(1), true
	}
	r, ok := c.Rates[code]
	if !ok || r.IsZero() {
		return decimal.NewFromInt(1), false
	}
	return r, true
}

// Convert converts a price authored in one currency into the selected
// display currency, rounded to 2 fraction digits. Cross-currency
// conversions pivot through the tenant's base currency.
//
// Whether the display currency is enabled is not checked here; callers
// fall back to the base currency before asking for a conversion.
func Convert(price decimal.Decimal, from, to string, ctx CurrencyContext) decimal.Decimal {
	amount, _ := ConvertWithFallback(price, from, to, ctx)
	return amount
}

// ConvertWithFallback is Convert plus a flag reporting whether a missing
// or zero rate was substituted with 1 along the way, so callers can log
// the degradation.
func ConvertWithFallback(price decimal.Decimal, from, to string, ctx CurrencyContext) (decimal.Decimal, bool) {
	if from == to {
		return price, false
	}

	fellBack := false

	// Reach base units first unless the price is already authored in base.
	base := price
	if from != ctx.Base {
		rate, ok := ctx.Rate(from)
		if !ok {
			fellBack = true
		}
		base = price.Mul(rate)
	}

	if to == ctx.Base {
		return base.Round(displayPlaces), fellBack
	}

	rate, ok := ctx.Rate(to)
	if !ok {
		fellBack = true
	}
	return base.Div(rate).Round(displayPlaces), fellBack
}
