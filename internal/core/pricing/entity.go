package pricing

import (
	"strconv"
	"strings"
)

// UnknownCountry is reported when the request carries no country signal
const UnknownCountry = "Unknown"

// Prices holds the fixed early-access price and the "maybe" choices
type Prices struct {
	Default float64   `json:"default"`
	Options []float64 `json:"options"`
}

// Config is the pricing shown to visitors from one country
type Config struct {
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currencySymbol"`
	Prices         Prices `json:"prices"`
}

// Result is the resolved pricing together with the echoed country code
type Result struct {
	Country string `json:"country"`
	Pricing Config `json:"pricing"`
}

var (
	usd = Config{Currency: "USD", CurrencySymbol: "$", Prices: Prices{Default: 5, Options: []float64{3, 5, 10}}}
	eur = Config{Currency: "EUR", CurrencySymbol: "€", Prices: Prices{Default: 5, Options: []float64{3, 5, 9}}}
)

// byCountry is keyed on upper-case ISO 3166 alpha-2 codes. Prices are set by
// purchasing power, not exchange rate.
var byCountry = map[string]Config{
	"IN": {Currency: "INR", CurrencySymbol: "₹", Prices: Prices{Default: 199, Options: []float64{149, 199, 299}}},
	"US": usd,
	"JP": {Currency: "JPY", CurrencySymbol: "¥", Prices: Prices{Default: 800, Options: []float64{500, 800, 1000}}},
	"GB": {Currency: "GBP", CurrencySymbol: "£", Prices: Prices{Default: 4, Options: []float64{3, 4, 7}}},
	"CA": {Currency: "CAD", CurrencySymbol: "$", Prices: Prices{Default: 7, Options: []float64{5, 7, 12}}},
	"AU": {Currency: "AUD", CurrencySymbol: "$", Prices: Prices{Default: 8, Options: []float64{5, 8, 15}}},
	"DE": eur,
	"FR": eur,
	"IT": eur,
	"ES": eur,
	"NL": eur,
	"SG": {Currency: "SGD", CurrencySymbol: "$", Prices: Prices{Default: 7, Options: []float64{5, 7, 12}}},
	"AE": {Currency: "AED", CurrencySymbol: "د.إ", Prices: Prices{Default: 20, Options: []float64{15, 20, 35}}},
	"BR": {Currency: "BRL", CurrencySymbol: "R$", Prices: Prices{Default: 25, Options: []float64{15, 25, 45}}},
	"MX": {Currency: "MXN", CurrencySymbol: "$", Prices: Prices{Default: 100, Options: []float64{70, 100, 180}}},
	"KR": {Currency: "KRW", CurrencySymbol: "₩", Prices: Prices{Default: 7000, Options: []float64{5000, 7000, 12000}}},
	"CN": {Currency: "CNY", CurrencySymbol: "¥", Prices: Prices{Default: 35, Options: []float64{25, 35, 60}}},
}

// DefaultConfig returns the pricing used for unknown countries
func DefaultConfig() Config {
	return usd.clone()
}

// ForCountry returns the pricing for a country code, case-insensitively.
// Unknown or empty codes get DefaultConfig.
func ForCountry(code string) Config {
	if cfg, ok := byCountry[NormalizeCountry(code)]; ok {
		return cfg.clone()
	}
	return DefaultConfig()
}

// Supported reports whether the code has its own pricing entry
func Supported(code string) bool {
	_, ok := byCountry[NormalizeCountry(code)]
	return ok
}

// NormalizeCountry trims and upper-cases a country code
func NormalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// clone keeps callers from mutating the shared option slices
func (c Config) clone() Config {
	c.Prices.Options = append([]float64(nil), c.Prices.Options...)
	return c
}

// FormatPrice renders an amount with its currency symbol, e.g. "₹199"
func FormatPrice(amount float64, currencySymbol string) string {
	return currencySymbol + strconv.FormatFloat(amount, 'f', -1, 64)
}

// FormatPriceWithPeriod renders an amount with a billing period suffix.
// An empty period defaults to "/mo".
func FormatPriceWithPeriod(amount float64, currencySymbol, period string) string {
	if period == "" {
		period = "/mo"
	}
	return FormatPrice(amount, currencySymbol) + period
}
