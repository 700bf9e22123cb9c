package config

import "github.com/shopspring/decimal"

// BaseCurrency is the single currency accepted for mutating operations
const BaseCurrency = "XOF"

// CurrencyDetail carries display metadata for a supported currency
type CurrencyDetail struct {
	Name   string
	Symbol string
}

// DefaultExchangeRates returns the static rate table. Each rate is the
// value of one unit of the currency expressed in XOF; XOF itself is 1.
// Built once at startup and treated as immutable afterwards.
func DefaultExchangeRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"XOF": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("655.957"),
		"USD": decimal.RequireFromString("600.00"),
		"GBP": decimal.RequireFromString("750.00"),
		"CHF": decimal.RequireFromString("680.00"),
		"CAD": decimal.RequireFromString("450.00"),
		"NGN": decimal.RequireFromString("1.50"),
		"GHS": decimal.RequireFromString("80.00"),
	}
}

// CurrencyDetails returns display metadata for the supported currencies
func CurrencyDetails() map[string]CurrencyDetail {
	return map[string]CurrencyDetail{
		"XOF": {Name: "CFA Franc (BCEAO)", Symbol: "CFA"},
		"EUR": {Name: "Euro", Symbol: "€"},
		"USD": {Name: "US Dollar", Symbol: "$"},
		"GBP": {Name: "Pound Sterling", Symbol: "£"},
		"CHF": {Name: "Swiss Franc", Symbol: "CHF"},
		"CAD": {Name: "Canadian Dollar", Symbol: "C$"},
		"NGN": {Name: "Nigerian Naira", Symbol: "₦"},
		"GHS": {Name: "Ghanaian Cedi", Symbol: "₵"},
	}
}
