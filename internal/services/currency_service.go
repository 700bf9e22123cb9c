package services

import (
	"sort"

	"github.com/faroukali99/reserveFound/internal/config"
	"github.com/shopspring/decimal"
)

var conversionFeeRate = decimal.RequireFromString("0.005")

// CurrencyInfo is the informational view of one supported currency
type CurrencyInfo struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Symbol    string          `json:"symbol"`
	RateToXOF decimal.Decimal `json:"rateToXof"`
}

// CurrencyService converts amounts between the supported currencies
// using a static rate table keyed to XOF as the base unit.
type CurrencyService struct {
	rates   map[string]decimal.Decimal
	details map[string]config.CurrencyDetail
}

func NewCurrencyService(rates map[string]decimal.Decimal) *CurrencyService {
	return &CurrencyService{
		rates:   rates,
		details: config.CurrencyDetails(),
	}
}

func (cs *CurrencyService) IsSupported(currency string) bool {
	_, ok := cs.rates[currency]
	return ok
}

// Convert goes through XOF: multiply by the source rate, then divide by
// the target rate, rounding half-up to 2 decimals at the terminal step.
func (cs *CurrencyService) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if !cs.IsSupported(from) {
		return decimal.Zero, &UnsupportedCurrencyError{Code: from}
	}
	if !cs.IsSupported(to) {
		return decimal.Zero, &UnsupportedCurrencyError{Code: to}
	}
	if from == to {
		return amount, nil
	}

	amountInXOF := amount
	if from != config.BaseCurrency {
		amountInXOF = amount.Mul(cs.rates[from])
	}
	if to == config.BaseCurrency {
		return amountInXOF.Round(2), nil
	}
	return amountInXOF.DivRound(cs.rates[to], 2), nil
}

// ExchangeRate returns from's rate over to's rate at 6-decimal
// precision, or exactly 1 when the codes match.
func (cs *CurrencyService) ExchangeRate(from, to string) (decimal.Decimal, error) {
	if !cs.IsSupported(from) {
		return decimal.Zero, &UnsupportedCurrencyError{Code: from}
	}
	if !cs.IsSupported(to) {
		return decimal.Zero, &UnsupportedCurrencyError{Code: to}
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	return cs.rates[from].DivRound(cs.rates[to], 6), nil
}

// ConversionFee is 0.5% of the converted amount, zero for same-currency
func (cs *CurrencyService) ConversionFee(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		if !cs.IsSupported(from) {
			return decimal.Zero, &UnsupportedCurrencyError{Code: from}
		}
		return decimal.Zero, nil
	}
	converted, err := cs.Convert(amount, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return converted.Mul(conversionFeeRate).Round(2), nil
}

// AllExchangeRates returns the rate from base to every other currency
func (cs *CurrencyService) AllExchangeRates(base string) (map[string]decimal.Decimal, error) {
	if !cs.IsSupported(base) {
		return nil, &UnsupportedCurrencyError{Code: base}
	}
	rates := make(map[string]decimal.Decimal, len(cs.rates)-1)
	for currency := range cs.rates {
		if currency == base {
			continue
		}
		rate, err := cs.ExchangeRate(base, currency)
		if err != nil {
			return nil, err
		}
		rates[currency] = rate
	}
	return rates, nil
}

// SupportedCurrencies returns the supported codes in sorted order
func (cs *CurrencyService) SupportedCurrencies() []string {
	codes := make([]string, 0, len(cs.rates))
	for currency := range cs.rates {
		codes = append(codes, currency)
	}
	sort.Strings(codes)
	return codes
}

// Info returns display metadata and the XOF rate for one currency
func (cs *CurrencyService) Info(currency string) (*CurrencyInfo, error) {
	rate, ok := cs.rates[currency]
	if !ok {
		return nil, &UnsupportedCurrencyError{Code: currency}
	}
	detail := cs.details[currency]
	return &CurrencyInfo{
		Code:      currency,
		Name:      detail.Name,
		Symbol:    detail.Symbol,
		RateToXOF: rate,
	}, nil
}
