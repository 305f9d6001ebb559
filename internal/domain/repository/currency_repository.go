package repository

import "context"

// CurrencyConverter normalizes booking prices to a reference currency.
// Backed by the exchange-rate reference table in production and a static
// table in tests.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}
