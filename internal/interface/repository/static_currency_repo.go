package repository

import (
	"context"
	"fmt"
	"strings"

	"travelctx-service/internal/domain/repository"
)

// StaticCurrencyConverter implements the CurrencyConverter interface with a
// fixed rate table, used when no rate database is configured and in tests.
type StaticCurrencyConverter struct {
	ratesToUSD map[string]float64
}

// NewStaticCurrencyConverter creates a converter with a built-in rate table
func NewStaticCurrencyConverter() repository.CurrencyConverter {
	return &StaticCurrencyConverter{
		ratesToUSD: map[string]float64{
			"USD": 1.0,
			"CAD": 0.73,
			"EUR": 1.08,
			"GBP": 1.27,
			"JPY": 0.0067,
			"AUD": 0.65,
			"IDR": 0.000061,
			"SGD": 0.74,
		},
	}
}

// Convert normalizes an amount from one currency to another via USD
func (c *StaticCurrencyConverter) Convert(_ context.Context, amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}
	fromRate, ok := c.ratesToUSD[from]
	if !ok {
		return 0, fmt.Errorf("unknown currency %s", from)
	}
	toRate, ok := c.ratesToUSD[to]
	if !ok {
		return 0, fmt.Errorf("unknown currency %s", to)
	}
	return amount * fromRate / toRate, nil
}
