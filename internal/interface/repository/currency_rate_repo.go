package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"travelctx-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormCurrencyRateRepository implements the CurrencyConverter interface
// against the exchange-rate reference table. Rates are stored against a
// single base currency; a conversion chains through the base.
type GormCurrencyRateRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRateRepository creates a new GORM currency rate repository
func NewGormCurrencyRateRepository(db *gorm.DB) repository.CurrencyConverter {
	return &GormCurrencyRateRepository{
		db: db,
	}
}

// CurrencyRates GORM model for database mapping
type CurrencyRates struct {
	gorm.Model
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	RateToUSD float64        `gorm:"column:rate_to_usd"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (CurrencyRates) TableName() string {
	return "m_currency_rates"
}

func (r *GormCurrencyRateRepository) rateToUSD(ctx context.Context, code string) (float64, error) {
	var rate CurrencyRates
	result := r.db.WithContext(ctx).Unscoped().Where("code = ?", code).First(&rate)
	if result.Error != nil {
		return 0, result.Error
	}
	if rate.RateToUSD <= 0 {
		return 0, fmt.Errorf("no usable rate for currency %s", code)
	}
	return rate.RateToUSD, nil
}

// Convert normalizes an amount from one currency to another via USD
func (r *GormCurrencyRateRepository) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}

	fromRate, err := r.rateToUSD(ctx, from)
	if err != nil {
		return 0, fmt.Errorf("convert %s: %w", from, err)
	}
	toRate, err := r.rateToUSD(ctx, to)
	if err != nil {
		return 0, fmt.Errorf("convert %s: %w", to, err)
	}

	return amount * fromRate / toRate, nil
}
