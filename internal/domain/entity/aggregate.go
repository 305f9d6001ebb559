package entity

import (
	"math"
	"time"
)

// FrequencyStat is a counter with the timestamp of the most recent occurrence
type FrequencyStat struct {
	Count    int64     `json:"count" bson:"count"`
	LastSeen time.Time `json:"lastSeen" bson:"lastSeen"`
}

// BudgetStats holds streaming moments of confirmed booking prices,
// normalized to a single reference currency. Mean and variance use
// Welford's online update so long histories do not drift.
type BudgetStats struct {
	Currency string  `json:"currency" bson:"currency"`
	Count    int64   `json:"count" bson:"count"`
	Mean     float64 `json:"mean" bson:"mean"`
	M2       float64 `json:"m2" bson:"m2"`
	Min      float64 `json:"min" bson:"min"`
	Max      float64 `json:"max" bson:"max"`
}

// Observe folds one normalized price into the running moments
func (b *BudgetStats) Observe(amount float64) {
	b.Count++
	if b.Count == 1 {
		b.Min = amount
		b.Max = amount
	} else {
		b.Min = math.Min(b.Min, amount)
		b.Max = math.Max(b.Max, amount)
	}
	delta := amount - b.Mean
	b.Mean += delta / float64(b.Count)
	b.M2 += delta * (amount - b.Mean)
}

// StdDev returns the population standard deviation, 0 below two samples
func (b *BudgetStats) StdDev() float64 {
	if b.Count < 2 {
		return 0
	}
	return math.Sqrt(b.M2 / float64(b.Count))
}

// PreferenceAggregate is the derived per-user summary of booking behavior.
// It is always reconstructible by replaying the booking log; Stale marks an
// aggregate whose incremental update failed and which must be rebuilt before
// the next read.
type PreferenceAggregate struct {
	UserID           string                   `json:"userId" bson:"_id"`
	RouteFrequency   map[string]FrequencyStat `json:"routeFrequency" bson:"routeFrequency"`
	CarrierFrequency map[string]FrequencyStat `json:"carrierFrequency" bson:"carrierFrequency"`
	ClassFrequency   map[string]int64         `json:"classFrequency" bson:"classFrequency"`
	BudgetStats      BudgetStats              `json:"budgetStats" bson:"budgetStats"`
	Stale            bool                     `json:"stale,omitempty" bson:"stale,omitempty"`
	UpdatedAt        time.Time                `json:"updatedAt" bson:"updatedAt"`
}

// NewPreferenceAggregate returns an empty aggregate for a user
func NewPreferenceAggregate(userID, referenceCurrency string) *PreferenceAggregate {
	return &PreferenceAggregate{
		UserID:           userID,
		RouteFrequency:   make(map[string]FrequencyStat),
		CarrierFrequency: make(map[string]FrequencyStat),
		ClassFrequency:   make(map[string]int64),
		BudgetStats:      BudgetStats{Currency: referenceCurrency},
	}
}
