package entity

import "time"

// QueryContext is the partial route/date/class the user is currently asking
// about; empty fields mean unconstrained.
type QueryContext struct {
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	Date           string `json:"date,omitempty"`
	CabinClass     string `json:"cabinClass,omitempty"`
	PassengerCount int    `json:"passengerCount,omitempty"`
}

// CarrierSuggestion is the user's dominant carrier
type CarrierSuggestion struct {
	Carrier  string    `json:"carrier"`
	Count    int64     `json:"count"`
	LastSeen time.Time `json:"lastSeen"`
}

// ClassSuggestion is the user's dominant cabin class
type ClassSuggestion struct {
	CabinClass string `json:"cabinClass"`
	Count      int64  `json:"count"`
}

// BudgetBand is an inclusive price band around the user's spending mean
type BudgetBand struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Currency string  `json:"currency"`
}

// SuggestionSet is the ranked multi-category recommendation output. Every
// category is optional; absence of data for one never blocks the others.
// Ordering is stable: routes, carrier, class, budget.
type SuggestionSet struct {
	UserID  string             `json:"userId"`
	Routes  []RouteRank        `json:"routes,omitempty"`
	Carrier *CarrierSuggestion `json:"carrier,omitempty"`
	Class   *ClassSuggestion   `json:"class,omitempty"`
	Budget  *BudgetBand        `json:"budget,omitempty"`
}

// UserStats is a read-only projection over history and profile used for
// greetings and UI summaries.
type UserStats struct {
	UserID        string     `json:"userId"`
	TripCount     int64      `json:"tripCount"`
	AverageBudget *float64   `json:"averageBudget,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	TopRoute      string     `json:"topRoute,omitempty"`
	MemberSince   *time.Time `json:"memberSince,omitempty"`
}
