package entity

import (
	"time"
)

// Cabin class values, ordered lowest to highest
const (
	ClassEconomy        = "economy"
	ClassPremiumEconomy = "premium_economy"
	ClassBusiness       = "business"
	ClassFirst          = "first"
)

// CabinClassRank returns the ordering position of a cabin class, economy
// lowest. Unknown classes rank above first so deterministic fallbacks
// prefer known classes.
func CabinClassRank(class string) int {
	switch class {
	case ClassEconomy:
		return 0
	case ClassPremiumEconomy:
		return 1
	case ClassBusiness:
		return 2
	case ClassFirst:
		return 3
	default:
		return 4
	}
}

// PersonalInfo is the contact block of a traveler profile
type PersonalInfo struct {
	FullName    string `json:"fullName" bson:"fullName"`
	DateOfBirth string `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Email       string `json:"email,omitempty" bson:"email,omitempty"`
	Phone       string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// TravelDocument is a passport or visa record
type TravelDocument struct {
	Type      string `json:"type" bson:"type"` // "passport" or "visa"
	Number    string `json:"number" bson:"number"`
	Country   string `json:"country" bson:"country"`
	ExpiresAt string `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"` // YYYY-MM-DD
}

// LoyaltyProgram is a frequent-flyer membership
type LoyaltyProgram struct {
	Carrier string `json:"carrier" bson:"carrier"`
	Number  string `json:"number" bson:"number"`
	Tier    string `json:"tier,omitempty" bson:"tier,omitempty"`
}

// BudgetPreferences carries the explicit max-budget override; the derived
// aggregate side lives in PreferenceAggregate
type BudgetPreferences struct {
	MaxAmount float64 `json:"maxAmount" bson:"maxAmount"`
	Currency  string  `json:"currency" bson:"currency"`
}

// TravelerProfile is the durable record of a user's identity, documents and
// stated preferences. UserID is externally assigned and immutable.
type TravelerProfile struct {
	UserID          string            `json:"userId" bson:"_id"`
	PersonalInfo    PersonalInfo      `json:"personalInfo" bson:"personalInfo"`
	Documents       []TravelDocument  `json:"documents,omitempty" bson:"documents,omitempty"`
	SeatPreference  string            `json:"seatPreference,omitempty" bson:"seatPreference,omitempty"`
	MealPreference  string            `json:"mealPreference,omitempty" bson:"mealPreference,omitempty"`
	AssistanceNeeds []string          `json:"assistanceNeeds,omitempty" bson:"assistanceNeeds,omitempty"`
	LoyaltyPrograms []LoyaltyProgram  `json:"loyaltyPrograms,omitempty" bson:"loyaltyPrograms,omitempty"`
	PreferredClass  string            `json:"preferredClass,omitempty" bson:"preferredClass,omitempty"`
	MaxBudget       *BudgetPreferences `json:"maxBudget,omitempty" bson:"maxBudget,omitempty"`
	CreatedAt       time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// ProfileUpdate is a shallow partial update: a nil field leaves the stored
// value untouched, a non-nil field replaces it wholesale. Nested objects are
// never deep-merged.
type ProfileUpdate struct {
	PersonalInfo    *PersonalInfo      `json:"personalInfo,omitempty"`
	Documents       []TravelDocument   `json:"documents,omitempty"`
	SeatPreference  *string            `json:"seatPreference,omitempty"`
	MealPreference  *string            `json:"mealPreference,omitempty"`
	AssistanceNeeds []string           `json:"assistanceNeeds,omitempty"`
	LoyaltyPrograms []LoyaltyProgram   `json:"loyaltyPrograms,omitempty"`
	PreferredClass  *string            `json:"preferredClass,omitempty"`
	MaxBudget       *BudgetPreferences `json:"maxBudget,omitempty"`
}

// TouchesProtected reports whether the update writes contact or preference
// fields, which require explicit consent.
func (u *ProfileUpdate) TouchesProtected() bool {
	return u.PersonalInfo != nil ||
		u.SeatPreference != nil ||
		u.MealPreference != nil ||
		u.AssistanceNeeds != nil ||
		u.PreferredClass != nil ||
		u.MaxBudget != nil
}
