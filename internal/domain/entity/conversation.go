package entity

import (
	"time"
)

// TravelIntent is the structured guess extracted from a raw utterance
type TravelIntent struct {
	From           string `json:"from,omitempty" bson:"from,omitempty"`
	To             string `json:"to,omitempty" bson:"to,omitempty"`
	Date           string `json:"date,omitempty" bson:"date,omitempty"`
	PassengerCount int    `json:"passengerCount,omitempty" bson:"passengerCount,omitempty"`
	CabinClass     string `json:"cabinClass,omitempty" bson:"cabinClass,omitempty"`
}

// IsEmpty reports whether no intent field was extracted
func (i TravelIntent) IsEmpty() bool {
	return i.From == "" && i.To == "" && i.Date == "" && i.PassengerCount == 0 && i.CabinClass == ""
}

// BookingDecision links a conversation turn to the booking it produced
type BookingDecision struct {
	BookingID string `json:"bookingId" bson:"bookingId"`
	Confirmed bool   `json:"confirmed" bson:"confirmed"`
}

// ConversationTurn is one exchange in a dialogue. Content is opaque to the
// tracker; only the timestamp is required.
type ConversationTurn struct {
	Timestamp       time.Time        `json:"timestamp" bson:"timestamp"`
	SessionID       string           `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	UserInput       string           `json:"userInput,omitempty" bson:"userInput,omitempty"`
	Intent          TravelIntent     `json:"intent,omitempty" bson:"intent,omitempty"`
	SuggestionsShown []string        `json:"suggestionsShown,omitempty" bson:"suggestionsShown,omitempty"`
	AssistantReply  string           `json:"assistantReply,omitempty" bson:"assistantReply,omitempty"`
	BookingDecision *BookingDecision `json:"bookingDecision,omitempty" bson:"bookingDecision,omitempty"`
}

// ConversationWindow is the bounded per-user ring of recent turns, ordered
// oldest first. Eviction is strict FIFO on capacity, never time-based.
type ConversationWindow struct {
	UserID    string             `json:"userId" bson:"_id"`
	Turns     []ConversationTurn `json:"turns" bson:"turns"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
