package entity

// UserDataExport is the union of all four record families for one user,
// returned by the privacy export operation. Absent families stay nil.
type UserDataExport struct {
	UserID       string               `json:"userId"`
	Profile      *TravelerProfile     `json:"profile,omitempty"`
	Bookings     []BookingEvent       `json:"bookings,omitempty"`
	Conversation []ConversationTurn   `json:"conversation,omitempty"`
	Aggregate    *PreferenceAggregate `json:"aggregate,omitempty"`
}
