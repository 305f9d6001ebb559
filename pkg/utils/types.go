package utils

// Constants
const (
	// DATE_LAYOUT is the human date format accepted in utterances
	DATE_LAYOUT = "02 Jan 2006"
	// ISO_DATE_LAYOUT is the canonical stored date format
	ISO_DATE_LAYOUT = "2006-01-02"
)
