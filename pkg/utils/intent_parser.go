package utils

import (
	"regexp"
	"strconv"
	"strings"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/pkg/logger"
)

// IntentParser extracts a structured travel intent guess from a raw
// utterance. Extraction is best effort: fields it cannot find stay empty.
type IntentParser struct {
	logger logger.Logger
}

// NewIntentParser creates a new intent parser with dependencies
func NewIntentParser(logger logger.Logger) *IntentParser {
	return &IntentParser{
		logger: logger,
	}
}

var (
	// "from SEA to YVR", "SEA to YVR"
	routeWordsRe = regexp.MustCompile(`(?i)\b(?:from\s+)?([A-Za-z]{3})\s+to\s+([A-Za-z]{3})\b`)
	// "SEA-YVR", "SEA->YVR"
	routeDashRe = regexp.MustCompile(`\b([A-Z]{3})\s*->?\s*([A-Z]{3})\b`)
	// "on 2026-03-12", "on 12 Mar 2026"
	isoDateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	humanDateRe = regexp.MustCompile(`\b(\d{1,2} [A-Z][a-z]{2} \d{4})\b`)
	// "for 2", "2 passengers", "3 people", "2 adults"
	paxRe     = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:passengers?|people|persons?|adults?|pax|seats?)\b`)
	paxForRe  = regexp.MustCompile(`(?i)\bfor\s+(\d{1,2})\b`)
	premiumRe = regexp.MustCompile(`(?i)\bpremium\s+economy\b`)
)

// Parse extracts route, date, passenger count and cabin class guesses
func (p *IntentParser) Parse(utterance string) entity.TravelIntent {
	intent := entity.TravelIntent{}
	if strings.TrimSpace(utterance) == "" {
		return intent
	}

	intent.From, intent.To = p.extractRoute(utterance)
	intent.Date = p.extractDate(utterance)
	intent.PassengerCount = p.extractPassengerCount(utterance)
	intent.CabinClass = p.extractCabinClass(utterance)

	p.logger.Debug("Parsed travel intent",
		"from", intent.From,
		"to", intent.To,
		"date", intent.Date,
		"passengers", intent.PassengerCount,
		"class", intent.CabinClass)

	return intent
}

// extractRoute finds an origin/destination pair in the utterance
func (p *IntentParser) extractRoute(utterance string) (string, string) {
	if m := routeWordsRe.FindStringSubmatch(utterance); m != nil {
		from := NormalizeLocationCode(m[1])
		to := NormalizeLocationCode(m[2])
		if from != "" && to != "" {
			return from, to
		}
	}
	if m := routeDashRe.FindStringSubmatch(utterance); m != nil {
		return NormalizeLocationCode(m[1]), NormalizeLocationCode(m[2])
	}
	return "", ""
}

// extractDate finds a travel date and normalizes it to ISO form
func (p *IntentParser) extractDate(utterance string) string {
	if m := isoDateRe.FindStringSubmatch(utterance); m != nil {
		return NormalizeDate(m[1])
	}
	if m := humanDateRe.FindStringSubmatch(utterance); m != nil {
		return NormalizeDate(m[1])
	}
	return ""
}

// extractPassengerCount finds an explicit passenger count
func (p *IntentParser) extractPassengerCount(utterance string) int {
	m := paxRe.FindStringSubmatch(utterance)
	if m == nil {
		m = paxForRe.FindStringSubmatch(utterance)
	}
	if m == nil {
		return 0
	}
	count, err := strconv.Atoi(m[1])
	if err != nil || count <= 0 {
		return 0
	}
	return count
}

// extractCabinClass maps class keywords to the canonical cabin classes
func (p *IntentParser) extractCabinClass(utterance string) string {
	lower := strings.ToLower(utterance)
	switch {
	case premiumRe.MatchString(utterance):
		return entity.ClassPremiumEconomy
	case strings.Contains(lower, "first class") || strings.Contains(lower, "first-class"):
		return entity.ClassFirst
	case strings.Contains(lower, "business"):
		return entity.ClassBusiness
	case strings.Contains(lower, "economy") || strings.Contains(lower, "coach"):
		return entity.ClassEconomy
	default:
		return ""
	}
}
