package usecase

import (
	"context"
	"sort"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/pkg/logger"
	"travelctx-service/pkg/utils"
)

// BudgetBandWidth is the default k in the mean ± k·stddev budget band
const BudgetBandWidth = 1.0

// SuggestionGenerator combines profile, route ranking and preference
// aggregates into a ranked, multi-category suggestion set. Every category
// is independent: missing data for one never blocks the others.
type SuggestionGenerator struct {
	profiles  *ProfileManager
	history   *HistoryTracker
	engine    *PreferenceEngine
	logger    logger.Logger
	bandWidth float64
}

// NewSuggestionGenerator creates a new suggestion generator; bandWidth falls
// back to BudgetBandWidth when not positive
func NewSuggestionGenerator(
	profiles *ProfileManager,
	history *HistoryTracker,
	engine *PreferenceEngine,
	logger logger.Logger,
	bandWidth float64,
) *SuggestionGenerator {
	if bandWidth <= 0 {
		bandWidth = BudgetBandWidth
	}
	return &SuggestionGenerator{
		profiles:  profiles,
		history:   history,
		engine:    engine,
		logger:    logger,
		bandWidth: bandWidth,
	}
}

// routeSuggestions returns popular routes matching whatever endpoints the
// query pins down
func (sg *SuggestionGenerator) routeSuggestions(ctx context.Context, userID string, query entity.QueryContext) ([]entity.RouteRank, error) {
	ranks, err := sg.history.RouteStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	from := utils.NormalizeLocationCode(query.From)
	to := utils.NormalizeLocationCode(query.To)
	if from != "" || to != "" {
		filtered := ranks[:0]
		for _, rank := range ranks {
			rankFrom, rankTo := utils.SplitRouteKey(rank.Route)
			if from != "" && rankFrom != from {
				continue
			}
			if to != "" && rankTo != to {
				continue
			}
			filtered = append(filtered, rank)
		}
		ranks = filtered
	}

	if len(ranks) > DefaultTopRoutes {
		ranks = ranks[:DefaultTopRoutes]
	}
	return ranks, nil
}

// carrierSuggestion picks the most frequent carrier, ties broken by the
// carrier most recently flown, then lexicographically
func carrierSuggestion(aggregate *entity.PreferenceAggregate) *entity.CarrierSuggestion {
	carriers := make([]string, 0, len(aggregate.CarrierFrequency))
	for carrier := range aggregate.CarrierFrequency {
		carriers = append(carriers, carrier)
	}
	if len(carriers) == 0 {
		return nil
	}
	sort.Slice(carriers, func(i, j int) bool {
		a, b := aggregate.CarrierFrequency[carriers[i]], aggregate.CarrierFrequency[carriers[j]]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if !a.LastSeen.Equal(b.LastSeen) {
			return a.LastSeen.After(b.LastSeen)
		}
		return carriers[i] < carriers[j]
	})
	best := aggregate.CarrierFrequency[carriers[0]]
	return &entity.CarrierSuggestion{
		Carrier:  carriers[0],
		Count:    best.Count,
		LastSeen: best.LastSeen,
	}
}

// classSuggestion picks the mode of the class counts; ties break toward the
// profile's stated preferred class when it is among the tied classes, else
// toward the lower cabin class
func classSuggestion(aggregate *entity.PreferenceAggregate, profile *entity.TravelerProfile) *entity.ClassSuggestion {
	if len(aggregate.ClassFrequency) == 0 {
		return nil
	}
	var maxCount int64
	for _, count := range aggregate.ClassFrequency {
		if count > maxCount {
			maxCount = count
		}
	}
	var tied []string
	for class, count := range aggregate.ClassFrequency {
		if count == maxCount {
			tied = append(tied, class)
		}
	}
	if profile != nil && profile.PreferredClass != "" {
		for _, class := range tied {
			if class == profile.PreferredClass {
				return &entity.ClassSuggestion{CabinClass: class, Count: maxCount}
			}
		}
	}
	sort.Slice(tied, func(i, j int) bool {
		ri, rj := entity.CabinClassRank(tied[i]), entity.CabinClassRank(tied[j])
		if ri != rj {
			return ri < rj
		}
		return tied[i] < tied[j]
	})
	return &entity.ClassSuggestion{CabinClass: tied[0], Count: maxCount}
}

// budgetSuggestion returns the mean ± k·stddev band, clamped non-negative;
// omitted below two confirmed samples so no degenerate band is emitted
func (sg *SuggestionGenerator) budgetSuggestion(aggregate *entity.PreferenceAggregate) *entity.BudgetBand {
	stats := aggregate.BudgetStats
	if stats.Count < 2 {
		return nil
	}
	spread := sg.bandWidth * stats.StdDev()
	low := stats.Mean - spread
	if low < 0 {
		low = 0
	}
	return &entity.BudgetBand{
		Low:      low,
		High:     stats.Mean + spread,
		Currency: stats.Currency,
	}
}

// Generate produces the suggestion set for a query context. Output order is
// stable: routes, carrier, class, budget.
func (sg *SuggestionGenerator) Generate(ctx context.Context, userID string, query entity.QueryContext) (*entity.SuggestionSet, error) {
	aggregate, err := sg.engine.GetAggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := sg.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	routes, err := sg.routeSuggestions(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	set := &entity.SuggestionSet{
		UserID:  userID,
		Routes:  routes,
		Carrier: carrierSuggestion(aggregate),
		Class:   classSuggestion(aggregate, profile),
		Budget:  sg.budgetSuggestion(aggregate),
	}
	sg.logger.Debug("Generated suggestion set",
		"userId", userID,
		"routes", len(set.Routes),
		"hasCarrier", set.Carrier != nil,
		"hasClass", set.Class != nil,
		"hasBudget", set.Budget != nil)
	return set, nil
}

// GetStats returns the read-only projection over history and profile used
// for greetings and summaries
func (sg *SuggestionGenerator) GetStats(ctx context.Context, userID string) (*entity.UserStats, error) {
	stats := &entity.UserStats{UserID: userID}

	history, err := sg.history.GetHistory(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	for _, event := range history {
		if event.Status == entity.BookingConfirmed {
			stats.TripCount++
		}
	}

	aggregate, err := sg.engine.GetAggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if aggregate.BudgetStats.Count > 0 {
		mean := aggregate.BudgetStats.Mean
		stats.AverageBudget = &mean
		stats.Currency = aggregate.BudgetStats.Currency
	}

	ranks, err := sg.history.RouteStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ranks) > 0 {
		stats.TopRoute = ranks[0].Route
	}

	profile, err := sg.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		memberSince := profile.CreatedAt
		stats.MemberSince = &memberSince
	}

	return stats, nil
}
