package templates

import (
	"fmt"
	"strings"

	"travelctx-service/internal/domain/entity"
)

// RenderGreeting builds the personalized greeting line shown by the UI,
// from the stats projection and an optional profile.
func RenderGreeting(stats *entity.UserStats, profile *entity.TravelerProfile) string {
	var b strings.Builder

	name := ""
	if profile != nil {
		name = strings.TrimSpace(profile.PersonalInfo.FullName)
	}
	if name != "" {
		fmt.Fprintf(&b, "Welcome back, %s!", name)
	} else {
		b.WriteString("Welcome back!")
	}

	if stats.TripCount == 1 {
		b.WriteString(" You have 1 trip with us.")
	} else if stats.TripCount > 1 {
		fmt.Fprintf(&b, " You have %d trips with us.", stats.TripCount)
	}

	if stats.TopRoute != "" {
		fmt.Fprintf(&b, " Your favorite route is %s.", formatRoute(stats.TopRoute))
	}

	if stats.AverageBudget != nil {
		fmt.Fprintf(&b, " You usually spend around %.0f %s per trip.", *stats.AverageBudget, stats.Currency)
	}

	if stats.MemberSince != nil {
		fmt.Fprintf(&b, " Member since %s.", stats.MemberSince.Format("Jan 2006"))
	}

	return b.String()
}

// formatRoute turns the canonical "FROM-TO" key into a display form
func formatRoute(route string) string {
	return strings.Replace(route, "-", " → ", 1)
}
