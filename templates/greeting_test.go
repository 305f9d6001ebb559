package templates

import (
	"testing"
	"time"

	"travelctx-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestRenderGreeting(t *testing.T) {
	memberSince := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	average := 300.0
	stats := &entity.UserStats{
		UserID:        "u1",
		TripCount:     4,
		AverageBudget: &average,
		Currency:      "USD",
		TopRoute:      "SEA-YVR",
		MemberSince:   &memberSince,
	}
	profile := &entity.TravelerProfile{
		PersonalInfo: entity.PersonalInfo{FullName: "Ada Lovelace"},
	}

	greeting := RenderGreeting(stats, profile)
	assert.Contains(t, greeting, "Welcome back, Ada Lovelace!")
	assert.Contains(t, greeting, "4 trips")
	assert.Contains(t, greeting, "SEA → YVR")
	assert.Contains(t, greeting, "around 300 USD")
	assert.Contains(t, greeting, "Member since Mar 2024")
}

func TestRenderGreetingNewUser(t *testing.T) {
	greeting := RenderGreeting(&entity.UserStats{UserID: "u1"}, nil)
	assert.Equal(t, "Welcome back!", greeting)
}

func TestRenderGreetingSingleTrip(t *testing.T) {
	greeting := RenderGreeting(&entity.UserStats{UserID: "u1", TripCount: 1}, nil)
	assert.Contains(t, greeting, "1 trip with us")
}
