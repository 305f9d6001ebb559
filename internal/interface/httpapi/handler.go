package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"travelctx-service/internal/domain/entity"
	"travelctx-service/internal/usecase"
	"travelctx-service/pkg/logger"
	"travelctx-service/pkg/metrics"
	"travelctx-service/pkg/utils"
	"travelctx-service/templates"
)

// Handler exposes the user-context core over JSON/HTTP. Authentication,
// rate limiting and provider calls live in outer layers.
type Handler struct {
	profiles     *usecase.ProfileManager
	history      *usecase.HistoryTracker
	conversation *usecase.ConversationTracker
	suggestions  *usecase.SuggestionGenerator
	privacy      *usecase.PrivacyService
	intentParser *utils.IntentParser
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewHandler creates a new HTTP API handler
func NewHandler(
	profiles *usecase.ProfileManager,
	history *usecase.HistoryTracker,
	conversation *usecase.ConversationTracker,
	suggestions *usecase.SuggestionGenerator,
	privacy *usecase.PrivacyService,
	intentParser *utils.IntentParser,
	m *metrics.Metrics,
	logger logger.Logger,
) *Handler {
	return &Handler{
		profiles:     profiles,
		history:      history,
		conversation: conversation,
		suggestions:  suggestions,
		privacy:      privacy,
		intentParser: intentParser,
		metrics:      m,
		logger:       logger,
	}
}

// Register mounts all routes on the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/users/{userId}/profile", h.createProfile)
	mux.HandleFunc("GET /v1/users/{userId}/profile", h.getProfile)
	mux.HandleFunc("PATCH /v1/users/{userId}/profile", h.updateProfile)
	mux.HandleFunc("POST /v1/users/{userId}/bookings", h.addBooking)
	mux.HandleFunc("GET /v1/users/{userId}/bookings", h.getHistory)
	mux.HandleFunc("GET /v1/users/{userId}/routes/popular", h.getPopularRoutes)
	mux.HandleFunc("POST /v1/users/{userId}/conversation", h.recordTurn)
	mux.HandleFunc("GET /v1/users/{userId}/conversation", h.getRecentTurns)
	mux.HandleFunc("POST /v1/users/{userId}/suggestions", h.generateSuggestions)
	mux.HandleFunc("GET /v1/users/{userId}/stats", h.getStats)
	mux.HandleFunc("GET /v1/users/{userId}/export", h.exportData)
	mux.HandleFunc("DELETE /v1/users/{userId}", h.eraseData)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps the domain error taxonomy onto HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, operation string, err error) {
	h.metrics.ErrorsCount.WithLabelValues(operation).Inc()

	var status int
	var code string
	switch {
	case entity.IsValidation(err):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, entity.ErrAlreadyExists):
		status, code = http.StatusConflict, "already_exists"
	case errors.Is(err, entity.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, entity.ErrConsentRequired):
		status, code = http.StatusForbidden, "consent_required"
	case errors.Is(err, entity.ErrCorruptRecord):
		status, code = http.StatusInternalServerError, "corrupt_record"
	case errors.Is(err, entity.ErrPartialErasure):
		status, code = http.StatusInternalServerError, "partial_erasure"
	case errors.Is(err, entity.ErrStorageUnavailable):
		status, code = http.StatusServiceUnavailable, "storage_unavailable"
	default:
		status, code = http.StatusInternalServerError, "internal"
	}

	h.logger.Error("Request failed", "operation", operation, "status", status, "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func queryInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return value
}

func (h *Handler) createProfile(w http.ResponseWriter, r *http.Request) {
	var profile entity.TravelerProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		h.writeError(w, "create_profile", &entity.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}
	created, err := h.profiles.Create(r.Context(), r.PathValue("userId"), profile)
	if err != nil {
		h.writeError(w, "create_profile", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetOrFail(r.Context(), r.PathValue("userId"))
	if err != nil {
		h.writeError(w, "get_profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Update  entity.ProfileUpdate `json:"update"`
	Consent bool                 `json:"consent"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "update_profile", &entity.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}
	updated, err := h.profiles.Update(r.Context(), r.PathValue("userId"), req.Update, req.Consent)
	if err != nil {
		h.writeError(w, "update_profile", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) addBooking(w http.ResponseWriter, r *http.Request) {
	var event entity.BookingEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.writeError(w, "add_booking", &entity.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}
	event.UserID = r.PathValue("userId")
	appended, err := h.history.AddBooking(r.Context(), event)
	if err != nil {
		h.writeError(w, "add_booking", err)
		return
	}
	h.metrics.BookingsIngested.Inc()
	writeJSON(w, http.StatusCreated, appended)
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	events, err := h.history.GetHistory(r.Context(), r.PathValue("userId"), queryInt(r, "limit"))
	if err != nil {
		h.writeError(w, "get_history", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) getPopularRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.history.GetPopularRoutes(r.Context(), r.PathValue("userId"), queryInt(r, "top"))
	if err != nil {
		h.writeError(w, "get_popular_routes", err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

func (h *Handler) recordTurn(w http.ResponseWriter, r *http.Request) {
	var turn entity.ConversationTurn
	if err := json.NewDecoder(r.Body).Decode(&turn); err != nil {
		h.writeError(w, "record_turn", &entity.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}
	// The tracker stores turns opaquely; intent extraction happens here,
	// on the collaborator side, when the caller supplied none.
	if turn.Intent.IsEmpty() && turn.UserInput != "" {
		turn.Intent = h.intentParser.Parse(turn.UserInput)
	}
	if err := h.conversation.RecordTurn(r.Context(), r.PathValue("userId"), turn); err != nil {
		h.writeError(w, "record_turn", err)
		return
	}
	h.metrics.TurnsRecorded.Inc()
	writeJSON(w, http.StatusCreated, turn)
}

func (h *Handler) getRecentTurns(w http.ResponseWriter, r *http.Request) {
	turns, err := h.conversation.GetRecent(r.Context(), r.PathValue("userId"), queryInt(r, "limit"))
	if err != nil {
		h.writeError(w, "get_recent_turns", err)
		return
	}
	writeJSON(w, http.StatusOK, turns)
}

func (h *Handler) generateSuggestions(w http.ResponseWriter, r *http.Request) {
	var query entity.QueryContext
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		h.writeError(w, "generate_suggestions", &entity.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}
	start := time.Now()
	set, err := h.suggestions.Generate(r.Context(), r.PathValue("userId"), query)
	if err != nil {
		h.writeError(w, "generate_suggestions", err)
		return
	}
	h.metrics.SuggestionsGenerated.Inc()
	h.metrics.SuggestionTime.Observe(time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, set)
}

type statsResponse struct {
	*entity.UserStats
	Greeting string `json:"greeting"`
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	stats, err := h.suggestions.GetStats(r.Context(), userID)
	if err != nil {
		h.writeError(w, "get_stats", err)
		return
	}
	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		h.writeError(w, "get_stats", err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		UserStats: stats,
		Greeting:  templates.RenderGreeting(stats, profile),
	})
}

func (h *Handler) exportData(w http.ResponseWriter, r *http.Request) {
	export, err := h.privacy.Export(r.Context(), r.PathValue("userId"))
	if err != nil {
		h.writeError(w, "export_data", err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

func (h *Handler) eraseData(w http.ResponseWriter, r *http.Request) {
	if err := h.privacy.Erase(r.Context(), r.PathValue("userId")); err != nil {
		h.writeError(w, "erase_data", err)
		return
	}
	h.metrics.ErasuresCompleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}
