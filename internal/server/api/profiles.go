// Package api provides HTTP API handlers for the Drishti attention
// monitoring system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/drishti/internal/attention"
	"github.com/ayusman/drishti/internal/store"
)

// Activator applies a tracker profile to the running monitor. It is
// optional; without one, activation only flips the stored flag.
type Activator interface {
	ApplyProfile(p *store.Profile) error
}

// ProfileHandler handles HTTP requests for tracker profile resources.
type ProfileHandler struct {
	store     *store.Store
	activator Activator
}

// NewProfileHandler creates a new ProfileHandler with the given store
// and optional activator.
func NewProfileHandler(s *store.Store, activator Activator) *ProfileHandler {
	return &ProfileHandler{store: s, activator: activator}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/profiles, /api/profiles/{id}, /api/profiles/{id}/activate
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/profiles
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Activation endpoint: /api/profiles/{id}/activate
	if id, ok := strings.CutSuffix(path, "/activate"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.activate(w, r, id)
		return
	}

	// Item endpoint: /api/profiles/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type profileRequest struct {
	Name            string  `json:"name"`
	AlertThreshold  float64 `json:"alert_threshold"`
	YawThreshold    float64 `json:"yaw_threshold"`
	PitchThreshold  float64 `json:"pitch_threshold"`
	SmoothingWindow int     `json:"smoothing_window"`
	MinConsecutive  int     `json:"min_consecutive"`
}

type profileResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	AlertThreshold  float64 `json:"alert_threshold"`
	YawThreshold    float64 `json:"yaw_threshold"`
	PitchThreshold  float64 `json:"pitch_threshold"`
	SmoothingWindow int     `json:"smoothing_window"`
	MinConsecutive  int     `json:"min_consecutive"`
	Active          bool    `json:"active"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type listProfilesResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Profile to a profileResponse.
func toResponse(p *store.Profile) profileResponse {
	return profileResponse{
		ID:              p.ID,
		Name:            p.Name,
		AlertThreshold:  p.AlertThreshold,
		YawThreshold:    p.YawThreshold,
		PitchThreshold:  p.PitchThreshold,
		SmoothingWindow: p.SmoothingWindow,
		MinConsecutive:  p.MinConsecutive,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// profileFromRequest builds a store.Profile from a request body,
// filling unset numeric fields with the tracker defaults and
// validating the result against the tracker configuration rules.
func profileFromRequest(req profileRequest) (*store.Profile, error) {
	config := attention.Config{
		AlertThreshold:       req.AlertThreshold,
		YawThreshold:         req.YawThreshold,
		PitchThreshold:       req.PitchThreshold,
		SmoothingWindow:      req.SmoothingWindow,
		MinConsecutiveFrames: req.MinConsecutive,
	}

	defaults := attention.DefaultConfig()
	if config.AlertThreshold == 0 {
		config.AlertThreshold = defaults.AlertThreshold
	}
	if config.YawThreshold == 0 {
		config.YawThreshold = defaults.YawThreshold
	}
	if config.PitchThreshold == 0 {
		config.PitchThreshold = defaults.PitchThreshold
	}
	if config.SmoothingWindow == 0 {
		config.SmoothingWindow = defaults.SmoothingWindow
	}
	if config.MinConsecutiveFrames == 0 {
		config.MinConsecutiveFrames = defaults.MinConsecutiveFrames
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &store.Profile{
		Name:            req.Name,
		AlertThreshold:  config.AlertThreshold,
		YawThreshold:    config.YawThreshold,
		PitchThreshold:  config.PitchThreshold,
		SmoothingWindow: config.SmoothingWindow,
		MinConsecutive:  config.MinConsecutiveFrames,
	}, nil
}

// list handles GET /api/profiles and returns all profiles.
func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	response := listProfilesResponse{
		Profiles: make([]profileResponse, 0, len(profiles)),
	}

	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/profiles/{id} and returns a single profile.
func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}

// create handles POST /api/profiles and creates a new profile.
func (h *ProfileHandler) create(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	profile, err := profileFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	profile.ID = uuid.New().String()

	if err := h.store.Profiles().Create(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(profile))
}

// update handles PUT /api/profiles/{id} and updates an existing profile.
func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	profile, err := profileFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	profile.ID = id

	if err := h.store.Profiles().Update(profile); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}

// delete handles DELETE /api/profiles/{id}.
func (h *ProfileHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Profiles().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// activate handles POST /api/profiles/{id}/activate: marks the
// profile active and, when an activator is wired, applies it to the
// running tracker.
func (h *ProfileHandler) activate(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Profiles().SetActive(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to activate profile")
		return
	}

	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load activated profile")
		return
	}

	if h.activator != nil {
		if err := h.activator.ApplyProfile(profile); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to apply profile")
			return
		}
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}
