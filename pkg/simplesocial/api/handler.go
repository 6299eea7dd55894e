package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-social/pkg/simplesocial"
)

// Handler handles HTTP requests for staging and scheduling
type Handler struct {
	service simplesocial.Service
}

// NewHandler creates a new handler
func NewHandler(service simplesocial.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes for the staging and scheduling API
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/content/stage", h.StageContent)
	r.Post("/content/stage-batch", h.StageBatch)
	r.Post("/content/regenerate", h.Regenerate)
	r.Post("/schedule", h.Schedule)
	r.Post("/hashtags/suggest", h.SuggestHashtags)
	r.Get("/platforms/{platform}/limits", h.PlatformLimits)

	return r
}

// BatchItemResult is one entry of a batch staging response
type BatchItemResult struct {
	Staged *simplesocial.StagedContent `json:"staged,omitempty"`
	Error  string                      `json:"error,omitempty"`
}

// StageBatchResponse is the response body for batch staging
type StageBatchResponse struct {
	Results []BatchItemResult `json:"results"`
}

// StageContent stages one raw content item
func (h *Handler) StageContent(w http.ResponseWriter, r *http.Request) {
	var req simplesocial.StageContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	staged, err := h.service.StageContent(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, staged)
}

// StageBatch stages several items; per-item failures come back inline.
func (h *Handler) StageBatch(w http.ResponseWriter, r *http.Request) {
	var req simplesocial.StageBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.StageBatch(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := StageBatchResponse{Results: make([]BatchItemResult, len(result.Staged))}
	for i := range result.Staged {
		resp.Results[i].Staged = result.Staged[i]
		if result.Errors[i] != nil {
			resp.Results[i].Error = result.Errors[i].Error()
		}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// Regenerate re-requests generation for one platform of a staged item
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req simplesocial.RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.RegeneratePlatformContent(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, updated)
}

// Schedule computes a publish schedule for staged items
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req simplesocial.ScheduleContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.ScheduleContent(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// SuggestHashtagsRequest asks for trend-supplemented hashtags for a staged
// item at a candidate publish time. A zero At means now.
type SuggestHashtagsRequest struct {
	Content *simplesocial.StagedContent `json:"content"`
	At      time.Time                   `json:"at,omitempty"`
}

// SuggestHashtagsResponse carries the merged hashtag list
type SuggestHashtagsResponse struct {
	Hashtags []string `json:"hashtags"`
}

// SuggestHashtags returns trend-supplemented hashtags for a staged item
func (h *Handler) SuggestHashtags(w http.ResponseWriter, r *http.Request) {
	var req SuggestHashtagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == nil {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	at := req.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, SuggestHashtagsResponse{
		Hashtags: h.service.SuggestHashtags(req.Content, at),
	})
}

// PlatformLimits returns the limits table entry for one platform
func (h *Handler) PlatformLimits(w http.ResponseWriter, r *http.Request) {
	platform := simplesocial.Platform(chi.URLParam(r, "platform"))

	limits, err := simplesocial.LimitsFor(platform)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, limits)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *simplesocial.ValidationError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, simplesocial.ErrPlatformNotFound):
		status = http.StatusNotFound
	case errors.Is(err, simplesocial.ErrContentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, simplesocial.ErrRateLimitExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, simplesocial.ErrInvalidPreferences), errors.Is(err, simplesocial.ErrNoItems):
		status = http.StatusBadRequest
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "err", err)
	}
	http.Error(w, err.Error(), status)
}
