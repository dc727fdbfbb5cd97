package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/classactionfinder/finder-data/internal/acquisition"
	"github.com/classactionfinder/finder-data/internal/api/respond"
	"github.com/classactionfinder/finder-data/internal/cache"
)

const sourcesCacheKey = "sources:prioritized"

// GetSources returns every data source ordered by priority score.
// @Summary List prioritized data sources
// @Description Returns all data sources with their computed priority score, highest first. Ties keep creation order.
// @Tags sources
// @Produce json
// @Success 200 {array} acquisition.Ranked
// @Success 304 "Not modified"
// @Failure 500 {object} respond.ErrorResponse
// @Router /sources [get]
func (h *Handler) GetSources(w http.ResponseWriter, r *http.Request) {
	ttl := cache.TTLSources

	if data, etag, ok := h.cache.Get(sourcesCacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	ranked, err := acquisition.Prioritized(r.Context(), h.sources)
	if err != nil {
		h.writeStoreError(w, err, "data sources")
		return
	}

	raw, err := json.Marshal(ranked)
	if err != nil {
		h.writeStoreError(w, err, "data sources")
		return
	}

	etag := h.cache.Set(sourcesCacheKey, raw, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, raw, etag, ttl, false)
}

type createSourceRequest struct {
	Name           string                     `json:"name"`
	URL            string                     `json:"url"`
	Reliability    acquisition.Reliability    `json:"reliability_metrics"`
	ScrapingConfig acquisition.ScrapingConfig `json:"scraping_config"`
	DataMapping    map[string]string          `json:"data_mapping"`
}

// CreateSource registers a new data source.
// @Summary Create data source
// @Description Registers a scraping target. Reliability metrics must each lie in [0,1]; success history starts empty.
// @Tags sources
// @Accept json
// @Produce json
// @Param body body createSourceRequest true "Data source"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /sources [post]
func (h *Handler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var req createSourceRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "name is required")
		return
	}
	if u, err := url.Parse(req.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_URL", "url must be an absolute http(s) URL")
		return
	}
	if msg := validateReliability(req.Reliability); msg != "" {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_RELIABILITY", msg)
		return
	}
	if req.ScrapingConfig.Throttling < 0 || req.ScrapingConfig.PolitenessDelay < 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_SCRAPING_CONFIG",
			"throttling and politeness_delay must not be negative")
		return
	}

	id, err := h.sources.AddSource(r.Context(), acquisition.DataSource{
		Name:           req.Name,
		URL:            req.URL,
		Reliability:    req.Reliability,
		ScrapingConfig: req.ScrapingConfig,
		DataMapping:    req.DataMapping,
	})
	if err != nil {
		h.writeStoreError(w, err, "data source")
		return
	}
	h.cache.Delete(sourcesCacheKey)

	h.logger.Info("Data source created", "source_id", id, "name", req.Name)
	respond.WriteJSONObject(w, http.StatusCreated, map[string]interface{}{"id": id})
}

// UpdateSourceReliability replaces a source's reliability metrics.
// @Summary Update source reliability
// @Tags sources
// @Accept json
// @Produce json
// @Param id path string true "Data source ID"
// @Param body body acquisition.Reliability true "Reliability metrics"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /sources/{id}/reliability [put]
func (h *Handler) UpdateSourceReliability(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var rel acquisition.Reliability
	if !respond.DecodeJSON(w, r, &rel) {
		return
	}
	if msg := validateReliability(rel); msg != "" {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_RELIABILITY", msg)
		return
	}

	if err := h.sources.UpdateReliability(r.Context(), id, rel); err != nil {
		h.writeStoreError(w, err, "data source")
		return
	}
	h.cache.Delete(sourcesCacheKey)

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"id": id, "updated": true})
}

type attemptRequest struct {
	Success bool       `json:"success"`
	At      *time.Time `json:"at,omitempty"`
}

// RecordSourceAttempt appends one scrape outcome to a source's history.
// @Summary Record scrape attempt
// @Description Increments the success or failure count and stamps last_success/last_failure. Omitting "at" uses the server clock.
// @Tags sources
// @Accept json
// @Produce json
// @Param id path string true "Data source ID"
// @Param body body attemptRequest true "Attempt outcome"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /sources/{id}/attempts [post]
func (h *Handler) RecordSourceAttempt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req attemptRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	if err := h.sources.RecordAttempt(r.Context(), id, req.Success, at); err != nil {
		h.writeStoreError(w, err, "data source")
		return
	}
	h.cache.Delete(sourcesCacheKey)

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"id": id, "recorded": true})
}

func validateReliability(r acquisition.Reliability) string {
	metrics := []struct {
		name  string
		value float64
	}{
		{"accuracy", r.Accuracy},
		{"completeness", r.Completeness},
		{"timeliness", r.Timeliness},
	}
	for _, m := range metrics {
		if m.value < 0 || m.value > 1 {
			return m.name + " must be between 0 and 1"
		}
	}
	return ""
}
