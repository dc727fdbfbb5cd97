package handler

import (
	"net/http"

	"github.com/classactionfinder/finder-data/internal/api/respond"
	"github.com/classactionfinder/finder-data/internal/security"
)

type piiRequest struct {
	Data map[string]any `json:"data"`
}

// ScanPII reports which fields of a record hold personal data.
// @Summary Scan record for PII
// @Description Returns known PII field names with values first, then fields whose values look like an email, phone number or SSN.
// @Tags security
// @Accept json
// @Produce json
// @Param body body piiRequest true "Record to scan"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /security/pii/scan [post]
func (h *Handler) ScanPII(w http.ResponseWriter, r *http.Request) {
	var req piiRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	fields := security.ScanPII(req.Data)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"fields":  fields,
		"has_pii": len(fields) > 0,
	})
}

// AnonymizePII strips or pseudonymizes the PII in a record for analytics.
// @Summary Anonymize record
// @Description Drops card, bank and SSN fields and replaces email, name, phone and address with stable keyed pseudonyms.
// @Tags security
// @Accept json
// @Produce json
// @Param body body piiRequest true "Record to anonymize"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /security/pii/anonymize [post]
func (h *Handler) AnonymizePII(w http.ResponseWriter, r *http.Request) {
	var req piiRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"data": h.anon.Anonymize(req.Data),
	})
}

type minimizeRequest struct {
	Data     map[string]any `json:"data"`
	Required []string       `json:"required"`
}

// MinimizePII keeps only the fields a purpose needs.
// @Summary Minimize record
// @Tags security
// @Accept json
// @Produce json
// @Param body body minimizeRequest true "Record and the fields to keep"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /security/pii/minimize [post]
func (h *Handler) MinimizePII(w http.ResponseWriter, r *http.Request) {
	var req minimizeRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"data": security.Minimize(req.Data, req.Required),
	})
}

type uploadRequest struct {
	FileName    string `json:"file_name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// ValidateUpload checks claim evidence metadata before the client uploads.
// @Summary Validate upload metadata
// @Tags security
// @Accept json
// @Produce json
// @Param body body uploadRequest true "Upload metadata"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /security/uploads/validate [post]
func (h *Handler) ValidateUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	if err := security.ValidateUpload(req.FileName, req.Size, req.ContentType); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "UPLOAD_REJECTED", "Upload rejected", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"valid": true})
}

type botCheckRequest struct {
	RequestsPerMinute float64  `json:"requests_per_minute"`
	Pattern           []string `json:"pattern"`
	UserAgent         string   `json:"user_agent"`
}

// BotCheck scores a client's behaviour. When user_agent is omitted the
// caller's own User-Agent header is scored.
// @Summary Score client for bot behaviour
// @Tags security
// @Accept json
// @Produce json
// @Param body body botCheckRequest true "Client behaviour"
// @Success 200 {object} security.BotVerdict
// @Failure 400 {object} respond.ErrorResponse
// @Router /security/bot-check [post]
func (h *Handler) BotCheck(w http.ResponseWriter, r *http.Request) {
	var req botCheckRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	if req.UserAgent == "" {
		req.UserAgent = r.UserAgent()
	}
	respond.WriteJSONObject(w, http.StatusOK,
		security.DetectBot(req.RequestsPerMinute, req.Pattern, req.UserAgent))
}
