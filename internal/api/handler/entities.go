package handler

import (
	"net/http"

	"github.com/classactionfinder/finder-data/internal/acquisition"
	"github.com/classactionfinder/finder-data/internal/api/respond"
)

type dedupeResponse struct {
	Entities []acquisition.RawEntity `json:"entities"`
	Stats    acquisition.DedupeStats `json:"stats"`
}

// DedupeEntities removes duplicate scraped records, keeping first occurrences.
// @Summary Deduplicate scraped entities
// @Description Lawsuits are identified by case_number|court, defendants by normalized company_name. Records missing identity fields all share one empty key; stats.degenerate counts them.
// @Tags entities
// @Accept json
// @Produce json
// @Param kind query string true "Entity kind" Enums(lawsuit, defendant)
// @Param body body []map[string]interface{} true "Raw entities"
// @Success 200 {object} dedupeResponse
// @Failure 400 {object} respond.ErrorResponse
// @Router /entities/dedupe [post]
func (h *Handler) DedupeEntities(w http.ResponseWriter, r *http.Request) {
	kind, err := acquisition.ParseEntityKind(r.URL.Query().Get("kind"))
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_KIND",
			"kind must be 'lawsuit' or 'defendant'", err.Error())
		return
	}

	var entities []acquisition.RawEntity
	if !respond.DecodeJSON(w, r, &entities) {
		return
	}

	kept, stats := acquisition.DeduplicateWithStats(entities, kind)
	if stats.Degenerate > 0 {
		h.logger.Warn("Entities without identity collapsed to one record",
			"kind", kind, "degenerate", stats.Degenerate)
	}
	respond.WriteJSONObject(w, http.StatusOK, dedupeResponse{Entities: kept, Stats: stats})
}
