package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/classactionfinder/finder-data/internal/api/respond"
	"github.com/classactionfinder/finder-data/internal/security"
)

// ExportUser returns everything stored about a user, with encrypted PII
// fields decrypted.
// @Summary Export user data
// @Description Returns the user record (PII decrypted when a key is configured) and every notification. The export is audited.
// @Tags privacy
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /users/{userID}/export [get]
func (h *Handler) ExportUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	record, err := h.users.GetUserRecord(r.Context(), userID)
	if err != nil {
		h.writeStoreError(w, err, "user")
		return
	}
	if h.cipher != nil {
		record, err = h.cipher.DecryptFields(record, security.PIIFields)
		if err != nil {
			h.logger.Error("Failed to decrypt user record", "user_id", userID, "error", err)
			respond.WriteError(w, http.StatusInternalServerError, "DECRYPTION_FAILED", "Failed to decrypt user data")
			return
		}
	}

	inbox, err := h.notify.Store().ListNotifications(r.Context(), userID, true)
	if err != nil {
		h.writeStoreError(w, err, "notifications")
		return
	}

	h.audit(r, userID, security.OpDataExport, map[string]any{"notifications": len(inbox)})

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"user":          record,
		"notifications": inbox,
		"exported_at":   time.Now().UTC().Format(time.RFC3339),
	})
}

// DeleteUser erases a user and their notifications.
// @Summary Delete user data
// @Tags privacy
// @Param userID path string true "User ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse
// @Router /users/{userID} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		h.writeStoreError(w, err, "user")
		return
	}
	h.audit(r, userID, security.OpDataDeletion, nil)
	h.logger.Info("User data deleted", "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}
