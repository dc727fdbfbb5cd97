package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classactionfinder/finder-data/internal/api/respond"
	"github.com/classactionfinder/finder-data/internal/db"
	"github.com/classactionfinder/finder-data/internal/notifications"
	"github.com/classactionfinder/finder-data/internal/security"
)

// ListNotifications returns a user's inbox, newest first.
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param userID path string true "User ID"
// @Param include_read query bool false "Include read notifications"
// @Success 200 {array} notifications.Notification
// @Failure 400 {object} respond.ErrorResponse
// @Router /users/{userID}/notifications [get]
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	includeRead := false
	if v := r.URL.Query().Get("include_read"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "include_read must be a boolean")
			return
		}
		includeRead = b
	}

	list, err := h.notify.Store().ListNotifications(r.Context(), userID, includeRead)
	if err != nil {
		h.writeStoreError(w, err, "notifications")
		return
	}
	if list == nil {
		list = []notifications.Notification{}
	}
	respond.WriteJSONObject(w, http.StatusOK, list)
}

type createNotificationRequest struct {
	Type    notifications.EventType `json:"type"`
	Content string                  `json:"content"`
	Data    map[string]any          `json:"data"`
}

// CreateNotification stores a notification and runs the delivery gate.
// @Summary Create notification
// @Description Always stores the notification in the in-app inbox. The returned decision says whether it may also be pushed now; anything but "allow" leaves it for the next digest.
// @Tags notifications
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param body body createNotificationRequest true "Notification"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /users/{userID}/notifications [post]
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req createNotificationRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(string(req.Type)) == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_TYPE", "type is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_CONTENT", "content is required")
		return
	}

	id, decision, err := h.notify.Notify(r.Context(), userID, req.Type, req.Content, req.Data)
	if err != nil {
		h.writeStoreError(w, err, "notification")
		return
	}
	respond.WriteJSONObject(w, http.StatusCreated, map[string]interface{}{
		"id":       id,
		"decision": decision,
	})
}

// MarkAllNotificationsRead marks every unread notification of a user read.
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userID}/notifications/read [post]
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.notify.Store().MarkAllRead(r.Context(), userID); err != nil {
		h.writeStoreError(w, err, "notifications")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"user_id": userID, "read": true})
}

// MarkNotificationRead marks a single notification read.
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.notify.Store().MarkRead(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "notification")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"id": id, "read": true})
}

// DeleteNotification removes a notification.
// @Summary Delete notification
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse
// @Router /notifications/{id} [delete]
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.notify.Store().DeleteNotification(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPreferences returns a user's notification preferences, or the defaults
// when none are stored.
// @Summary Get notification preferences
// @Tags notifications
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} notifications.Preferences
// @Router /users/{userID}/notification-preferences [get]
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	prefs, err := h.notify.Store().GetPreferences(r.Context(), userID)
	if errors.Is(err, db.ErrNotFound) {
		defaults := notifications.DefaultPreferences()
		prefs, err = &defaults, nil
	}
	if err != nil {
		h.writeStoreError(w, err, "notification preferences")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, prefs)
}

// UpdatePreferences replaces a user's notification preferences. Keys missing
// from the body keep their default value.
// @Summary Update notification preferences
// @Tags notifications
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param body body notifications.Preferences true "Preferences"
// @Success 200 {object} notifications.Preferences
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /users/{userID}/notification-preferences [put]
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	prefs := notifications.DefaultPreferences()
	if !respond.DecodeJSON(w, r, &prefs) {
		return
	}
	if _, err := notifications.ParseFrequency(string(prefs.Frequency)); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_FREQUENCY",
			"frequency must be immediate, daily or weekly", err.Error())
		return
	}

	if err := h.notify.Store().UpdatePreferences(r.Context(), userID, prefs); err != nil {
		h.writeStoreError(w, err, "user")
		return
	}
	h.audit(r, userID, security.OpProfileUpdate, map[string]any{"section": "notificationPreferences"})

	respond.WriteJSONObject(w, http.StatusOK, prefs)
}

// ShouldSend runs the delivery gate for an event type without storing
// anything.
// @Summary Evaluate delivery gate
// @Tags notifications
// @Produce json
// @Param userID path string true "User ID"
// @Param type query string true "Event type" Enums(claim_update, deadline, new_lawsuit, system)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /users/{userID}/notifications/should-send [get]
func (h *Handler) ShouldSend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	eventType := notifications.EventType(r.URL.Query().Get("type"))
	if eventType == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_TYPE", "type query parameter is required")
		return
	}

	decision, err := h.notify.ShouldSend(r.Context(), userID, eventType)
	if err != nil {
		h.writeStoreError(w, err, "notification preferences")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"send":     decision == notifications.DecisionAllow,
		"decision": decision,
	})
}

// RunDigest folds a user's unread notifications into per-type summaries.
// @Summary Build notification digest
// @Tags notifications
// @Produce json
// @Param userID path string true "User ID"
// @Param frequency query string true "Digest frequency" Enums(daily, weekly)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /users/{userID}/notifications/digest [post]
func (h *Handler) RunDigest(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	freq, err := notifications.ParseFrequency(r.URL.Query().Get("frequency"))
	if err != nil || freq == notifications.FrequencyImmediate {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_FREQUENCY", "frequency must be daily or weekly")
		return
	}

	n, err := h.notify.Digest(r.Context(), userID, freq)
	if err != nil {
		h.writeStoreError(w, err, "notifications")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"user_id":   userID,
		"frequency": freq,
		"summaries": n,
	})
}

// audit records a sensitive operation. Failures are logged by the auditor
// and never fail the request.
func (h *Handler) audit(r *http.Request, userID, op string, details map[string]any) {
	if h.auditor == nil {
		return
	}
	_ = h.auditor.Log(r.Context(), userID, op, details, security.ClientIP(r))
}
