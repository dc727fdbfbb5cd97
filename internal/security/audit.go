package security

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Operations that must leave an audit trail.
const (
	OpUserLogin             = "user_login"
	OpUserLogout            = "user_logout"
	OpUserRegistration      = "user_registration"
	OpPasswordReset         = "password_reset"
	OpProfileUpdate         = "profile_update"
	OpClaimSubmission       = "claim_submission"
	OpDocumentUpload        = "document_upload"
	OpDataExport            = "data_export"
	OpDataDeletion          = "data_deletion"
	OpPrivacySettingsChange = "privacy_settings_change"
	OpAdminAccess           = "admin_access"
)

var sensitiveOperations = toSet([]string{
	OpUserLogin, OpUserLogout, OpUserRegistration, OpPasswordReset,
	OpProfileUpdate, OpClaimSubmission, OpDocumentUpload, OpDataExport,
	OpDataDeletion, OpPrivacySettingsChange, OpAdminAccess,
})

// IsSensitive reports whether op is on the audited operations list.
func IsSensitive(op string) bool {
	return sensitiveOperations[op]
}

// AuditEvent is one row of the audit log.
type AuditEvent struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Operation string         `json:"operation"`
	Details   map[string]any `json:"details"`
	IPAddress string         `json:"ip_address,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// AuditStore persists audit events. Implemented by internal/store.
type AuditStore interface {
	InsertAudit(ctx context.Context, e AuditEvent) error
}

// Auditor writes audit events, encrypting any PII found in their details
// when a cipher is configured.
type Auditor struct {
	store  AuditStore
	cipher *FieldCipher
	logger *slog.Logger
}

// NewAuditor creates an Auditor. cipher may be nil.
func NewAuditor(store AuditStore, cipher *FieldCipher, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{store: store, cipher: cipher, logger: logger}
}

// Log records an operation. Non-sensitive operations are only logged.
func (a *Auditor) Log(ctx context.Context, userID, op string, details map[string]any, ip string) error {
	if !IsSensitive(op) {
		a.logger.Debug("Skipping audit for non-sensitive operation", "operation", op)
		return nil
	}

	if details == nil {
		details = map[string]any{}
	}
	if a.cipher != nil {
		if pii := ScanPII(details); len(pii) > 0 {
			enc, err := a.cipher.EncryptFields(details, pii)
			if err != nil {
				return fmt.Errorf("encrypt audit details: %w", err)
			}
			details = enc
		}
	}

	err := a.store.InsertAudit(ctx, AuditEvent{
		UserID:    userID,
		Operation: op,
		Details:   details,
		IPAddress: ip,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		a.logger.Error("Failed to write audit event", "user_id", userID, "operation", op, "error", err)
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}
