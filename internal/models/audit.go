package models

import (
	"encoding/json"
	"time"
)

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin             = "LOGIN"
	AuditActionLogout            = "LOGOUT"
	AuditActionPasswordChange    = "PASSWORD_CHANGE"
	AuditActionAdminProvisioned  = "ADMIN_PROVISIONED"
	AuditActionOrderStatus       = "ORDER_STATUS_UPDATE"
	AuditActionOrderBulkStatus   = "ORDER_BULK_STATUS_UPDATE"
	AuditActionOrderNotes        = "ORDER_NOTES_UPDATE"
	AuditActionOrderEbook        = "ORDER_EBOOK_ASSIGN"
	AuditActionOrdersDeleteAll   = "ORDERS_DELETE_ALL"
	AuditActionContentUpdate     = "CONTENT_UPDATE"
	AuditActionEbookUpload       = "EBOOK_UPLOAD"
	AuditActionEbookDownloadLink = "EBOOK_DOWNLOAD_LINK"
	AuditActionMediaUpload       = "MEDIA_UPLOAD"
	AuditActionMediaRemove       = "MEDIA_REMOVE"
	AuditActionOrdersExport      = "ORDERS_EXPORT"
	AuditActionPresetSave        = "ORDER_PRESET_SAVE"
	AuditActionPresetDelete      = "ORDER_PRESET_DELETE"
)

// Actor identifies who performed an audited action.
type Actor struct {
	UserID    string
	IP        string
	UserAgent string
}

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string          `db:"id" json:"id"`
	UserID     *string         `db:"user_id" json:"user_id,omitempty"`
	Action     string          `db:"action" json:"action"`
	Resource   string          `db:"resource" json:"resource"`
	ResourceID *string         `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  json.RawMessage `db:"old_values" json:"old_values,omitempty"`
	NewValues  json.RawMessage `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string          `db:"ip_address" json:"ip_address"`
	UserAgent  string          `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
