package model

import "time"

// Audit actions recorded against admin accounts.
const (
	AuditCreate       = "CREATE"
	AuditUpdate       = "UPDATE"
	AuditDelete       = "DELETE"
	AuditFailedLogin  = "FAILED_LOGIN"
	AuditAccessDenied = "ACCESS_DENIED"
)

// AuditEntry is one row of the admin activity log. AdminID is nil for
// events with no authenticated actor, such as failed login attempts.
type AuditEntry struct {
	ID         int64     `json:"id" db:"id"`
	AdminID    *int64    `json:"admin_id" db:"admin_id"`
	Action     string    `json:"action" db:"action"`
	TargetType string    `json:"target_type" db:"target_type"`
	TargetID   *int64    `json:"target_id" db:"target_id"`
	OldData    *string   `json:"old_data" db:"old_data"`
	NewData    *string   `json:"new_data" db:"new_data"`
	IPAddress  string    `json:"ip_address" db:"ip_address"`
	UserAgent  string    `json:"user_agent" db:"user_agent"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// Joined actor fields, populated by list queries only.
	AdminUsername *string `json:"admin_username,omitempty" db:"admin_username"`
	AdminFullName *string `json:"admin_full_name,omitempty" db:"admin_full_name"`
}

// AuditFilter narrows audit log list queries.
type AuditFilter struct {
	Action     string
	TargetType string
	AdminID    *int64
}
