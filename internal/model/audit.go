package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionSignIn        = "SIGN_IN"
	ActionDemoSignIn    = "DEMO_SIGN_IN"
	ActionMasterLogin   = "MASTER_LOGIN"
	ActionSignUp        = "SIGN_UP"
	ActionSignOut       = "SIGN_OUT"
	ActionUpdateProfile = "UPDATE_PROFILE"
	ActionChangeRole    = "CHANGE_ROLE"

	ActionCreateEmployee = "CREATE_EMPLOYEE"
	ActionUpdateEmployee = "UPDATE_EMPLOYEE"
	ActionDeleteEmployee = "DELETE_EMPLOYEE"

	ActionRecordAttendance = "RECORD_ATTENDANCE"
	ActionUpdateAttendance = "UPDATE_ATTENDANCE"

	// Approval workflow actions
	ActionCreateLeaveRequest = "CREATE_LEAVE_REQUEST"
	ActionCreateExpense      = "CREATE_EXPENSE"
	ActionApproveRequest     = "APPROVE_REQUEST"
	ActionRejectRequest      = "REJECT_REQUEST"

	ActionCreateAnnouncement = "CREATE_ANNOUNCEMENT"
)

// AuditLog tracks Who, What, and When for critical system changes.
// ActorID is a string because demo identities do not carry a database id.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    string    `gorm:"type:varchar(64);index" json:"actor_id"` // Empty for system actions
	ActorEmail string    `gorm:"type:varchar(255)" json:"actor_email"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(64);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string    `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
