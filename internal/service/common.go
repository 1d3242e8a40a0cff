package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hrsuite/internal/auth"
	"hrsuite/internal/model"
	"hrsuite/internal/permission"
	"hrsuite/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrForbidden  = errors.New("not allowed to access this record")
	ErrNotPending = errors.New("request is no longer pending")
	ErrInvalid    = errors.New("invalid input")
)

const dateLayout = "2006-01-02"

// Broadcaster pushes an event to every connected client
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// ownRowsOnly is true when the actor may not see other employees' rows in module.
// Approvers (HR, admin, master) see everything.
func ownRowsOnly(actor *auth.Identity, module permission.Module) bool {
	return !auth.CanAccess(actor, module, permission.ActionApprove)
}

// scope narrows filter to the actor's own rows when required
func scope(actor *auth.Identity, module permission.Module, filter repository.ListFilter) (repository.ListFilter, error) {
	if actor == nil {
		return filter, auth.ErrNotSignedIn
	}
	if !ownRowsOnly(actor, module) {
		return filter, nil
	}
	if actor.EmployeeID == "" {
		return filter, ErrForbidden
	}
	if filter.EmployeeID != "" && filter.EmployeeID != actor.EmployeeID {
		return filter, ErrForbidden
	}
	filter.EmployeeID = actor.EmployeeID
	return filter, nil
}

// owner resolves the employee a new row belongs to
func owner(actor *auth.Identity, module permission.Module, requested string) (string, error) {
	if actor == nil {
		return "", auth.ErrNotSignedIn
	}
	if !ownRowsOnly(actor, module) {
		if requested == "" {
			requested = actor.EmployeeID
		}
		if requested == "" {
			return "", fmt.Errorf("%w: employee_id is required", ErrInvalid)
		}
		return requested, nil
	}
	if actor.EmployeeID == "" || (requested != "" && requested != actor.EmployeeID) {
		return "", ErrForbidden
	}
	return actor.EmployeeID, nil
}

func auditEntry(actor *auth.Identity, action, entityID, entityName string, details interface{}) *model.AuditLog {
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if actor != nil {
		entry.ActorID = actor.ID
		entry.ActorEmail = actor.Email
	}
	return entry
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("database error: %w", err)
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalid, field)
	}
	return t, nil
}

func parseOptionalTime(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be RFC3339", ErrInvalid, field)
	}
	return &t, nil
}
