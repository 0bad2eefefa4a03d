// Package policy holds the access rules of the service as pure functions
// over the resolved caller. Services consult it before touching a store.
package policy

import (
	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
)

// Path tells which endpoint family an operation came through.
type Path int

const (
	// PathDirect is POST/GET /colorchecks.
	PathDirect Path = iota
	// PathRequest is POST/GET /colorchecks/request.
	PathRequest
)

// DirectListLimit caps listings on the direct path. Request listings are
// not capped.
const DirectListLimit = 200

// RequireCaller fails with ErrInvalidToken when no caller was resolved.
func RequireCaller(caller *models.User) error {
	if caller == nil {
		return common.ErrInvalidToken
	}
	return nil
}

// RequireAdmin fails unless caller is an admin.
func RequireAdmin(caller *models.User) error {
	if err := RequireCaller(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return common.ErrAdminRequired
	}
	return nil
}

// InitialStatus decides the status of a new record. Only admins creating
// through the direct path get an approved record.
func InitialStatus(caller *models.User, path Path) models.Status {
	if path == PathDirect && caller.IsAdmin() {
		return models.StatusApproved
	}
	return models.StatusPending
}

// OwnerScope returns the owner id a listing is restricted to, 0 meaning
// every owner.
func OwnerScope(caller *models.User) int64 {
	if caller.IsAdmin() {
		return 0
	}
	return caller.ID
}

// ListLimit returns the row cap for a listing on path, 0 meaning none.
func ListLimit(path Path) int {
	if path == PathDirect {
		return DirectListLimit
	}
	return 0
}
