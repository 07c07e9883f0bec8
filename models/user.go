package models

import "time"

// Role identifies the authorization level of a staff user.
type Role string

const (
	// RoleAdmin grants organisation-wide administrative access.
	RoleAdmin Role = "ADMIN"

	// RoleHouseAdmin grants administrative access scoped to house management.
	// For authorization purposes house admins count as admins.
	RoleHouseAdmin Role = "HOUSE_ADMIN"

	// RoleStaff is the default role for support workers.
	RoleStaff Role = "STAFF"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHouseAdmin, RoleStaff:
		return true
	}
	return false
}

// User is a staff member account. Users authenticate with email and password
// and may be attached to a single house.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	HouseID       *int64    `json:"houseId,omitempty"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Principal is the authenticated caller of a service operation, resolved once
// at the request boundary by the authentication middleware and passed to
// services explicitly. Services never consult ambient session state.
type Principal struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the principal holds an administrative role
// (ADMIN or HOUSE ADMIN).
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleHouseAdmin
}
