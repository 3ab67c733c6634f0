// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The set is closed: a role string outside it carries no privileges.
type UserRole string

const (
	// Librarians: catalog management, stock edits, user listing
	RoleAdmin UserRole = "ADMIN"

	// Patrons: browse, borrow, return
	RoleStudent UserRole = "STUDENT"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent:
		return true
	default:
		return false
	}
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-20) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 20
	case RoleStudent:
		return 10
	default:
		return 0
	}
}
