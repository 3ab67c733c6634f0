// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package users implements the account registry: admins (librarians) and
students (patrons).

Accounts are identity records only. Librarium holds no credentials; login is
a lookup by email that mints a signed identity token carrying the stored
role. See the trust model note in the sec package.
*/
package users

import (
	"time"

	"github.com/taibuivan/librarium/internal/platform/sec"
)

// User represents one account in the registry.
type User struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      sec.UserRole `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation in the users domain.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldRole  = "role"
)
