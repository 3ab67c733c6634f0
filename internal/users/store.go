// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users

import "context"

// Repository defines the data access contract for the account collection.
type Repository interface {

	// All returns every account in insertion order.
	All(context context.Context) ([]User, error)

	// Get returns the account with the given ID, or a NOT_FOUND error.
	Get(context context.Context, id string) (User, error)

	// FindByEmail returns the account registered under the email, if any.
	// Emails are compared case-insensitively.
	FindByEmail(context context.Context, email string) (User, bool, error)

	// Create persists a brand-new account.
	Create(context context.Context, user User) error
}
