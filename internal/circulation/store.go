// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import "context"

// Filter narrows an issue listing. Zero values mean "no constraint".
type Filter struct {
	UserID     string
	ActiveOnly bool
}

// Repository defines the data access contract for the issue collection.
type Repository interface {

	// List returns issue records matching the filter, in insertion order.
	List(context context.Context, filter Filter) ([]Issue, error)

	// Get returns the issue record with the given ID, or a NOT_FOUND error.
	Get(context context.Context, id string) (Issue, error)

	// FindActive returns the ISSUED record for the (user, book) pair, if any.
	FindActive(context context.Context, userID, bookID string) (Issue, bool, error)

	// Create persists a brand-new issue record.
	Create(context context.Context, issue Issue) error

	// Update persists changes to an existing record, or returns NOT_FOUND.
	Update(context context.Context, issue Issue) error
}
