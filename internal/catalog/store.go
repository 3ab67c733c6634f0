// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// Repository defines the data access contract for the book collection.
//
// Implementations return [apperr.AppError] values for lookup failures so the
// service layer never handles storage-specific error types.
type Repository interface {

	// All returns every book in insertion order.
	All(context context.Context) ([]Book, error)

	// Get returns the book with the given ID, or a NOT_FOUND error.
	Get(context context.Context, id string) (Book, error)

	// FindByISBN returns the book carrying the exact ISBN, if any.
	FindByISBN(context context.Context, isbn string) (Book, bool, error)

	// FindByWorkKey returns the book carrying the exact work key, if any.
	FindByWorkKey(context context.Context, workKey string) (Book, bool, error)

	// FindByTitle returns the book whose title normalizes to the same
	// comparison key, if any.
	FindByTitle(context context.Context, title string) (Book, bool, error)

	// Search returns books whose title or author contains the query,
	// case-insensitively.
	Search(context context.Context, query string) ([]Book, error)

	// Create persists a brand-new book.
	Create(context context.Context, book Book) error

	// Update persists changes to an existing book, or returns NOT_FOUND.
	Update(context context.Context, book Book) error

	// Delete removes the book, or returns NOT_FOUND.
	Delete(context context.Context, id string) error
}
