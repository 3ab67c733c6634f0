// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package circulation implements the borrowing ledger: issuing copies to
patrons and taking returns.

# State Machine

An issue record is born ISSUED and ends RETURNED. RETURNED is terminal;
a record never moves back, and a second return of the same record is a
conflict. Due dates are fixed at issue time (14 days) and never extended.

# Stock Coupling

Issuing decrements the book's available count at the lending branch and
returning increments it, always inside a single datastore write block so the
issue record and the stock count can never drift apart.
*/
package circulation

import (
	"time"

	"github.com/taibuivan/librarium/internal/catalog"
)

// Status is the lifecycle state of an issue record.
type Status string

const (
	// StatusIssued marks a copy currently out with a patron.
	StatusIssued Status = "ISSUED"

	// StatusReturned is the terminal state.
	StatusReturned Status = "RETURNED"
)

// Issue represents one borrowing of one copy from one branch.
type Issue struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	BookID     string         `json:"book_id"`
	Location   catalog.Branch `json:"location"`
	IssuedAt   time.Time      `json:"issued_at"`
	DueDate    time.Time      `json:"due_date"`
	ReturnedAt *time.Time     `json:"returned_at"`
	Status     Status         `json:"status"`
}

// Active reports whether the copy is still out.
func (i Issue) Active() bool {
	return i.Status == StatusIssued
}

// # Field Identifiers

// Global field names for validation in the circulation domain.
const (
	FieldUserID   = "user_id"
	FieldBookID   = "book_id"
	FieldLocation = "location"
)
