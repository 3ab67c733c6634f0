// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog implements the book catalog and its inventory ledger.

It defines the Book entity with per-branch stock counts and owns the stock
invariants: for every branch, available >= 0 and available <= total, after
every mutation. Imports merge into existing records by identity (ISBN, then
work key, then normalized title) instead of creating duplicates.

# Architecture

This layer is the "Truth" of the inventory. The circulation state machine
adjusts availability only through [BranchStock] values obtained from and
written back via the repository — never through shared references.
*/
package catalog

import (
	"time"
)

// # Branches

// Branch identifies one of the four fixed physical locations.
//
// The set is closed: stock exists only at these branches and a branch is
// never added, renamed, or removed at runtime.
type Branch string

const (
	BranchChennai   Branch = "Chennai"
	BranchBangalore Branch = "Bangalore"
	BranchDelhi     Branch = "Delhi"
	BranchMumbai    Branch = "Mumbai"
)

// Branches lists every known branch in display order.
var Branches = [4]Branch{BranchChennai, BranchBangalore, BranchDelhi, BranchMumbai}

// Valid reports whether the branch is one of the known locations.
func (b Branch) Valid() bool {
	switch b {
	case BranchChennai, BranchBangalore, BranchDelhi, BranchMumbai:
		return true
	default:
		return false
	}
}

// # Stock

// StockPair tracks owned copies vs currently loanable copies at one branch.
type StockPair struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

// BranchStock holds the stock pair for every branch.
//
// It is a plain value type on purpose: callers always work on copies, so
// stock counts cannot be mutated behind the ledger's invariant checks.
type BranchStock struct {
	Chennai   StockPair `json:"Chennai"`
	Bangalore StockPair `json:"Bangalore"`
	Delhi     StockPair `json:"Delhi"`
	Mumbai    StockPair `json:"Mumbai"`
}

// At returns the stock pair for the given branch.
// Unknown branches read as zero stock; callers validate branches first.
func (s BranchStock) At(branch Branch) StockPair {
	switch branch {
	case BranchChennai:
		return s.Chennai
	case BranchBangalore:
		return s.Bangalore
	case BranchDelhi:
		return s.Delhi
	case BranchMumbai:
		return s.Mumbai
	default:
		return StockPair{}
	}
}

// Set replaces the stock pair for the given branch.
// Setting an unknown branch is a no-op; callers validate branches first.
func (s *BranchStock) Set(branch Branch, pair StockPair) {
	switch branch {
	case BranchChennai:
		s.Chennai = pair
	case BranchBangalore:
		s.Bangalore = pair
	case BranchDelhi:
		s.Delhi = pair
	case BranchMumbai:
		s.Mumbai = pair
	}
}

// Offending returns the first branch whose stock pair violates the ledger
// invariants (negative counts, or available exceeding total), along with a
// short description. ok is true when every branch holds.
func (s BranchStock) Offending() (branch Branch, reason string, ok bool) {
	for _, b := range Branches {
		pair := s.At(b)
		switch {
		case pair.Total < 0:
			return b, "total must not be negative", false
		case pair.Available < 0:
			return b, "available must not be negative", false
		case pair.Available > pair.Total:
			return b, "available must not exceed total", false
		}
	}
	return "", "", true
}

// # Book Entity

// ISBNUnknown is the sentinel stored when a book has no usable ISBN.
const ISBNUnknown = "N/A"

// Book represents one title in the catalog with per-branch stock.
type Book struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	ISBN          string      `json:"isbn"`
	WorkKey       string      `json:"work_key,omitempty"`
	PublishedYear *int        `json:"published_year"`
	Category      string      `json:"category,omitempty"`
	CoverURL      *string     `json:"cover_url"`
	Summary       *string     `json:"summary"`
	CreatedAt     time.Time   `json:"created_at"`
	Locations     BranchStock `json:"locations"`
}

// HasISBN reports whether the book carries a real ISBN (not the sentinel).
func (b Book) HasISBN() bool {
	return b.ISBN != "" && b.ISBN != ISBNUnknown
}

// # Field Identifiers

// Global field names for validation in the catalog domain.
const (
	FieldISBN     = "isbn"
	FieldWorkKey  = "work_key"
	FieldCopies   = "copies"
	FieldLocation = "location"
	FieldQuery    = "q"
)
