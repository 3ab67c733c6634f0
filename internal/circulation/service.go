// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/librarium/internal/catalog"
	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/constants"
	"github.com/taibuivan/librarium/internal/platform/jsonfile"
	"github.com/taibuivan/librarium/internal/platform/validate"
	"github.com/taibuivan/librarium/internal/users"
)

// BookStore is the slice of the catalog the circulation desk needs.
type BookStore interface {
	Get(context context.Context, id string) (catalog.Book, error)
	Update(context context.Context, book catalog.Book) error
}

// UserStore is the slice of the account registry the circulation desk needs.
type UserStore interface {
	Get(context context.Context, id string) (users.User, error)
}

// IssueRequest holds the borrowing parameters.
type IssueRequest struct {
	UserID   string `json:"user_id"`
	BookID   string `json:"book_id"`
	Location string `json:"location"`
}

// Service implements the borrowing ledger.
type Service struct {
	repo   Repository
	books  BookStore
	users  UserStore
	db     *jsonfile.DB
	logger *slog.Logger
}

// NewService creates a new circulation service.
func NewService(repo Repository, books BookStore, userStore UserStore, db *jsonfile.DB, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		books:  books,
		users:  userStore,
		db:     db,
		logger: logger,
	}
}

// # Queries

// ListIssues returns issue records matching the filter.
func (service *Service) ListIssues(ctx context.Context, filter Filter) ([]Issue, error) {
	var records []Issue
	err := service.db.Read(func() error {
		var readErr error
		records, readErr = service.repo.List(ctx, filter)
		return readErr
	})
	return records, err
}

// GetIssue returns one issue record by ID.
func (service *Service) GetIssue(ctx context.Context, id string) (Issue, error) {
	var issue Issue
	err := service.db.Read(func() error {
		var readErr error
		issue, readErr = service.repo.Get(ctx, id)
		return readErr
	})
	return issue, err
}

// # Issuing

// Issue lends one copy of a book to a patron from a branch.
//
// The guards run in a fixed order inside one write block: user exists, book
// exists, branch is known, a copy is available there, and the patron does
// not already hold an active issue for this title at any branch. Passing all
// guards decrements the branch's available count and creates the record with
// a due date of issue time plus [constants.LoanPeriod].
func (service *Service) Issue(ctx context.Context, req IssueRequest) (Issue, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUserID, req.UserID)
	validator.Required(FieldBookID, req.BookID)
	if err := validator.Err(); err != nil {
		return Issue{}, err
	}

	var issue Issue
	err := service.db.Write(func() error {
		if _, userErr := service.users.Get(ctx, req.UserID); userErr != nil {
			return userErr
		}

		book, bookErr := service.books.Get(ctx, req.BookID)
		if bookErr != nil {
			return bookErr
		}

		branch := catalog.Branch(req.Location)
		if !branch.Valid() {
			return apperr.InvalidLocation(req.Location)
		}

		pair := book.Locations.At(branch)
		if pair.Available <= 0 {
			return apperr.NoStock(string(branch))
		}

		// One active copy of a title per patron, across all branches.
		if _, active, findErr := service.repo.FindActive(ctx, req.UserID, req.BookID); findErr != nil {
			return findErr
		} else if active {
			return apperr.AlreadyBorrowed()
		}

		pair.Available--
		book.Locations.Set(branch, pair)
		if updateErr := service.books.Update(ctx, book); updateErr != nil {
			return updateErr
		}

		now := time.Now().UTC()
		issue = Issue{
			ID:       uuid.NewString(),
			UserID:   req.UserID,
			BookID:   req.BookID,
			Location: branch,
			IssuedAt: now,
			DueDate:  now.Add(constants.LoanPeriod),
			Status:   StatusIssued,
		}
		return service.repo.Create(ctx, issue)
	})
	if err != nil {
		return Issue{}, err
	}

	service.logger.Info("book_issued",
		slog.String("issue_id", issue.ID),
		slog.String("user_id", issue.UserID),
		slog.String("book_id", issue.BookID),
		slog.String("branch", string(issue.Location)),
	)
	return issue, nil
}

// # Returns

// Return takes a copy back and closes the issue record.
//
// The stock increment is guarded: if restoring the copy would push available
// past total at the lending branch, the ledger is corrupt and the return
// fails with INVALID_STATE rather than widen the damage.
func (service *Service) Return(ctx context.Context, issueID string) (Issue, error) {
	var issue Issue
	err := service.db.Write(func() error {
		record, getErr := service.repo.Get(ctx, issueID)
		if getErr != nil {
			return getErr
		}

		if record.Status == StatusReturned {
			return apperr.AlreadyReturned()
		}

		book, bookErr := service.books.Get(ctx, record.BookID)
		if bookErr != nil {
			return bookErr
		}

		if !record.Location.Valid() {
			return apperr.InvalidLocation(string(record.Location))
		}

		pair := book.Locations.At(record.Location)
		pair.Available++
		if pair.Available > pair.Total {
			return apperr.InvalidState("Returning this copy would exceed the branch's total stock")
		}

		book.Locations.Set(record.Location, pair)
		if updateErr := service.books.Update(ctx, book); updateErr != nil {
			return updateErr
		}

		returnedAt := time.Now().UTC()
		record.Status = StatusReturned
		record.ReturnedAt = &returnedAt
		if updateErr := service.repo.Update(ctx, record); updateErr != nil {
			return updateErr
		}

		issue = record
		return nil
	})
	if err != nil {
		return Issue{}, err
	}

	service.logger.Info("book_returned",
		slog.String("issue_id", issue.ID),
		slog.String("book_id", issue.BookID),
		slog.String("branch", string(issue.Location)),
	)
	return issue, nil
}
