// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/librarium/internal/openlibrary"
	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/jsonfile"
	"github.com/taibuivan/librarium/internal/platform/validate"
)

// MetadataResolver is the slice of the bibliographic provider the ledger
// needs for imports and external search.
//
// # Why an interface?
//
// Declaring it at the consumer decouples the ledger from the HTTP client
// implementation and lets tests inject canned metadata.
type MetadataResolver interface {
	Search(context context.Context, query string) ([]openlibrary.SearchResult, error)
	GetByISBN(context context.Context, isbn string) (openlibrary.Metadata, error)
	GetWork(context context.Context, workKey string) (openlibrary.Work, error)
}

// ImportRequest holds the admin's import parameters. Exactly one existing
// title may match; otherwise a new record is created.
type ImportRequest struct {
	ISBN     string `json:"isbn"`
	WorkKey  string `json:"work_key"`
	Copies   int    `json:"copies"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// Service implements the inventory ledger.
type Service struct {
	repo     Repository
	resolver MetadataResolver
	db       *jsonfile.DB
	logger   *slog.Logger
}

// NewService creates a new catalog service.
func NewService(repo Repository, resolver MetadataResolver, db *jsonfile.DB, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		db:       db,
		logger:   logger,
	}
}

// # Queries

// ListBooks returns the whole catalog.
func (service *Service) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	err := service.db.Read(func() error {
		var readErr error
		books, readErr = service.repo.All(ctx)
		return readErr
	})
	return books, err
}

// GetBook returns one book by ID.
func (service *Service) GetBook(ctx context.Context, id string) (Book, error) {
	var book Book
	err := service.db.Read(func() error {
		var readErr error
		book, readErr = service.repo.Get(ctx, id)
		return readErr
	})
	return book, err
}

// SearchLocal matches the query case-insensitively against title and author.
func (service *Service) SearchLocal(ctx context.Context, query string) ([]Book, error) {
	var books []Book
	err := service.db.Read(func() error {
		var readErr error
		books, readErr = service.repo.Search(ctx, query)
		return readErr
	})
	return books, err
}

// SearchExternal proxies a keyword search to the bibliographic provider.
func (service *Service) SearchExternal(ctx context.Context, query string) ([]openlibrary.SearchResult, error) {
	if err := (&validate.Validator{}).Required(FieldQuery, query).Err(); err != nil {
		return nil, err
	}
	return service.resolver.Search(ctx, query)
}

// # Stock Edits

// EditStock replaces a book's per-branch stock wholesale.
//
// Every branch is validated first; on any violation the edit fails with
// INVALID_STOCK naming the offending branch and the book stays unmodified.
func (service *Service) EditStock(ctx context.Context, id string, stock BranchStock) (Book, error) {
	if branch, reason, ok := stock.Offending(); !ok {
		return Book{}, apperr.InvalidStock(string(branch), reason)
	}

	var book Book
	err := service.db.Write(func() error {
		current, getErr := service.repo.Get(ctx, id)
		if getErr != nil {
			return getErr
		}

		current.Locations = stock
		if updateErr := service.repo.Update(ctx, current); updateErr != nil {
			return updateErr
		}

		book = current
		return nil
	})
	if err != nil {
		return Book{}, err
	}

	service.logger.Info("book_stock_edited", slog.String("book_id", id))
	return book, nil
}

// # Import

// Import resolves metadata for an identity, then merges the copies into an
// existing record or creates a new one.
//
// Duplicate detection runs in strict priority order: exact ISBN match, then
// exact work-key match, then normalized title match. The metadata lookup
// happens before the write lock is taken — the provider is the only slow
// upstream and must not stall the datastore.
func (service *Service) Import(ctx context.Context, req ImportRequest) (Book, error) {
	validator := &validate.Validator{}
	validator.Positive(FieldCopies, req.Copies)
	if req.ISBN == "" && req.WorkKey == "" {
		validator.Custom(FieldISBN, true, "Either isbn or work_key is required")
	}
	if err := validator.Err(); err != nil {
		return Book{}, err
	}

	branch := Branch(req.Location)
	if !branch.Valid() {
		return Book{}, apperr.InvalidLocation(req.Location)
	}

	meta, err := service.resolveMetadata(ctx, req)
	if err != nil {
		return Book{}, err
	}

	var book Book
	err = service.db.Write(func() error {
		existing, found, findErr := service.findExisting(ctx, req, meta.Title)
		if findErr != nil {
			return findErr
		}

		if found {
			merged, mergeErr := service.mergeStock(ctx, existing, branch, req)
			if mergeErr != nil {
				return mergeErr
			}
			book = merged
			return nil
		}

		created, createErr := service.createBook(ctx, req, meta, branch)
		if createErr != nil {
			return createErr
		}
		book = created
		return nil
	})
	if err != nil {
		return Book{}, err
	}

	return book, nil
}

// resolveMetadata fetches descriptive data, preferring the ISBN lookup.
//
// A work-key-only import yields no author or year — the work endpoint does
// not expose them — mirroring how such records have always been created.
func (service *Service) resolveMetadata(ctx context.Context, req ImportRequest) (openlibrary.Metadata, error) {
	if req.ISBN != "" && req.ISBN != ISBNUnknown {
		meta, err := service.resolver.GetByISBN(ctx, req.ISBN)
		if err != nil {
			if apperr.IsCode(err, "NOT_FOUND") {
				return openlibrary.Metadata{}, apperr.MetadataNotFound("ISBN " + req.ISBN)
			}
			return openlibrary.Metadata{}, err
		}
		if meta.Title == "" {
			return openlibrary.Metadata{}, apperr.MetadataNotFound("ISBN " + req.ISBN)
		}
		return meta, nil
	}

	work, err := service.resolver.GetWork(ctx, req.WorkKey)
	if err != nil {
		if apperr.IsCode(err, "NOT_FOUND") {
			return openlibrary.Metadata{}, apperr.MetadataNotFound("work " + req.WorkKey)
		}
		return openlibrary.Metadata{}, err
	}
	if work.Title == "" {
		return openlibrary.Metadata{}, apperr.MetadataNotFound("work " + req.WorkKey)
	}

	return openlibrary.Metadata{
		Title:    work.Title,
		Author:   "Unknown",
		CoverURL: work.CoverURL,
		Summary:  work.Description,
	}, nil
}

// findExisting runs the short-circuit duplicate chain: ISBN → workKey → title.
func (service *Service) findExisting(ctx context.Context, req ImportRequest, title string) (Book, bool, error) {
	if req.ISBN != "" && req.ISBN != ISBNUnknown {
		book, found, err := service.repo.FindByISBN(ctx, req.ISBN)
		if err != nil || found {
			return book, found, err
		}
	}

	if req.WorkKey != "" {
		book, found, err := service.repo.FindByWorkKey(ctx, req.WorkKey)
		if err != nil || found {
			return book, found, err
		}
	}

	return service.repo.FindByTitle(ctx, title)
}

// mergeStock adds the imported copies to the existing record's branch.
func (service *Service) mergeStock(ctx context.Context, existing Book, branch Branch, req ImportRequest) (Book, error) {
	locations := existing.Locations
	pair := locations.At(branch)
	pair.Total += req.Copies
	pair.Available += req.Copies
	locations.Set(branch, pair)
	existing.Locations = locations

	// Backfill a missing work key so future imports can match on it.
	if existing.WorkKey == "" && req.WorkKey != "" {
		existing.WorkKey = req.WorkKey
	}

	if err := service.repo.Update(ctx, existing); err != nil {
		return Book{}, err
	}

	service.logger.Info("book_stock_merged",
		slog.String("book_id", existing.ID),
		slog.String("branch", string(branch)),
		slog.Int("copies", req.Copies),
	)
	return existing, nil
}

// createBook persists a brand-new title with stock only at the target branch.
func (service *Service) createBook(ctx context.Context, req ImportRequest, meta openlibrary.Metadata, branch Branch) (Book, error) {
	isbn := req.ISBN
	if isbn == "" {
		isbn = ISBNUnknown
	}

	book := Book{
		ID:            uuid.NewString(),
		Title:         meta.Title,
		Author:        meta.Author,
		ISBN:          isbn,
		WorkKey:       req.WorkKey,
		PublishedYear: meta.PublishedYear,
		Category:      req.Category,
		CoverURL:      meta.CoverURL,
		Summary:       meta.Summary,
		CreatedAt:     time.Now().UTC(),
	}
	book.Locations.Set(branch, StockPair{Total: req.Copies, Available: req.Copies})

	if err := service.repo.Create(ctx, book); err != nil {
		return Book{}, err
	}

	service.logger.Info("book_imported",
		slog.String("book_id", book.ID),
		slog.String("title", book.Title),
		slog.String("branch", string(branch)),
		slog.Int("copies", req.Copies),
	)
	return book, nil
}

// # Removal

// DeleteBook removes a title from the catalog entirely.
func (service *Service) DeleteBook(ctx context.Context, id string) error {
	err := service.db.Write(func() error {
		return service.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	service.logger.Warn("book_deleted", slog.String("book_id", id))
	return nil
}
