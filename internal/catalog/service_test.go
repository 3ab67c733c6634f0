// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/librarium/internal/catalog"
	"github.com/taibuivan/librarium/internal/openlibrary"
	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/jsonfile"
)

// stubResolver is a canned [catalog.MetadataResolver] for service tests.
type stubResolver struct {
	meta    openlibrary.Metadata
	metaErr error
	work    openlibrary.Work
	workErr error
	results []openlibrary.SearchResult
}

func (stub *stubResolver) Search(_ context.Context, _ string) ([]openlibrary.SearchResult, error) {
	return stub.results, nil
}

func (stub *stubResolver) GetByISBN(_ context.Context, _ string) (openlibrary.Metadata, error) {
	return stub.meta, stub.metaErr
}

func (stub *stubResolver) GetWork(_ context.Context, _ string) (openlibrary.Work, error) {
	return stub.work, stub.workErr
}

func newTestService(t *testing.T, resolver catalog.MetadataResolver) *catalog.Service {
	t.Helper()

	db, err := jsonfile.Open(t.TempDir())
	require.NoError(t, err)

	repo, err := catalog.NewRepository(db)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return catalog.NewService(repo, resolver, db, logger)
}

func duneMetadata() openlibrary.Metadata {
	year := 1965
	summary := "Arrakis, the desert planet."
	return openlibrary.Metadata{
		Title:         "Dune",
		Author:        "Frank Herbert",
		PublishedYear: &year,
		Summary:       &summary,
	}
}

/*
TestImport_CreateNewBook verifies that a first import creates a record with
stock only at the target branch and zeroed pairs everywhere else.
*/
func TestImport_CreateNewBook(t *testing.T) {
	service := newTestService(t, &stubResolver{meta: duneMetadata()})

	book, err := service.Import(context.Background(), catalog.ImportRequest{
		ISBN:     "9780441013593",
		Copies:   3,
		Category: "Science Fiction",
		Location: string(catalog.BranchChennai),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, "9780441013593", book.ISBN)
	assert.Equal(t, "Science Fiction", book.Category)

	assert.Equal(t, catalog.StockPair{Total: 3, Available: 3}, book.Locations.At(catalog.BranchChennai))
	assert.Equal(t, catalog.StockPair{}, book.Locations.At(catalog.BranchBangalore))
	assert.Equal(t, catalog.StockPair{}, book.Locations.At(catalog.BranchDelhi))
	assert.Equal(t, catalog.StockPair{}, book.Locations.At(catalog.BranchMumbai))
}

/*
TestImport_MergeByISBN verifies that re-importing an existing ISBN merges the
copies into the existing record instead of creating a duplicate.
*/
func TestImport_MergeByISBN(t *testing.T) {
	service := newTestService(t, &stubResolver{meta: duneMetadata()})
	ctx := context.Background()

	first, err := service.Import(ctx, catalog.ImportRequest{
		ISBN:     "9780441013593",
		Copies:   2,
		Location: string(catalog.BranchChennai),
	})
	require.NoError(t, err)

	merged, err := service.Import(ctx, catalog.ImportRequest{
		ISBN:     "9780441013593",
		Copies:   3,
		Location: string(catalog.BranchMumbai),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID, "same ISBN must not create a second record")
	assert.Equal(t, catalog.StockPair{Total: 2, Available: 2}, merged.Locations.At(catalog.BranchChennai))
	assert.Equal(t, catalog.StockPair{Total: 3, Available: 3}, merged.Locations.At(catalog.BranchMumbai))

	books, err := service.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

/*
TestImport_MergeBackfillsWorkKey verifies that a merge carrying a work key
fills it in on a record that was created without one.
*/
func TestImport_MergeBackfillsWorkKey(t *testing.T) {
	service := newTestService(t, &stubResolver{meta: duneMetadata()})
	ctx := context.Background()

	first, err := service.Import(ctx, catalog.ImportRequest{
		ISBN:     "9780441013593",
		Copies:   1,
		Location: string(catalog.BranchDelhi),
	})
	require.NoError(t, err)
	assert.Empty(t, first.WorkKey)

	merged, err := service.Import(ctx, catalog.ImportRequest{
		ISBN:     "9780441013593",
		WorkKey:  "/works/OL893415W",
		Copies:   1,
		Location: string(catalog.BranchDelhi),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, "/works/OL893415W", merged.WorkKey)

	// Same branch twice: the pairs add up.
	assert.Equal(t, catalog.StockPair{Total: 2, Available: 2}, merged.Locations.At(catalog.BranchDelhi))
}

/*
TestImport_MergeByTitle verifies the last rung of the duplicate chain: two
identities that resolve to the same title (ignoring case and accents) merge
into one record.
*/
func TestImport_MergeByTitle(t *testing.T) {
	service := newTestService(t, &stubResolver{meta: duneMetadata()})
	ctx := context.Background()

	first, err := service.Import(ctx, catalog.ImportRequest{
		ISBN:     "9780441013593",
		Copies:   1,
		Location: string(catalog.BranchChennai),
	})
	require.NoError(t, err)

	// A different edition of the same title, with its own ISBN.
	merged, err := service.Import(ctx, catalog.ImportRequest{
		ISBN:     "9780340960196",
		Copies:   2,
		Location: string(catalog.BranchChennai),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, catalog.StockPair{Total: 3, Available: 3}, merged.Locations.At(catalog.BranchChennai))
}

/*
TestImport_WorkKeyOnly verifies the work-key fallback: the work endpoint has
no author or publish date, so those default to "Unknown" and nil.
*/
func TestImport_WorkKeyOnly(t *testing.T) {
	description := "Arrakis, the desert planet."
	service := newTestService(t, &stubResolver{
		work: openlibrary.Work{Title: "Dune", Description: &description},
	})

	book, err := service.Import(context.Background(), catalog.ImportRequest{
		WorkKey:  "/works/OL893415W",
		Copies:   1,
		Location: string(catalog.BranchBangalore),
	})
	require.NoError(t, err)

	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Unknown", book.Author)
	assert.Nil(t, book.PublishedYear)
	assert.Equal(t, catalog.ISBNUnknown, book.ISBN)
	require.NotNil(t, book.Summary)
	assert.Equal(t, description, *book.Summary)
}

/*
TestImport_Rejections verifies the validation and resolution failure modes.
*/
func TestImport_Rejections(t *testing.T) {
	t.Run("unknown branch", func(t *testing.T) {
		service := newTestService(t, &stubResolver{meta: duneMetadata()})
		_, err := service.Import(context.Background(), catalog.ImportRequest{
			ISBN: "9780441013593", Copies: 1, Location: "Kolkata",
		})
		assert.True(t, apperr.IsCode(err, "INVALID_LOCATION"))
	})

	t.Run("non-positive copies", func(t *testing.T) {
		service := newTestService(t, &stubResolver{meta: duneMetadata()})
		_, err := service.Import(context.Background(), catalog.ImportRequest{
			ISBN: "9780441013593", Copies: 0, Location: string(catalog.BranchChennai),
		})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("missing identity", func(t *testing.T) {
		service := newTestService(t, &stubResolver{meta: duneMetadata()})
		_, err := service.Import(context.Background(), catalog.ImportRequest{
			Copies: 1, Location: string(catalog.BranchChennai),
		})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("provider has no record", func(t *testing.T) {
		service := newTestService(t, &stubResolver{metaErr: apperr.NotFound("Edition")})
		_, err := service.Import(context.Background(), catalog.ImportRequest{
			ISBN: "0000000000", Copies: 1, Location: string(catalog.BranchChennai),
		})
		assert.True(t, apperr.IsCode(err, "METADATA_NOT_FOUND"))

		// A failed import must leave the catalog empty.
		books, listErr := service.ListBooks(context.Background())
		require.NoError(t, listErr)
		assert.Empty(t, books)
	})
}

/*
TestEditStock verifies wholesale stock replacement and the all-or-nothing
rejection of invalid pairs.
*/
func TestEditStock(t *testing.T) {
	service := newTestService(t, &stubResolver{meta: duneMetadata()})
	ctx := context.Background()

	book, err := service.Import(ctx, catalog.ImportRequest{
		ISBN: "9780441013593", Copies: 2, Location: string(catalog.BranchChennai),
	})
	require.NoError(t, err)

	t.Run("valid edit applies", func(t *testing.T) {
		var stock catalog.BranchStock
		stock.Set(catalog.BranchChennai, catalog.StockPair{Total: 5, Available: 4})
		stock.Set(catalog.BranchDelhi, catalog.StockPair{Total: 1, Available: 1})

		updated, editErr := service.EditStock(ctx, book.ID, stock)
		require.NoError(t, editErr)
		assert.Equal(t, stock, updated.Locations)
	})

	t.Run("invalid pair rejects the whole edit", func(t *testing.T) {
		var stock catalog.BranchStock
		stock.Set(catalog.BranchMumbai, catalog.StockPair{Total: 1, Available: 2})

		_, editErr := service.EditStock(ctx, book.ID, stock)
		assert.True(t, apperr.IsCode(editErr, "INVALID_STOCK"))

		// The record must be exactly as the previous edit left it.
		current, getErr := service.GetBook(ctx, book.ID)
		require.NoError(t, getErr)
		assert.Equal(t, catalog.StockPair{Total: 5, Available: 4}, current.Locations.At(catalog.BranchChennai))
		assert.Equal(t, catalog.StockPair{}, current.Locations.At(catalog.BranchMumbai))
	})

	t.Run("unknown book", func(t *testing.T) {
		var stock catalog.BranchStock
		_, editErr := service.EditStock(ctx, "no-such-id", stock)
		assert.True(t, apperr.IsCode(editErr, "NOT_FOUND"))
	})
}

/*
TestSearchLocal verifies case-insensitive substring matching on title and
author.
*/
func TestSearchLocal(t *testing.T) {
	resolver := &stubResolver{meta: duneMetadata()}
	service := newTestService(t, resolver)
	ctx := context.Background()

	_, err := service.Import(ctx, catalog.ImportRequest{
		ISBN: "9780441013593", Copies: 1, Location: string(catalog.BranchChennai),
	})
	require.NoError(t, err)

	byTitle, err := service.SearchLocal(ctx, "dUNe")
	require.NoError(t, err)
	assert.Len(t, byTitle, 1)

	byAuthor, err := service.SearchLocal(ctx, "herbert")
	require.NoError(t, err)
	assert.Len(t, byAuthor, 1)

	none, err := service.SearchLocal(ctx, "austen")
	require.NoError(t, err)
	assert.Empty(t, none)
}

/*
TestDeleteBook verifies removal and the NOT_FOUND on a second attempt.
*/
func TestDeleteBook(t *testing.T) {
	service := newTestService(t, &stubResolver{meta: duneMetadata()})
	ctx := context.Background()

	book, err := service.Import(ctx, catalog.ImportRequest{
		ISBN: "9780441013593", Copies: 1, Location: string(catalog.BranchChennai),
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteBook(ctx, book.ID))

	_, err = service.GetBook(ctx, book.ID)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))

	err = service.DeleteBook(ctx, book.ID)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}
