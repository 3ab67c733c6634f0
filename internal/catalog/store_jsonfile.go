// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/jsonfile"
	"github.com/taibuivan/librarium/pkg/titlekey"
)

// booksFile is the durable collection name inside the data directory.
const booksFile = "books.json"

// jsonStore is the flat-file implementation of [Repository].
type jsonStore struct {
	books *jsonfile.Collection[Book]
}

// NewRepository opens the book collection inside the datastore.
func NewRepository(db *jsonfile.DB) (Repository, error) {
	books, err := jsonfile.OpenCollection(db, booksFile, func(b Book) string { return b.ID })
	if err != nil {
		return nil, err
	}
	return &jsonStore{books: books}, nil
}

func (store *jsonStore) All(_ context.Context) ([]Book, error) {
	return store.books.All(), nil
}

func (store *jsonStore) Get(_ context.Context, id string) (Book, error) {
	book, ok := store.books.Get(id)
	if !ok {
		return Book{}, apperr.NotFound("Book")
	}
	return book, nil
}

func (store *jsonStore) FindByISBN(_ context.Context, isbn string) (Book, bool, error) {
	book, ok := store.books.Find(func(b Book) bool { return b.ISBN == isbn })
	return book, ok, nil
}

func (store *jsonStore) FindByWorkKey(_ context.Context, workKey string) (Book, bool, error) {
	book, ok := store.books.Find(func(b Book) bool { return b.WorkKey != "" && b.WorkKey == workKey })
	return book, ok, nil
}

func (store *jsonStore) FindByTitle(_ context.Context, title string) (Book, bool, error) {
	key := titlekey.From(title)
	book, ok := store.books.Find(func(b Book) bool { return titlekey.From(b.Title) == key })
	return book, ok, nil
}

func (store *jsonStore) Search(_ context.Context, query string) ([]Book, error) {
	lower := strings.ToLower(query)
	matches := store.books.Filter(func(b Book) bool {
		return strings.Contains(strings.ToLower(b.Title), lower) ||
			strings.Contains(strings.ToLower(b.Author), lower)
	})
	return matches, nil
}

func (store *jsonStore) Create(_ context.Context, book Book) error {
	return store.books.Insert(book)
}

func (store *jsonStore) Update(_ context.Context, book Book) error {
	if err := store.books.Update(book); err != nil {
		if errors.Is(err, jsonfile.ErrNotFound) {
			return apperr.NotFound("Book")
		}
		return err
	}
	return nil
}

func (store *jsonStore) Delete(_ context.Context, id string) error {
	if err := store.books.Delete(id); err != nil {
		if errors.Is(err, jsonfile.ErrNotFound) {
			return apperr.NotFound("Book")
		}
		return err
	}
	return nil
}
