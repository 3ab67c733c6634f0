// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import (
	"context"
	"errors"

	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/jsonfile"
)

// issuesFile is the durable collection name inside the data directory.
const issuesFile = "issues.json"

// jsonStore is the flat-file implementation of [Repository].
type jsonStore struct {
	issues *jsonfile.Collection[Issue]
}

// NewRepository opens the issue collection inside the datastore.
func NewRepository(db *jsonfile.DB) (Repository, error) {
	issues, err := jsonfile.OpenCollection(db, issuesFile, func(i Issue) string { return i.ID })
	if err != nil {
		return nil, err
	}
	return &jsonStore{issues: issues}, nil
}

func (store *jsonStore) List(_ context.Context, filter Filter) ([]Issue, error) {
	matches := store.issues.Filter(func(i Issue) bool {
		if filter.UserID != "" && i.UserID != filter.UserID {
			return false
		}
		if filter.ActiveOnly && !i.Active() {
			return false
		}
		return true
	})
	return matches, nil
}

func (store *jsonStore) Get(_ context.Context, id string) (Issue, error) {
	issue, ok := store.issues.Get(id)
	if !ok {
		return Issue{}, apperr.NotFound("Issue")
	}
	return issue, nil
}

func (store *jsonStore) FindActive(_ context.Context, userID, bookID string) (Issue, bool, error) {
	issue, ok := store.issues.Find(func(i Issue) bool {
		return i.UserID == userID && i.BookID == bookID && i.Active()
	})
	return issue, ok, nil
}

func (store *jsonStore) Create(_ context.Context, issue Issue) error {
	return store.issues.Insert(issue)
}

func (store *jsonStore) Update(_ context.Context, issue Issue) error {
	if err := store.issues.Update(issue); err != nil {
		if errors.Is(err, jsonfile.ErrNotFound) {
			return apperr.NotFound("Issue")
		}
		return err
	}
	return nil
}
