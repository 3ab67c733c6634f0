// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users

import (
	"context"
	"strings"

	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/jsonfile"
)

// usersFile is the durable collection name inside the data directory.
const usersFile = "users.json"

// jsonStore is the flat-file implementation of [Repository].
type jsonStore struct {
	users *jsonfile.Collection[User]
}

// NewRepository opens the account collection inside the datastore.
func NewRepository(db *jsonfile.DB) (Repository, error) {
	users, err := jsonfile.OpenCollection(db, usersFile, func(u User) string { return u.ID })
	if err != nil {
		return nil, err
	}
	return &jsonStore{users: users}, nil
}

func (store *jsonStore) All(_ context.Context) ([]User, error) {
	return store.users.All(), nil
}

func (store *jsonStore) Get(_ context.Context, id string) (User, error) {
	user, ok := store.users.Get(id)
	if !ok {
		return User{}, apperr.NotFound("User")
	}
	return user, nil
}

func (store *jsonStore) FindByEmail(_ context.Context, email string) (User, bool, error) {
	lower := strings.ToLower(email)
	user, ok := store.users.Find(func(u User) bool { return strings.ToLower(u.Email) == lower })
	return user, ok, nil
}

func (store *jsonStore) Create(_ context.Context, user User) error {
	return store.users.Insert(user)
}
