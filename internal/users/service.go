// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/constants"
	"github.com/taibuivan/librarium/internal/platform/jsonfile"
	"github.com/taibuivan/librarium/internal/platform/sec"
	"github.com/taibuivan/librarium/internal/platform/validate"
	"github.com/taibuivan/librarium/pkg/uuidv7"
)

// SignupRequest holds the registration parameters.
type SignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult bundles the account with its freshly minted identity token.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Service implements the account registry.
type Service struct {
	repo   Repository
	tokens *sec.TokenService
	db     *jsonfile.DB
	logger *slog.Logger
}

// NewService creates a new users service.
func NewService(repo Repository, tokens *sec.TokenService, db *jsonfile.DB, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		db:     db,
		logger: logger,
	}
}

// # Registration

// Signup registers a new account. Emails are unique across the registry,
// compared case-insensitively; the stored form is lowercased.
func (service *Service) Signup(ctx context.Context, req SignupRequest) (User, error) {
	role := sec.UserRole(req.Role)
	if req.Role == "" {
		role = sec.RoleStudent
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, req.Name).MaxLen(FieldName, req.Name, 120)
	validator.Required(FieldEmail, req.Email)
	if req.Email != "" {
		validator.Email(FieldEmail, req.Email)
	}
	validator.Custom(FieldRole, !role.Valid(), "Must be one of: ADMIN, STUDENT")
	if err := validator.Err(); err != nil {
		return User{}, err
	}

	user := User{
		ID:        uuidv7.Must(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	err := service.db.Write(func() error {
		if _, taken, findErr := service.repo.FindByEmail(ctx, user.Email); findErr != nil {
			return findErr
		} else if taken {
			return apperr.Conflict("Email is already registered")
		}
		return service.repo.Create(ctx, user)
	})
	if err != nil {
		return User{}, err
	}

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// # Queries

// ListUsers returns every account.
func (service *Service) ListUsers(ctx context.Context) ([]User, error) {
	var accounts []User
	err := service.db.Read(func() error {
		var readErr error
		accounts, readErr = service.repo.All(ctx)
		return readErr
	})
	return accounts, err
}

// GetUser returns one account by ID.
func (service *Service) GetUser(ctx context.Context, id string) (User, error) {
	var user User
	err := service.db.Read(func() error {
		var readErr error
		user, readErr = service.repo.Get(ctx, id)
		return readErr
	})
	return user, err
}

// # Login

// Login looks up the account by email and mints an identity token.
//
// An unknown email answers UNAUTHORIZED, not NOT_FOUND, so the endpoint does
// not disclose which addresses are registered.
func (service *Service) Login(ctx context.Context, email string) (LoginResult, error) {
	if err := (&validate.Validator{}).Required(FieldEmail, email).Err(); err != nil {
		return LoginResult{}, err
	}

	var user User
	err := service.db.Read(func() error {
		account, found, findErr := service.repo.FindByEmail(ctx, email)
		if findErr != nil {
			return findErr
		}
		if !found {
			return apperr.Unauthorized("Unknown email address")
		}
		user = account
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}

	token, err := service.tokens.GenerateToken(user.ID, user.Name, string(user.Role), constants.IdentityTokenTTL)
	if err != nil {
		return LoginResult{}, apperr.Internal(err)
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return LoginResult{User: user, Token: token}, nil
}
