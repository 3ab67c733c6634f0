// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/librarium/internal/platform/middleware"
	requestutil "github.com/taibuivan/librarium/internal/platform/request"
	"github.com/taibuivan/librarium/internal/platform/respond"
	"github.com/taibuivan/librarium/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for account management and login.
type Handler struct {
	service *Service
}

// NewHandler constructs a new users [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Routing Strategy
//
//   - Signup (Public): anyone may register an account.
//   - Listing (Restricted): enumerating accounts requires [sec.RoleAdmin].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.signup)
	router.Get("/{id}", handler.getUser)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Get("/", handler.listUsers)
	})

	return router
}

// AuthRoutes returns a [chi.Router] with the login endpoint, mounted under
// /auth rather than /users.
func (handler *Handler) AuthRoutes() chi.Router {
	router := chi.NewRouter()
	router.Post("/login", handler.login)
	return router
}

// # Account Endpoints

/*
POST /api/v1/users.

Description: Registers a new account. The role defaults to STUDENT when
omitted.

Request (Body):
  - name: string
  - email: string (Unique, case-insensitive)
  - role: string (ADMIN or STUDENT; optional)

Response:
  - 201: User: Created account
  - 400: 400: VALIDATION_ERROR: Missing or malformed fields
  - 409: 409: CONFLICT: Email already registered
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input SignupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Signup(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
GET /api/v1/users.

Description: Lists every account. Admin only.

Response:
  - 200: []User: Success
  - 401: 401: UNAUTHORIZED: Missing or invalid token
  - 403: 403: FORBIDDEN: Insufficient permissions
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	accounts, err := handler.service.ListUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, accounts)
}

/*
GET /api/v1/users/{id}.

Description: Retrieves a single account.

Request:
  - id: string (UUID)

Response:
  - 200: User: Success
  - 404: 404: NOT_FOUND: User not found
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "id")

	user, err := handler.service.GetUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Login Endpoint

// loginRequest defines the inbound JSON schema for login.
type loginRequest struct {
	Email string `json:"email"`
}

/*
POST /api/v1/auth/login.

Description: Looks up the account by email and returns an identity token.
No credentials are verified; see the sec package trust model.

Request (Body):
  - email: string

Response:
  - 200: LoginResult: Account and signed token
  - 400: 400: VALIDATION_ERROR: Missing email
  - 401: 401: UNAUTHORIZED: Unknown email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Login(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
