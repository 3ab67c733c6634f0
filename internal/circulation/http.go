// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package circulation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/middleware"
	requestutil "github.com/taibuivan/librarium/internal/platform/request"
	"github.com/taibuivan/librarium/internal/platform/respond"
	"github.com/taibuivan/librarium/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for the circulation desk.
type Handler struct {
	service *Service
}

// NewHandler constructs a new circulation [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the circulation endpoints.
//
// # Routing Strategy
//
// Every endpoint requires a logged-in account. Patrons operate on their own
// records; admins operate on anyone's.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listIssues)
	router.Get("/{id}", handler.getIssue)
	router.Post("/", handler.issueBook)
	router.Patch("/{id}", handler.returnBook)

	return router
}

// # Listing Endpoints

/*
GET /api/v1/issues.

Description: Lists issue records. Patrons always see only their own records;
admins see everything and may filter by user.

Request:
  - userId: string (Admin: filter by account)
  - active: bool (Only records still out)

Response:
  - 200: []Issue: Success
  - 401: 401: UNAUTHORIZED: Login required
*/
func (handler *Handler) listIssues(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	queryParams := request.URL.Query()
	filter := Filter{
		UserID:     queryParams.Get("userId"),
		ActiveOnly: queryParams.Get("active") == "true",
	}

	// Patrons may not browse other patrons' borrowing history.
	if !sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
		filter.UserID = claims.UserID
	}

	records, err := handler.service.ListIssues(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, records)
}

/*
GET /api/v1/issues/{id}.

Description: Retrieves a single issue record.

Request:
  - id: string (UUID)

Response:
  - 200: Issue: Success
  - 401: 401: UNAUTHORIZED: Login required
  - 403: 403: FORBIDDEN: Patron requesting another patron's record
  - 404: 404: NOT_FOUND: Issue not found
*/
func (handler *Handler) getIssue(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	issueID := requestutil.ID(request, "id")
	issue, err := handler.service.GetIssue(request.Context(), issueID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if issue.UserID != claims.UserID && !sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
		respond.Error(writer, request, apperr.Forbidden("You may only view your own issue records"))
		return
	}

	respond.OK(writer, issue)
}

// # Desk Endpoints

/*
POST /api/v1/issues.

Description: Lends one copy of a book to a patron from a branch. A patron
borrows for themselves; an admin may borrow on any patron's behalf.

Request (Body):
  - user_id: string (Defaults to the caller)
  - book_id: string
  - location: string (Branch name)

Response:
  - 201: Issue: Created record
  - 400: 400: VALIDATION_ERROR: Missing fields
  - 403: 403: FORBIDDEN: Patron borrowing for someone else
  - 404: 404: NOT_FOUND: Unknown user or book
  - 409: 409: ALREADY_BORROWED: Patron already holds this title
  - 422: 422: INVALID_LOCATION: Unknown branch
  - 409: 409: NO_STOCK: No copy available at the branch
*/
func (handler *Handler) issueBook(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input IssueRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.UserID == "" {
		input.UserID = claims.UserID
	}
	if input.UserID != claims.UserID && !sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
		respond.Error(writer, request, apperr.Forbidden("You may only borrow for yourself"))
		return
	}

	issue, err := handler.service.Issue(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, issue)
}

/*
PATCH /api/v1/issues/{id}.

Description: Returns the copy and closes the issue record. The only
transition an issue record supports.

Request:
  - id: string (UUID)

Response:
  - 200: Issue: Closed record
  - 401: 401: UNAUTHORIZED: Login required
  - 403: 403: FORBIDDEN: Patron returning another patron's copy
  - 404: 404: NOT_FOUND: Issue not found
  - 409: 409: ALREADY_RETURNED: Record already closed
  - 409: 409: INVALID_STATE: Return would corrupt branch stock
*/
func (handler *Handler) returnBook(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	issueID := requestutil.ID(request, "id")

	// Ownership check before the transition so a patron probing another
	// patron's record gets 403, not a state change.
	existing, err := handler.service.GetIssue(request.Context(), issueID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if existing.UserID != claims.UserID && !sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
		respond.Error(writer, request, apperr.Forbidden("You may only return your own copies"))
		return
	}

	issue, err := handler.service.Return(request.Context(), issueID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, issue)
}
