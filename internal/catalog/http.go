// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/librarium/internal/platform/middleware"
	requestutil "github.com/taibuivan/librarium/internal/platform/request"
	"github.com/taibuivan/librarium/internal/platform/respond"
	"github.com/taibuivan/librarium/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for catalog browsing and management.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalog [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the catalog domain's endpoints.
//
// # Routing Strategy
//
//   - Browsing (Public): listing, lookup, and search are open to all patrons.
//   - Cataloguing (Restricted): imports, stock edits, and removal require [sec.RoleAdmin].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Browsing Endpoints
	router.Get("/", handler.listBooks)
	router.Get("/{id}", handler.getBook)

	// ## Cataloguing (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.importBook)
		admin.Patch("/{id}", handler.editStock)
		admin.Delete("/{id}", handler.deleteBook)
	})

	return router
}

// # Browsing Endpoints

/*
GET /api/v1/books.

Description: Retrieves the catalog. With a query it searches locally by title
or author substring; with external=true it proxies the keyword search to the
bibliographic provider instead.

Request:
  - q: string (Keyword search)
  - external: bool (Search the upstream provider rather than the catalog)

Response:
  - 200: []Book or []openlibrary.SearchResult
  - 502: UPSTREAM_UNAVAILABLE: Provider outage (external only)
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	queryParams := request.URL.Query()
	query := queryParams.Get("q")

	// External search proxies to the provider and never touches the datastore.
	if queryParams.Get("external") == "true" {
		results, err := handler.service.SearchExternal(request.Context(), query)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, results)
		return
	}

	if query != "" {
		books, err := handler.service.SearchLocal(request.Context(), query)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, books)
		return
	}

	books, err := handler.service.ListBooks(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, books)
}

/*
GET /api/v1/books/{id}.

Description: Retrieves a single catalog record with its per-branch stock.

Request:
  - id: string (UUID)

Response:
  - 200: Book: Success
  - 404: 404: NOT_FOUND: Book not found
*/
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	book, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// # Cataloguing Endpoints

/*
POST /api/v1/books.

Description: Imports copies of a title into a branch. Metadata is resolved
from the bibliographic provider; if the title already exists the copies are
merged into its stock, otherwise a new record is created.

Request (Body):
  - isbn: string (Preferred identity)
  - work_key: string (Fallback identity)
  - copies: int (> 0)
  - category: string (Optional shelf label)
  - location: string (Branch name)

Response:
  - 201: Book: Imported or merged record
  - 400: 400: VALIDATION_ERROR: Missing identity or non-positive copies
  - 404: 404: METADATA_NOT_FOUND: Provider has no record for the identity
  - 422: 422: INVALID_LOCATION: Unknown branch
  - 502: 502: UPSTREAM_UNAVAILABLE: Provider outage
*/
func (handler *Handler) importBook(writer http.ResponseWriter, request *http.Request) {
	var input ImportRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Import(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, book)
}

// editStockRequest defines the inbound JSON schema for stock replacement.
type editStockRequest struct {
	Locations BranchStock `json:"locations"`
}

/*
PATCH /api/v1/books/{id}.

Description: Replaces a book's per-branch stock wholesale. All four branches
are validated before anything is written; a single bad pair rejects the whole
edit and leaves the record untouched.

Request:
  - id: string (UUID)
  - body: editStockRequest

Response:
  - 200: Book: Updated record
  - 400: 400: VALIDATION_ERROR: Invalid body
  - 404: 404: NOT_FOUND: Book not found
  - 422: 422: INVALID_STOCK: Negative counts or available > total
*/
func (handler *Handler) editStock(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	var input editStockRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.EditStock(request.Context(), bookID, input.Locations)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
DELETE /api/v1/books/{id}.

Description: Removes a title from the catalog entirely.

Request:
  - id: string (UUID)

Response:
  - 204: No Content: Success
  - 404: 404: NOT_FOUND: Book not found
*/
func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	if err := handler.service.DeleteBook(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
