// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/ctxutil"
	"github.com/taibuivan/librarium/internal/platform/sec"
)

// DecodeJSON reads the request body and decodes it into the target structure.
//
// Returns a VALIDATION_ERROR [apperr.AppError] if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return apperr.ValidationError("Invalid JSON payload")
	}
	return nil
}

// ID retrieves a named URL parameter from the request.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Claims extracts the authenticated user claims from the request context.
//
// Returns nil if the request is not authenticated.
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

// RequiredClaims ensures the request is authenticated and returns the user claims.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequiredUserID returns the User ID of the currently logged-in user.
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
