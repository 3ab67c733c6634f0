// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package openlibrary_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/librarium/internal/openlibrary"
	"github.com/taibuivan/librarium/internal/platform/apperr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openlibrary.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return openlibrary.NewClient(server.URL, 5*time.Second, nil, logger)
}

/*
TestSearch_TopResults verifies that keyword search maps provider docs and
caps the result count at ten.
*/
func TestSearch_TopResults(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/search.json", request.URL.Path)
		assert.Equal(t, "dune", request.URL.Query().Get("q"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"docs": [
			{"title": "Dune", "author_name": ["Frank Herbert"], "first_publish_year": 1965,
			 "isbn": ["9780441013593"], "key": "/works/OL893415W", "cover_i": 11481354},
			{"title": "Dune Messiah"},
			{"title": "r3"}, {"title": "r4"}, {"title": "r5"}, {"title": "r6"},
			{"title": "r7"}, {"title": "r8"}, {"title": "r9"}, {"title": "r10"},
			{"title": "r11"}, {"title": "r12"}
		]}`))
	})

	results, err := client.Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, results, 10)

	first := results[0]
	assert.Equal(t, "Dune", first.Title)
	assert.Equal(t, "Frank Herbert", first.Author)
	require.NotNil(t, first.PublishedYear)
	assert.Equal(t, 1965, *first.PublishedYear)
	require.NotNil(t, first.ISBN)
	assert.Equal(t, "9780441013593", *first.ISBN)
	require.NotNil(t, first.WorkKey)
	assert.Equal(t, "/works/OL893415W", *first.WorkKey)
	require.NotNil(t, first.CoverURL)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/11481354-L.jpg", *first.CoverURL)

	// Docs with no author fall back to "Unknown".
	assert.Equal(t, "Unknown", results[1].Author)
	assert.Nil(t, results[1].ISBN)
}

/*
TestSearch_NonJSONBody verifies that an HTML error page with a 200 status is
treated as an empty result set, not an outage.
*/
func TestSearch_NonJSONBody(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/html")
		_, _ = writer.Write([]byte("<html>upstream hiccup</html>"))
	})

	results, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, results)
}

/*
TestSearch_ServerError verifies that a non-2xx search surfaces as
UPSTREAM_UNAVAILABLE.
*/
func TestSearch_ServerError(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "UPSTREAM_UNAVAILABLE"))
}

/*
TestGetByISBN_FullRecord verifies the edition lookup, including the chase to
the linked work for the summary and year extraction from a free-form date.
*/
func TestGetByISBN_FullRecord(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")

		switch request.URL.Path {
		case "/api/books":
			assert.Equal(t, "ISBN:9780441013593", request.URL.Query().Get("bibkeys"))
			_, _ = writer.Write([]byte(`{"ISBN:9780441013593": {
				"title": "Dune",
				"authors": [{"name": "Frank Herbert"}],
				"publish_date": "August 2, 2005",
				"cover": {"large": "https://covers.openlibrary.org/b/id/11481354-L.jpg"},
				"works": [{"key": "/works/OL893415W"}]
			}}`))
		case "/works/OL893415W.json":
			_, _ = writer.Write([]byte(`{
				"title": "Dune",
				"description": {"type": "/type/text", "value": "Arrakis, the desert planet."}
			}`))
		default:
			t.Fatalf("unexpected path %s", request.URL.Path)
		}
	})

	meta, err := client.GetByISBN(context.Background(), "9780441013593")
	require.NoError(t, err)

	assert.Equal(t, "Dune", meta.Title)
	assert.Equal(t, "Frank Herbert", meta.Author)
	require.NotNil(t, meta.PublishedYear)
	assert.Equal(t, 2005, *meta.PublishedYear)
	require.NotNil(t, meta.Summary)
	assert.Equal(t, "Arrakis, the desert planet.", *meta.Summary)
	require.NotNil(t, meta.CoverURL)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/11481354-L.jpg", *meta.CoverURL)
}

/*
TestGetByISBN_MissingBibkey verifies that an empty bibkey map — the
provider's way of saying "unknown ISBN" — surfaces as NOT_FOUND.
*/
func TestGetByISBN_MissingBibkey(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{}`))
	})

	_, err := client.GetByISBN(context.Background(), "0000000000")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

/*
TestGetWork_DescriptionShapes verifies both description encodings the
provider uses: a bare string and a typed {"value": ...} object.
*/
func TestGetWork_DescriptionShapes(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")

		switch request.URL.Path {
		case "/works/OL1W.json":
			_, _ = writer.Write([]byte(`{"title": "Plain", "description": "A plain string.", "covers": [42]}`))
		case "/works/OL2W.json":
			_, _ = writer.Write([]byte(`{"title": "Typed", "description": {"type": "/type/text", "value": "A typed value."}}`))
		case "/works/OL3W.json":
			_, _ = writer.Write([]byte(`{"title": "Bare"}`))
		default:
			t.Fatalf("unexpected path %s", request.URL.Path)
		}
	})

	plain, err := client.GetWork(context.Background(), "/works/OL1W")
	require.NoError(t, err)
	require.NotNil(t, plain.Description)
	assert.Equal(t, "A plain string.", *plain.Description)
	require.NotNil(t, plain.CoverURL)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/42-L.jpg", *plain.CoverURL)

	typed, err := client.GetWork(context.Background(), "/works/OL2W")
	require.NoError(t, err)
	require.NotNil(t, typed.Description)
	assert.Equal(t, "A typed value.", *typed.Description)

	bare, err := client.GetWork(context.Background(), "/works/OL3W")
	require.NoError(t, err)
	assert.Nil(t, bare.Description)
	assert.Nil(t, bare.CoverURL)
}

/*
TestGetWork_BareKey verifies that a work key without the "/works/" prefix is
normalized before the request.
*/
func TestGetWork_BareKey(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/works/OL893415W.json", request.URL.Path)
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"title": "Dune"}`))
	})

	work, err := client.GetWork(context.Background(), "OL893415W")
	require.NoError(t, err)
	assert.Equal(t, "Dune", work.Title)
}

/*
TestGetWork_NotFound verifies that a 404 from the provider surfaces as
NOT_FOUND rather than an outage.
*/
func TestGetWork_NotFound(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetWork(context.Background(), "/works/OL0W")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}
