// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package openlibrary implements the bibliographic resolver backed by the
Open Library public API.

It covers the three lookups Librarium needs:

  - Search: keyword discovery used by admins before importing.
  - GetByISBN: full descriptive metadata for an edition.
  - GetWork: title and description for a work key, the fallback identity
    when an edition has no usable ISBN.

# Failure Taxonomy

Provider outages and malformed payloads surface as UPSTREAM_UNAVAILABLE; a
well-formed "we have no such record" answer surfaces as NOT_FOUND so callers
can distinguish "retry later" from "give up".
*/
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/constants"
)

// userAgent identifies Librarium to the provider, per Open Library's
// API etiquette (they ask for a contact address).
const userAgent = "Librarium/" + constants.AppVersion + " (tai.buivan.jp@gmail.com)"

// yearPattern extracts the first four-digit run from free-form publish dates
// like "May 1995" or "1995-05-01".
var yearPattern = regexp.MustCompile(`\d{4}`)

// # Result Types

// SearchResult is one row of a keyword search, trimmed to what the admin
// import screen needs.
type SearchResult struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	PublishedYear *int    `json:"published_year"`
	ISBN          *string `json:"isbn"`
	WorkKey       *string `json:"work_key"`
	CoverURL      *string `json:"cover_url"`
}

// Metadata is the descriptive record resolved for an edition by ISBN.
type Metadata struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	PublishedYear *int    `json:"published_year"`
	CoverURL      *string `json:"cover_url"`
	Summary       *string `json:"summary"`
}

// Work is the descriptive record resolved for a work key. Works carry no
// author or publish date; those live on editions.
type Work struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	CoverURL    *string  `json:"cover_url"`
	Subjects    []string `json:"subjects"`
}

// # Client

// Client talks to the Open Library API over HTTP, with an optional Redis
// read-through cache in front of the per-identity lookups.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *goredis.Client
	logger     *slog.Logger
}

// NewClient constructs a resolver. cache may be nil; lookups then always hit
// the provider.
func NewClient(baseURL string, timeout time.Duration, cache *goredis.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		logger:     logger,
	}
}

// # Keyword Search

// searchDoc mirrors the subset of /search.json docs we read.
type searchDoc struct {
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear *int     `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	Key              string   `json:"key"`
	CoverID          *int     `json:"cover_i"`
}

// Search runs a keyword query and returns at most
// [constants.SearchResultLimit] results.
//
// The provider occasionally answers search with an HTML error page and a 200
// status; that case is treated as "no results" rather than an outage.
func (client *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := fmt.Sprintf("%s/search.json?q=%s", client.baseURL, url.QueryEscape(query))

	response, err := client.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, apperr.UpstreamUnavailable(fmt.Errorf("openlibrary: search returned %d", response.StatusCode))
	}

	if !strings.Contains(response.Header.Get("Content-Type"), "application/json") {
		client.logger.Warn("openlibrary_non_json_search",
			slog.String("query", query),
			slog.String("content_type", response.Header.Get("Content-Type")),
		)
		return []SearchResult{}, nil
	}

	var payload struct {
		Docs []searchDoc `json:"docs"`
	}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, apperr.UpstreamUnavailable(fmt.Errorf("openlibrary: decode search: %w", err))
	}

	docs := payload.Docs
	if len(docs) > constants.SearchResultLimit {
		docs = docs[:constants.SearchResultLimit]
	}

	results := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, SearchResult{
			Title:         orUnknown(doc.Title),
			Author:        firstOrUnknown(doc.AuthorName),
			PublishedYear: doc.FirstPublishYear,
			ISBN:          firstOrNil(doc.ISBN),
			WorkKey:       nonEmptyOrNil(doc.Key),
			CoverURL:      coverURLFromID(doc.CoverID),
		})
	}
	return results, nil
}

// # Edition Lookup

// editionData mirrors the jscmd=data payload of /api/books.
type editionData struct {
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	PublishDate string `json:"publish_date"`
	Cover       struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"cover"`
	Works []struct {
		Key string `json:"key"`
	} `json:"works"`
}

// GetByISBN resolves full descriptive metadata for an edition.
//
// The summary lives on the edition's work, so a successful edition lookup
// chases the first linked work for its description. A failed chase degrades
// to a nil summary; it never fails the lookup.
func (client *Client) GetByISBN(ctx context.Context, isbn string) (Metadata, error) {
	if cached, ok := client.cachedMetadata(ctx, isbn); ok {
		return cached, nil
	}

	bibkey := "ISBN:" + isbn
	endpoint := fmt.Sprintf("%s/api/books?bibkeys=%s&format=json&jscmd=data",
		client.baseURL, url.QueryEscape(bibkey))

	response, err := client.get(ctx, endpoint)
	if err != nil {
		return Metadata{}, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return Metadata{}, apperr.UpstreamUnavailable(fmt.Errorf("openlibrary: edition lookup returned %d", response.StatusCode))
	}

	var payload map[string]editionData
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return Metadata{}, apperr.UpstreamUnavailable(fmt.Errorf("openlibrary: decode edition: %w", err))
	}

	edition, found := payload[bibkey]
	if !found {
		return Metadata{}, apperr.NotFound("Edition")
	}

	meta := Metadata{
		Title:         orUnknown(edition.Title),
		Author:        "Unknown",
		PublishedYear: extractYear(edition.PublishDate),
		CoverURL:      firstNonEmptyOrNil(edition.Cover.Large, edition.Cover.Medium),
	}
	if len(edition.Authors) > 0 && edition.Authors[0].Name != "" {
		meta.Author = edition.Authors[0].Name
	}

	if len(edition.Works) > 0 && edition.Works[0].Key != "" {
		if work, workErr := client.GetWork(ctx, edition.Works[0].Key); workErr == nil {
			meta.Summary = work.Description
		}
	}

	client.storeMetadata(ctx, isbn, meta)
	return meta, nil
}

// # Work Lookup

// GetWork resolves a work key such as "/works/OL45883W".
func (client *Client) GetWork(ctx context.Context, workKey string) (Work, error) {
	if cached, ok := client.cachedWork(ctx, workKey); ok {
		return cached, nil
	}

	path := workKey
	if !strings.HasPrefix(path, "/") {
		path = "/works/" + path
	}
	endpoint := client.baseURL + path + ".json"

	response, err := client.get(ctx, endpoint)
	if err != nil {
		return Work{}, err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return Work{}, apperr.NotFound("Work")
	}
	if response.StatusCode != http.StatusOK {
		return Work{}, apperr.UpstreamUnavailable(fmt.Errorf("openlibrary: work lookup returned %d", response.StatusCode))
	}

	var payload struct {
		Title       string          `json:"title"`
		Description json.RawMessage `json:"description"`
		Subjects    []string        `json:"subjects"`
		Covers      []int           `json:"covers"`
	}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return Work{}, apperr.UpstreamUnavailable(fmt.Errorf("openlibrary: decode work: %w", err))
	}

	work := Work{
		Title:       orUnknown(payload.Title),
		Description: normalizeDescription(payload.Description),
		Subjects:    payload.Subjects,
	}
	if len(payload.Covers) > 0 {
		work.CoverURL = coverURLFromID(&payload.Covers[0])
	}

	client.storeWork(ctx, workKey, work)
	return work, nil
}

// # Transport

// get issues a GET with the standard headers. Transport-level failures
// (DNS, timeout, refused connection) become UPSTREAM_UNAVAILABLE.
func (client *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, apperr.UpstreamUnavailable(fmt.Errorf("openlibrary: request failed: %w", err))
	}
	return response, nil
}

// # Normalization Helpers

// normalizeDescription handles the provider's two description shapes: a bare
// string, or a typed object {"type": "/type/text", "value": "..."}.
func normalizeDescription(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return nonEmptyOrNil(plain)
	}

	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err == nil {
		return nonEmptyOrNil(typed.Value)
	}
	return nil
}

// extractYear pulls the first four-digit run out of a free-form publish date.
func extractYear(publishDate string) *int {
	match := yearPattern.FindString(publishDate)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &year
}

func coverURLFromID(coverID *int) *string {
	if coverID == nil {
		return nil
	}
	coverURL := fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", *coverID)
	return &coverURL
}

func orUnknown(value string) string {
	if value == "" {
		return "Unknown"
	}
	return value
}

func firstOrUnknown(values []string) string {
	if len(values) == 0 || values[0] == "" {
		return "Unknown"
	}
	return values[0]
}

func firstOrNil(values []string) *string {
	if len(values) == 0 || values[0] == "" {
		return nil
	}
	return &values[0]
}

func nonEmptyOrNil(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func firstNonEmptyOrNil(values ...string) *string {
	for _, value := range values {
		if value != "" {
			v := value
			return &v
		}
	}
	return nil
}
