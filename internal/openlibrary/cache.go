// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package openlibrary

import (
	"context"
	"log/slog"

	jsoniter "github.com/json-iterator/go"

	"github.com/taibuivan/librarium/internal/platform/constants"
)

// Cache entries are best-effort: a Redis failure on either side of a lookup
// degrades to a provider round-trip, never to a request failure.

var cacheCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// cachedMetadata returns a previously resolved edition record, if any.
func (client *Client) cachedMetadata(ctx context.Context, isbn string) (Metadata, bool) {
	var meta Metadata
	if !client.cacheGet(ctx, constants.RedisPrefixISBN+isbn, &meta) {
		return Metadata{}, false
	}
	return meta, true
}

// storeMetadata caches an edition record for [constants.MetadataCacheTTL].
func (client *Client) storeMetadata(ctx context.Context, isbn string, meta Metadata) {
	client.cacheSet(ctx, constants.RedisPrefixISBN+isbn, meta)
}

// cachedWork returns a previously resolved work record, if any.
func (client *Client) cachedWork(ctx context.Context, workKey string) (Work, bool) {
	var work Work
	if !client.cacheGet(ctx, constants.RedisPrefixWork+workKey, &work) {
		return Work{}, false
	}
	return work, true
}

// storeWork caches a work record for [constants.MetadataCacheTTL].
func (client *Client) storeWork(ctx context.Context, workKey string, work Work) {
	client.cacheSet(ctx, constants.RedisPrefixWork+workKey, work)
}

func (client *Client) cacheGet(ctx context.Context, key string, target interface{}) bool {
	if client.cache == nil {
		return false
	}

	raw, err := client.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := cacheCodec.Unmarshal(raw, target); err != nil {
		client.logger.Warn("metadata_cache_corrupt", slog.String("key", key))
		return false
	}
	return true
}

func (client *Client) cacheSet(ctx context.Context, key string, value interface{}) {
	if client.cache == nil {
		return
	}

	raw, err := cacheCodec.Marshal(value)
	if err != nil {
		return
	}
	if err := client.cache.Set(ctx, key, raw, constants.MetadataCacheTTL).Err(); err != nil {
		client.logger.Warn("metadata_cache_write_failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
