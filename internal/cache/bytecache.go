/*******************************************************************************
* Copyright (C) 2026 the Titan-AAS Authors
*
* Permission is hereby granted, free of charge, to any person obtaining
* a copy of this software and associated documentation files (the
* "Software"), to deal in the Software without restriction, including
* without limitation the rights to use, copy, modify, merge, publish,
* distribute, sublicense, and/or sell copies of the Software, and to
* permit persons to whom the Software is furnished to do so, subject to
* the following conditions:
*
* The above copyright notice and this permission notice shall be
* included in all copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
* EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
* MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
* NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
* LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
* OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
* WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*
* SPDX-License-Identifier: MIT
******************************************************************************/

// Package cache implements the hot byte cache and the cross-replica
// invalidation channel on the broker. The cache holds a derived copy of
// the canonical byte image; it is never authoritative.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EntityType names the cache namespaces.
type EntityType string

const (
	EntityAAS                EntityType = "aas"
	EntitySubmodel           EntityType = "submodel"
	EntityConceptDescription EntityType = "concept_description"
	EntityShellDescriptor    EntityType = "shell_descriptor"
	EntitySubmodelDescriptor EntityType = "submodel_descriptor"
)

const keyPrefix = "titan"

// Entry is a cached byte image with its etag.
type Entry struct {
	Bytes []byte
	ETag  string
}

// ByteCache is the sub-millisecond read layer keyed by encoded
// identifier. Keys: titan:{entity}:{idB64} for top-level entities,
// titan:submodel:{idB64}:element:{path} for cached element values.
type ByteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a ByteCache on the given broker connection. ttl bounds
// staleness when an invalidation message is lost.
func New(rdb *redis.Client, ttl time.Duration) *ByteCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ByteCache{rdb: rdb, ttl: ttl}
}

// TTL returns the configured entry lifetime.
func (c *ByteCache) TTL() time.Duration { return c.ttl }

// EntityKey renders the cache key of a top-level entity.
func EntityKey(entityType EntityType, idB64 string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, entityType, idB64)
}

// ElementKey renders the cache key of a cached element value.
func ElementKey(idB64, idShortPath string) string {
	return fmt.Sprintf("%s:submodel:%s:element:%s", keyPrefix, idB64, idShortPath)
}

// Get probes the cache. A miss returns (nil, nil); broker errors
// propagate so the caller can fall through to the authoritative store.
func (c *ByteCache) Get(ctx context.Context, entityType EntityType, idB64 string) (*Entry, error) {
	return c.getKey(ctx, EntityKey(entityType, idB64))
}

// GetElement probes a cached element value.
func (c *ByteCache) GetElement(ctx context.Context, idB64, idShortPath string) (*Entry, error) {
	return c.getKey(ctx, ElementKey(idB64, idShortPath))
}

func (c *ByteCache) getKey(ctx context.Context, key string) (*Entry, error) {
	values, err := c.rdb.HMGet(ctx, key, "bytes", "etag").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if values[0] == nil || values[1] == nil {
		return nil, nil
	}
	return &Entry{
		Bytes: []byte(values[0].(string)),
		ETag:  values[1].(string),
	}, nil
}

// Set writes an entry with the configured TTL. On every successful
// mutation the handler writes (not invalidates) the entry so the next
// read hits the cache with the new bytes.
func (c *ByteCache) Set(ctx context.Context, entityType EntityType, idB64 string, docBytes []byte, etag string) error {
	return c.setKey(ctx, EntityKey(entityType, idB64), docBytes, etag)
}

// SetElement caches an element value under its sub-key.
func (c *ByteCache) SetElement(ctx context.Context, idB64, idShortPath string, valueBytes []byte, etag string) error {
	return c.setKey(ctx, ElementKey(idB64, idShortPath), valueBytes, etag)
}

func (c *ByteCache) setKey(ctx context.Context, key string, docBytes []byte, etag string) error {
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, "bytes", docBytes, "etag", etag)
	pipe.Expire(ctx, key, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Delete removes a top-level entry.
func (c *ByteCache) Delete(ctx context.Context, entityType EntityType, idB64 string) error {
	return c.rdb.Del(ctx, EntityKey(entityType, idB64)).Err()
}

// InvalidateSubmodelElements removes every cached element value of the
// submodel via a non-blocking SCAN over the sub-key pattern.
func (c *ByteCache) InvalidateSubmodelElements(ctx context.Context, idB64 string) error {
	pattern := fmt.Sprintf("%s:submodel:%s:element:*", keyPrefix, idB64)
	return c.deletePattern(ctx, pattern)
}

// Flush removes every titan-prefixed key; used by the "all" scope of the
// invalidation channel.
func (c *ByteCache) Flush(ctx context.Context) error {
	return c.deletePattern(ctx, keyPrefix+":*")
}

func (c *ByteCache) deletePattern(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.rdb.Del(ctx, keys...).Err()
	}
	return nil
}
