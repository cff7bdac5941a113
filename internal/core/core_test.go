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

package core

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/titan-aas/titan-go-components/internal/cache"
	"github.com/titan-aas/titan-go-components/internal/events"
	"github.com/titan-aas/titan-go-components/internal/leader"
)

// The invalidation listener is a singleton duty: it must come up once
// this replica holds the lease and then apply broadcast messages.
func TestLeaderGatesInvalidationListener(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	byteCache := cache.New(rdb, time.Minute)

	c := &Core{
		Redis:       rdb,
		Cache:       byteCache,
		Invalidator: cache.NewInvalidator(rdb, byteCache),
		Bus:         events.NewBus(events.BusOptions{}),
		Writer:      events.NewBatchWriter(nil, events.BatchWriterOptions{}),
		Elector:     leader.NewElector(rdb, "cache-invalidation", time.Second),
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	c.Start(ctx)

	require.Eventually(t, c.Elector.IsLeader, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, byteCache.Set(ctx, cache.EntityAAS, "aWQ", []byte(`{}`), "etag"))
	payload, err := jsoniter.Marshal(cache.InvalidationMessage{
		Type:          cache.ScopeAAS,
		IdentifierB64: "aWQ",
	})
	require.NoError(t, err)

	// The subscription comes up asynchronously after election, so keep
	// publishing until the applier has dropped the key.
	require.Eventually(t, func() bool {
		rdb.Publish(ctx, cache.InvalidationChannel, payload)
		entry, err := byteCache.Get(ctx, cache.EntityAAS, "aWQ")
		return err == nil && entry == nil
	}, 3*time.Second, 50*time.Millisecond)
}
