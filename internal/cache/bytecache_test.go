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

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ByteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, time.Minute), mr
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	docBytes := []byte(`{"modelType":"Submodel","id":"urn:example:sm:1"}`)
	require.NoError(t, c.Set(ctx, EntitySubmodel, "dXJu", docBytes, "cafe"))

	entry, err := c.Get(ctx, EntitySubmodel, "dXJu")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, docBytes, entry.Bytes)
	assert.Equal(t, "cafe", entry.ETag)
}

func TestCacheMissReturnsNil(t *testing.T) {
	c, _ := newTestCache(t)
	entry, err := c.Get(context.Background(), EntityAAS, "absent")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCacheKeysAreNamespaced(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, EntityAAS, "aWQ", []byte(`{}`), "00"))
	require.NoError(t, c.SetElement(ctx, "aWQ", "Outer.P", []byte(`"v"`), "00"))

	assert.True(t, mr.Exists("titan:aas:aWQ"))
	assert.True(t, mr.Exists("titan:submodel:aWQ:element:Outer.P"))
}

func TestCacheEntriesCarryTTL(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Set(context.Background(), EntitySubmodel, "aWQ", []byte(`{}`), "00"))

	assert.Greater(t, mr.TTL("titan:submodel:aWQ"), time.Duration(0))

	mr.FastForward(2 * time.Minute)
	entry, err := c.Get(context.Background(), EntitySubmodel, "aWQ")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCacheDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, EntitySubmodel, "aWQ", []byte(`{}`), "00"))
	require.NoError(t, c.Delete(ctx, EntitySubmodel, "aWQ"))

	entry, err := c.Get(ctx, EntitySubmodel, "aWQ")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestInvalidateSubmodelElements(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetElement(ctx, "aWQ", "A", []byte(`"1"`), "00"))
	require.NoError(t, c.SetElement(ctx, "aWQ", "B.C", []byte(`"2"`), "00"))
	require.NoError(t, c.SetElement(ctx, "b3RoZXI", "A", []byte(`"3"`), "00"))

	require.NoError(t, c.InvalidateSubmodelElements(ctx, "aWQ"))

	entry, err := c.GetElement(ctx, "aWQ", "A")
	require.NoError(t, err)
	assert.Nil(t, entry)
	entry, err = c.GetElement(ctx, "aWQ", "B.C")
	require.NoError(t, err)
	assert.Nil(t, entry)

	// Another submodel's sub-keys survive.
	entry, err = c.GetElement(ctx, "b3RoZXI", "A")
	require.NoError(t, err)
	assert.NotNil(t, entry)
}

func TestFlushClearsEveryNamespace(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, EntityAAS, "YQ", []byte(`{}`), "00"))
	require.NoError(t, c.Set(ctx, EntitySubmodel, "Yg", []byte(`{}`), "00"))
	require.NoError(t, c.Flush(ctx))

	for _, et := range []EntityType{EntityAAS, EntitySubmodel} {
		entry, err := c.Get(ctx, et, "YQ")
		require.NoError(t, err)
		assert.Nil(t, entry)
	}
}

func TestInvalidatorApplyScopes(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	c := New(rdb, time.Minute)
	inv := NewInvalidator(rdb, c)
	ctx := context.Background()

	seed := func() {
		require.NoError(t, c.Set(ctx, EntityAAS, "aWQ", []byte(`{}`), "00"))
		require.NoError(t, c.Set(ctx, EntitySubmodel, "aWQ", []byte(`{}`), "00"))
		require.NoError(t, c.SetElement(ctx, "aWQ", "P", []byte(`"v"`), "00"))
		require.NoError(t, c.Set(ctx, EntityConceptDescription, "aWQ", []byte(`{}`), "00"))
	}

	seed()
	require.NoError(t, inv.Apply(ctx, InvalidationMessage{Type: ScopeAAS, IdentifierB64: "aWQ"}))
	assert.False(t, mr.Exists("titan:aas:aWQ"))
	assert.True(t, mr.Exists("titan:submodel:aWQ"))

	seed()
	require.NoError(t, inv.Apply(ctx, InvalidationMessage{Type: ScopeSubmodel, IdentifierB64: "aWQ"}))
	assert.False(t, mr.Exists("titan:submodel:aWQ"))
	assert.False(t, mr.Exists("titan:submodel:aWQ:element:P"))

	seed()
	require.NoError(t, inv.Apply(ctx, InvalidationMessage{Type: ScopeElement, IdentifierB64: "aWQ", IDShortPath: "P"}))
	assert.False(t, mr.Exists("titan:submodel:aWQ:element:P"))
	assert.False(t, mr.Exists("titan:submodel:aWQ"))
	assert.True(t, mr.Exists("titan:aas:aWQ"))

	seed()
	require.NoError(t, inv.Apply(ctx, InvalidationMessage{Type: ScopeAll}))
	assert.False(t, mr.Exists("titan:aas:aWQ"))
	assert.False(t, mr.Exists("titan:concept_description:aWQ"))

	// Unknown scopes are ignored, not errors.
	require.NoError(t, inv.Apply(ctx, InvalidationMessage{Type: "mystery"}))
}

func TestInvalidatorListenAppliesPublishedMessages(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	c := New(rdb, time.Minute)
	inv := NewInvalidator(rdb, c)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, c.Set(ctx, EntitySubmodel, "aWQ", []byte(`{}`), "00"))

	go inv.Listen(ctx)
	// Give the subscriber a moment to attach before publishing.
	time.Sleep(100 * time.Millisecond)

	inv.Publish(ctx, InvalidationMessage{Type: ScopeSubmodel, IdentifierB64: "aWQ"})

	require.Eventually(t, func() bool {
		entry, err := c.Get(context.Background(), EntitySubmodel, "aWQ")
		return err == nil && entry == nil
	}, 2*time.Second, 20*time.Millisecond)
}

func TestReconnectBackoffResetsAfterDelivery(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(time.Second, false))
	assert.Equal(t, 60*time.Second, nextBackoff(40*time.Second, false))
	assert.Equal(t, 60*time.Second, nextBackoff(2*time.Minute, false))
	assert.Equal(t, time.Second, nextBackoff(60*time.Second, true))
}
