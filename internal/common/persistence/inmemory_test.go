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

package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInMemory(t *testing.T) *InMemoryEntityStore {
	t.Helper()
	store := NewInMemoryEntityStore("id_short")
	rows := []Record{
		{
			Identifier: "urn:e:1",
			DocBytes:   []byte(`{"id":"urn:e:1","idShort":"Pump","tags":[{"name":"plant","value":"north"}]}`),
			ETag:       "e1",
			Extra:      []any{"Pump"},
		},
		{
			Identifier: "urn:e:2",
			DocBytes:   []byte(`{"id":"urn:e:2","idShort":"Valve","tags":[{"name":"plant","value":"south"}]}`),
			ETag:       "e2",
			Extra:      []any{"Valve"},
		},
	}
	for _, rec := range rows {
		require.NoError(t, store.Create(context.Background(), nil, rec))
	}
	return store
}

func TestInMemoryListPageColumnFilter(t *testing.T) {
	store := seedInMemory(t)

	page, err := store.ListPage(context.Background(), nil, 10, "",
		Filter{Column: "id_short", Value: "Valve"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Contains(t, string(page.Items[0]), "urn:e:2")
}

func TestInMemoryListPageContainmentFilter(t *testing.T) {
	store := seedInMemory(t)

	page, err := store.ListPage(context.Background(), nil, 10, "",
		Filter{Fragment: `{"tags":[{"value":"north"}]}`})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Contains(t, string(page.Items[0]), "urn:e:1")

	page, err = store.ListPage(context.Background(), nil, 10, "",
		Filter{Fragment: `{"tags":[{"value":"absent"}]}`})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestInMemoryListPageUnknownFilterColumn(t *testing.T) {
	store := seedInMemory(t)

	_, err := store.ListPage(context.Background(), nil, 10, "",
		Filter{Column: "semantic_id", Value: "urn:x"})
	assert.Error(t, err)
}
