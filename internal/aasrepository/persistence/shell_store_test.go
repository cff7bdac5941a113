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
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titan-aas/titan-go-components/internal/common/model"
	"github.com/titan-aas/titan-go-components/internal/common/persistence"
)

func newMockShellStore(t *testing.T) (*persistence.EntityStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewShellStore(db), mock
}

func TestFindByGlobalAssetID(t *testing.T) {
	store, mock := newMockShellStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT doc_bytes, etag FROM shells WHERE global_asset_id = $1 ORDER BY created_at ASC LIMIT 1`)).
		WithArgs("urn:asset:42").
		WillReturnRows(sqlmock.NewRows([]string{"doc_bytes", "etag"}).
			AddRow([]byte(`{"id":"urn:aas:1"}`), "cafe"))

	row, found, err := FindByGlobalAssetID(context.Background(), store, "urn:asset:42")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`{"id":"urn:aas:1"}`), row.DocBytes)
	assert.Equal(t, "cafe", row.ETag)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByGlobalAssetIDMiss(t *testing.T) {
	store, mock := newMockShellStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT doc_bytes, etag FROM shells WHERE global_asset_id = $1 ORDER BY created_at ASC LIMIT 1`)).
		WithArgs("urn:asset:absent").
		WillReturnRows(sqlmock.NewRows([]string{"doc_bytes", "etag"}))

	_, found, err := FindByGlobalAssetID(context.Background(), store, "urn:asset:absent")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindBySpecificAssetID(t *testing.T) {
	store, mock := newMockShellStore(t)

	fragment := `{"assetInformation":{"specificAssetIds":[{"name":"serialNumber","value":"SN-001"}]}}`
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT doc_bytes FROM shells WHERE doc @> $1::jsonb ORDER BY created_at ASC, identifier ASC LIMIT $2`)).
		WithArgs(fragment, 10).
		WillReturnRows(sqlmock.NewRows([]string{"doc_bytes"}).
			AddRow([]byte(`{"id":"urn:aas:1"}`)).
			AddRow([]byte(`{"id":"urn:aas:2"}`)))

	docs, err := FindBySpecificAssetID(context.Background(), store, "serialNumber", "SN-001", 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, []byte(`{"id":"urn:aas:1"}`), docs[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShellExtrasAlignment(t *testing.T) {
	aas := &model.AssetAdministrationShell{
		ID:      "urn:aas:1",
		IdShort: "Motor",
		AssetInformation: &model.AssetInformation{
			AssetKind:     model.AssetKindInstance,
			GlobalAssetID: "urn:asset:42",
		},
	}

	extras := ShellExtras(aas)
	require.Len(t, extras, len(ExtraColumns))
	assert.Equal(t, "Motor", extras[0])
	assert.Equal(t, "urn:asset:42", extras[1])

	// Absent attributes map to SQL NULL, not empty strings.
	bare := &model.AssetAdministrationShell{ID: "urn:aas:2"}
	extras = ShellExtras(bare)
	assert.Nil(t, extras[0])
	assert.Nil(t, extras[1])
}
