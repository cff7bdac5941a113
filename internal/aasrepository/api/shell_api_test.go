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

package aasrepositoryapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titan-aas/titan-go-components/internal/common"
	"github.com/titan-aas/titan-go-components/internal/common/api"
	"github.com/titan-aas/titan-go-components/internal/common/persistence"
)

func newShellRouter(t *testing.T) chi.Router {
	t.Helper()
	router := chi.NewRouter()
	handler := NewShellAPI(&api.Repository{
		Store:  persistence.NewInMemoryEntityStore(),
		Policy: common.PermitAllPolicy{},
	})
	handler.RegisterRoutes(router)
	return router
}

func shellJSON(id string) string {
	return `{
		"modelType": "AssetAdministrationShell",
		"id": "` + id + `",
		"idShort": "Motor",
		"assetInformation": {
			"assetKind": "Instance",
			"globalAssetId": "urn:asset:1"
		}
	}`
}

func createShell(t *testing.T, router chi.Router, id string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/shells", strings.NewReader(shellJSON(id)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return rec
}

func TestPostShellCreates(t *testing.T) {
	router := newShellRouter(t)
	rec := createShell(t, router, "urn:example:aas:1")

	idB64 := common.EncodeString("urn:example:aas:1")
	assert.Equal(t, "/shells/"+idB64, rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "urn:example:aas:1", doc["id"])
}

func TestPostShellDuplicateConflicts(t *testing.T) {
	router := newShellRouter(t)
	createShell(t, router, "urn:example:aas:1")

	req := httptest.NewRequest(http.MethodPost, "/shells", strings.NewReader(shellJSON("urn:example:aas:1")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPostShellRejectsIncompleteDocument(t *testing.T) {
	router := newShellRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/shells", strings.NewReader(`{"modelType":"AssetAdministrationShell","id":"urn:x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetShellServesCreatedBytes(t *testing.T) {
	router := newShellRouter(t)
	created := createShell(t, router, "urn:example:aas:1")

	req := httptest.NewRequest(http.MethodGet, "/shells/"+common.EncodeString("urn:example:aas:1"), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.Body.Bytes(), rec.Body.Bytes())
	assert.Equal(t, created.Header().Get("ETag"), rec.Header().Get("ETag"))
}

func TestGetShellNotModified(t *testing.T) {
	router := newShellRouter(t)
	created := createShell(t, router, "urn:example:aas:1")

	req := httptest.NewRequest(http.MethodGet, "/shells/"+common.EncodeString("urn:example:aas:1"), nil)
	req.Header.Set("If-None-Match", created.Header().Get("ETag"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestGetShellRejectsBadIdentifierEncoding(t *testing.T) {
	router := newShellRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/shells/not+base64url", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetShellMissing(t *testing.T) {
	router := newShellRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/shells/"+common.EncodeString("urn:absent"), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutShellReplacesDocument(t *testing.T) {
	router := newShellRouter(t)
	created := createShell(t, router, "urn:example:aas:1")
	idB64 := common.EncodeString("urn:example:aas:1")

	req := httptest.NewRequest(http.MethodPut, "/shells/"+idB64, strings.NewReader(shellJSON("urn:example:aas:1")))
	req.Header.Set("If-Match", created.Header().Get("ETag"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("ETag"))
}

func TestPutShellStalePrecondition(t *testing.T) {
	router := newShellRouter(t)
	createShell(t, router, "urn:example:aas:1")
	idB64 := common.EncodeString("urn:example:aas:1")

	req := httptest.NewRequest(http.MethodPut, "/shells/"+idB64, strings.NewReader(shellJSON("urn:example:aas:1")))
	req.Header.Set("If-Match", `"0000000000000000000000000000000000000000000000000000000000000000"`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestPutShellIdentifierMismatch(t *testing.T) {
	router := newShellRouter(t)
	createShell(t, router, "urn:example:aas:1")

	req := httptest.NewRequest(http.MethodPut,
		"/shells/"+common.EncodeString("urn:example:aas:1"),
		strings.NewReader(shellJSON("urn:example:aas:other")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteShellThenGone(t *testing.T) {
	router := newShellRouter(t)
	createShell(t, router, "urn:example:aas:1")
	idB64 := common.EncodeString("urn:example:aas:1")

	req := httptest.NewRequest(http.MethodDelete, "/shells/"+idB64, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/shells/"+idB64, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deleting again reports the same absence.
	req = httptest.NewRequest(http.MethodDelete, "/shells/"+idB64, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetShellReference(t *testing.T) {
	router := newShellRouter(t)
	createShell(t, router, "urn:example:aas:1")

	req := httptest.NewRequest(http.MethodGet, "/shells/"+common.EncodeString("urn:example:aas:1")+"/$reference", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var ref struct {
		Type string `json:"type"`
		Keys []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ref))
	assert.Equal(t, "ModelReference", ref.Type)
	require.Len(t, ref.Keys, 1)
	assert.Equal(t, "AssetAdministrationShell", ref.Keys[0].Type)
	assert.Equal(t, "urn:example:aas:1", ref.Keys[0].Value)
}

func TestGetAssetInformation(t *testing.T) {
	router := newShellRouter(t)
	createShell(t, router, "urn:example:aas:1")

	req := httptest.NewRequest(http.MethodGet, "/shells/"+common.EncodeString("urn:example:aas:1")+"/asset-information", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "Instance", info["assetKind"])
	assert.Equal(t, "urn:asset:1", info["globalAssetId"])
}

func TestListShellsPages(t *testing.T) {
	router := newShellRouter(t)
	createShell(t, router, "urn:example:aas:1")
	createShell(t, router, "urn:example:aas:2")
	createShell(t, router, "urn:example:aas:3")

	req := httptest.NewRequest(http.MethodGet, "/shells?limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Result         []json.RawMessage `json:"result"`
		PagingMetadata struct {
			Cursor string `json:"cursor"`
		} `json:"paging_metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Result, 2)
	require.NotEmpty(t, envelope.PagingMetadata.Cursor)

	req = httptest.NewRequest(http.MethodGet, "/shells?limit=2&cursor="+envelope.PagingMetadata.Cursor, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	envelope.Result = nil
	envelope.PagingMetadata.Cursor = ""
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Result, 1)
	assert.Empty(t, envelope.PagingMetadata.Cursor)
}

func TestListShellsRejectsBadLimit(t *testing.T) {
	router := newShellRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/shells?limit=nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
