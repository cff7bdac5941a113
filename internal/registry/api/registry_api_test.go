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

package registryapi

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

func newRegistryRouter(t *testing.T) chi.Router {
	t.Helper()
	router := chi.NewRouter()
	handler := NewRegistryAPI(
		&api.Repository{Store: persistence.NewInMemoryEntityStore(), Policy: common.PermitAllPolicy{}},
		&api.Repository{Store: persistence.NewInMemoryEntityStore(), Policy: common.PermitAllPolicy{}},
	)
	handler.RegisterRoutes(router)
	return router
}

func shellDescriptorJSON(id string) string {
	return `{
		"id": "` + id + `",
		"idShort": "Motor",
		"assetKind": "Instance",
		"assetType": "Pump",
		"endpoints": [{
			"interface": "AAS-3.0",
			"protocolInformation": {"href": "https://edge.example.com/shells/` + id + `"}
		}]
	}`
}

func submodelDescriptorJSON(id string) string {
	return `{
		"id": "` + id + `",
		"idShort": "Nameplate",
		"semanticId": {
			"type": "ExternalReference",
			"keys": [{"type": "GlobalReference", "value": "urn:semantic:nameplate"}]
		},
		"endpoints": [{
			"interface": "SUBMODEL-3.0",
			"protocolInformation": {"href": "https://edge.example.com/submodels/` + id + `"}
		}]
	}`
}

func post(t *testing.T, router chi.Router, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPostShellDescriptor(t *testing.T) {
	router := newRegistryRouter(t)
	rec := post(t, router, "/shell-descriptors", shellDescriptorJSON("urn:example:aas:1"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	idB64 := common.EncodeString("urn:example:aas:1")
	assert.Equal(t, "/shell-descriptors/"+idB64, rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))
}

func TestPostShellDescriptorRequiresID(t *testing.T) {
	router := newRegistryRouter(t)
	rec := post(t, router, "/shell-descriptors", `{"idShort":"NoID"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetShellDescriptorRoundTrip(t *testing.T) {
	router := newRegistryRouter(t)
	created := post(t, router, "/shell-descriptors", shellDescriptorJSON("urn:example:aas:1"))
	require.Equal(t, http.StatusCreated, created.Code)

	req := httptest.NewRequest(http.MethodGet, "/shell-descriptors/"+common.EncodeString("urn:example:aas:1"), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.Body.Bytes(), rec.Body.Bytes())

	var d map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "Instance", d["assetKind"])
}

func TestPutShellDescriptorIdentifierMismatch(t *testing.T) {
	router := newRegistryRouter(t)
	created := post(t, router, "/shell-descriptors", shellDescriptorJSON("urn:example:aas:1"))
	require.Equal(t, http.StatusCreated, created.Code)

	req := httptest.NewRequest(http.MethodPut,
		"/shell-descriptors/"+common.EncodeString("urn:example:aas:1"),
		strings.NewReader(shellDescriptorJSON("urn:example:aas:other")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutShellDescriptorReplaces(t *testing.T) {
	router := newRegistryRouter(t)
	created := post(t, router, "/shell-descriptors", shellDescriptorJSON("urn:example:aas:1"))
	require.Equal(t, http.StatusCreated, created.Code)

	req := httptest.NewRequest(http.MethodPut,
		"/shell-descriptors/"+common.EncodeString("urn:example:aas:1"),
		strings.NewReader(shellDescriptorJSON("urn:example:aas:1")))
	req.Header.Set("If-Match", created.Header().Get("ETag"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestDeleteShellDescriptor(t *testing.T) {
	router := newRegistryRouter(t)
	created := post(t, router, "/shell-descriptors", shellDescriptorJSON("urn:example:aas:1"))
	require.Equal(t, http.StatusCreated, created.Code)
	idB64 := common.EncodeString("urn:example:aas:1")

	req := httptest.NewRequest(http.MethodDelete, "/shell-descriptors/"+idB64, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/shell-descriptors/"+idB64, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListShellDescriptorsEnvelope(t *testing.T) {
	router := newRegistryRouter(t)
	for _, id := range []string{"urn:a", "urn:b"} {
		rec := post(t, router, "/shell-descriptors", shellDescriptorJSON(id))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/shell-descriptors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Result []json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Result, 2)
}

func TestSubmodelDescriptorLifecycle(t *testing.T) {
	router := newRegistryRouter(t)
	created := post(t, router, "/submodel-descriptors", submodelDescriptorJSON("urn:example:sm:1"))
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	idB64 := common.EncodeString("urn:example:sm:1")

	req := httptest.NewRequest(http.MethodGet, "/submodel-descriptors/"+idB64, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.Body.Bytes(), rec.Body.Bytes())

	req = httptest.NewRequest(http.MethodDelete, "/submodel-descriptors/"+idB64, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/submodel-descriptors/"+idB64, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDescriptorNamespacesAreSeparate(t *testing.T) {
	router := newRegistryRouter(t)
	created := post(t, router, "/shell-descriptors", shellDescriptorJSON("urn:example:1"))
	require.Equal(t, http.StatusCreated, created.Code)

	// The same identifier does not exist in the submodel descriptor
	// namespace.
	req := httptest.NewRequest(http.MethodGet, "/submodel-descriptors/"+common.EncodeString("urn:example:1"), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
