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

// Package aasrepositoryapi implements the Asset Administration Shell
// Repository endpoints.
package aasrepositoryapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/titan-aas/titan-go-components/internal/aasrepository/persistence"
	"github.com/titan-aas/titan-go-components/internal/common"
	"github.com/titan-aas/titan-go-components/internal/common/api"
	"github.com/titan-aas/titan-go-components/internal/common/model"
	cpersistence "github.com/titan-aas/titan-go-components/internal/common/persistence"
	"github.com/titan-aas/titan-go-components/internal/common/projection"
)

// maxBodyBytes bounds request documents at 16 MiB.
const maxBodyBytes = 16 << 20

// ShellAPI serves the /shells routes.
type ShellAPI struct {
	repo *api.Repository
}

// NewShellAPI creates the handler over its repository binding.
func NewShellAPI(repo *api.Repository) *ShellAPI {
	return &ShellAPI{repo: repo}
}

// RegisterRoutes mounts the shell repository endpoints.
func (h *ShellAPI) RegisterRoutes(router chi.Router) {
	router.Get("/shells", h.ListShells)
	router.Post("/shells", h.PostShell)
	router.Get("/shells/{aasIdentifier}", h.GetShell)
	router.Put("/shells/{aasIdentifier}", h.PutShell)
	router.Delete("/shells/{aasIdentifier}", h.DeleteShell)
	router.Get("/shells/{aasIdentifier}/$reference", h.GetShellReference)
	router.Get("/shells/{aasIdentifier}/asset-information", h.GetAssetInformation)
}

// ListShells returns one cursor page of shells, zero-copy from the
// stored byte images. idShort and globalAssetId narrow the page via the
// extracted columns.
func (h *ShellAPI) ListShells(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "read", "shells"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	var filters []cpersistence.Filter
	if idShort := r.URL.Query().Get("idShort"); idShort != "" {
		filters = append(filters, cpersistence.Filter{Column: "id_short", Value: idShort})
	}
	if globalAssetID := r.URL.Query().Get("globalAssetId"); globalAssetID != "" {
		filters = append(filters, cpersistence.Filter{Column: "global_asset_id", Value: globalAssetID})
	}
	h.repo.List(w, r, filters...)
}

// PostShell creates a shell from the request document.
func (h *ShellAPI) PostShell(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "shells"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	doc, err := parseShellDocument(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if err := h.repo.CommitCreate(r.Context(), doc); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	w.Header().Set("Location", "/shells/"+common.EncodeString(doc.Identifier))
	api.WriteDocument(w, http.StatusCreated, doc.Canonical, doc.ETag)
}

// GetShell serves the canonical byte image over the fast path.
func (h *ShellAPI) GetShell(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "read", "shells"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	idB64 := chi.URLParam(r, "aasIdentifier")
	if _, err := common.DecodeString(idB64); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	h.repo.ReadFast(w, r, idB64)
}

// PutShell replaces a shell whole. The path identifier must match the
// document's id.
func (h *ShellAPI) PutShell(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "shells"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	identifier, err := common.DecodeString(chi.URLParam(r, "aasIdentifier"))
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	doc, err := parseShellDocument(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if doc.Identifier != identifier {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument("document id does not match the path identifier"))
		return
	}
	if err := h.repo.CommitUpdate(r.Context(), doc, api.IfMatch(r), ""); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteDocument(w, http.StatusOK, doc.Canonical, doc.ETag)
}

// DeleteShell removes a shell. A second delete of the same identifier
// reports NotFound.
func (h *ShellAPI) DeleteShell(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "shells"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	identifier, err := common.DecodeString(chi.URLParam(r, "aasIdentifier"))
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if err := h.repo.CommitDelete(r.Context(), identifier); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetShellReference serves the $reference projection.
func (h *ShellAPI) GetShellReference(w http.ResponseWriter, r *http.Request) {
	aas, etag, err := h.fetchShell(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, projection.ShellToReference(aas), etag)
}

// GetAssetInformation serves the shell's assetInformation fragment.
func (h *ShellAPI) GetAssetInformation(w http.ResponseWriter, r *http.Request) {
	aas, etag, err := h.fetchShell(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, aas.AssetInformation, etag)
}

func (h *ShellAPI) fetchShell(r *http.Request) (*model.AssetAdministrationShell, string, error) {
	if err := h.repo.Allow(r, "read", "shells"); err != nil {
		return nil, "", err
	}
	idB64 := chi.URLParam(r, "aasIdentifier")
	if _, err := common.DecodeString(idB64); err != nil {
		return nil, "", err
	}
	row, err := h.repo.FetchByIDB64(r.Context(), idB64)
	if err != nil {
		return nil, "", err
	}
	aas, err := model.ParseAssetAdministrationShell(row.DocBytes)
	if err != nil {
		return nil, "", common.NewErrInternal("stored shell document failed to parse")
	}
	return aas, row.ETag, nil
}

func parseShellDocument(r *http.Request) (api.Document, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return api.Document{}, common.NewErrInvalidDocument("unreadable request body")
	}
	aas, err := model.ParseAssetAdministrationShell(body)
	if err != nil {
		return api.Document{}, common.NewErrInvalidDocument(err.Error())
	}
	if err := model.AssertShellRequired(aas); err != nil {
		return api.Document{}, common.NewErrInvalidDocument(err.Error())
	}
	canonical, etag, err := common.Canonicalize(aas)
	if err != nil {
		return api.Document{}, err
	}
	return api.Document{
		Identifier: aas.ID,
		Canonical:  canonical,
		ETag:       etag,
		Extra:      persistence.ShellExtras(aas),
	}, nil
}
