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

// Package registryapi implements the Registry mirror: descriptor CRUD
// with discovery filters, in a namespace separate from the repository
// entities.
package registryapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/titan-aas/titan-go-components/internal/common"
	"github.com/titan-aas/titan-go-components/internal/common/api"
	"github.com/titan-aas/titan-go-components/internal/common/model"
	cpersistence "github.com/titan-aas/titan-go-components/internal/common/persistence"
	"github.com/titan-aas/titan-go-components/internal/registry/persistence"
)

const maxBodyBytes = 4 << 20

// RegistryAPI serves the /shell-descriptors and /submodel-descriptors
// routes over two repository bindings.
type RegistryAPI struct {
	shells    *api.Repository
	submodels *api.Repository
}

// NewRegistryAPI creates the handler over the two descriptor
// repositories.
func NewRegistryAPI(shells, submodels *api.Repository) *RegistryAPI {
	return &RegistryAPI{shells: shells, submodels: submodels}
}

// RegisterRoutes mounts the registry endpoints.
func (h *RegistryAPI) RegisterRoutes(router chi.Router) {
	router.Get("/shell-descriptors", h.ListShellDescriptors)
	router.Post("/shell-descriptors", h.PostShellDescriptor)
	router.Get("/shell-descriptors/{aasIdentifier}", h.GetShellDescriptor)
	router.Put("/shell-descriptors/{aasIdentifier}", h.PutShellDescriptor)
	router.Delete("/shell-descriptors/{aasIdentifier}", h.DeleteShellDescriptor)

	router.Get("/submodel-descriptors", h.ListSubmodelDescriptors)
	router.Post("/submodel-descriptors", h.PostSubmodelDescriptor)
	router.Get("/submodel-descriptors/{submodelIdentifier}", h.GetSubmodelDescriptor)
	router.Put("/submodel-descriptors/{submodelIdentifier}", h.PutSubmodelDescriptor)
	router.Delete("/submodel-descriptors/{submodelIdentifier}", h.DeleteSubmodelDescriptor)
}

// ListShellDescriptors supports the assetKind and assetType discovery
// filters on top of cursor pagination.
func (h *RegistryAPI) ListShellDescriptors(w http.ResponseWriter, r *http.Request) {
	if err := h.shells.Allow(r, "read", "shell-descriptors"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	var filters []cpersistence.Filter
	if assetKind := r.URL.Query().Get("assetKind"); assetKind != "" {
		filters = append(filters, cpersistence.Filter{Column: "asset_kind", Value: assetKind})
	}
	if assetType := r.URL.Query().Get("assetType"); assetType != "" {
		filters = append(filters, cpersistence.Filter{Column: "asset_type", Value: assetType})
	}
	h.shells.List(w, r, filters...)
}

func (h *RegistryAPI) PostShellDescriptor(w http.ResponseWriter, r *http.Request) {
	if err := h.shells.Allow(r, "write", "shell-descriptors"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	doc, err := parseShellDescriptor(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if err := h.shells.CommitCreate(r.Context(), doc); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	w.Header().Set("Location", "/shell-descriptors/"+common.EncodeString(doc.Identifier))
	api.WriteDocument(w, http.StatusCreated, doc.Canonical, doc.ETag)
}

func (h *RegistryAPI) GetShellDescriptor(w http.ResponseWriter, r *http.Request) {
	h.getByID(w, r, h.shells, "aasIdentifier", "shell-descriptors")
}

func (h *RegistryAPI) PutShellDescriptor(w http.ResponseWriter, r *http.Request) {
	if err := h.shells.Allow(r, "write", "shell-descriptors"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	identifier, err := common.DecodeString(chi.URLParam(r, "aasIdentifier"))
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	doc, err := parseShellDescriptor(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if doc.Identifier != identifier {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument("document id does not match the path identifier"))
		return
	}
	if err := h.shells.CommitUpdate(r.Context(), doc, api.IfMatch(r), ""); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteDocument(w, http.StatusOK, doc.Canonical, doc.ETag)
}

func (h *RegistryAPI) DeleteShellDescriptor(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.shells, "aasIdentifier", "shell-descriptors")
}

// ListSubmodelDescriptors supports the semanticId discovery filter.
func (h *RegistryAPI) ListSubmodelDescriptors(w http.ResponseWriter, r *http.Request) {
	if err := h.submodels.Allow(r, "read", "submodel-descriptors"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	var filters []cpersistence.Filter
	if semanticID := r.URL.Query().Get("semanticId"); semanticID != "" {
		filters = append(filters, cpersistence.Filter{Column: "semantic_id", Value: semanticID})
	}
	h.submodels.List(w, r, filters...)
}

func (h *RegistryAPI) PostSubmodelDescriptor(w http.ResponseWriter, r *http.Request) {
	if err := h.submodels.Allow(r, "write", "submodel-descriptors"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	doc, err := parseSubmodelDescriptor(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if err := h.submodels.CommitCreate(r.Context(), doc); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	w.Header().Set("Location", "/submodel-descriptors/"+common.EncodeString(doc.Identifier))
	api.WriteDocument(w, http.StatusCreated, doc.Canonical, doc.ETag)
}

func (h *RegistryAPI) GetSubmodelDescriptor(w http.ResponseWriter, r *http.Request) {
	h.getByID(w, r, h.submodels, "submodelIdentifier", "submodel-descriptors")
}

func (h *RegistryAPI) PutSubmodelDescriptor(w http.ResponseWriter, r *http.Request) {
	if err := h.submodels.Allow(r, "write", "submodel-descriptors"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	identifier, err := common.DecodeString(chi.URLParam(r, "submodelIdentifier"))
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	doc, err := parseSubmodelDescriptor(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if doc.Identifier != identifier {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument("document id does not match the path identifier"))
		return
	}
	if err := h.submodels.CommitUpdate(r.Context(), doc, api.IfMatch(r), ""); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteDocument(w, http.StatusOK, doc.Canonical, doc.ETag)
}

func (h *RegistryAPI) DeleteSubmodelDescriptor(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.submodels, "submodelIdentifier", "submodel-descriptors")
}

func (h *RegistryAPI) getByID(w http.ResponseWriter, r *http.Request, repo *api.Repository, param, resource string) {
	if err := repo.Allow(r, "read", resource); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	idB64 := chi.URLParam(r, param)
	if _, err := common.DecodeString(idB64); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	repo.ReadFast(w, r, idB64)
}

func (h *RegistryAPI) deleteByID(w http.ResponseWriter, r *http.Request, repo *api.Repository, param, resource string) {
	if err := repo.Allow(r, "write", resource); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	identifier, err := common.DecodeString(chi.URLParam(r, param))
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if err := repo.CommitDelete(r.Context(), identifier); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseShellDescriptor(r *http.Request) (api.Document, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return api.Document{}, common.NewErrInvalidDocument("unreadable request body")
	}
	d, err := model.ParseShellDescriptor(body)
	if err != nil {
		return api.Document{}, common.NewErrInvalidDocument(err.Error())
	}
	if d.ID == "" {
		return api.Document{}, common.NewErrInvalidDocument("required field is missing or empty: id")
	}
	canonical, etag, err := common.Canonicalize(d)
	if err != nil {
		return api.Document{}, err
	}
	return api.Document{
		Identifier: d.ID,
		Canonical:  canonical,
		ETag:       etag,
		Extra:      persistence.ShellDescriptorExtras(d),
	}, nil
}

func parseSubmodelDescriptor(r *http.Request) (api.Document, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return api.Document{}, common.NewErrInvalidDocument("unreadable request body")
	}
	d, err := model.ParseSubmodelDescriptor(body)
	if err != nil {
		return api.Document{}, common.NewErrInvalidDocument(err.Error())
	}
	if d.ID == "" {
		return api.Document{}, common.NewErrInvalidDocument("required field is missing or empty: id")
	}
	canonical, etag, err := common.Canonicalize(d)
	if err != nil {
		return api.Document{}, err
	}
	return api.Document{
		Identifier: d.ID,
		Canonical:  canonical,
		ETag:       etag,
		Extra:      persistence.SubmodelDescriptorExtras(d),
	}, nil
}
