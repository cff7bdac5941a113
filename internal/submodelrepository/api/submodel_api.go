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

// Package submodelrepositoryapi implements the Submodel Repository
// endpoints, including element-granular reads, writes and projections.
package submodelrepositoryapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/titan-aas/titan-go-components/internal/blob"
	"github.com/titan-aas/titan-go-components/internal/common"
	"github.com/titan-aas/titan-go-components/internal/common/api"
	"github.com/titan-aas/titan-go-components/internal/common/model"
	cpersistence "github.com/titan-aas/titan-go-components/internal/common/persistence"
	"github.com/titan-aas/titan-go-components/internal/common/projection"
	"github.com/titan-aas/titan-go-components/internal/submodelrepository/persistence"
)

const maxBodyBytes = 64 << 20

// SubmodelAPI serves the /submodels routes. Externalizer and asset
// store are optional; without them Blob values stay inline.
type SubmodelAPI struct {
	repo         *api.Repository
	externalizer *blob.Externalizer
	assetStore   *persistence.BlobAssetStore
}

// NewSubmodelAPI creates the handler over its repository binding.
func NewSubmodelAPI(repo *api.Repository, externalizer *blob.Externalizer, assetStore *persistence.BlobAssetStore) *SubmodelAPI {
	return &SubmodelAPI{repo: repo, externalizer: externalizer, assetStore: assetStore}
}

// RegisterRoutes mounts the submodel repository endpoints.
func (h *SubmodelAPI) RegisterRoutes(router chi.Router) {
	router.Get("/submodels", h.ListSubmodels)
	router.Post("/submodels", h.PostSubmodel)
	router.Route("/submodels/{submodelIdentifier}", func(r chi.Router) {
		r.Get("/", h.GetSubmodel)
		r.Put("/", h.PutSubmodel)
		r.Delete("/", h.DeleteSubmodel)
		r.Get("/$value", h.GetSubmodelValue)
		r.Patch("/$value", h.PatchSubmodelValue)
		r.Get("/$metadata", h.GetSubmodelMetadata)
		r.Get("/$reference", h.GetSubmodelReference)
		r.Get("/$path", h.GetSubmodelPath)
		r.Get("/submodel-elements", h.ListElements)
		r.Post("/submodel-elements", h.PostRootElement)
		r.Route("/submodel-elements/{idShortPath}", func(er chi.Router) {
			er.Get("/", h.GetElement)
			er.Put("/", h.PutElement)
			er.Patch("/", h.PatchElement)
			er.Delete("/", h.DeleteElement)
			er.Post("/", h.PostChildElement)
			er.Get("/$value", h.GetElementValue)
			er.Patch("/$value", h.PatchElementValue)
			er.Get("/$metadata", h.GetElementMetadata)
			er.Get("/$reference", h.GetElementReference)
			er.Get("/$path", h.GetElementPath)
		})
	})
}

// --- whole-document operations ---

// ListSubmodels supports the idShort and semanticId discovery filters
// on top of cursor pagination.
func (h *SubmodelAPI) ListSubmodels(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "read", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	var filters []cpersistence.Filter
	if idShort := r.URL.Query().Get("idShort"); idShort != "" {
		filters = append(filters, cpersistence.Filter{Column: "id_short", Value: idShort})
	}
	if semanticID := r.URL.Query().Get("semanticId"); semanticID != "" {
		filters = append(filters, cpersistence.Filter{Column: "semantic_id", Value: semanticID})
	}
	h.repo.List(w, r, filters...)
}

func (h *SubmodelAPI) PostSubmodel(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	sm, err := parseSubmodelBody(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	doc, assets, err := h.canonicalizeSubmodel(r, sm)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if err := h.repo.CommitCreate(r.Context(), doc); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	h.persistAssets(r, sm.ID, assets)
	w.Header().Set("Location", "/submodels/"+common.EncodeString(doc.Identifier))
	api.WriteDocument(w, http.StatusCreated, doc.Canonical, doc.ETag)
}

// GetSubmodel serves the canonical image over the fast path when no
// projection is requested, otherwise parses and projects.
func (h *SubmodelAPI) GetSubmodel(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "read", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	idB64 := chi.URLParam(r, "submodelIdentifier")
	if _, err := common.DecodeString(idB64); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	opts, err := api.ParseProjection(r, projection.ModifierNone)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if opts.IsFastPath() {
		h.repo.ReadFast(w, r, idB64)
		return
	}
	sm, etag, err := h.fetchSubmodelByB64(r, idB64)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	projected := projection.ApplyExtent(projection.ApplyLevel(sm, opts.Level), opts.Extent)
	api.WriteJSON(w, http.StatusOK, projected, etag)
}

func (h *SubmodelAPI) PutSubmodel(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	identifier, err := common.DecodeString(chi.URLParam(r, "submodelIdentifier"))
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	sm, err := parseSubmodelBody(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if sm.ID != identifier {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument("document id does not match the path identifier"))
		return
	}
	doc, assets, err := h.canonicalizeSubmodel(r, sm)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if err := h.repo.CommitUpdate(r.Context(), doc, api.IfMatch(r), ""); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	h.persistAssets(r, sm.ID, assets)
	api.WriteDocument(w, http.StatusOK, doc.Canonical, doc.ETag)
}

func (h *SubmodelAPI) DeleteSubmodel(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	identifier, err := common.DecodeString(chi.URLParam(r, "submodelIdentifier"))
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if err := h.repo.CommitDelete(r.Context(), identifier); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if h.assetStore != nil {
		if err := h.assetStore.DeleteForSubmodel(r.Context(), identifier); err != nil {
			log.Printf("blob asset cleanup failed for %q: %v", identifier, err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- submodel projections ---

func (h *SubmodelAPI) GetSubmodelValue(w http.ResponseWriter, r *http.Request) {
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, projection.SubmodelToValueOnly(sm), etag)
}

// PatchSubmodelValue merges a value-only document back into the stored
// submodel and commits the result as a whole-document update.
func (h *SubmodelAPI) PatchSubmodelValue(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument("unreadable request body"))
		return
	}
	var valueOnly map[string]interface{}
	if err := json.Unmarshal(body, &valueOnly); err != nil {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument("value-only body must be a JSON object"))
		return
	}
	if err := projection.UpdateSubmodelFromValueOnly(sm, valueOnly); err != nil {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument(err.Error()))
		return
	}
	h.commitSubmodel(w, r, sm, etag, "")
}

func (h *SubmodelAPI) GetSubmodelMetadata(w http.ResponseWriter, r *http.Request) {
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, projection.SubmodelToMetadata(sm), etag)
}

func (h *SubmodelAPI) GetSubmodelReference(w http.ResponseWriter, r *http.Request) {
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, projection.SubmodelToReference(sm), etag)
}

// GetSubmodelPath lists the idShortPath of every element, depth-first.
func (h *SubmodelAPI) GetSubmodelPath(w http.ResponseWriter, r *http.Request) {
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, collectPaths(sm.SubmodelElements, "", false), etag)
}

// --- element operations ---

// ListElements serves the root element array in the paged envelope. The
// element tree of one submodel is served whole; paging applies to the
// entity lists, not to a document's interior.
func (h *SubmodelAPI) ListElements(w http.ResponseWriter, r *http.Request) {
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, common.PagedResult{
		Result:         sm.SubmodelElements,
		PagingMetadata: common.PagingMetadata{},
	}, etag)
}

// PostRootElement appends a new element to the root submodelElements.
func (h *SubmodelAPI) PostRootElement(w http.ResponseWriter, r *http.Request) {
	h.insertElement(w, r, "")
}

// PostChildElement appends a new element to the container at the path.
func (h *SubmodelAPI) PostChildElement(w http.ResponseWriter, r *http.Request) {
	h.insertElement(w, r, chi.URLParam(r, "idShortPath"))
}

func (h *SubmodelAPI) insertElement(w http.ResponseWriter, r *http.Request, parentPath string) {
	if err := h.repo.Allow(r, "write", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	element, err := parseElementBody(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	next, err := model.InsertElement(sm, parentPath, element)
	if err != nil {
		common.WriteErrorResponse(w, mapElementError(err, parentPath, element.GetIdShort()))
		return
	}
	h.commitSubmodelStatus(w, r, next, etag, parentPath, http.StatusCreated, element)
}

// GetElement resolves the element and serves it, honoring extent.
func (h *SubmodelAPI) GetElement(w http.ResponseWriter, r *http.Request) {
	_, etag, _, element, err := h.resolve(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	opts, err := api.ParseProjection(r, projection.ModifierNone)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if opts.Extent == projection.ExtentWithoutBlobValue {
		if b, ok := element.(*model.Blob); ok {
			bare := *b
			bare.Value = ""
			api.WriteJSON(w, http.StatusOK, &bare, etag)
			return
		}
	}
	api.WriteJSON(w, http.StatusOK, element, etag)
}

// PutElement replaces the element at the path.
func (h *SubmodelAPI) PutElement(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	element, err := parseElementBody(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	path := chi.URLParam(r, "idShortPath")
	next, err := model.ReplaceElement(sm, path, element)
	if err != nil {
		common.WriteErrorResponse(w, mapElementError(err, path, ""))
		return
	}
	h.commitSubmodelStatus(w, r, next, etag, path, http.StatusOK, element)
}

// PatchElement shallow-merges fields into the element at the path.
func (h *SubmodelAPI) PatchElement(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument("unreadable request body"))
		return
	}
	var updates map[string]json.RawMessage
	if err := json.Unmarshal(body, &updates); err != nil {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument("patch body must be a JSON object"))
		return
	}
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	path := chi.URLParam(r, "idShortPath")
	next, err := model.PatchElement(sm, path, updates)
	if err != nil {
		common.WriteErrorResponse(w, mapElementError(err, path, ""))
		return
	}
	patched, resolveErr := model.ResolveElement(next, path)
	if resolveErr != nil {
		common.WriteErrorResponse(w, common.NewErrInternal("patched element vanished"))
		return
	}
	h.commitSubmodelStatus(w, r, next, etag, path, http.StatusOK, patched)
}

// DeleteElement removes the element at the path.
func (h *SubmodelAPI) DeleteElement(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	path := chi.URLParam(r, "idShortPath")
	next, err := model.DeleteElement(sm, path)
	if err != nil {
		common.WriteErrorResponse(w, mapElementError(err, path, ""))
		return
	}
	h.commitSubmodelStatus(w, r, next, etag, path, http.StatusNoContent, nil)
}

// --- element projections ---

// GetElementValue serves the value-only form, consulting the element
// sub-key cache first.
func (h *SubmodelAPI) GetElementValue(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "read", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	idB64 := chi.URLParam(r, "submodelIdentifier")
	path := chi.URLParam(r, "idShortPath")
	if _, err := common.DecodeString(idB64); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if h.repo.Cache != nil {
		entry, err := h.repo.Cache.GetElement(r.Context(), idB64, path)
		if err != nil {
			log.Printf("element cache probe failed for %s/%s: %v", idB64, path, err)
		} else if entry != nil {
			if inm := api.IfNoneMatch(r); inm != "" && inm == entry.ETag {
				w.Header().Set("ETag", `"`+entry.ETag+`"`)
				w.WriteHeader(http.StatusNotModified)
				return
			}
			api.WriteDocument(w, http.StatusOK, entry.Bytes, entry.ETag)
			return
		}
	}
	sm, etag, err := h.fetchSubmodelByB64(r, idB64)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	element, err := model.ResolveElement(sm, path)
	if err != nil {
		common.WriteErrorResponse(w, mapElementError(err, path, ""))
		return
	}
	valueBytes, err := common.CanonicalBytes(projection.SubmodelElementToValueOnly(element))
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if h.repo.Cache != nil {
		if err := h.repo.Cache.SetElement(r.Context(), idB64, path, valueBytes, etag); err != nil {
			log.Printf("element cache populate failed for %s/%s: %v", idB64, path, err)
		}
	}
	if inm := api.IfNoneMatch(r); inm != "" && inm == etag {
		w.Header().Set("ETag", `"`+etag+`"`)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	api.WriteDocument(w, http.StatusOK, valueBytes, etag)
}

// PatchElementValue updates only the value of the element at the path.
func (h *SubmodelAPI) PatchElementValue(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "submodels"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument("unreadable request body"))
		return
	}
	if !json.Valid(body) {
		common.WriteErrorResponse(w, common.NewErrInvalidDocument("value body must be valid JSON"))
		return
	}
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	path := chi.URLParam(r, "idShortPath")
	next, err := model.UpdateElementValue(sm, path, json.RawMessage(body))
	if err != nil {
		common.WriteErrorResponse(w, mapElementError(err, path, ""))
		return
	}
	h.commitSubmodelStatus(w, r, next, etag, path, http.StatusNoContent, nil)
}

func (h *SubmodelAPI) GetElementMetadata(w http.ResponseWriter, r *http.Request) {
	_, etag, _, element, err := h.resolve(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, projection.ElementToMetadata(element), etag)
}

func (h *SubmodelAPI) GetElementReference(w http.ResponseWriter, r *http.Request) {
	sm, etag, path, element, err := h.resolve(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, projection.ElementToReference(sm, element, path), etag)
}

func (h *SubmodelAPI) GetElementPath(w http.ResponseWriter, r *http.Request) {
	_, etag, path, _, err := h.resolve(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, projection.PathResult{IdShortPath: path}, etag)
}

// --- shared plumbing ---

func (h *SubmodelAPI) fetchSubmodel(r *http.Request) (*model.Submodel, string, error) {
	if err := h.repo.Allow(r, "read", "submodels"); err != nil {
		return nil, "", err
	}
	idB64 := chi.URLParam(r, "submodelIdentifier")
	if _, err := common.DecodeString(idB64); err != nil {
		return nil, "", err
	}
	return h.fetchSubmodelByB64(r, idB64)
}

func (h *SubmodelAPI) fetchSubmodelByB64(r *http.Request, idB64 string) (*model.Submodel, string, error) {
	row, err := h.repo.FetchByIDB64(r.Context(), idB64)
	if err != nil {
		return nil, "", err
	}
	sm, err := model.ParseSubmodel(row.DocBytes)
	if err != nil {
		return nil, "", common.NewErrInternal("stored submodel document failed to parse")
	}
	return sm, row.ETag, nil
}

func (h *SubmodelAPI) resolve(r *http.Request) (*model.Submodel, string, string, model.SubmodelElement, error) {
	sm, etag, err := h.fetchSubmodel(r)
	if err != nil {
		return nil, "", "", nil, err
	}
	path := chi.URLParam(r, "idShortPath")
	element, err := model.ResolveElement(sm, path)
	if err != nil {
		return nil, "", "", nil, mapElementError(err, path, "")
	}
	return sm, etag, path, element, nil
}

// commitSubmodel canonicalizes and commits a mutated submodel. The
// current etag acts as the compare value when the client sent no
// If-Match, so a concurrent whole-document write turns this
// read-modify-write into a clean 412 instead of silently clobbering.
func (h *SubmodelAPI) commitSubmodel(w http.ResponseWriter, r *http.Request, sm *model.Submodel, currentETag, elementPath string) {
	h.commitSubmodelStatus(w, r, sm, currentETag, elementPath, http.StatusOK, nil)
}

func (h *SubmodelAPI) commitSubmodelStatus(w http.ResponseWriter, r *http.Request, sm *model.Submodel, currentETag, elementPath string, status int, respondWith model.SubmodelElement) {
	doc, assets, err := h.canonicalizeSubmodel(r, sm)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	ifMatch := api.IfMatch(r)
	if ifMatch == "" {
		ifMatch = currentETag
	}
	if err := h.repo.CommitUpdate(r.Context(), doc, ifMatch, elementPath); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	h.persistAssets(r, sm.ID, assets)
	switch {
	case status == http.StatusNoContent:
		w.Header().Set("ETag", `"`+doc.ETag+`"`)
		w.WriteHeader(http.StatusNoContent)
	case respondWith != nil:
		api.WriteJSON(w, status, respondWith, doc.ETag)
	default:
		api.WriteDocument(w, status, doc.Canonical, doc.ETag)
	}
}

func (h *SubmodelAPI) canonicalizeSubmodel(r *http.Request, sm *model.Submodel) (api.Document, []blob.Asset, error) {
	var assets []blob.Asset
	if h.externalizer != nil {
		var err error
		assets, err = h.externalizer.Externalize(r.Context(), sm)
		if err != nil {
			return api.Document{}, nil, err
		}
	}
	canonical, etag, err := common.Canonicalize(sm)
	if err != nil {
		return api.Document{}, nil, err
	}
	return api.Document{
		Identifier: sm.ID,
		Canonical:  canonical,
		ETag:       etag,
		Extra:      persistence.SubmodelExtras(sm),
	}, assets, nil
}

// persistAssets records externalized payload rows after the document
// commit. The rows are derived metadata, so a failure is logged only.
func (h *SubmodelAPI) persistAssets(r *http.Request, submodelID string, assets []blob.Asset) {
	if h.assetStore == nil || len(assets) == 0 {
		return
	}
	if err := h.assetStore.ReplaceForSubmodel(r.Context(), submodelID, assets); err != nil {
		log.Printf("blob asset rows for %q not persisted: %v", submodelID, err)
	}
}

func parseSubmodelBody(r *http.Request) (*model.Submodel, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, common.NewErrInvalidDocument("unreadable request body")
	}
	sm, err := model.ParseSubmodel(body)
	if err != nil {
		return nil, common.NewErrInvalidDocument(err.Error())
	}
	if err := model.AssertSubmodelRequired(sm); err != nil {
		return nil, common.NewErrInvalidDocument(err.Error())
	}
	return sm, nil
}

func parseElementBody(r *http.Request) (model.SubmodelElement, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, common.NewErrInvalidDocument("unreadable request body")
	}
	element, err := model.UnmarshalSubmodelElement(body)
	if err != nil {
		return nil, common.NewErrInvalidDocument(err.Error())
	}
	return element, nil
}

func mapElementError(err error, path, idShort string) error {
	switch {
	case model.IsMalformedPath(err):
		return common.NewErrInvalidPath(path)
	case model.IsElementNotFound(err):
		return common.NewErrElementNotFound(path)
	case model.IsElementAlreadyExists(err):
		return common.NewErrElementAlreadyExists(idShort)
	default:
		return err
	}
}

func collectPaths(elements []model.SubmodelElement, prefix string, indexed bool) []string {
	paths := make([]string, 0, len(elements))
	for idx, el := range elements {
		var path string
		switch {
		case indexed:
			path = prefix + "[" + strconv.Itoa(idx) + "]"
		case prefix == "":
			path = el.GetIdShort()
		default:
			path = prefix + "." + el.GetIdShort()
		}
		paths = append(paths, path)
		if children, ok := model.ChildrenOf(el); ok {
			_, isList := el.(*model.SubmodelElementList)
			paths = append(paths, collectPaths(children, path, isList)...)
		}
	}
	return paths
}
