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

// Package conceptdescriptionapi implements the Concept Description
// Repository endpoints.
package conceptdescriptionapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/titan-aas/titan-go-components/internal/common"
	"github.com/titan-aas/titan-go-components/internal/common/api"
	"github.com/titan-aas/titan-go-components/internal/common/model"
	cpersistence "github.com/titan-aas/titan-go-components/internal/common/persistence"
	"github.com/titan-aas/titan-go-components/internal/conceptdescriptionrepository/persistence"
)

const maxBodyBytes = 16 << 20

// ConceptDescriptionAPI serves the /concept-descriptions routes.
type ConceptDescriptionAPI struct {
	repo *api.Repository
}

// NewConceptDescriptionAPI creates the handler over its repository
// binding.
func NewConceptDescriptionAPI(repo *api.Repository) *ConceptDescriptionAPI {
	return &ConceptDescriptionAPI{repo: repo}
}

// RegisterRoutes mounts the concept description endpoints.
func (h *ConceptDescriptionAPI) RegisterRoutes(router chi.Router) {
	router.Get("/concept-descriptions", h.ListConceptDescriptions)
	router.Post("/concept-descriptions", h.PostConceptDescription)
	router.Get("/concept-descriptions/{cdIdentifier}", h.GetConceptDescription)
	router.Put("/concept-descriptions/{cdIdentifier}", h.PutConceptDescription)
	router.Delete("/concept-descriptions/{cdIdentifier}", h.DeleteConceptDescription)
}

// ListConceptDescriptions supports the idShort, isCaseOf and
// dataSpecificationRef discovery filters on top of cursor pagination.
// idShort resolves over its extracted column, the reference filters by
// JSONB containment.
func (h *ConceptDescriptionAPI) ListConceptDescriptions(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "read", "concept-descriptions"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	var filters []cpersistence.Filter
	if idShort := r.URL.Query().Get("idShort"); idShort != "" {
		filters = append(filters, cpersistence.Filter{Column: "id_short", Value: idShort})
	}
	if isCaseOf := r.URL.Query().Get("isCaseOf"); isCaseOf != "" {
		filter, err := persistence.IsCaseOfFilter(isCaseOf)
		if err != nil {
			common.WriteErrorResponse(w, err)
			return
		}
		filters = append(filters, filter)
	}
	if dataSpec := r.URL.Query().Get("dataSpecificationRef"); dataSpec != "" {
		filter, err := persistence.DataSpecificationFilter(dataSpec)
		if err != nil {
			common.WriteErrorResponse(w, err)
			return
		}
		filters = append(filters, filter)
	}
	h.repo.List(w, r, filters...)
}

func (h *ConceptDescriptionAPI) PostConceptDescription(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "concept-descriptions"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	doc, err := parseConceptDescriptionDocument(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if err := h.repo.CommitCreate(r.Context(), doc); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	w.Header().Set("Location", "/concept-descriptions/"+common.EncodeString(doc.Identifier))
	api.WriteDocument(w, http.StatusCreated, doc.Canonical, doc.ETag)
}

func (h *ConceptDescriptionAPI) GetConceptDescription(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "read", "concept-descriptions"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	idB64 := chi.URLParam(r, "cdIdentifier")
	if _, err := common.DecodeString(idB64); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	h.repo.ReadFast(w, r, idB64)
}

func (h *ConceptDescriptionAPI) PutConceptDescription(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "concept-descriptions"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	identifier, err := common.DecodeString(chi.URLParam(r, "cdIdentifier"))
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	doc, err := parseConceptDescriptionDocument(r)
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

func (h *ConceptDescriptionAPI) DeleteConceptDescription(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Allow(r, "write", "concept-descriptions"); err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	identifier, err := common.DecodeString(chi.URLParam(r, "cdIdentifier"))
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

func parseConceptDescriptionDocument(r *http.Request) (api.Document, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return api.Document{}, common.NewErrInvalidDocument("unreadable request body")
	}
	cd, err := model.ParseConceptDescription(body)
	if err != nil {
		return api.Document{}, common.NewErrInvalidDocument(err.Error())
	}
	if err := model.AssertConceptDescriptionRequired(cd); err != nil {
		return api.Document{}, common.NewErrInvalidDocument(err.Error())
	}
	canonical, etag, err := common.Canonicalize(cd)
	if err != nil {
		return api.Document{}, err
	}
	return api.Document{
		Identifier: cd.ID,
		Canonical:  canonical,
		ETag:       etag,
		Extra:      persistence.ConceptDescriptionExtras(cd),
	}, nil
}
