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

package api

import (
	"context"
	"log"
	"net/http"

	"github.com/titan-aas/titan-go-components/internal/cache"
	"github.com/titan-aas/titan-go-components/internal/common"
	"github.com/titan-aas/titan-go-components/internal/common/persistence"
	"github.com/titan-aas/titan-go-components/internal/events"
)

// Document is the canonicalized write payload of one entity.
type Document struct {
	Identifier string
	Canonical  []byte
	ETag       string
	Extra      []any
}

// Repository binds one entity class to its store, cache namespace and
// event kind, and runs the ordered write fan-out:
// store write, commit, cache update, event publish, invalidation
// broadcast. Cache, writer and invalidator are optional; a nil field
// skips its stage.
type Repository struct {
	Store       persistence.Store
	Cache       *cache.ByteCache
	CacheType   cache.EntityType
	Scope       cache.InvalidationScope
	Kind        events.EntityKind
	Writer      *events.BatchWriter
	Invalidator *cache.Invalidator
	Policy      common.PolicyEvaluator
}

// Allow consults the policy hook. A nil policy permits everything.
func (repo *Repository) Allow(r *http.Request, action, resource string) error {
	if repo.Policy == nil {
		return nil
	}
	return repo.Policy.Allow(r, action, resource)
}

// ReadFast serves the unprojected read path: cache probe, store fetch on
// miss, cache populate, 304 short-circuit on If-None-Match. Cache probe
// failures fall through to the authoritative store.
func (repo *Repository) ReadFast(w http.ResponseWriter, r *http.Request, idB64 string) {
	ctx := r.Context()
	if repo.Cache != nil {
		entry, err := repo.Cache.Get(ctx, repo.CacheType, idB64)
		if err != nil {
			log.Printf("cache probe failed for %s:%s: %v", repo.CacheType, idB64, err)
		} else if entry != nil {
			repo.emitFast(w, r, entry.Bytes, entry.ETag)
			return
		}
	}
	row, found, err := repo.Store.GetByIDB64(ctx, nil, idB64)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	if !found {
		identifier, decodeErr := common.DecodeString(idB64)
		if decodeErr != nil {
			common.WriteErrorResponse(w, decodeErr)
			return
		}
		common.WriteErrorResponse(w, common.NewErrNotFound(identifier))
		return
	}
	if repo.Cache != nil {
		if err := repo.Cache.Set(ctx, repo.CacheType, idB64, row.DocBytes, row.ETag); err != nil {
			log.Printf("cache populate failed for %s:%s: %v", repo.CacheType, idB64, err)
		}
	}
	repo.emitFast(w, r, row.DocBytes, row.ETag)
}

func (repo *Repository) emitFast(w http.ResponseWriter, r *http.Request, docBytes []byte, etag string) {
	if ifNoneMatch := IfNoneMatch(r); ifNoneMatch != "" && ifNoneMatch == etag {
		w.Header().Set("ETag", `"`+etag+`"`)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	WriteDocument(w, http.StatusOK, docBytes, etag)
}

// FetchByIDB64 returns the current row or a typed NotFound error.
func (repo *Repository) FetchByIDB64(ctx context.Context, idB64 string) (*persistence.Row, error) {
	row, found, err := repo.Store.GetByIDB64(ctx, nil, idB64)
	if err != nil {
		return nil, err
	}
	if !found {
		identifier, decodeErr := common.DecodeString(idB64)
		if decodeErr != nil {
			return nil, decodeErr
		}
		return nil, common.NewErrNotFound(identifier)
	}
	return row, nil
}

// List serves one cursor page straight from the stored byte images.
func (repo *Repository) List(w http.ResponseWriter, r *http.Request, filters ...persistence.Filter) {
	limit, err := ParseLimit(r)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	page, err := repo.Store.ListPage(r.Context(), nil, limit, r.URL.Query().Get("cursor"), filters...)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := common.WritePagedBytes(w, page.Items, page.NextCursor); err != nil {
		log.Printf("list framing failed: %v", err)
	}
}

// CommitCreate inserts the document inside a transaction, then runs the
// post-commit fan-out.
func (repo *Repository) CommitCreate(ctx context.Context, doc Document) error {
	q, commit, rollback, err := persistence.BeginIfSupported(ctx, repo.Store)
	if err != nil {
		return err
	}
	if err := repo.Store.Create(ctx, q, persistence.Record{
		Identifier: doc.Identifier,
		DocBytes:   doc.Canonical,
		ETag:       doc.ETag,
		Extra:      doc.Extra,
	}); err != nil {
		rollback()
		return err
	}
	if err := commit(); err != nil {
		return common.NewErrStoreUnavailable(err)
	}
	repo.fanOut(ctx, events.EventCreated, doc, "")
	return nil
}

// CommitUpdate replaces the document under optimistic concurrency. The
// If-Match value, when present, is compared against the row's ETag
// inside the write transaction; a mismatch fails with
// PreconditionFailed and nothing is written. elementPath names the
// mutated subtree for element-scoped events, empty for whole-document
// writes.
func (repo *Repository) CommitUpdate(ctx context.Context, doc Document, ifMatch, elementPath string) error {
	q, commit, rollback, err := persistence.BeginIfSupported(ctx, repo.Store)
	if err != nil {
		return err
	}
	row, found, err := repo.Store.GetByID(ctx, q, doc.Identifier)
	if err != nil {
		rollback()
		return err
	}
	if !found {
		rollback()
		return common.NewErrNotFound(doc.Identifier)
	}
	if ifMatch != "" && ifMatch != row.ETag {
		rollback()
		return common.NewErrPreconditionFailed(ifMatch, row.ETag)
	}
	if _, err := repo.Store.Update(ctx, q, persistence.Record{
		Identifier: doc.Identifier,
		DocBytes:   doc.Canonical,
		ETag:       doc.ETag,
		Extra:      doc.Extra,
	}); err != nil {
		rollback()
		return err
	}
	if err := commit(); err != nil {
		return common.NewErrStoreUnavailable(err)
	}
	repo.fanOut(ctx, events.EventUpdated, doc, elementPath)
	return nil
}

// CommitDelete removes the document and clears every derived copy.
func (repo *Repository) CommitDelete(ctx context.Context, identifier string) error {
	q, commit, rollback, err := persistence.BeginIfSupported(ctx, repo.Store)
	if err != nil {
		return err
	}
	found, err := repo.Store.Delete(ctx, q, identifier)
	if err != nil {
		rollback()
		return err
	}
	if !found {
		rollback()
		return common.NewErrNotFound(identifier)
	}
	if err := commit(); err != nil {
		return common.NewErrStoreUnavailable(err)
	}
	repo.fanOut(ctx, events.EventDeleted, Document{Identifier: identifier}, "")
	return nil
}

// fanOut runs the post-commit stages in contract order. Failures here
// are logged, never surfaced: the authoritative write has committed and
// TTL expiry or the next read miss repairs derived state.
func (repo *Repository) fanOut(ctx context.Context, eventType events.EventType, doc Document, elementPath string) {
	idB64 := common.EncodeString(doc.Identifier)

	if repo.Cache != nil {
		var err error
		if eventType == events.EventDeleted {
			err = repo.Cache.Delete(ctx, repo.CacheType, idB64)
		} else {
			err = repo.Cache.Set(ctx, repo.CacheType, idB64, doc.Canonical, doc.ETag)
		}
		if err != nil {
			log.Printf("post-commit cache update failed for %s:%s: %v", repo.CacheType, idB64, err)
		}
		if repo.CacheType == cache.EntitySubmodel && eventType != events.EventCreated {
			// A submodel mutation stales every cached element sub-key.
			if err := repo.Cache.InvalidateSubmodelElements(ctx, idB64); err != nil {
				log.Printf("element sub-key invalidation failed for %s: %v", idB64, err)
			}
		}
	}

	if repo.Writer != nil {
		ev := events.NewEvent(repo.Kind, eventType, doc.Identifier, doc.Canonical, doc.ETag)
		if elementPath != "" {
			ev.Entity = events.KindSubmodelElement
			ev.IDShortPath = elementPath
		}
		if err := repo.Writer.Write(ctx, ev); err != nil {
			log.Printf("post-commit event fan-out failed for %s: %v", doc.Identifier, err)
		}
	}

	if repo.Invalidator != nil {
		msg := cache.InvalidationMessage{Type: repo.Scope, IdentifierB64: idB64}
		if elementPath != "" {
			msg.Type = cache.ScopeElement
			msg.IDShortPath = elementPath
		}
		repo.Invalidator.Publish(ctx, msg)
	}
}
