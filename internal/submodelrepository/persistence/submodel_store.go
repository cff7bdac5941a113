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

// Package persistence binds the submodel repository to its entity table
// and the blob asset side table.
package persistence

import (
	"context"
	"database/sql"

	"github.com/titan-aas/titan-go-components/internal/blob"
	"github.com/titan-aas/titan-go-components/internal/common/model"
	"github.com/titan-aas/titan-go-components/internal/common/persistence"
)

// Table is the submodel entity table.
const Table = "submodels"

// ExtraColumns are the attributes extracted from the document for
// indexed filtering.
var ExtraColumns = []string{"id_short", "semantic_id"}

// NewSubmodelStore creates the dual-representation store over the
// submodels table.
func NewSubmodelStore(db *sql.DB) *persistence.EntityStore {
	return persistence.NewEntityStore(db, Table, ExtraColumns...)
}

// SubmodelExtras extracts the secondary column values, aligned with
// ExtraColumns.
func SubmodelExtras(sm *model.Submodel) []any {
	var idShort, semanticID any
	if sm.IdShort != "" {
		idShort = sm.IdShort
	}
	if sm.SemanticID != nil && len(sm.SemanticID.Keys) > 0 {
		semanticID = sm.SemanticID.LastKeyValue()
	}
	return []any{idShort, semanticID}
}

// FindBySemanticID returns the byte images of submodels whose semantic
// reference ends in the given key value, via the extracted column.
func FindBySemanticID(ctx context.Context, s *persistence.EntityStore, semanticID string, limit int) ([][]byte, error) {
	page, err := s.ListPage(ctx, nil, limit, "", persistence.Filter{Column: "semantic_id", Value: semanticID})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// BlobAssetStore persists the externalized payload metadata rows. The
// rows are derived data keyed (submodel_id, id_short_path) unique;
// content is addressed by sha256 in the object store.
type BlobAssetStore struct {
	db *sql.DB
}

// NewBlobAssetStore creates the side table store.
func NewBlobAssetStore(db *sql.DB) *BlobAssetStore {
	return &BlobAssetStore{db: db}
}

// ReplaceForSubmodel swaps the submodel's asset rows for the given set
// in one transaction.
func (s *BlobAssetStore) ReplaceForSubmodel(ctx context.Context, submodelID string, assets []blob.Asset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blob_assets WHERE submodel_id = $1`, submodelID); err != nil {
		return err
	}
	for _, asset := range assets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO blob_assets (submodel_id, id_short_path, storage_uri, content_type, size, sha256, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			asset.SubmodelID, asset.IDShortPath, asset.StorageURI, asset.ContentType, asset.Size, asset.SHA256, asset.CreatedAt)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteForSubmodel removes every asset row of the submodel.
func (s *BlobAssetStore) DeleteForSubmodel(ctx context.Context, submodelID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blob_assets WHERE submodel_id = $1`, submodelID)
	return err
}

// ListForSubmodel returns the submodel's asset rows ordered by path.
func (s *BlobAssetStore) ListForSubmodel(ctx context.Context, submodelID string) ([]blob.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT submodel_id, id_short_path, storage_uri, content_type, size, sha256, created_at
		 FROM blob_assets WHERE submodel_id = $1 ORDER BY id_short_path ASC`, submodelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []blob.Asset
	for rows.Next() {
		var a blob.Asset
		if err := rows.Scan(&a.SubmodelID, &a.IDShortPath, &a.StorageURI, &a.ContentType, &a.Size, &a.SHA256, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
