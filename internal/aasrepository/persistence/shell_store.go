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

// Package persistence binds the shell repository to its entity table.
package persistence

import (
	"context"
	"database/sql"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/titan-aas/titan-go-components/internal/common/model"
	"github.com/titan-aas/titan-go-components/internal/common/persistence"
)

// Table is the shell entity table.
const Table = "shells"

// ExtraColumns are the attributes extracted from the document for
// indexed filtering.
var ExtraColumns = []string{"id_short", "global_asset_id"}

// NewShellStore creates the dual-representation store over the shells
// table.
func NewShellStore(db *sql.DB) *persistence.EntityStore {
	return persistence.NewEntityStore(db, Table, ExtraColumns...)
}

// ShellExtras extracts the secondary column values, aligned with
// ExtraColumns.
func ShellExtras(aas *model.AssetAdministrationShell) []any {
	var idShort, globalAssetID any
	if aas.IdShort != "" {
		idShort = aas.IdShort
	}
	if g := aas.GlobalAssetID(); g != "" {
		globalAssetID = g
	}
	return []any{idShort, globalAssetID}
}

// FindByGlobalAssetID returns the shell whose asset information names
// the given globalAssetId, via the extracted column.
func FindByGlobalAssetID(ctx context.Context, s *persistence.EntityStore, globalAssetID string) (*persistence.Row, bool, error) {
	return s.FindOneBy(ctx, nil, "global_asset_id", globalAssetID)
}

// FindBySpecificAssetID returns the byte images of shells carrying the
// given specificAssetId name/value pair, via JSONB containment.
func FindBySpecificAssetID(ctx context.Context, s *persistence.EntityStore, name, value string, limit int) ([][]byte, error) {
	fragment, err := jsoniter.Marshal(map[string]any{
		"assetInformation": map[string]any{
			"specificAssetIds": []model.SpecificAssetID{{Name: name, Value: value}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("specific asset id fragment: %w", err)
	}
	return s.FindByContainment(ctx, nil, string(fragment), limit)
}
