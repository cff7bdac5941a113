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

// Package persistence binds the registry mirror to its descriptor
// tables. Descriptors live in their own namespace but share the
// dual-representation row layout of the repository entities.
package persistence

import (
	"database/sql"

	"github.com/titan-aas/titan-go-components/internal/common/model"
	"github.com/titan-aas/titan-go-components/internal/common/persistence"
)

// Descriptor tables.
const (
	ShellDescriptorTable    = "shell_descriptors"
	SubmodelDescriptorTable = "submodel_descriptors"
)

// ShellDescriptorColumns are the discovery filter attributes extracted
// from shell descriptors.
var ShellDescriptorColumns = []string{"id_short", "asset_kind", "asset_type", "global_asset_id"}

// SubmodelDescriptorColumns are the filter attributes extracted from
// submodel descriptors.
var SubmodelDescriptorColumns = []string{"id_short", "semantic_id"}

// NewShellDescriptorStore creates the store over shell_descriptors.
func NewShellDescriptorStore(db *sql.DB) *persistence.EntityStore {
	return persistence.NewEntityStore(db, ShellDescriptorTable, ShellDescriptorColumns...)
}

// NewSubmodelDescriptorStore creates the store over submodel_descriptors.
func NewSubmodelDescriptorStore(db *sql.DB) *persistence.EntityStore {
	return persistence.NewEntityStore(db, SubmodelDescriptorTable, SubmodelDescriptorColumns...)
}

// ShellDescriptorExtras extracts the secondary column values.
func ShellDescriptorExtras(d *model.AssetAdministrationShellDescriptor) []any {
	var idShort, assetKind, assetType, globalAssetID any
	if d.IdShort != "" {
		idShort = d.IdShort
	}
	if d.AssetKind != "" {
		assetKind = string(d.AssetKind)
	}
	if d.AssetType != "" {
		assetType = d.AssetType
	}
	if d.GlobalAssetID != "" {
		globalAssetID = d.GlobalAssetID
	}
	return []any{idShort, assetKind, assetType, globalAssetID}
}

// SubmodelDescriptorExtras extracts the secondary column values.
func SubmodelDescriptorExtras(d *model.SubmodelDescriptor) []any {
	var idShort, semanticID any
	if d.IdShort != "" {
		idShort = d.IdShort
	}
	if d.SemanticID != nil && len(d.SemanticID.Keys) > 0 {
		semanticID = d.SemanticID.LastKeyValue()
	}
	return []any{idShort, semanticID}
}
