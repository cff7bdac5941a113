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

// Package persistence binds the concept description repository to its
// entity table.
package persistence

import (
	"database/sql"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/titan-aas/titan-go-components/internal/common/model"
	"github.com/titan-aas/titan-go-components/internal/common/persistence"
)

// Table is the concept description entity table.
const Table = "concept_descriptions"

// ExtraColumns are the attributes extracted for indexed filtering.
var ExtraColumns = []string{"id_short"}

// NewConceptDescriptionStore creates the dual-representation store over
// the concept_descriptions table.
func NewConceptDescriptionStore(db *sql.DB) *persistence.EntityStore {
	return persistence.NewEntityStore(db, Table, ExtraColumns...)
}

// ConceptDescriptionExtras extracts the secondary column values.
func ConceptDescriptionExtras(cd *model.ConceptDescription) []any {
	var idShort any
	if cd.IdShort != "" {
		idShort = cd.IdShort
	}
	return []any{idShort}
}

// Key chains inside containment fragments carry only the key value, so
// the predicate matches regardless of key type.
type keyFragment struct {
	Value string `json:"value"`
}

type referenceFragment struct {
	Keys []keyFragment `json:"keys"`
}

type dataSpecificationFragment struct {
	DataSpecification referenceFragment `json:"dataSpecification"`
}

// IsCaseOfFilter matches concept descriptions whose isCaseOf references
// name the given key value, via JSONB containment.
func IsCaseOfFilter(value string) (persistence.Filter, error) {
	fragment, err := jsoniter.Marshal(struct {
		IsCaseOf []referenceFragment `json:"isCaseOf"`
	}{[]referenceFragment{{Keys: []keyFragment{{Value: value}}}}})
	if err != nil {
		return persistence.Filter{}, fmt.Errorf("isCaseOf fragment: %w", err)
	}
	return persistence.Filter{Fragment: string(fragment)}, nil
}

// DataSpecificationFilter matches concept descriptions carrying an
// embedded data specification whose reference names the given key
// value, via JSONB containment.
func DataSpecificationFilter(value string) (persistence.Filter, error) {
	fragment, err := jsoniter.Marshal(struct {
		EmbeddedDataSpecifications []dataSpecificationFragment `json:"embeddedDataSpecifications"`
	}{[]dataSpecificationFragment{{DataSpecification: referenceFragment{Keys: []keyFragment{{Value: value}}}}}})
	if err != nil {
		return persistence.Filter{}, fmt.Errorf("dataSpecificationRef fragment: %w", err)
	}
	return persistence.Filter{Fragment: string(fragment)}, nil
}
