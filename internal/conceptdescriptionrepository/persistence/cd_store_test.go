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

package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCaseOfFilterFragment(t *testing.T) {
	filter, err := IsCaseOfFilter("urn:iec:0173")
	require.NoError(t, err)
	assert.Equal(t, `{"isCaseOf":[{"keys":[{"value":"urn:iec:0173"}]}]}`, filter.Fragment)
	assert.Empty(t, filter.Column)
}

func TestDataSpecificationFilterFragment(t *testing.T) {
	filter, err := DataSpecificationFilter("urn:iec61360")
	require.NoError(t, err)
	assert.Equal(t,
		`{"embeddedDataSpecifications":[{"dataSpecification":{"keys":[{"value":"urn:iec61360"}]}}]}`,
		filter.Fragment)
}

func TestListPageAppliesContainmentFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := NewConceptDescriptionStore(db)

	filter, err := IsCaseOfFilter("urn:iec:0173")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT identifier, doc_bytes, created_at FROM concept_descriptions WHERE doc @> $1::jsonb ORDER BY created_at ASC, identifier ASC LIMIT $2`)).
		WithArgs(filter.Fragment, 11).
		WillReturnRows(sqlmock.NewRows([]string{"identifier", "doc_bytes", "created_at"}).
			AddRow("urn:cd:1", []byte(`{"id":"urn:cd:1"}`), time.Now()))

	page, err := store.ListPage(context.Background(), nil, 10, "", filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, []byte(`{"id":"urn:cd:1"}`), page.Items[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
