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
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/titan-aas/titan-go-components/internal/common"
)

var inmemJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// InMemoryEntityStore is a map-backed implementation of the entity store
// operations, used by handler tests and single-process deployments
// without a database.
type InMemoryEntityStore struct {
	mu           sync.RWMutex
	rows         map[string]*memRow
	extraColumns []string
	counter      int64
}

type memRow struct {
	identifier string
	docBytes   []byte
	etag       string
	extra      []any
	createdAt  time.Time
	seq        int64
}

// NewInMemoryEntityStore creates an empty in-memory store. The extra
// column names, when given, align with Record.Extra the same way the
// Postgres store's configured columns do, so column filters resolve.
func NewInMemoryEntityStore(extraColumns ...string) *InMemoryEntityStore {
	return &InMemoryEntityStore{rows: make(map[string]*memRow), extraColumns: extraColumns}
}

func (s *InMemoryEntityStore) GetByID(_ context.Context, _ Querier, identifier string) (*Row, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[identifier]
	if !ok {
		return nil, false, nil
	}
	return &Row{DocBytes: row.docBytes, ETag: row.etag}, true, nil
}

func (s *InMemoryEntityStore) GetByIDB64(ctx context.Context, q Querier, idB64 string) (*Row, bool, error) {
	identifier, err := common.DecodeString(idB64)
	if err != nil {
		return nil, false, err
	}
	return s.GetByID(ctx, q, identifier)
}

func (s *InMemoryEntityStore) GetModelByID(ctx context.Context, q Querier, identifier string) ([]byte, bool, error) {
	row, found, err := s.GetByID(ctx, q, identifier)
	if err != nil || !found {
		return nil, found, err
	}
	return row.DocBytes, true, nil
}

func (s *InMemoryEntityStore) Exists(_ context.Context, _ Querier, identifier string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rows[identifier]
	return ok, nil
}

func (s *InMemoryEntityStore) Create(_ context.Context, _ Querier, rec Record) error {
	if rec.Identifier == "" || len(rec.Identifier) > MaxIdentifierLength {
		return common.NewErrInvalidDocument("invalid identifier")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rows[rec.Identifier]; exists {
		return common.NewErrAlreadyExists(rec.Identifier)
	}
	s.counter++
	s.rows[rec.Identifier] = &memRow{
		identifier: rec.Identifier,
		docBytes:   rec.DocBytes,
		etag:       rec.ETag,
		extra:      rec.Extra,
		createdAt:  time.Now().UTC(),
		seq:        s.counter,
	}
	return nil
}

func (s *InMemoryEntityStore) Update(_ context.Context, _ Querier, rec Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, exists := s.rows[rec.Identifier]
	if !exists {
		return false, nil
	}
	row.docBytes = rec.DocBytes
	row.etag = rec.ETag
	row.extra = rec.Extra
	return true, nil
}

func (s *InMemoryEntityStore) Delete(_ context.Context, _ Querier, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rows[identifier]; !exists {
		return false, nil
	}
	delete(s.rows, identifier)
	return true, nil
}

// ListPage pages over rows in insertion order, mirroring the Postgres
// (created_at, id) ordering closely enough for handler tests. Column
// filters match the configured extra columns, fragment filters match by
// JSON containment over the stored document.
func (s *InMemoryEntityStore) ListPage(_ context.Context, _ Querier, limit int, cursorToken string, filters ...Filter) (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := make([]*memRow, 0, len(s.rows))
	for _, row := range s.rows {
		match, err := s.matches(row, filters)
		if err != nil {
			return nil, err
		}
		if match {
			ordered = append(ordered, row)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	start := 0
	if cursorToken != "" {
		cursor, err := common.DecodeCursor(cursorToken)
		if err != nil {
			return nil, err
		}
		for i, row := range ordered {
			if row.identifier == cursor.ID {
				start = i + 1
				break
			}
		}
	}
	remaining := ordered[start:]
	if limit <= 0 {
		page := &Page{}
		if len(remaining) > 0 {
			page.NextCursor = cursorToken
		}
		return page, nil
	}
	page := &Page{}
	for i, row := range remaining {
		if i == limit {
			last := remaining[i-1]
			page.NextCursor = common.EncodeCursor(common.Cursor{CreatedAt: last.createdAt, ID: last.identifier})
			break
		}
		page.Items = append(page.Items, row.docBytes)
	}
	return page, nil
}

func (s *InMemoryEntityStore) matches(row *memRow, filters []Filter) (bool, error) {
	for _, f := range filters {
		if f.Fragment != "" {
			var doc, fragment any
			if err := inmemJSON.Unmarshal(row.docBytes, &doc); err != nil {
				return false, err
			}
			if err := inmemJSON.Unmarshal([]byte(f.Fragment), &fragment); err != nil {
				return false, err
			}
			if !containsJSON(doc, fragment) {
				return false, nil
			}
			continue
		}
		idx := -1
		for i, col := range s.extraColumns {
			if col == f.Column {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, fmt.Errorf("unknown filter column %q", f.Column)
		}
		if idx >= len(row.extra) || row.extra[idx] != f.Value {
			return false, nil
		}
	}
	return true, nil
}

// containsJSON mirrors the JSONB containment operator: every key of an
// object fragment must be contained in the target, every element of an
// array fragment must be contained by some target element, scalars
// compare by equality.
func containsJSON(doc, fragment any) bool {
	switch f := fragment.(type) {
	case map[string]any:
		d, ok := doc.(map[string]any)
		if !ok {
			return false
		}
		for key, fv := range f {
			dv, present := d[key]
			if !present || !containsJSON(dv, fv) {
				return false
			}
		}
		return true
	case []any:
		d, ok := doc.([]any)
		if !ok {
			return false
		}
		for _, fe := range f {
			matched := false
			for _, de := range d {
				if containsJSON(de, fe) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(doc, fragment)
	}
}
