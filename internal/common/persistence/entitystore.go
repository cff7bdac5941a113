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

// Package persistence implements the authoritative dual-representation
// store. Every entity row carries the structured document (JSONB, for
// containment queries), the canonical byte image (BYTEA, for zero-copy
// reads) and the content-addressed etag as a mutually consistent triple.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/titan-aas/titan-go-components/internal/common"
)

// MaxIdentifierLength bounds the raw identifier size; longer values are
// rejected at the persistence layer.
const MaxIdentifierLength = 4096

// Querier abstracts *sql.DB and *sql.Tx so store methods run either
// standalone or inside a caller-committed transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Row is the fast-path read result: the canonical byte image and its
// etag.
type Row struct {
	DocBytes []byte
	ETag     string
}

// Record is a full row to be written.
type Record struct {
	Identifier string
	DocBytes   []byte
	ETag       string
	// Extra holds values for the store's configured secondary columns,
	// aligned with ExtraColumns. Nil entries store SQL NULL.
	Extra []any
}

// Filter is a predicate on the store. A column filter matches a
// secondary column by equality. A filter with Fragment set instead
// matches rows whose JSONB document contains the fragment, serving
// filterable attributes without a dedicated column.
type Filter struct {
	Column   string
	Value    any
	Fragment string
}

// Page is one cursor-paginated slice of canonical byte images.
type Page struct {
	Items      [][]byte
	NextCursor string
}

// EntityStore is a dual-representation store over one entity table.
// Table layout per entity: id UUID PK, identifier UNIQUE, identifier_b64
// UNIQUE, configured secondary columns, doc JSONB, doc_bytes BYTEA,
// etag CHAR(64), created_at, updated_at.
type EntityStore struct {
	db           *sql.DB
	table        string
	extraColumns []string
}

// NewEntityStore creates a store over the named table with the given
// extracted secondary columns.
func NewEntityStore(db *sql.DB, table string, extraColumns ...string) *EntityStore {
	return &EntityStore{db: db, table: table, extraColumns: extraColumns}
}

// DB exposes the underlying pool so handlers can open the request
// transaction that spans the write.
func (s *EntityStore) DB() *sql.DB { return s.db }

// Begin opens the caller-committed write transaction.
func (s *EntityStore) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewErrStoreUnavailable(err)
	}
	return tx, nil
}

// GetByID returns the fast-path (doc_bytes, etag) pair by raw
// identifier, or found=false when absent.
func (s *EntityStore) GetByID(ctx context.Context, q Querier, identifier string) (*Row, bool, error) {
	return s.getRow(ctx, q, "identifier", identifier)
}

// GetByIDB64 is the direct path lookup by encoded identifier, avoiding
// a decode/re-encode round trip on the hot read path.
func (s *EntityStore) GetByIDB64(ctx context.Context, q Querier, idB64 string) (*Row, bool, error) {
	return s.getRow(ctx, q, "identifier_b64", idB64)
}

func (s *EntityStore) getRow(ctx context.Context, q Querier, column, value string) (*Row, bool, error) {
	if q == nil {
		q = s.db
	}
	row := &Row{}
	query := fmt.Sprintf(`SELECT doc_bytes, etag FROM %s WHERE %s = $1`, s.table, column)
	err := q.QueryRowContext(ctx, query, value).Scan(&row.DocBytes, &row.ETag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, mapStoreError(err)
	}
	return row, true, nil
}

// GetModelByID returns the structured document bytes for the slow path.
// The doc column and doc_bytes carry the same image; the JSONB column
// exists for containment queries, doc_bytes for byte-stable serving.
func (s *EntityStore) GetModelByID(ctx context.Context, q Querier, identifier string) ([]byte, bool, error) {
	row, found, err := s.GetByID(ctx, q, identifier)
	if err != nil || !found {
		return nil, found, err
	}
	return row.DocBytes, true, nil
}

// Exists reports whether the identifier is present.
func (s *EntityStore) Exists(ctx context.Context, q Querier, identifier string) (bool, error) {
	if q == nil {
		q = s.db
	}
	var one int
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE identifier = $1`, s.table)
	err := q.QueryRowContext(ctx, query, identifier).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapStoreError(err)
	}
	return true, nil
}

// Create inserts a new row. Fails with AlreadyExists when the identifier
// is present and with InvalidDocument when the identifier exceeds the
// size bound.
func (s *EntityStore) Create(ctx context.Context, q Querier, rec Record) error {
	if err := s.checkRecord(rec); err != nil {
		return err
	}
	if q == nil {
		q = s.db
	}
	columns := []string{"id", "identifier", "identifier_b64", "doc", "doc_bytes", "etag", "created_at", "updated_at"}
	now := time.Now().UTC()
	args := []any{uuid.NewString(), rec.Identifier, common.EncodeString(rec.Identifier), string(rec.DocBytes), rec.DocBytes, rec.ETag, now, now}
	for i, col := range s.extraColumns {
		columns = append(columns, col)
		args = append(args, extraArg(rec.Extra, i))
	}
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		s.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return common.NewErrAlreadyExists(rec.Identifier)
		}
		return mapStoreError(err)
	}
	return nil
}

// Update replaces the document whole, recomputing every extracted
// attribute and bumping updated_at. Returns found=false when the
// identifier is absent.
func (s *EntityStore) Update(ctx context.Context, q Querier, rec Record) (bool, error) {
	if err := s.checkRecord(rec); err != nil {
		return false, err
	}
	if q == nil {
		q = s.db
	}
	sets := []string{"doc = $1", "doc_bytes = $2", "etag = $3", "updated_at = $4"}
	args := []any{string(rec.DocBytes), rec.DocBytes, rec.ETag, time.Now().UTC()}
	for i, col := range s.extraColumns {
		args = append(args, extraArg(rec.Extra, i))
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, rec.Identifier)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE identifier = $%d`,
		s.table, strings.Join(sets, ", "), len(args))
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, mapStoreError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapStoreError(err)
	}
	return affected > 0, nil
}

// Delete removes the row. Returns false when the identifier was absent;
// a second delete of the same identifier is a no-op.
func (s *EntityStore) Delete(ctx context.Context, q Querier, identifier string) (bool, error) {
	if q == nil {
		q = s.db
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE identifier = $1`, s.table)
	result, err := q.ExecContext(ctx, query, identifier)
	if err != nil {
		return false, mapStoreError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapStoreError(err)
	}
	return affected > 0, nil
}

// ListPage returns one cursor page ordered by the stable
// (created_at, id) pair. The query runs with limit+1 to probe for a
// next page; pages are contiguous and stable under concurrent inserts.
func (s *EntityStore) ListPage(ctx context.Context, q Querier, limit int, cursorToken string, filters ...Filter) (*Page, error) {
	if q == nil {
		q = s.db
	}
	cursor, err := common.DecodeCursor(cursorToken)
	if err != nil {
		return nil, err
	}

	where := make([]string, 0, len(filters)+1)
	args := make([]any, 0, len(filters)+3)
	for _, f := range filters {
		if f.Fragment != "" {
			args = append(args, f.Fragment)
			where = append(where, fmt.Sprintf("doc @> $%d::jsonb", len(args)))
			continue
		}
		args = append(args, f.Value)
		where = append(where, fmt.Sprintf("%s = $%d", f.Column, len(args)))
	}
	if cursor != nil {
		args = append(args, cursor.CreatedAt)
		createdArg := len(args)
		args = append(args, cursor.ID)
		where = append(where, fmt.Sprintf("(created_at, identifier) > ($%d, $%d)", createdArg, createdArg+1))
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	if limit <= 0 {
		// Empty page; the cursor survives only if rows remain.
		query := fmt.Sprintf(`SELECT 1 FROM %s%s LIMIT 1`, s.table, whereClause)
		var one int
		err := q.QueryRowContext(ctx, query, args...).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return &Page{}, nil
		}
		if err != nil {
			return nil, mapStoreError(err)
		}
		return &Page{NextCursor: cursorToken}, nil
	}

	args = append(args, limit+1)
	query := fmt.Sprintf(
		`SELECT identifier, doc_bytes, created_at FROM %s%s ORDER BY created_at ASC, identifier ASC LIMIT $%d`,
		s.table, whereClause, len(args))
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	page := &Page{}
	var lastID string
	var lastCreated time.Time
	for rows.Next() {
		var identifier string
		var docBytes []byte
		var createdAt time.Time
		if err := rows.Scan(&identifier, &docBytes, &createdAt); err != nil {
			return nil, mapStoreError(err)
		}
		if len(page.Items) == limit {
			// The probe row exists, so the page before it has a successor.
			page.NextCursor = common.EncodeCursor(common.Cursor{CreatedAt: lastCreated, ID: lastID})
			return page, rows.Err()
		}
		page.Items = append(page.Items, docBytes)
		lastID = identifier
		lastCreated = createdAt
	}
	return page, rows.Err()
}

// FindOneBy returns the first row whose secondary column equals value.
func (s *EntityStore) FindOneBy(ctx context.Context, q Querier, column string, value any) (*Row, bool, error) {
	if q == nil {
		q = s.db
	}
	row := &Row{}
	query := fmt.Sprintf(`SELECT doc_bytes, etag FROM %s WHERE %s = $1 ORDER BY created_at ASC LIMIT 1`, s.table, column)
	err := q.QueryRowContext(ctx, query, value).Scan(&row.DocBytes, &row.ETag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, mapStoreError(err)
	}
	return row, true, nil
}

// FindByContainment returns rows whose JSONB document contains the given
// fragment, used for filterable attributes without dedicated columns.
func (s *EntityStore) FindByContainment(ctx context.Context, q Querier, fragment string, limit int) ([][]byte, error) {
	if q == nil {
		q = s.db
	}
	query := fmt.Sprintf(
		`SELECT doc_bytes FROM %s WHERE doc @> $1::jsonb ORDER BY created_at ASC, identifier ASC LIMIT $2`,
		s.table)
	rows, err := q.QueryContext(ctx, query, fragment, limit)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer rows.Close()
	var out [][]byte
	for rows.Next() {
		var docBytes []byte
		if err := rows.Scan(&docBytes); err != nil {
			return nil, mapStoreError(err)
		}
		out = append(out, docBytes)
	}
	return out, rows.Err()
}

func (s *EntityStore) checkRecord(rec Record) error {
	if rec.Identifier == "" {
		return common.NewErrInvalidDocument("identifier must not be empty")
	}
	if len(rec.Identifier) > MaxIdentifierLength {
		return common.NewErrInvalidDocument(
			fmt.Sprintf("identifier exceeds %d bytes", MaxIdentifierLength))
	}
	return nil
}

func extraArg(extra []any, i int) any {
	if i >= len(extra) {
		return nil
	}
	return extra[i]
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func mapStoreError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08 is connection failure; everything else surfaces as-is.
		if strings.HasPrefix(string(pqErr.Code), "08") {
			return common.NewErrStoreUnavailable(err)
		}
		return err
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return common.NewErrStoreUnavailable(err)
	}
	return err
}
