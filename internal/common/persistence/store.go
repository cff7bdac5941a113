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
	"database/sql"
)

// Store is the operation set every entity class store provides. The
// Postgres EntityStore and the in-memory test store both satisfy it.
type Store interface {
	GetByID(ctx context.Context, q Querier, identifier string) (*Row, bool, error)
	GetByIDB64(ctx context.Context, q Querier, idB64 string) (*Row, bool, error)
	GetModelByID(ctx context.Context, q Querier, identifier string) ([]byte, bool, error)
	Exists(ctx context.Context, q Querier, identifier string) (bool, error)
	Create(ctx context.Context, q Querier, rec Record) error
	Update(ctx context.Context, q Querier, rec Record) (bool, error)
	Delete(ctx context.Context, q Querier, identifier string) (bool, error)
	ListPage(ctx context.Context, q Querier, limit int, cursor string, filters ...Filter) (*Page, error)
}

// TxBeginner is implemented by stores that run writes inside a
// caller-committed transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (*sql.Tx, error)
}

// BeginIfSupported opens a transaction when the store supports one. The
// in-memory store does not; callers then pass a nil Querier and the
// commit callback is a no-op.
func BeginIfSupported(ctx context.Context, store Store) (Querier, func() error, func(), error) {
	beginner, ok := store.(TxBeginner)
	if !ok {
		return nil, func() error { return nil }, func() {}, nil
	}
	tx, err := beginner.Begin(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, tx.Commit, func() { _ = tx.Rollback() }, nil
}
