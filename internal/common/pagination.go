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

package common

import (
	"bytes"
	"io"
	"strings"
	"time"
)

// PagingMetadata carries the opaque cursor of the next page; an empty
// cursor means the traversal is complete.
type PagingMetadata struct {
	Cursor string `json:"cursor,omitempty"`
}

// PagedResult is the generic paginated response envelope.
type PagedResult struct {
	Result         any            `json:"result"`
	PagingMetadata PagingMetadata `json:"paging_metadata"`
}

// Cursor is the decoded position of a list traversal: the stable
// (created_at, id) sort key of the last row already returned.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

const cursorSeparator = "\x00"

// EncodeCursor renders a cursor as an opaque base64url token.
func EncodeCursor(c Cursor) string {
	return EncodeString(c.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSeparator + c.ID)
}

// DecodeCursor parses an opaque cursor token. An empty token denotes the
// start of the traversal and yields a nil cursor.
func DecodeCursor(token string) (*Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	raw, err := DecodeString(token)
	if err != nil {
		return nil, NewErrInvalidDocument("malformed cursor")
	}
	sep := strings.Index(raw, cursorSeparator)
	if sep < 0 {
		return nil, NewErrInvalidDocument("malformed cursor")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, raw[:sep])
	if err != nil {
		return nil, NewErrInvalidDocument("malformed cursor")
	}
	return &Cursor{CreatedAt: createdAt, ID: raw[sep+1:]}, nil
}

// WritePagedBytes frames a paginated list response directly from the
// stored canonical byte images, without parsing or re-serializing any
// item. This is the zero-copy fast list path.
func WritePagedBytes(w io.Writer, items [][]byte, nextCursor string) error {
	buf := new(bytes.Buffer)
	buf.WriteString(`{"result":[`)
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(item)
	}
	buf.WriteString(`],"paging_metadata":{`)
	if nextCursor != "" {
		buf.WriteString(`"cursor":`)
		quoted, err := canonicalJSON.Marshal(nextCursor)
		if err != nil {
			return err
		}
		buf.Write(quoted)
	}
	buf.WriteString(`}}`)
	_, err := w.Write(buf.Bytes())
	return err
}
