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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		ID:        "urn:example:sm:with.dots[and]brackets",
	}
	out, err := DecodeCursor(EncodeCursor(in))
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.ID, out.ID)
}

func TestDecodeCursorEmptyMeansStart(t *testing.T) {
	out, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = DecodeCursor("   ")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{
		"not base64url!",
		EncodeString("no separator here"),
		EncodeString("not-a-timestamp\x00id"),
	} {
		_, err := DecodeCursor(token)
		require.Error(t, err, "token %q should not decode", token)
		assert.Equal(t, KindInvalidDocument, KindOf(err))
	}
}

func TestWritePagedBytesFramesItemsVerbatim(t *testing.T) {
	items := [][]byte{
		[]byte(`{"id":"a"}`),
		[]byte(`{"id":"b"}`),
	}
	var buf bytes.Buffer
	require.NoError(t, WritePagedBytes(&buf, items, "CURSOR"))

	assert.Equal(t, `{"result":[{"id":"a"},{"id":"b"}],"paging_metadata":{"cursor":"CURSOR"}}`, buf.String())

	// The framing must stay parseable as the generic envelope.
	var envelope PagedResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Equal(t, "CURSOR", envelope.PagingMetadata.Cursor)
}

func TestWritePagedBytesEmptyPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePagedBytes(&buf, nil, ""))
	assert.Equal(t, `{"result":[],"paging_metadata":{}}`, buf.String())
}
