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
	"crypto/sha256"
	"encoding/hex"

	jsoniter "github.com/json-iterator/go"
)

// canonicalJSON is the single encoder configuration used for every byte
// image the server persists or serves. Key order is the struct field
// order of the model types, which is stable across runs and restarts;
// absent optional fields are omitted via omitempty, and there is no
// insignificant whitespace.
var canonicalJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// CanonicalBytes produces the canonical byte image of a document. NaN
// and infinite numeric values cannot be represented in JSON and are
// rejected with InvalidDocument.
func CanonicalBytes(doc any) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := canonicalJSON.NewEncoder(buf)
	if err := enc.Encode(doc); err != nil {
		return nil, NewErrInvalidDocument("document is not canonically encodable: " + err.Error())
	}
	// Encoder appends a trailing newline; the canonical image carries none.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ETagOf derives the content-addressed version token of a byte image:
// the lowercase hex SHA-256 of the canonical bytes.
func ETagOf(docBytes []byte) string {
	sum := sha256.Sum256(docBytes)
	return hex.EncodeToString(sum[:])
}

// Canonicalize returns the (doc_bytes, etag) pair for a document in one
// step. Given any freshly produced pair, sha256(doc_bytes) == etag and
// re-parsing then re-serializing doc_bytes yields the same bytes.
func Canonicalize(doc any) ([]byte, string, error) {
	docBytes, err := CanonicalBytes(doc)
	if err != nil {
		return nil, "", err
	}
	return docBytes, ETagOf(docBytes), nil
}
