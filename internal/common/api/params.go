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

// Package api holds the request orchestration shared by every entity
// repository: parameter parsing, the cached fast read path and the
// ordered write fan-out.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/titan-aas/titan-go-components/internal/common"
	"github.com/titan-aas/titan-go-components/internal/common/projection"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// ParseLimit reads the limit query parameter, clamped to 1..1000 with
// default 100. limit=0 is passed through: it yields an empty page whose
// cursor only survives if more rows exist.
func ParseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, common.NewErrInvalidDocument("limit must be a non-negative integer")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}

// ParseProjection reads level and extent query parameters and combines
// them with the path-token modifier.
func ParseProjection(r *http.Request, modifier projection.Modifier) (projection.Options, error) {
	opts := projection.Options{Modifier: modifier}
	switch level := r.URL.Query().Get("level"); level {
	case "", string(projection.LevelDeep):
	case string(projection.LevelCore):
		opts.Level = projection.LevelCore
	default:
		return opts, common.NewErrInvalidDocument("level must be core or deep")
	}
	switch extent := r.URL.Query().Get("extent"); extent {
	case "", string(projection.ExtentWithBlobValue):
	case string(projection.ExtentWithoutBlobValue):
		opts.Extent = projection.ExtentWithoutBlobValue
	default:
		return opts, common.NewErrInvalidDocument("extent must be withBlobValue or withoutBlobValue")
	}
	return opts, nil
}

// IfMatch returns the unquoted If-Match header value, or empty when the
// request is unconditional.
func IfMatch(r *http.Request) string {
	return unquoteETag(r.Header.Get("If-Match"))
}

// IfNoneMatch returns the unquoted If-None-Match header value.
func IfNoneMatch(r *http.Request) string {
	return unquoteETag(r.Header.Get("If-None-Match"))
}

func unquoteETag(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "W/")
	return strings.Trim(v, `"`)
}

// WriteDocument emits a canonical byte image with its ETag.
func WriteDocument(w http.ResponseWriter, status int, docBytes []byte, etag string) {
	w.Header().Set("Content-Type", "application/json")
	if etag != "" {
		w.Header().Set("ETag", `"`+etag+`"`)
	}
	w.WriteHeader(status)
	_, _ = w.Write(docBytes)
}

// WriteJSON serializes a projection result. Projection responses carry
// the ETag of the underlying document.
func WriteJSON(w http.ResponseWriter, status int, v any, etag string) {
	body, err := common.CanonicalBytes(v)
	if err != nil {
		common.WriteErrorResponse(w, err)
		return
	}
	WriteDocument(w, status, body, etag)
}
