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
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// ErrorKind classifies a service error. Every component returns kinds
// from this taxonomy; the handler layer owns the mapping to HTTP status.
type ErrorKind string

const (
	KindInvalidIdentifierEncoding ErrorKind = "InvalidIdentifierEncoding"
	KindInvalidDocument           ErrorKind = "InvalidDocument"
	KindInvalidPath               ErrorKind = "InvalidPath"
	KindNotFound                  ErrorKind = "NotFound"
	KindElementNotFound           ErrorKind = "ElementNotFound"
	KindAlreadyExists             ErrorKind = "AlreadyExists"
	KindElementAlreadyExists      ErrorKind = "ElementAlreadyExists"
	KindPreconditionFailed        ErrorKind = "PreconditionFailed"
	KindStoreUnavailable          ErrorKind = "StoreUnavailable"
	KindEventBusSaturated         ErrorKind = "EventBusSaturated"
	KindUnauthorized              ErrorKind = "Unauthorized"
	KindForbidden                 ErrorKind = "Forbidden"
	KindInternal                  ErrorKind = "Internal"
)

// ServiceError is the typed error that travels from persistence, cache
// and event components up to the handlers.
type ServiceError struct {
	Kind ErrorKind
	Text string
}

func (e *ServiceError) Error() string {
	return string(e.Kind) + ": " + e.Text
}

func newError(kind ErrorKind, format string, args ...any) *ServiceError {
	return &ServiceError{Kind: kind, Text: fmt.Sprintf(format, args...)}
}

func NewErrInvalidIdentifierEncoding(encoded string) error {
	return newError(KindInvalidIdentifierEncoding, "not a valid unpadded base64url value: %q", encoded)
}

func NewErrInvalidDocument(detail string) error {
	return newError(KindInvalidDocument, "%s", detail)
}

func NewErrInvalidPath(path string) error {
	return newError(KindInvalidPath, "malformed idShortPath: %q", path)
}

func NewErrNotFound(identifier string) error {
	return newError(KindNotFound, "no entity with identifier %q", identifier)
}

func NewErrElementNotFound(path string) error {
	return newError(KindElementNotFound, "no element at idShortPath %q", path)
}

func NewErrAlreadyExists(identifier string) error {
	return newError(KindAlreadyExists, "identifier %q already present", identifier)
}

func NewErrElementAlreadyExists(idShort string) error {
	return newError(KindElementAlreadyExists, "element with idShort %q already present in collection", idShort)
}

func NewErrPreconditionFailed(expected, actual string) error {
	return newError(KindPreconditionFailed, "etag mismatch: If-Match %s, current %s", expected, actual)
}

func NewErrStoreUnavailable(cause error) error {
	return newError(KindStoreUnavailable, "authoritative store unavailable: %v", cause)
}

func NewErrEventBusSaturated() error {
	return newError(KindEventBusSaturated, "event bus buffer full")
}

func NewErrInternal(detail string) error {
	return newError(KindInternal, "%s", detail)
}

// KindOf extracts the ErrorKind from an error chain. Unclassified errors
// report KindInternal.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func IsErrNotFound(err error) bool      { return IsKind(err, KindNotFound) }
func IsErrAlreadyExists(err error) bool { return IsKind(err, KindAlreadyExists) }

// HTTPStatus maps an error kind to the response status code.
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindInvalidIdentifierEncoding, KindInvalidDocument, KindInvalidPath:
		return http.StatusBadRequest
	case KindNotFound, KindElementNotFound:
		return http.StatusNotFound
	case KindAlreadyExists, KindElementAlreadyExists:
		return http.StatusConflict
	case KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case KindStoreUnavailable, KindEventBusSaturated:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message is a single entry of the IDTA error body.
type Message struct {
	Code        string `json:"code,omitempty"`
	Text        string `json:"text"`
	MessageType string `json:"messageType"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// MessageList is the error body shape required by the IDTA API:
// {"messages": [...]}.
type MessageList struct {
	Messages []Message `json:"messages"`
}

var errorJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteErrorResponse maps err onto its HTTP status and writes the IDTA
// messages body.
func WriteErrorResponse(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	status := HTTPStatus(kind)
	if status == http.StatusInternalServerError {
		log.Printf("unexpected error surfaced to handler: %v", err)
	}
	body := MessageList{Messages: []Message{{
		Code:        string(kind),
		Text:        err.Error(),
		MessageType: "Error",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}}}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := errorJSON.NewEncoder(w).Encode(body); encodeErr != nil {
		log.Printf("failed to write error body: %v", encodeErr)
	}
}
