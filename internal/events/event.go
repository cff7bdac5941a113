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

// Package events implements the in-process publish/subscribe substrate
// and the micro-batch writer sitting between the bus and auxiliary
// sinks.
package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/titan-aas/titan-go-components/internal/common"
)

// EventType classifies a mutation.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// EntityKind discriminates the event kinds of the bus.
type EntityKind string

const (
	KindAAS                 EntityKind = "aas"
	KindSubmodel            EntityKind = "submodel"
	KindSubmodelElement     EntityKind = "submodel_element"
	KindConceptDescription  EntityKind = "concept_description"
	KindShellDescriptor     EntityKind = "shell_descriptor"
	KindSubmodelDescriptor  EntityKind = "submodel_descriptor"
	KindOperationInvocation EntityKind = "operation_invocation"
)

// Event is one mutation observed by the bus. DocBytes and ETag are nil
// for deletes; IDShortPath is set for element events.
type Event struct {
	EventID       string
	Timestamp     time.Time
	Type          EventType
	Entity        EntityKind
	Identifier    string
	IdentifierB64 string
	IDShortPath   string
	DocBytes      []byte
	ETag          string
}

// NewEvent stamps a fresh event with id, timestamp and both identifier
// forms.
func NewEvent(entity EntityKind, eventType EventType, identifier string, docBytes []byte, etag string) Event {
	return Event{
		EventID:       uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Type:          eventType,
		Entity:        entity,
		Identifier:    identifier,
		IdentifierB64: common.EncodeString(identifier),
		DocBytes:      docBytes,
		ETag:          etag,
	}
}

// Topic renders the broadcast topic of the event:
// titan/{entity}/{identifierB64}/{eventType}.
func (e Event) Topic() string {
	return fmt.Sprintf("titan/%s/%s/%s", e.Entity, e.IdentifierB64, e.Type)
}

// wireEvent is the broadcast wire format.
type wireEvent struct {
	EventID       string `json:"eventId"`
	EventType     string `json:"eventType"`
	Entity        string `json:"entity"`
	Identifier    string `json:"identifier"`
	IdentifierB64 string `json:"identifierB64"`
	Timestamp     string `json:"timestamp"`
	ETag          string `json:"etag,omitempty"`
	IDShortPath   string `json:"idShortPath,omitempty"`
}

var eventJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalWire renders the broadcast JSON of the event. Deletes carry no
// etag.
func (e Event) MarshalWire() ([]byte, error) {
	return eventJSON.Marshal(wireEvent{
		EventID:       e.EventID,
		EventType:     string(e.Type),
		Entity:        string(e.Entity),
		Identifier:    e.Identifier,
		IdentifierB64: e.IdentifierB64,
		Timestamp:     e.Timestamp.Format(time.RFC3339Nano),
		ETag:          e.ETag,
		IDShortPath:   e.IDShortPath,
	})
}
