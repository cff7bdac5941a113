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

// Package audit persists the mutation trail consumed off the micro-batch
// writer.
package audit

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/titan-aas/titan-go-components/internal/events"
)

// record is the audit document shape. Payload bytes are not persisted;
// the etag is enough to correlate with the authoritative store.
type record struct {
	EventID       string    `bson:"eventId"`
	EventType     string    `bson:"eventType"`
	Entity        string    `bson:"entity"`
	Identifier    string    `bson:"identifier"`
	IdentifierB64 string    `bson:"identifierB64"`
	IDShortPath   string    `bson:"idShortPath,omitempty"`
	ETag          string    `bson:"etag,omitempty"`
	Timestamp     time.Time `bson:"timestamp"`
}

// MongoSink writes event batches to an audit collection. It satisfies
// the batch writer's sink contract.
type MongoSink struct {
	collection *mongo.Collection
}

// NewMongoSink connects to the configured deployment and prepares the
// audit collection.
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("audit store connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("audit store ping: %w", err)
	}
	log.Println("✅ Connected to audit store")
	return &MongoSink{collection: client.Database(database).Collection(collection)}, nil
}

// WriteBatch inserts the batch in event order. Unordered inserts would
// be faster but would break the trail's per-entity ordering.
func (s *MongoSink) WriteBatch(ctx context.Context, batch []events.Event) error {
	if len(batch) == 0 {
		return nil
	}
	docs := make([]interface{}, len(batch))
	for i, ev := range batch {
		docs[i] = record{
			EventID:       ev.EventID,
			EventType:     string(ev.Type),
			Entity:        string(ev.Entity),
			Identifier:    ev.Identifier,
			IdentifierB64: ev.IdentifierB64,
			IDShortPath:   ev.IDShortPath,
			ETag:          ev.ETag,
			Timestamp:     ev.Timestamp,
		}
	}
	_, err := s.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// Close disconnects from the deployment.
func (s *MongoSink) Close(ctx context.Context) error {
	return s.collection.Database().Client().Disconnect(ctx)
}
