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

package cache

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	jsoniter "github.com/json-iterator/go"
)

// InvalidationChannel is the broker pub/sub channel that keeps
// horizontally scaled replicas cache-consistent.
const InvalidationChannel = "titan:cache:invalidation"

var invalidationJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// InvalidationScope selects what a message invalidates.
type InvalidationScope string

const (
	ScopeAAS                InvalidationScope = "aas"
	ScopeSubmodel           InvalidationScope = "submodel"
	ScopeElement            InvalidationScope = "element"
	ScopeConceptDescription InvalidationScope = "concept_description"
	ScopeAll                InvalidationScope = "all"
)

// InvalidationMessage is the wire format on the invalidation channel.
type InvalidationMessage struct {
	Type          InvalidationScope `json:"type"`
	IdentifierB64 string            `json:"identifier_b64,omitempty"`
	IDShortPath   string            `json:"id_short_path,omitempty"`
}

// Invalidator publishes invalidation messages after a committed
// mutation and applies incoming messages to the local cache.
type Invalidator struct {
	rdb   *redis.Client
	cache *ByteCache
}

// NewInvalidator wires the invalidation channel to the local cache.
func NewInvalidator(rdb *redis.Client, cache *ByteCache) *Invalidator {
	return &Invalidator{rdb: rdb, cache: cache}
}

// Publish broadcasts an invalidation. Publication is fire-and-forget: a
// failure is logged but never fails the request, because the mutation
// has already committed and TTL expiry bounds the staleness window.
func (i *Invalidator) Publish(ctx context.Context, msg InvalidationMessage) {
	payload, err := invalidationJSON.Marshal(msg)
	if err != nil {
		log.Printf("invalidation marshal failed: %v", err)
		return
	}
	if err := i.rdb.Publish(ctx, InvalidationChannel, payload).Err(); err != nil {
		log.Printf("invalidation publish failed: %v", err)
	}
}

// Apply invalidates the local cache according to one message. Local
// receipt of a replica's own message is harmless: it re-deletes a key
// that is either already fresh or about to be written.
func (i *Invalidator) Apply(ctx context.Context, msg InvalidationMessage) error {
	switch msg.Type {
	case ScopeAAS:
		return i.cache.Delete(ctx, EntityAAS, msg.IdentifierB64)
	case ScopeSubmodel:
		if err := i.cache.Delete(ctx, EntitySubmodel, msg.IdentifierB64); err != nil {
			return err
		}
		return i.cache.InvalidateSubmodelElements(ctx, msg.IdentifierB64)
	case ScopeElement:
		if msg.IDShortPath != "" {
			if err := i.cache.rdb.Del(ctx, ElementKey(msg.IdentifierB64, msg.IDShortPath)).Err(); err != nil {
				return err
			}
		}
		return i.cache.Delete(ctx, EntitySubmodel, msg.IdentifierB64)
	case ScopeConceptDescription:
		return i.cache.Delete(ctx, EntityConceptDescription, msg.IdentifierB64)
	case ScopeAll:
		return i.cache.Flush(ctx)
	default:
		log.Printf("unknown invalidation scope %q ignored", msg.Type)
		return nil
	}
}

const maxListenBackoff = 60 * time.Second

// Listen subscribes to the invalidation channel and applies every
// message until the context is canceled. Subscription failures are
// retried with exponential backoff plus jitter, capped at 60 seconds;
// the backoff restarts at one second after a session that delivered
// messages, so a flap following a long outage reconnects quickly.
func (i *Invalidator) Listen(ctx context.Context) {
	backoff := time.Second
	for {
		delivered, err := i.listenOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		if delivered {
			backoff = time.Second
		}
		if err != nil {
			log.Printf("invalidation listener error: %v, reconnecting in %s", err, backoff)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff + time.Duration(rand.Int63n(int64(backoff/2+1)))):
		}
		backoff = nextBackoff(backoff, delivered)
	}
}

// nextBackoff picks the delay before the subscribe attempt after next.
// A session that delivered messages was healthy, so its delay restarts
// at one second instead of compounding an earlier outage.
func nextBackoff(prev time.Duration, delivered bool) time.Duration {
	if delivered {
		return time.Second
	}
	next := prev * 2
	if next > maxListenBackoff {
		next = maxListenBackoff
	}
	return next
}

func (i *Invalidator) listenOnce(ctx context.Context) (delivered bool, err error) {
	sub := i.rdb.Subscribe(ctx, InvalidationChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return delivered, ctx.Err()
		case raw, ok := <-ch:
			if !ok {
				return delivered, nil
			}
			delivered = true
			var msg InvalidationMessage
			if err := invalidationJSON.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				log.Printf("malformed invalidation message dropped: %v", err)
				continue
			}
			if err := i.Apply(ctx, msg); err != nil {
				log.Printf("invalidation apply failed: %v", err)
			}
		}
	}
}
