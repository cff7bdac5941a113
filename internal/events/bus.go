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

package events

import (
	"context"
	"hash/fnv"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/titan-aas/titan-go-components/internal/common"
)

// Handler consumes one event. A handler that exceeds the subscriber
// timeout has its event dropped, never the bus blocked.
type Handler func(ctx context.Context, ev Event)

type subscriber struct {
	id      int64
	name    string
	handler Handler
}

// Bus is the bounded in-process publish/subscribe bus. Events with the
// same identifier land on the same partition worker, so per-entity
// ordering is preserved; ordering across entities is not guaranteed.
type Bus struct {
	partitions        []chan Event
	subscriberTimeout time.Duration

	mu          sync.RWMutex
	subscribers []subscriber
	nextSubID   int64

	pending int64
	dropped int64

	cancel  context.CancelFunc
	workers sync.WaitGroup
	started bool
}

// BusOptions sizes the bus.
type BusOptions struct {
	BufferSize        int
	Partitions        int
	SubscriberTimeout time.Duration
}

// NewBus creates a stopped bus; call Start before publishing.
func NewBus(opts BusOptions) *Bus {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 10000
	}
	if opts.Partitions <= 0 {
		opts.Partitions = 8
	}
	if opts.SubscriberTimeout <= 0 {
		opts.SubscriberTimeout = 5 * time.Second
	}
	perPartition := opts.BufferSize / opts.Partitions
	if perPartition < 1 {
		perPartition = 1
	}
	partitions := make([]chan Event, opts.Partitions)
	for i := range partitions {
		partitions[i] = make(chan Event, perPartition)
	}
	return &Bus{
		partitions:        partitions,
		subscriberTimeout: opts.SubscriberTimeout,
	}
}

// Start launches one worker per partition.
func (b *Bus) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	ctx, b.cancel = context.WithCancel(ctx)
	for i := range b.partitions {
		b.workers.Add(1)
		go b.run(ctx, b.partitions[i])
	}
	b.started = true
}

// Publish enqueues the event without blocking. A full partition returns
// an EventBusSaturated error; the caller's write has already committed,
// so the handler reports 500 while the store stays consistent.
func (b *Bus) Publish(ev Event) error {
	p := b.partitions[b.partitionOf(ev.Identifier)]
	select {
	case p <- ev:
		atomic.AddInt64(&b.pending, 1)
		return nil
	default:
		atomic.AddInt64(&b.dropped, 1)
		return common.NewErrEventBusSaturated()
	}
}

// Subscribe registers a handler for every subsequent event. The returned
// function unsubscribes.
func (b *Bus) Subscribe(name string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextSubID++
	id := b.nextSubID
	b.subscribers = append(b.subscribers, subscriber{id: id, name: name, handler: handler})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subscribers {
			if sub.id == id {
				b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Drain blocks until every queued event has been delivered or the
// context expires.
func (b *Bus) Drain(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		if atomic.LoadInt64(&b.pending) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Stop drains with the given context, then stops the workers.
func (b *Bus) Stop(ctx context.Context) error {
	err := b.Drain(ctx)
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.started = false
	b.mu.Unlock()
	b.workers.Wait()
	return err
}

// Dropped reports how many publishes failed on a saturated bus.
func (b *Bus) Dropped() int64 { return atomic.LoadInt64(&b.dropped) }

func (b *Bus) partitionOf(identifier string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identifier))
	return int(h.Sum32() % uint32(len(b.partitions)))
}

func (b *Bus) run(ctx context.Context, partition chan Event) {
	defer b.workers.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-partition:
			b.deliver(ctx, ev)
			atomic.AddInt64(&b.pending, -1)
		}
	}
}

func (b *Bus) deliver(ctx context.Context, ev Event) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subs {
		callCtx, cancel := context.WithTimeout(ctx, b.subscriberTimeout)
		done := make(chan struct{})
		go func(h Handler) {
			defer close(done)
			h(callCtx, ev)
		}(sub.handler)
		select {
		case <-done:
		case <-callCtx.Done():
			log.Printf("subscriber %q timed out, event %s dropped for it", sub.name, ev.EventID)
		}
		cancel()
	}
}
