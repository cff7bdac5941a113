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

// Package subscriptions fans bus events out to filtered consumer
// streams, with WebSocket delivery as the built-in transport.
package subscriptions

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/titan-aas/titan-go-components/internal/events"
)

// queueCapacity bounds each subscription's delivery queue. A consumer
// slower than its queue loses the oldest events first.
const queueCapacity = 100

// Filter selects which events a subscription receives. Zero fields
// match everything.
type Filter struct {
	Entity     events.EntityKind
	EventTypes []events.EventType
	Identifier string
}

// Matches reports whether the event passes the filter.
func (f Filter) Matches(ev events.Event) bool {
	if f.Entity != "" && f.Entity != ev.Entity {
		return false
	}
	if f.Identifier != "" && f.Identifier != ev.Identifier {
		return false
	}
	if len(f.EventTypes) > 0 {
		found := false
		for _, t := range f.EventTypes {
			if t == ev.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Subscription is one consumer stream. Read events from Events();
// Dropped() counts evictions caused by a full queue.
type Subscription struct {
	ID     string
	Filter Filter

	queue   chan events.Event
	dropped int64
	once    sync.Once
}

// Events returns the subscription's delivery channel. The channel is
// closed on Unsubscribe.
func (s *Subscription) Events() <-chan events.Event { return s.queue }

// Dropped reports how many events were evicted because the consumer
// fell behind.
func (s *Subscription) Dropped() int64 { return atomic.LoadInt64(&s.dropped) }

func (s *Subscription) offer(ev events.Event) {
	for {
		select {
		case s.queue <- ev:
			return
		default:
		}
		// Evict the oldest queued event to make room.
		select {
		case <-s.queue:
			atomic.AddInt64(&s.dropped, 1)
		default:
		}
	}
}

// Manager owns the live subscriptions and feeds them from the bus.
type Manager struct {
	mu   sync.RWMutex
	subs map[string]*Subscription

	unsubscribeBus func()
}

// NewManager creates a manager and attaches it to the bus.
func NewManager(bus *events.Bus) *Manager {
	m := &Manager{subs: make(map[string]*Subscription)}
	m.unsubscribeBus = bus.Subscribe("subscriptions", m.dispatch)
	return m
}

// Subscribe opens a new filtered stream.
func (m *Manager) Subscribe(filter Filter) *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		Filter: filter,
		queue:  make(chan events.Event, queueCapacity),
	}
	m.mu.Lock()
	m.subs[sub.ID] = sub
	m.mu.Unlock()
	return sub
}

// Unsubscribe removes the stream and closes its channel. Safe to call
// more than once.
func (m *Manager) Unsubscribe(id string) {
	m.mu.Lock()
	sub, ok := m.subs[id]
	delete(m.subs, id)
	m.mu.Unlock()
	if ok {
		sub.once.Do(func() { close(sub.queue) })
	}
}

// Count reports the number of live subscriptions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

// Close tears down every subscription and detaches from the bus.
func (m *Manager) Close() {
	if m.unsubscribeBus != nil {
		m.unsubscribeBus()
	}
	m.mu.Lock()
	subs := m.subs
	m.subs = make(map[string]*Subscription)
	m.mu.Unlock()
	for _, sub := range subs {
		sub.once.Do(func() { close(sub.queue) })
	}
}

func (m *Manager) dispatch(_ context.Context, ev events.Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		if sub.Filter.Matches(ev) {
			sub.offer(ev)
		}
	}
}
