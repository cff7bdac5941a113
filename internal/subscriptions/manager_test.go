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

package subscriptions

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titan-aas/titan-go-components/internal/events"
)

func TestFilterMatches(t *testing.T) {
	updated := events.NewEvent(events.KindSubmodel, events.EventUpdated, "urn:sm:1", nil, "")

	assert.True(t, Filter{}.Matches(updated))
	assert.True(t, Filter{Entity: events.KindSubmodel}.Matches(updated))
	assert.False(t, Filter{Entity: events.KindAAS}.Matches(updated))
	assert.True(t, Filter{Identifier: "urn:sm:1"}.Matches(updated))
	assert.False(t, Filter{Identifier: "urn:sm:2"}.Matches(updated))
	assert.True(t, Filter{EventTypes: []events.EventType{events.EventCreated, events.EventUpdated}}.Matches(updated))
	assert.False(t, Filter{EventTypes: []events.EventType{events.EventDeleted}}.Matches(updated))
	assert.True(t, Filter{
		Entity:     events.KindSubmodel,
		EventTypes: []events.EventType{events.EventUpdated},
		Identifier: "urn:sm:1",
	}.Matches(updated))
}

func TestManagerDeliversFromBus(t *testing.T) {
	bus := events.NewBus(events.BusOptions{BufferSize: 100, Partitions: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.Start(ctx)

	m := NewManager(bus)
	defer m.Close()

	sub := m.Subscribe(Filter{Entity: events.KindSubmodel})

	require.NoError(t, bus.Publish(events.NewEvent(events.KindSubmodel, events.EventCreated, "urn:sm:1", nil, "")))
	require.NoError(t, bus.Publish(events.NewEvent(events.KindAAS, events.EventCreated, "urn:aas:1", nil, "")))

	select {
	case ev := <-sub.Events():
		assert.Equal(t, events.KindSubmodel, ev.Entity)
		assert.Equal(t, "urn:sm:1", ev.Identifier)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription never received the matching event")
	}

	// The filtered-out shell event must not arrive.
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event for %s", ev.Identifier)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowConsumerEvictsOldest(t *testing.T) {
	bus := events.NewBus(events.BusOptions{BufferSize: 1000, Partitions: 1})
	m := NewManager(bus)
	defer m.Close()

	sub := m.Subscribe(Filter{})

	// Feed past capacity without draining; the oldest events give way.
	for i := 0; i < queueCapacity+10; i++ {
		m.dispatch(context.Background(), events.NewEvent(events.KindSubmodel, events.EventUpdated, strconv.Itoa(i), nil, ""))
	}

	assert.Equal(t, int64(10), sub.Dropped())

	// The queue now starts at the first surviving event.
	ev := <-sub.Events()
	assert.Equal(t, "10", ev.Identifier)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := events.NewBus(events.BusOptions{})
	m := NewManager(bus)
	defer m.Close()

	sub := m.Subscribe(Filter{})
	assert.Equal(t, 1, m.Count())

	m.Unsubscribe(sub.ID)
	assert.Equal(t, 0, m.Count())

	_, open := <-sub.Events()
	assert.False(t, open)

	// Second unsubscribe is a no-op.
	m.Unsubscribe(sub.ID)
}

func TestCloseTearsDownEverySubscription(t *testing.T) {
	bus := events.NewBus(events.BusOptions{})
	m := NewManager(bus)

	a := m.Subscribe(Filter{})
	b := m.Subscribe(Filter{})
	m.Close()

	_, open := <-a.Events()
	assert.False(t, open)
	_, open = <-b.Events()
	assert.False(t, open)
	assert.Equal(t, 0, m.Count())
}
