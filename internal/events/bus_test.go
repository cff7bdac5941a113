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
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titan-aas/titan-go-components/internal/common"
)

func TestPublishPreservesPerIdentifierOrder(t *testing.T) {
	bus := NewBus(BusOptions{BufferSize: 1000, Partitions: 4})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.Start(ctx)

	var mu sync.Mutex
	seen := make(map[string][]string)
	bus.Subscribe("collector", func(_ context.Context, ev Event) {
		mu.Lock()
		seen[ev.Identifier] = append(seen[ev.Identifier], ev.ETag)
		mu.Unlock()
	})

	identifiers := []string{"urn:sm:a", "urn:sm:b", "urn:sm:c"}
	for i := 0; i < 50; i++ {
		for _, id := range identifiers {
			ev := NewEvent(KindSubmodel, EventUpdated, id, nil, strconv.Itoa(i))
			require.NoError(t, bus.Publish(ev))
		}
	}

	drainCtx, drainCancel := context.WithTimeout(ctx, 5*time.Second)
	defer drainCancel()
	require.NoError(t, bus.Drain(drainCtx))

	mu.Lock()
	defer mu.Unlock()
	for _, id := range identifiers {
		require.Len(t, seen[id], 50, "identifier %s", id)
		for i, etag := range seen[id] {
			assert.Equal(t, strconv.Itoa(i), etag, "order broken for %s at %d", id, i)
		}
	}
}

func TestPublishSaturationIsNonBlocking(t *testing.T) {
	// One partition of size 2, no workers started, so nothing drains.
	bus := NewBus(BusOptions{BufferSize: 2, Partitions: 1})

	require.NoError(t, bus.Publish(NewEvent(KindAAS, EventCreated, "a", nil, "")))
	require.NoError(t, bus.Publish(NewEvent(KindAAS, EventCreated, "b", nil, "")))

	err := bus.Publish(NewEvent(KindAAS, EventCreated, "c", nil, ""))
	require.Error(t, err)
	assert.Equal(t, common.KindEventBusSaturated, common.KindOf(err))
	assert.Equal(t, int64(1), bus.Dropped())
}

func TestSlowSubscriberDoesNotStallOthers(t *testing.T) {
	bus := NewBus(BusOptions{BufferSize: 10, Partitions: 1, SubscriberTimeout: 50 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.Start(ctx)

	received := make(chan string, 10)
	bus.Subscribe("stuck", func(ctx context.Context, _ Event) {
		<-ctx.Done()
	})
	bus.Subscribe("fast", func(_ context.Context, ev Event) {
		received <- ev.Identifier
	})

	require.NoError(t, bus.Publish(NewEvent(KindSubmodel, EventUpdated, "urn:sm:x", nil, "")))

	select {
	case id := <-received:
		assert.Equal(t, "urn:sm:x", id)
	case <-time.After(2 * time.Second):
		t.Fatal("fast subscriber never received the event")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(BusOptions{BufferSize: 10, Partitions: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.Start(ctx)

	var count int64
	var mu sync.Mutex
	unsubscribe := bus.Subscribe("once", func(_ context.Context, _ Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	require.NoError(t, bus.Publish(NewEvent(KindAAS, EventCreated, "a", nil, "")))
	drainCtx, drainCancel := context.WithTimeout(ctx, time.Second)
	defer drainCancel()
	require.NoError(t, bus.Drain(drainCtx))

	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(KindAAS, EventCreated, "b", nil, "")))
	require.NoError(t, bus.Drain(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, int64(1), count)
}

func TestStopDrainsQueuedEvents(t *testing.T) {
	bus := NewBus(BusOptions{BufferSize: 100, Partitions: 2})
	bus.Start(context.Background())

	var mu sync.Mutex
	var count int
	bus.Subscribe("counter", func(_ context.Context, _ Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	for i := 0; i < 20; i++ {
		require.NoError(t, bus.Publish(NewEvent(KindSubmodel, EventUpdated, strconv.Itoa(i), nil, "")))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 20, count)
}

func TestEventTopicAndWireFormat(t *testing.T) {
	ev := NewEvent(KindSubmodel, EventUpdated, "urn:sm:1", []byte(`{}`), "cafe")
	assert.Equal(t, "titan/submodel/"+common.EncodeString("urn:sm:1")+"/updated", ev.Topic())

	wire, err := ev.MarshalWire()
	require.NoError(t, err)
	assert.Contains(t, string(wire), `"eventType":"updated"`)
	assert.Contains(t, string(wire), `"etag":"cafe"`)
	assert.NotContains(t, string(wire), "idShortPath")

	// Deletes carry no etag on the wire.
	del := NewEvent(KindSubmodel, EventDeleted, "urn:sm:1", nil, "")
	wire, err = del.MarshalWire()
	require.NoError(t, err)
	assert.NotContains(t, string(wire), "etag")
}
