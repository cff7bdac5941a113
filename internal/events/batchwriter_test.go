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
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	batches [][]Event
	failN   int
}

func (s *recordingSink) WriteBatch(_ context.Context, batch []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failN > 0 {
		s.failN--
		return errors.New("sink down")
	}
	copied := make([]Event, len(batch))
	copy(copied, batch)
	s.batches = append(s.batches, copied)
	return nil
}

func (s *recordingSink) all() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func TestSyncStagesRunInline(t *testing.T) {
	var order []string
	w := NewBatchWriter(nil, BatchWriterOptions{},
		func(_ context.Context, _ Event) error {
			order = append(order, "first")
			return nil
		},
		func(_ context.Context, _ Event) error {
			order = append(order, "second")
			return nil
		})

	require.NoError(t, w.Write(context.Background(), NewEvent(KindAAS, EventCreated, "a", nil, "")))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestFailingSyncStageAbortsFanOut(t *testing.T) {
	stageErr := errors.New("broadcast failed")
	reached := false
	w := NewBatchWriter(nil, BatchWriterOptions{},
		func(_ context.Context, _ Event) error { return stageErr },
		func(_ context.Context, _ Event) error {
			reached = true
			return nil
		})

	err := w.Write(context.Background(), NewEvent(KindAAS, EventCreated, "a", nil, ""))
	assert.ErrorIs(t, err, stageErr)
	assert.False(t, reached)
}

func TestFlushOnBatchSize(t *testing.T) {
	sink := &recordingSink{}
	w := NewBatchWriter(sink, BatchWriterOptions{BatchSize: 3, FlushInterval: time.Hour})

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Write(context.Background(), NewEvent(KindSubmodel, EventUpdated, strconv.Itoa(i), nil, "")))
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0], 3)
}

func TestFlushOnInterval(t *testing.T) {
	sink := &recordingSink{}
	w := NewBatchWriter(sink, BatchWriterOptions{BatchSize: 1000, FlushInterval: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop(context.Background())

	require.NoError(t, w.Write(ctx, NewEvent(KindSubmodel, EventUpdated, "a", nil, "")))

	require.Eventually(t, func() bool {
		return len(sink.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFailedFlushRequeuesInOrder(t *testing.T) {
	sink := &recordingSink{failN: 1}
	w := NewBatchWriter(sink, BatchWriterOptions{BatchSize: 2, FlushInterval: time.Hour})

	// Fills the batch; the first flush fails and requeues both events.
	require.NoError(t, w.Write(context.Background(), NewEvent(KindSubmodel, EventUpdated, "a", nil, "1")))
	require.NoError(t, w.Write(context.Background(), NewEvent(KindSubmodel, EventUpdated, "b", nil, "2")))
	assert.Empty(t, sink.all())

	// The next write triggers another flush; the requeued events go out
	// first.
	require.NoError(t, w.Write(context.Background(), NewEvent(KindSubmodel, EventUpdated, "c", nil, "3")))
	delivered := sink.all()
	require.Len(t, delivered, 2)
	assert.Equal(t, "a", delivered[0].Identifier)
	assert.Equal(t, "b", delivered[1].Identifier)
}

func TestStopFlushesRemainder(t *testing.T) {
	sink := &recordingSink{}
	w := NewBatchWriter(sink, BatchWriterOptions{BatchSize: 1000, FlushInterval: time.Hour})
	w.Start(context.Background())

	require.NoError(t, w.Write(context.Background(), NewEvent(KindSubmodel, EventDeleted, "a", nil, "")))
	w.Stop(context.Background())

	assert.Len(t, sink.all(), 1)
}

func TestNilSinkOnlyRunsSyncStages(t *testing.T) {
	ran := false
	w := NewBatchWriter(nil, BatchWriterOptions{}, func(_ context.Context, _ Event) error {
		ran = true
		return nil
	})
	w.Start(context.Background())
	require.NoError(t, w.Write(context.Background(), NewEvent(KindAAS, EventCreated, "a", nil, "")))
	w.Stop(context.Background())
	assert.True(t, ran)
}
