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
	"log"
	"sync"
	"time"
)

// SyncStage runs inline on the mutating request, before the event is
// queued for the auxiliary sink. Cache write-through and subscriber
// broadcast are sync stages.
type SyncStage func(ctx context.Context, ev Event) error

// Sink receives batched events off the request path.
type Sink interface {
	WriteBatch(ctx context.Context, batch []Event) error
}

// BatchWriter splits a mutation's fan-out into a synchronous part and a
// micro-batched asynchronous part. Sync stages run on the caller;
// sink writes are coalesced into batches flushed on size or interval.
// A failed flush re-prepends the batch so sink order is preserved.
type BatchWriter struct {
	sink          Sink
	syncStages    []SyncStage
	batchSize     int
	flushInterval time.Duration

	mu     sync.Mutex
	buffer []Event

	cancel context.CancelFunc
	done   chan struct{}
}

// BatchWriterOptions sizes the writer.
type BatchWriterOptions struct {
	BatchSize     int
	FlushInterval time.Duration
}

// NewBatchWriter creates a writer flushing to sink. A nil sink disables
// the asynchronous part; sync stages still run.
func NewBatchWriter(sink Sink, opts BatchWriterOptions, syncStages ...SyncStage) *BatchWriter {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 500 * time.Millisecond
	}
	return &BatchWriter{
		sink:          sink,
		syncStages:    syncStages,
		batchSize:     opts.BatchSize,
		flushInterval: opts.FlushInterval,
	}
}

// Start launches the flush loop.
func (w *BatchWriter) Start(ctx context.Context) {
	if w.sink == nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.loop(ctx)
}

// Write runs the sync stages inline, then queues the event for the next
// flush. The first failing sync stage aborts the fan-out and its error
// is returned to the caller.
func (w *BatchWriter) Write(ctx context.Context, ev Event) error {
	for _, stage := range w.syncStages {
		if err := stage(ctx, ev); err != nil {
			return err
		}
	}
	if w.sink == nil {
		return nil
	}
	w.mu.Lock()
	w.buffer = append(w.buffer, ev)
	flushNow := len(w.buffer) >= w.batchSize
	w.mu.Unlock()
	if flushNow {
		w.flush(ctx)
	}
	return nil
}

// Stop flushes the remaining buffer and stops the loop.
func (w *BatchWriter) Stop(ctx context.Context) {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
	w.flush(ctx)
}

func (w *BatchWriter) loop(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flush(context.Background())
		}
	}
}

func (w *BatchWriter) flush(ctx context.Context) {
	if w.sink == nil {
		return
	}
	w.mu.Lock()
	if len(w.buffer) == 0 {
		w.mu.Unlock()
		return
	}
	batch := w.buffer
	if len(batch) > w.batchSize {
		batch = batch[:w.batchSize]
	}
	w.buffer = w.buffer[len(batch):]
	w.mu.Unlock()

	if err := w.sink.WriteBatch(ctx, batch); err != nil {
		log.Printf("batch flush of %d events failed, requeued: %v", len(batch), err)
		w.mu.Lock()
		w.buffer = append(batch, w.buffer...)
		w.mu.Unlock()
	}
}
