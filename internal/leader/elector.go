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

// Package leader implements broker-lease leader election for work that
// must run on exactly one replica, such as applying cache invalidation
// broadcasts to the shared broker.
package leader

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lease only when this instance still owns
// it, so a lease that expired and was re-acquired by another replica is
// never stolen back on shutdown.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Elector competes for a named lease on the broker. At most one
// instance holds a lease at a time; the holder renews at half the lease
// period and loses leadership when a renewal fails.
type Elector struct {
	rdb        *redis.Client
	name       string
	instanceID string
	lease      time.Duration

	leader int32

	mu        sync.Mutex
	onElected func()
	onDemoted func()
}

// NewElector creates an elector for the lease titan:leader:{name}. The
// instance id is {hostname}-{random suffix} so replicas on the same
// host stay distinguishable.
func NewElector(rdb *redis.Client, name string, lease time.Duration) *Elector {
	if lease <= 0 {
		lease = 30 * time.Second
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Elector{
		rdb:        rdb,
		name:       name,
		instanceID: fmt.Sprintf("%s-%06d", hostname, rand.Intn(1000000)),
		lease:      lease,
	}
}

// OnElected registers a callback invoked whenever this instance becomes
// the leader.
func (e *Elector) OnElected(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onElected = fn
}

// OnDemoted registers a callback invoked whenever this instance loses
// leadership.
func (e *Elector) OnDemoted(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDemoted = fn
}

// IsLeader reports whether this instance currently holds the lease.
func (e *Elector) IsLeader() bool { return atomic.LoadInt32(&e.leader) == 1 }

// InstanceID returns the lease value of this instance.
func (e *Elector) InstanceID() string { return e.instanceID }

func (e *Elector) key() string { return "titan:leader:" + e.name }

// Run competes for the lease until the context is canceled, then
// releases the lease if held. Non-holders retry acquisition every half
// lease period, so failover happens within one lease period of the
// holder dying.
func (e *Elector) Run(ctx context.Context) {
	ticker := time.NewTicker(e.lease / 2)
	defer ticker.Stop()

	e.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			e.release()
			return
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

func (e *Elector) tick(ctx context.Context) {
	if e.IsLeader() {
		e.renew(ctx)
		return
	}
	e.acquire(ctx)
}

func (e *Elector) acquire(ctx context.Context) {
	ok, err := e.rdb.SetNX(ctx, e.key(), e.instanceID, e.lease).Result()
	if err != nil {
		log.Printf("leader %q acquire failed: %v", e.name, err)
		return
	}
	if ok {
		atomic.StoreInt32(&e.leader, 1)
		log.Printf("▶️ instance %s elected leader for %q", e.instanceID, e.name)
		e.mu.Lock()
		fn := e.onElected
		e.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
}

func (e *Elector) renew(ctx context.Context) {
	// Renew only while the lease value is still ours; a plain SET
	// would overwrite another replica's lease after an expiry gap.
	val, err := e.rdb.Get(ctx, e.key()).Result()
	if err == nil && val == e.instanceID {
		if err := e.rdb.Expire(ctx, e.key(), e.lease).Err(); err == nil {
			return
		}
	}
	atomic.StoreInt32(&e.leader, 0)
	log.Printf("instance %s lost leadership for %q", e.instanceID, e.name)
	e.mu.Lock()
	fn := e.onDemoted
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (e *Elector) release() {
	if !e.IsLeader() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, e.rdb, []string{e.key()}, e.instanceID).Err(); err != nil {
		log.Printf("leader %q release failed: %v", e.name, err)
	}
	atomic.StoreInt32(&e.leader, 0)
}
