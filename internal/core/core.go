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

// Package core assembles the repository services: stores, cache, event
// bus, invalidation listener, leader elector, subscription manager and
// the HTTP handlers, threaded together as one explicit value.
package core

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	aasapi "github.com/titan-aas/titan-go-components/internal/aasrepository/api"
	aaspersistence "github.com/titan-aas/titan-go-components/internal/aasrepository/persistence"
	"github.com/titan-aas/titan-go-components/internal/audit"
	"github.com/titan-aas/titan-go-components/internal/blob"
	"github.com/titan-aas/titan-go-components/internal/cache"
	"github.com/titan-aas/titan-go-components/internal/common"
	"github.com/titan-aas/titan-go-components/internal/common/api"
	cpersistence "github.com/titan-aas/titan-go-components/internal/common/persistence"
	cdapi "github.com/titan-aas/titan-go-components/internal/conceptdescriptionrepository/api"
	cdpersistence "github.com/titan-aas/titan-go-components/internal/conceptdescriptionrepository/persistence"
	"github.com/titan-aas/titan-go-components/internal/events"
	"github.com/titan-aas/titan-go-components/internal/leader"
	registryapi "github.com/titan-aas/titan-go-components/internal/registry/api"
	registrypersistence "github.com/titan-aas/titan-go-components/internal/registry/persistence"
	smapi "github.com/titan-aas/titan-go-components/internal/submodelrepository/api"
	smpersistence "github.com/titan-aas/titan-go-components/internal/submodelrepository/persistence"
	"github.com/titan-aas/titan-go-components/internal/subscriptions"
)

// Core is the assembled service graph of one replica.
type Core struct {
	Config *common.Config
	DB     *sql.DB
	Redis  *redis.Client

	Cache         *cache.ByteCache
	Invalidator   *cache.Invalidator
	Bus           *events.Bus
	Writer        *events.BatchWriter
	Subscriptions *subscriptions.Manager
	Elector       *leader.Elector
	AuditSink     *audit.MongoSink

	shellAPI    *aasapi.ShellAPI
	submodelAPI *smapi.SubmodelAPI
	cdAPI       *cdapi.ConceptDescriptionAPI
	registryAPI *registryapi.RegistryAPI

	cancel       context.CancelFunc
	listenCancel context.CancelFunc
}

// New wires a Core from configuration and the opened database pool.
// The audit sink and the blob object store are best-effort: a failure
// to reach them logs a warning and the corresponding feature is off
// for this process.
func New(ctx context.Context, cfg *common.Config, db *sql.DB) (*Core, error) {
	c := &Core{Config: cfg, DB: db}

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	c.Cache = cache.New(c.Redis, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second)
	c.Invalidator = cache.NewInvalidator(c.Redis, c.Cache)

	c.Bus = events.NewBus(events.BusOptions{
		BufferSize:        cfg.Events.BufferSize,
		Partitions:        cfg.Events.Partitions,
		SubscriberTimeout: time.Duration(cfg.Events.SubscriberTimeoutMillis) * time.Millisecond,
	})
	c.Subscriptions = subscriptions.NewManager(c.Bus)

	var sink events.Sink
	if cfg.Mongo.URI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		mongoSink, err := audit.NewMongoSink(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		cancel()
		if err != nil {
			log.Printf("⚠️ audit sink unavailable, mutation trail disabled: %v", err)
		} else {
			c.AuditSink = mongoSink
			sink = mongoSink
		}
	}
	c.Writer = events.NewBatchWriter(sink, events.BatchWriterOptions{
		BatchSize:     cfg.Events.BatchSize,
		FlushInterval: time.Duration(cfg.Events.FlushIntervalMillis) * time.Millisecond,
	}, func(_ context.Context, ev events.Event) error {
		return c.Bus.Publish(ev)
	})

	c.Elector = leader.NewElector(c.Redis, "cache-invalidation", time.Duration(cfg.Leader.LeaseSeconds)*time.Second)

	var externalizer *blob.Externalizer
	if cfg.Blob.Bucket != "" {
		objectStore, err := blob.NewS3Store(ctx, blob.S3Config{
			Bucket:   cfg.Blob.Bucket,
			Region:   cfg.Blob.Region,
			Endpoint: cfg.Blob.Endpoint,
		})
		if err != nil {
			log.Printf("⚠️ object store unavailable, blob externalization disabled: %v", err)
		} else {
			externalizer = blob.NewExternalizer(objectStore, cfg.Blob.ThresholdBytes)
		}
	}

	policy := common.PermitAllPolicy{}

	c.shellAPI = aasapi.NewShellAPI(c.repository(
		aaspersistence.NewShellStore(db),
		cache.EntityAAS, cache.ScopeAAS, events.KindAAS, policy))

	c.submodelAPI = smapi.NewSubmodelAPI(c.repository(
		smpersistence.NewSubmodelStore(db),
		cache.EntitySubmodel, cache.ScopeSubmodel, events.KindSubmodel, policy),
		externalizer, smpersistence.NewBlobAssetStore(db))

	c.cdAPI = cdapi.NewConceptDescriptionAPI(c.repository(
		cdpersistence.NewConceptDescriptionStore(db),
		cache.EntityConceptDescription, cache.ScopeConceptDescription, events.KindConceptDescription, policy))

	// Descriptor namespaces have no scope on the invalidation channel;
	// cross-replica staleness is bounded by the cache TTL alone.
	shellDescriptors := c.repository(registrypersistence.NewShellDescriptorStore(db),
		cache.EntityShellDescriptor, "", events.KindShellDescriptor, policy)
	shellDescriptors.Invalidator = nil
	submodelDescriptors := c.repository(registrypersistence.NewSubmodelDescriptorStore(db),
		cache.EntitySubmodelDescriptor, "", events.KindSubmodelDescriptor, policy)
	submodelDescriptors.Invalidator = nil
	c.registryAPI = registryapi.NewRegistryAPI(shellDescriptors, submodelDescriptors)

	return c, nil
}

func (c *Core) repository(store cpersistence.Store, entityType cache.EntityType, scope cache.InvalidationScope, kind events.EntityKind, policy common.PolicyEvaluator) *api.Repository {
	return &api.Repository{
		Store:       store,
		Cache:       c.Cache,
		CacheType:   entityType,
		Scope:       scope,
		Kind:        kind,
		Writer:      c.Writer,
		Invalidator: c.Invalidator,
		Policy:      policy,
	}
}

// Mount registers every HTTP route on the router.
func (c *Core) Mount(router chi.Router) {
	c.shellAPI.RegisterRoutes(router)
	c.submodelAPI.RegisterRoutes(router)
	c.cdAPI.RegisterRoutes(router)
	c.registryAPI.RegisterRoutes(router)
	subscriptions.AddEventStreamEndpoint(router, c.Subscriptions)
}

// Start launches the background machinery: bus workers, batch flusher
// and the leader loop. The invalidation listener runs on the lease
// holder only: the byte cache lives on the shared broker, so each
// broadcast needs one applier, not one per replica. The elector
// callbacks run serially on its loop, which keeps listenCancel
// unsynchronized here.
func (c *Core) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.Bus.Start(ctx)
	c.Writer.Start(ctx)
	c.Elector.OnElected(func() {
		listenCtx, cancel := context.WithCancel(ctx)
		c.listenCancel = cancel
		go c.Invalidator.Listen(listenCtx)
	})
	c.Elector.OnDemoted(func() {
		if c.listenCancel != nil {
			c.listenCancel()
			c.listenCancel = nil
		}
	})
	go c.Elector.Run(ctx)
	log.Println("▶️ core started")
}

// Stop drains the bus, flushes the batch writer, releases the leader
// lease and closes the connections.
func (c *Core) Stop(ctx context.Context) {
	if err := c.Bus.Stop(ctx); err != nil {
		log.Printf("bus drain incomplete: %v", err)
	}
	c.Writer.Stop(ctx)
	c.Subscriptions.Close()
	if c.cancel != nil {
		c.cancel()
	}
	if c.AuditSink != nil {
		if err := c.AuditSink.Close(ctx); err != nil {
			log.Printf("audit sink close failed: %v", err)
		}
	}
	if err := c.Redis.Close(); err != nil {
		log.Printf("broker close failed: %v", err)
	}
	log.Println("✅ core stopped")
}
