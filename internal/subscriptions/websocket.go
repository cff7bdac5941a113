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
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/titan-aas/titan-go-components/internal/common"
	"github.com/titan-aas/titan-go-components/internal/events"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Browser clients of the repository UI connect cross-origin; the
	// CORS policy of the HTTP layer governs access, not the upgrade.
	CheckOrigin: func(*http.Request) bool { return true },
}

// AddEventStreamEndpoint mounts GET /events on the router. Query
// parameters narrow the stream: entity, eventTypes (comma separated),
// identifier (base64url encoded).
func AddEventStreamEndpoint(router chi.Router, manager *Manager) {
	router.Get("/events", func(w http.ResponseWriter, r *http.Request) {
		filter, err := filterFromQuery(r)
		if err != nil {
			common.WriteErrorResponse(w, err)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		sub := manager.Subscribe(filter)
		go stream(conn, manager, sub)
	})
}

func filterFromQuery(r *http.Request) (Filter, error) {
	var filter Filter
	if entity := r.URL.Query().Get("entity"); entity != "" {
		filter.Entity = events.EntityKind(entity)
	}
	if types := r.URL.Query().Get("eventTypes"); types != "" {
		for _, t := range strings.Split(types, ",") {
			filter.EventTypes = append(filter.EventTypes, events.EventType(strings.TrimSpace(t)))
		}
	}
	if idB64 := r.URL.Query().Get("identifier"); idB64 != "" {
		identifier, err := common.DecodeString(idB64)
		if err != nil {
			return Filter{}, err
		}
		filter.Identifier = identifier
	}
	return filter, nil
}

// stream pumps the subscription into the socket until either side goes
// away. The read loop exists only to observe the peer closing.
func stream(conn *websocket.Conn, manager *Manager, sub *Subscription) {
	defer func() {
		manager.Unsubscribe(sub.ID)
		conn.Close()
	}()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-sub.Events():
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			payload, err := ev.MarshalWire()
			if err != nil {
				log.Printf("event %s wire marshal failed: %v", ev.EventID, err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
