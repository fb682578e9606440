/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package broadcaster is the sole fan-out point for core events. Scanner
// and AlertEngine publish into it; it never reads from them. Subscribers
// register a push handle and come and go freely — a handle that isn't
// ready, or whose Send fails, is evicted on the spot.
package broadcaster

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

// Handle is a subscriber's push target. Ready reports whether Send is
// currently safe to call; Send delivers one event and reports whether
// delivery succeeded. A false from either evicts the handle.
type Handle interface {
	Ready() bool
	Send(models.Event) bool
}

// Broadcaster fans typed events out to every registered Handle.
type Broadcaster struct {
	log logger.Logger

	mu      sync.Mutex
	handles map[string]Handle
}

// New constructs an empty Broadcaster.
func New(log logger.Logger) *Broadcaster {
	return &Broadcaster{log: log, handles: make(map[string]Handle)}
}

// Subscribe registers h under a fresh id and returns that id so the
// caller can Unsubscribe later.
func (b *Broadcaster) Subscribe(h Handle) string {
	id := uuid.NewString()

	b.mu.Lock()
	b.handles[id] = h
	b.mu.Unlock()

	return id
}

// Unsubscribe removes a previously registered handle. Safe to call twice.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	delete(b.handles, id)
	b.mu.Unlock()
}

// Count reports the number of currently registered handles.
func (b *Broadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.handles)
}

// Emit satisfies the EventSink interface Scanner and AlertEngine depend
// on: it wraps data in the event envelope and publishes it.
func (b *Broadcaster) Emit(eventType string, data any) {
	b.Publish(models.EventType(eventType), data)
}

// Publish builds the event envelope and pushes it to every registered
// handle, evicting any that aren't ready or whose Send fails.
func (b *Broadcaster) Publish(eventType models.EventType, data any) {
	event := models.NewEvent(uuid.NewString(), eventType, data)

	b.mu.Lock()
	defer b.mu.Unlock()

	for id, h := range b.handles {
		if !h.Ready() || !h.Send(event) {
			delete(b.handles, id)
			b.log.Debug().Str("subscriber_id", id).Msg("evicted unresponsive subscriber")
		}
	}
}

// Close evicts every registered handle. It does not close the handles
// themselves — ownership of the underlying transport (a websocket
// connection, a NATS subscription) belongs to whoever created the Handle.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handles = make(map[string]Handle)
}
