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

// Package pushnats adapts a core pub/sub NATS connection into a
// broadcaster.Handle, so an external collector or a sibling core instance
// can subscribe to events over the LAN's message bus instead of a
// per-browser WebSocket.
package pushnats

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

// Handle publishes every event it's given to one NATS subject on an
// already-connected *nats.Conn. It never subscribes itself — consuming
// the subject is the other side's business.
type Handle struct {
	log     logger.Logger
	nc      *nats.Conn
	subject string
}

// New wraps an existing NATS connection for use as a Broadcaster
// subscriber. The caller owns nc's lifecycle.
func New(nc *nats.Conn, subject string, log logger.Logger) *Handle {
	return &Handle{log: log, nc: nc, subject: subject}
}

// Ready reports whether the underlying connection is currently connected.
func (h *Handle) Ready() bool {
	return h.nc.IsConnected()
}

// Send marshals the event as JSON and publishes it to the configured
// subject.
func (h *Handle) Send(event models.Event) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal event for nats subscriber")
		return false
	}

	if err := h.nc.Publish(h.subject, payload); err != nil {
		h.log.Error().Err(err).Str("subject", h.subject).Msg("failed to publish event to nats")
		return false
	}

	return true
}
