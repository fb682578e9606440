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

// Package pushws adapts a browser WebSocket connection into a
// broadcaster.Handle, so the dashboard can subscribe to core events
// directly instead of polling.
package pushws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// Handle wraps one upgraded WebSocket connection. Send and Ready are safe
// for concurrent use by the Broadcaster; the connection itself is not, so
// every write goes through a single mutex.
type Handle struct {
	log  logger.Logger
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// Upgrade promotes an HTTP request to a WebSocket connection and wraps it
// in a Handle ready for broadcaster.Subscribe.
func Upgrade(w http.ResponseWriter, r *http.Request, log logger.Logger) (*Handle, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	h := &Handle{log: log, conn: conn}

	conn.SetCloseHandler(func(code int, text string) error {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()

		return nil
	})

	return h, nil
}

// Ready reports whether the connection is still open.
func (h *Handle) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return !h.closed
}

// Send marshals the event as JSON and writes it as one text frame.
func (h *Handle) Send(event models.Event) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal event for websocket subscriber")
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	if err := h.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		h.closed = true
		return false
	}

	if err := h.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.closed = true
		return false
	}

	return true
}

// Close closes the underlying connection. The caller's read loop (which
// detects client-initiated disconnects) should call this on exit.
func (h *Handle) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	return h.conn.Close()
}

// ReadLoop discards inbound frames until the connection errors out,
// relying on the blocking read to detect client disconnects, then closes
// the Handle. It sends no pings of its own.
func ReadLoop(h *Handle) {
	for {
		if _, _, err := h.conn.ReadMessage(); err != nil {
			_ = h.Close()
			return
		}
	}
}
