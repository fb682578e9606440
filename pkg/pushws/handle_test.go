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

package pushws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

func TestUpgradeSendAndReceive(t *testing.T) {
	handleCh := make(chan *Handle, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, err := Upgrade(w, r, logger.NewTestLogger())
		require.NoError(t, err)
		handleCh <- h
		go ReadLoop(h)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer clientConn.Close()

	h := <-handleCh
	defer h.Close()

	assert.True(t, h.Ready())

	event := models.NewEvent("evt-1", models.EventScanStarted, map[string]any{"range": "10.0.0.0/24"})
	assert.True(t, h.Send(event))

	require.NoError(t, clientConn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, payload, err := clientConn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "scan_started")
}

func TestSendAfterCloseFails(t *testing.T) {
	handleCh := make(chan *Handle, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, err := Upgrade(w, r, logger.NewTestLogger())
		require.NoError(t, err)
		handleCh <- h
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer clientConn.Close()

	h := <-handleCh
	require.NoError(t, h.Close())

	assert.False(t, h.Ready())
	assert.False(t, h.Send(models.NewEvent("evt-2", models.EventHostOffline, nil)))
}
