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

package broadcaster

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

type fakeHandle struct {
	mu       sync.Mutex
	ready    bool
	sendOK   bool
	received []models.Event
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{ready: true, sendOK: true}
}

func (f *fakeHandle) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.ready
}

func (f *fakeHandle) Send(e models.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.sendOK {
		return false
	}

	f.received = append(f.received, e)

	return true
}

func (f *fakeHandle) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.received)
}

func TestPublishDeliversToEveryHandle(t *testing.T) {
	b := New(logger.NewTestLogger())

	h1 := newFakeHandle()
	h2 := newFakeHandle()
	b.Subscribe(h1)
	b.Subscribe(h2)

	b.Publish(models.EventScanStarted, map[string]any{"range": "10.0.0.0/24"})

	assert.Equal(t, 1, h1.count())
	assert.Equal(t, 1, h2.count())
	assert.Equal(t, 2, b.Count())
}

func TestPublishEvictsNotReadyHandle(t *testing.T) {
	b := New(logger.NewTestLogger())

	h := newFakeHandle()
	h.ready = false
	b.Subscribe(h)

	b.Publish(models.EventHostOnline, nil)

	assert.Equal(t, 0, h.count())
	assert.Equal(t, 0, b.Count())
}

func TestPublishEvictsFailedSend(t *testing.T) {
	b := New(logger.NewTestLogger())

	h := newFakeHandle()
	h.sendOK = false
	b.Subscribe(h)

	b.Publish(models.EventHostOffline, nil)

	assert.Equal(t, 0, b.Count())
}

func TestUnsubscribeRemovesHandle(t *testing.T) {
	b := New(logger.NewTestLogger())

	id := b.Subscribe(newFakeHandle())
	assert.Equal(t, 1, b.Count())

	b.Unsubscribe(id)
	assert.Equal(t, 0, b.Count())
}

func TestEmitWrapsDataAsEvent(t *testing.T) {
	b := New(logger.NewTestLogger())

	h := newFakeHandle()
	b.Subscribe(h)

	b.Emit("alert_created", map[string]any{"id": "abc"})

	assert.Equal(t, 1, h.count())
	assert.Equal(t, models.EventAlertCreated, h.received[0].Type)
}

func TestCloseEvictsAllHandles(t *testing.T) {
	b := New(logger.NewTestLogger())

	b.Subscribe(newFakeHandle())
	b.Subscribe(newFakeHandle())
	assert.Equal(t, 2, b.Count())

	b.Close()
	assert.Equal(t, 0, b.Count())
}
