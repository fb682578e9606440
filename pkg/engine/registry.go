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

package engine

import (
	"sync"

	"github.com/lanwatch/collector/pkg/models"
)

// registry is the in-memory device set. It is written only by the Engine
// (the tick loop and scan completion); poll tasks read through snapshot,
// which copies every device struct under a short-lived lock before
// releasing it, so a poll task never holds the registry lock while it
// blocks on a probe.
type registry struct {
	mu      sync.Mutex
	byID    map[string]*models.Device
	ipIndex map[string]string
}

func newRegistry() *registry {
	return &registry{
		byID:    make(map[string]*models.Device),
		ipIndex: make(map[string]string),
	}
}

func (r *registry) load(devices []*models.Device) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[string]*models.Device, len(devices))
	r.ipIndex = make(map[string]string, len(devices))

	for _, d := range devices {
		cp := *d
		r.byID[d.ID] = &cp
		r.ipIndex[d.IP] = d.ID
	}
}

// upsert inserts or replaces a device by id, keeping the IP index
// consistent.
func (r *registry) upsert(d *models.Device) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *d
	r.byID[d.ID] = &cp
	r.ipIndex[d.IP] = d.ID
}

func (r *registry) get(id string) (*models.Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return nil, false
	}

	cp := *d

	return &cp, true
}

func (r *registry) getByIP(ip string) (*models.Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.ipIndex[ip]
	if !ok {
		return nil, false
	}

	cp := *r.byID[id]

	return &cp, true
}

func (r *registry) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.byID[id]; ok {
		delete(r.ipIndex, d.IP)
		delete(r.byID, id)
	}
}

// snapshot returns a copy of every device, safe for the caller to iterate
// without holding the registry lock.
func (r *registry) snapshot() []*models.Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Device, 0, len(r.byID))

	for _, d := range r.byID {
		cp := *d
		out = append(out, &cp)
	}

	return out
}
