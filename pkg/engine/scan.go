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
	"context"

	"github.com/google/uuid"

	"github.com/lanwatch/collector/pkg/models"
	"github.com/lanwatch/collector/pkg/scan"
)

// discoveryCommunities is the ordered community list ProcessDiscoveredHost
// tries against a newly found, not-yet-registered host.
var discoveryCommunities = []string{"public", "private", "monitoring"}

// ScanNetwork delegates a sweep to the Scanner, enriches every discovered
// host into a tracked device, and appends a ScanRecord on completion. Only
// one scan may run at a time; a concurrent attempt is rejected.
func (e *Engine) ScanNetwork(ctx context.Context, rangeSpec string, opts models.ScanOptions) ([]models.HostResult, error) {
	if !e.scanInProgress.CompareAndSwap(false, true) {
		return nil, errScanInProgress
	}
	defer e.scanInProgress.Store(false)

	started := e.clock.Now()

	results, err := e.scanner.Start(ctx, rangeSpec, opts)
	if err != nil {
		return nil, err
	}

	for _, host := range results {
		e.ProcessDiscoveredHost(ctx, host)
	}

	completed := e.clock.Now()

	e.scanMu.Lock()
	e.lastScanAt = completed
	e.scanMu.Unlock()

	totalIPs := len(results)
	if ips, _, parseErr := scan.ParseRange(rangeSpec); parseErr == nil {
		totalIPs = len(ips)
	}

	rec := &models.ScanRecord{
		ScanRange:       rangeSpec,
		TotalIPs:        totalIPs,
		DiscoveredHosts: len(results),
		DurationMs:      completed.Sub(started).Milliseconds(),
		StartedAt:       started,
		CompletedAt:     completed,
	}

	if err := e.store.AppendScanHistory(ctx, rec); err != nil {
		e.log.Error().Err(err).Str("range", rangeSpec).Msg("failed to append scan history")
	}

	return results, nil
}

// ProcessDiscoveredHost turns one scan hit into a tracked device: an
// existing device at this IP is just marked online; a new one is probed
// with the discovery community list, taking the first community that
// yields identity information, falling back to "public" with the IP as
// hostname if none answer.
func (e *Engine) ProcessDiscoveredHost(ctx context.Context, host models.HostResult) *models.Device {
	now := e.clock.Now()

	if d, ok := e.reg.getByIP(host.IP); ok {
		d.Status = models.StatusOnline
		d.LastSeen = now

		if err := e.store.UpsertDevice(ctx, d); err != nil {
			e.log.Error().Err(err).Str("ip", host.IP).Msg("failed to mark discovered device online")
		}

		e.reg.upsert(d)

		return d
	}

	community := "public"

	var sample *models.Sample

	for _, c := range discoveryCommunities {
		s := e.remote.CollectAll(ctx, host.IP, c)
		if s != nil && s.System.Hostname != "" {
			community = c
			sample = s

			break
		}
	}

	d := &models.Device{
		ID:        uuid.NewString(),
		IP:        host.IP,
		Community: community,
		Status:    models.StatusOnline,
		FirstSeen: now,
		LastSeen:  now,
		Hostname:  host.IP,
	}

	if sample != nil {
		d.Hostname = sample.System.Hostname
		d.Description = sample.System.Description
		d.Location = sample.System.Location
		d.Contact = sample.System.Contact
	}

	if err := e.store.UpsertDevice(ctx, d); err != nil {
		e.log.Error().Err(err).Str("ip", host.IP).Msg("failed to register discovered device")
		return d
	}

	e.reg.upsert(d)

	return d
}
