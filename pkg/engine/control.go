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
	"time"

	"github.com/lanwatch/collector/pkg/models"
)

// CollectDeviceNow probes one already-tracked device immediately, outside
// the regular tick cadence, for the "collect device now" entry of the
// inbound control surface.
func (e *Engine) CollectDeviceNow(ctx context.Context, deviceID string) error {
	d, ok := e.reg.get(deviceID)
	if !ok {
		return errDeviceNotFound
	}

	e.pollDevice(ctx, d)

	return nil
}

// ConnectivityResult reports whether a remote device answered SNMP on any
// of the tried communities, and which one worked.
type ConnectivityResult struct {
	Reachable bool   `json:"reachable"`
	Community string `json:"community,omitempty"`
	Hostname  string `json:"hostname,omitempty"`
}

// TestRemoteConnectivity probes ip over SNMPv2c with each of communities in
// turn (falling back to the standard discovery list if none are given),
// stopping at the first one that returns identity information, for the
// "test remote connectivity" entry of the inbound control surface.
func (e *Engine) TestRemoteConnectivity(ctx context.Context, ip string, communities []string) ConnectivityResult {
	if len(communities) == 0 {
		communities = discoveryCommunities
	}

	for _, c := range communities {
		sample := e.remote.CollectAll(ctx, ip, c)
		if sample != nil && sample.System.Hostname != "" {
			return ConnectivityResult{Reachable: true, Community: c, Hostname: sample.System.Hostname}
		}
	}

	return ConnectivityResult{}
}

// PingHost sends a single ICMP echo probe to host, independent of any sweep
// in progress, for the "ping host" entry of the inbound control surface.
func (e *Engine) PingHost(ctx context.Context, host string, timeout time.Duration) (bool, time.Duration, error) {
	return e.scanner.Ping(ctx, host, timeout)
}

// PortScanHost checks the scanner's fixed well-known port list against
// host, for the "port scan host" entry of the inbound control surface.
func (e *Engine) PortScanHost(ctx context.Context, host string, timeout time.Duration) []int {
	return e.scanner.PortScan(ctx, host, timeout)
}

// BulkResult is the per-id outcome of a bulk alert operation.
type BulkResult struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

// BulkAck acknowledges every alert id in ids independently, continuing past
// per-id failures, for the "bulk ack" entry of the inbound control surface.
func (e *Engine) BulkAck(ctx context.Context, ids []string, who string) []BulkResult {
	out := make([]BulkResult, 0, len(ids))

	for _, id := range ids {
		if _, err := e.alerts.Ack(ctx, id, who); err != nil {
			out = append(out, BulkResult{ID: id, Error: err.Error()})
			continue
		}

		out = append(out, BulkResult{ID: id})
	}

	return out
}

// BulkResolve resolves every alert id in ids independently, continuing past
// per-id failures, for the "bulk resolve" entry of the inbound control
// surface.
func (e *Engine) BulkResolve(ctx context.Context, ids []string, who string) []BulkResult {
	out := make([]BulkResult, 0, len(ids))

	for _, id := range ids {
		if _, err := e.alerts.Resolve(ctx, id, who); err != nil {
			out = append(out, BulkResult{ID: id, Error: err.Error()})
			continue
		}

		out = append(out, BulkResult{ID: id})
	}

	return out
}

// Overview returns the fleet-wide metrics summary for the "metrics
// overview" entry of the inbound control surface.
func (e *Engine) Overview(ctx context.Context) (*models.MetricsOverview, error) {
	return e.store.Overview(ctx)
}

// TopUsage ranks devices by their latest reading of metricType, descending,
// truncated to n rows, for the "top usage" entry of the inbound control
// surface.
func (e *Engine) TopUsage(ctx context.Context, metricType models.MetricType, n int) ([]models.DeviceUsage, error) {
	return e.store.TopUsage(ctx, metricType, n)
}
