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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanwatch/collector/pkg/models"
)

func TestCollectDeviceNowPollsTrackedDevice(t *testing.T) {
	e, store, _, remote, _, _, _ := newTestEngine()

	d := &models.Device{ID: "dev-5", IP: "10.0.0.30", Community: "public"}
	require.NoError(t, store.UpsertDevice(context.Background(), d))
	e.reg.upsert(d)

	remote.samples["10.0.0.30"] = &models.Sample{
		System: models.SystemSample{Hostname: "switch5"},
		CPU:    models.CPUSample{Ok: true, UsagePercent: 12},
	}

	require.NoError(t, e.CollectDeviceNow(context.Background(), "dev-5"))

	got, ok := e.Device("dev-5")
	require.True(t, ok)
	assert.Equal(t, "switch5", got.Hostname)
}

func TestCollectDeviceNowRejectsUnknownDevice(t *testing.T) {
	e, _, _, _, _, _, _ := newTestEngine()

	err := e.CollectDeviceNow(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, errDeviceNotFound)
}

func TestTestRemoteConnectivityStopsAtFirstRespondingCommunity(t *testing.T) {
	e, _, _, remote, _, _, _ := newTestEngine()

	remote.samples["10.0.0.40"] = &models.Sample{System: models.SystemSample{Hostname: "router1"}}

	result := e.TestRemoteConnectivity(context.Background(), "10.0.0.40", nil)
	assert.True(t, result.Reachable)
	assert.Equal(t, "public", result.Community)
	assert.Equal(t, "router1", result.Hostname)
}

func TestTestRemoteConnectivityReportsUnreachable(t *testing.T) {
	e, _, _, _, _, _, _ := newTestEngine()

	result := e.TestRemoteConnectivity(context.Background(), "10.0.0.41", []string{"public"})
	assert.False(t, result.Reachable)
}

func TestPingHostDelegatesToScanner(t *testing.T) {
	e, _, _, _, scanner, _, _ := newTestEngine()

	scanner.pingAlive = true
	scanner.pingRTT = 5 * time.Millisecond

	alive, rtt, err := e.PingHost(context.Background(), "10.0.0.1", 0)
	require.NoError(t, err)
	assert.True(t, alive)
	assert.Equal(t, 5*time.Millisecond, rtt)
}

func TestPortScanHostDelegatesToScanner(t *testing.T) {
	e, _, _, _, scanner, _, _ := newTestEngine()

	scanner.openPorts = []int{22, 443}

	ports := e.PortScanHost(context.Background(), "10.0.0.1", 0)
	assert.Equal(t, []int{22, 443}, ports)
}

func TestBulkAckReportsPerIDOutcome(t *testing.T) {
	e, _, _, _, _, alerts, _ := newTestEngine()

	created, err := alerts.Create(context.Background(), models.AlertCreate{DeviceID: "dev-1"})
	require.NoError(t, err)

	results := e.BulkAck(context.Background(), []string{created.ID, "no-such-alert"}, "operator")
	require.Len(t, results, 2)

	assert.Equal(t, created.ID, results[0].ID)
	assert.Empty(t, results[0].Error)

	assert.Equal(t, "no-such-alert", results[1].ID)
	assert.NotEmpty(t, results[1].Error)
}

func TestBulkResolveReportsPerIDOutcome(t *testing.T) {
	e, _, _, _, _, alerts, _ := newTestEngine()

	created, err := alerts.Create(context.Background(), models.AlertCreate{DeviceID: "dev-1"})
	require.NoError(t, err)

	results := e.BulkResolve(context.Background(), []string{created.ID, "no-such-alert"}, "operator")
	require.Len(t, results, 2)

	assert.Empty(t, results[0].Error)
	assert.NotEmpty(t, results[1].Error)
	assert.Empty(t, alerts.Active())
}

func TestOverviewDelegatesToStore(t *testing.T) {
	e, store, _, _, _, _, _ := newTestEngine()

	require.NoError(t, store.UpsertDevice(context.Background(), &models.Device{ID: "dev-a", Status: models.StatusOnline}))
	require.NoError(t, store.UpsertDevice(context.Background(), &models.Device{ID: "dev-b", Status: models.StatusOffline}))

	overview, err := e.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, overview.TotalDevices)
	assert.Equal(t, 1, overview.StatusCounts[string(models.StatusOnline)])
}

func TestTopUsageDelegatesToStore(t *testing.T) {
	e, store, _, _, _, _, _ := newTestEngine()

	require.NoError(t, store.UpsertDevice(context.Background(), &models.Device{ID: "dev-a", IP: "10.0.0.1"}))
	require.NoError(t, store.UpsertDevice(context.Background(), &models.Device{ID: "dev-b", IP: "10.0.0.2"}))

	now := time.Now().UTC()
	require.NoError(t, store.InsertMetrics(context.Background(), "dev-a", []models.MetricSample{
		{DeviceID: "dev-a", MetricType: models.MetricCPUUsage, Value: 40, Timestamp: now},
	}))
	require.NoError(t, store.InsertMetrics(context.Background(), "dev-b", []models.MetricSample{
		{DeviceID: "dev-b", MetricType: models.MetricCPUUsage, Value: 90, Timestamp: now},
	}))

	top, err := e.TopUsage(context.Background(), models.MetricCPUUsage, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "dev-b", top[0].DeviceID)
}
