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

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "collector.db")

	s, err := Open(context.Background(), path, logger.NewTestLogger())
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestUpsertDevicePreservesFirstSeen(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := &models.Device{ID: "dev1", IP: "10.0.0.1", Status: models.StatusOnline}
	require.NoError(t, s.UpsertDevice(ctx, d))

	got, err := s.GetDevice(ctx, "dev1")
	require.NoError(t, err)

	firstSeen := got.FirstSeen

	time.Sleep(2 * time.Millisecond)

	d2 := &models.Device{ID: "dev1", IP: "10.0.0.1", Status: models.StatusWarning}
	require.NoError(t, s.UpsertDevice(ctx, d2))

	got2, err := s.GetDevice(ctx, "dev1")
	require.NoError(t, err)
	require.True(t, got2.FirstSeen.Equal(firstSeen))
	require.Equal(t, models.StatusWarning, got2.Status)
}

func TestUpsertDeviceRoundTripsShape(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := &models.Device{ID: "dev1", IP: "10.0.0.1", Hostname: "h", Community: "public", Status: models.StatusOnline}
	require.NoError(t, s.UpsertDevice(ctx, d))

	got, err := s.GetDevice(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, d.ID, got.ID)
	require.Equal(t, d.IP, got.IP)
	require.Equal(t, d.Hostname, got.Hostname)
	require.Equal(t, d.Status, got.Status)
}

func TestDeleteDeviceCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev1", IP: "10.0.0.1"}))
	require.NoError(t, s.InsertMetric(ctx, "dev1", models.MetricCPUUsage, 50, models.UnitPercent))
	require.NoError(t, s.ReplaceInterfaces(ctx, "dev1", []models.NetworkInterface{{DeviceID: "dev1", Index: 1, Name: "eth0"}}))

	a := &models.Alert{ID: uuid.NewString(), DeviceID: "dev1", Type: models.AlertCPU, Severity: models.SeverityWarning, CreatedAt: time.Now().UTC(), LastOccurrence: time.Now().UTC()}
	require.NoError(t, s.InsertAlert(ctx, a))

	require.NoError(t, s.DeleteDevice(ctx, "dev1"))

	_, err := s.GetDevice(ctx, "dev1")
	require.ErrorIs(t, err, ErrDeviceNotFound)

	metrics, err := s.LatestMetrics(ctx, "dev1", nil)
	require.NoError(t, err)
	require.Empty(t, metrics)

	ifaces, err := s.ListInterfaces(ctx, "dev1")
	require.NoError(t, err)
	require.Empty(t, ifaces)

	alerts, err := s.ListAlerts(ctx, models.AlertFilter{DeviceID: "dev1"}, 0, 0)
	require.NoError(t, err)
	require.Empty(t, alerts)
}

func TestInsertMetricsIsAtomicPerBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev1", IP: "10.0.0.1"}))

	now := time.Now().UTC()
	samples := []models.MetricSample{
		{DeviceID: "dev1", MetricType: models.MetricCPUUsage, Value: 10, Unit: models.UnitPercent, Timestamp: now},
		{DeviceID: "dev1", MetricType: models.MetricMemoryUsage, Value: 20, Unit: models.UnitPercent, Timestamp: now},
	}

	require.NoError(t, s.InsertMetrics(ctx, "dev1", samples))

	latest, err := s.LatestMetrics(ctx, "dev1", nil)
	require.NoError(t, err)
	require.Len(t, latest, 2)
}

func TestAggregateMetricsHourlyBucket(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev1", IP: "10.0.0.1"}))

	base := time.Now().UTC().Truncate(time.Hour).Add(time.Minute)
	values := []float64{10, 20, 30, 40}

	for i, v := range values {
		require.NoError(t, s.InsertMetrics(ctx, "dev1", []models.MetricSample{{
			DeviceID: "dev1", MetricType: models.MetricCPUUsage, Value: v, Unit: models.UnitPercent,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}}))
	}

	buckets, err := s.AggregateMetrics(ctx, "dev1", models.MetricCPUUsage, "hour", 24)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.Equal(t, 25.0, buckets[0].Avg)
	require.Equal(t, 10.0, buckets[0].Min)
	require.Equal(t, 40.0, buckets[0].Max)
	require.Equal(t, 4, buckets[0].SampleCount)
}

func TestInsertAlertRejectsDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev1", IP: "10.0.0.1"}))

	a := &models.Alert{ID: "alert1", DeviceID: "dev1", Type: models.AlertCPU, Severity: models.SeverityWarning,
		CreatedAt: time.Now().UTC(), LastOccurrence: time.Now().UTC()}
	require.NoError(t, s.InsertAlert(ctx, a))
	require.ErrorIs(t, s.InsertAlert(ctx, a), ErrAlertAlreadyExists)
}

func TestAckThenResolveAlertLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev1", IP: "10.0.0.1"}))

	a := &models.Alert{ID: "alert1", DeviceID: "dev1", Type: models.AlertCPU, Severity: models.SeverityWarning,
		CreatedAt: time.Now().UTC(), LastOccurrence: time.Now().UTC()}
	require.NoError(t, s.InsertAlert(ctx, a))

	require.NoError(t, s.AckAlert(ctx, "alert1", "alice"))
	require.ErrorIs(t, s.AckAlert(ctx, "alert1", "alice"), ErrAlertNotFound)

	require.NoError(t, s.ResolveAlert(ctx, "alert1", "alice"))

	active, err := s.ListAlerts(ctx, models.AlertFilter{ActiveOnly: true}, 0, 0)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestConfigRoundTripsAfterClamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetConfig(ctx, models.ConfigCPUWarningThreshold, "999"))

	v, err := s.GetConfig(ctx, models.ConfigCPUWarningThreshold)
	require.NoError(t, err)
	require.Equal(t, "100", v)
}

func TestGetConfigDefaultWhenUnset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v, err := s.GetConfig(ctx, models.ConfigRefreshInterval)
	require.NoError(t, err)
	require.Equal(t, "10", v)
}

func TestCleanupPurgesAgedMetrics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev1", IP: "10.0.0.1"}))

	old := time.Now().UTC().AddDate(0, 0, -40)
	require.NoError(t, s.InsertMetrics(ctx, "dev1", []models.MetricSample{
		{DeviceID: "dev1", MetricType: models.MetricCPUUsage, Value: 1, Unit: models.UnitPercent, Timestamp: old},
	}))
	require.NoError(t, s.InsertMetric(ctx, "dev1", models.MetricCPUUsage, 2, models.UnitPercent))

	require.NoError(t, s.Cleanup(ctx, 30))

	recent, err := s.MetricsHistory(ctx, "dev1", models.MetricCPUUsage, 24)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestStatsCountsRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev1", IP: "10.0.0.1"}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.DeviceCount)
	require.Greater(t, stats.StorageBytes, int64(0))
}

func TestOverviewCountsStatusesAndAveragesLatestUsage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev1", IP: "10.0.0.1", Status: models.StatusOnline}))
	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev2", IP: "10.0.0.2", Status: models.StatusOffline}))

	require.NoError(t, s.InsertMetric(ctx, "dev1", models.MetricCPUUsage, 20, models.UnitPercent))
	require.NoError(t, s.InsertMetric(ctx, "dev2", models.MetricCPUUsage, 60, models.UnitPercent))

	overview, err := s.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, overview.TotalDevices)
	require.Equal(t, 1, overview.StatusCounts[string(models.StatusOnline)])
	require.Equal(t, 1, overview.StatusCounts[string(models.StatusOffline)])
	require.Equal(t, 40.0, overview.AvgCPUUsage)
}

func TestTopUsageRanksByLatestValueDescending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev1", IP: "10.0.0.1", Hostname: "low"}))
	require.NoError(t, s.UpsertDevice(ctx, &models.Device{ID: "dev2", IP: "10.0.0.2", Hostname: "high"}))

	require.NoError(t, s.InsertMetric(ctx, "dev1", models.MetricDiskUsage, 10, models.UnitPercent))
	require.NoError(t, s.InsertMetric(ctx, "dev2", models.MetricDiskUsage, 90, models.UnitPercent))

	top, err := s.TopUsage(ctx, models.MetricDiskUsage, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, "dev2", top[0].DeviceID)
	require.Equal(t, "high", top[0].Hostname)
	require.Equal(t, 90.0, top[0].Value)
}

func TestScanHistoryRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &models.ScanRecord{ScanRange: "192.168.1.1-254", TotalIPs: 254, DiscoveredHosts: 1,
		StartedAt: time.Now().UTC(), CompletedAt: time.Now().UTC()}
	require.NoError(t, s.AppendScanHistory(ctx, rec))

	list, err := s.ListScanHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "192.168.1.1-254", list[0].ScanRange)
	require.Equal(t, 254, list[0].TotalIPs)
}
