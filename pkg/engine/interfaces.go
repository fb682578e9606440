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

// Store is the persistence surface the Engine needs. *store.Store
// satisfies it; tests substitute a fake to avoid a real database.
type Store interface {
	UpsertDevice(ctx context.Context, d *models.Device) error
	ListDevices(ctx context.Context) ([]*models.Device, error)

	InsertMetrics(ctx context.Context, deviceID string, samples []models.MetricSample) error
	InsertSystemInfo(ctx context.Context, info *models.SystemInfo) error
	ReplaceInterfaces(ctx context.Context, deviceID string, list []models.NetworkInterface) error

	AppendScanHistory(ctx context.Context, rec *models.ScanRecord) error

	ListConfig(ctx context.Context) (map[string]string, error)
	SetConfig(ctx context.Context, key, value string) error

	Overview(ctx context.Context) (*models.MetricsOverview, error)
	TopUsage(ctx context.Context, metricType models.MetricType, limit int) ([]models.DeviceUsage, error)

	Cleanup(ctx context.Context, retentionDays int) error

	Close() error
}

// HostProbe collects a Sample for the local machine.
type HostProbe interface {
	Collect(ctx context.Context) *models.Sample
}

// RemoteProbe collects a Sample for a device over SNMP.
type RemoteProbe interface {
	CollectAll(ctx context.Context, ip, community string) *models.Sample
	Close()
}

// Scanner sweeps an address range for responsive hosts.
type Scanner interface {
	Start(ctx context.Context, rangeSpec string, opts models.ScanOptions) ([]models.HostResult, error)
	Stop()
	State() models.ScanState
	Close() error
	Ping(ctx context.Context, host string, timeout time.Duration) (bool, time.Duration, error)
	PortScan(ctx context.Context, host string, timeout time.Duration) []int
}

// AlertEngine is the canonical active-alert set.
type AlertEngine interface {
	Create(ctx context.Context, create models.AlertCreate) (*models.Alert, error)
	Ack(ctx context.Context, id, who string) (*models.Alert, error)
	Resolve(ctx context.Context, id, who string) (*models.Alert, error)
	Delete(ctx context.Context, id string) error
	AutoResolve(ctx context.Context, deviceID string, alertType models.AlertType, currentValue float64, threshold models.Threshold) error
	Load(ctx context.Context) error
	Active() []*models.Alert
	Stats() models.AlertStats
}

// EventSink receives engine lifecycle events. The Engine wires this to the
// Broadcaster.
type EventSink interface {
	Emit(eventType string, data any)
}
