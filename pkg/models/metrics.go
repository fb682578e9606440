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

package models

import "time"

// MetricType identifies the kind of a MetricSample.
type MetricType string

const (
	MetricCPUUsage     MetricType = "cpu_usage"
	MetricMemoryUsage  MetricType = "memory_usage"
	MetricDiskUsage    MetricType = "disk_usage"
	MetricMemoryTotal  MetricType = "memory_total"
	MetricMemoryUsed   MetricType = "memory_used"
	MetricDiskTotal    MetricType = "disk_total"
	MetricDiskUsed     MetricType = "disk_used"
)

// MetricUnit is the unit a MetricSample's value is expressed in.
type MetricUnit string

const (
	UnitPercent MetricUnit = "percent"
	UnitBytes   MetricUnit = "bytes"
)

// UnitForMetricType returns the fixed unit for a given metric type.
func UnitForMetricType(t MetricType) MetricUnit {
	switch t {
	case MetricCPUUsage, MetricMemoryUsage, MetricDiskUsage:
		return UnitPercent
	default:
		return UnitBytes
	}
}

// MetricSample is one immutable observation of a device.
type MetricSample struct {
	DeviceID   string     `json:"device_id"`
	MetricType MetricType `json:"metric_type"`
	Value      float64    `json:"value"`
	Unit       MetricUnit `json:"unit"`
	Timestamp  time.Time  `json:"timestamp"`
}

// AggregateBucket is one bucketed roll-up row.
type AggregateBucket struct {
	BucketStart time.Time `json:"bucket_start"`
	Avg         float64   `json:"avg"`
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	SampleCount int       `json:"sample_count"`
}

// SystemInfo is a per-poll summary row.
type SystemInfo struct {
	DeviceID  string    `json:"device_id"`
	UptimeS   int64     `json:"uptime_s"`
	Processes int       `json:"processes"`
	Users     int       `json:"users"`
	Timestamp time.Time `json:"timestamp"`
}

// NetworkInterface is a device interface row. Only the latest snapshot per
// device is retained; older rows may be purged by Store.Cleanup.
type NetworkInterface struct {
	DeviceID    string    `json:"device_id"`
	Index       int       `json:"index"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Speed       uint64    `json:"speed"`
	AdminStatus string    `json:"admin_status"`
	OperStatus  string    `json:"oper_status"`
	InOctets    uint64    `json:"in_octets"`
	OutOctets   uint64    `json:"out_octets"`
	Timestamp   time.Time `json:"timestamp"`
}

// MetricsOverview is the fleet-wide summary for the "metrics overview" entry
// of the inbound control surface: device counts by derived status plus the
// average of each usage metric's latest reading across every device that
// has reported one.
type MetricsOverview struct {
	TotalDevices   int            `json:"total_devices"`
	StatusCounts   map[string]int `json:"status_counts"`
	AvgCPUUsage    float64        `json:"avg_cpu_usage"`
	AvgMemoryUsage float64        `json:"avg_memory_usage"`
	AvgDiskUsage   float64        `json:"avg_disk_usage"`
}

// DeviceUsage is one row of a "top usage" ranking: a device's latest value
// for the metric type the ranking was requested for.
type DeviceUsage struct {
	DeviceID  string    `json:"device_id"`
	IP        string    `json:"ip"`
	Hostname  string    `json:"hostname"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}
