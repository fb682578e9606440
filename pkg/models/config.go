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

// Config keys recognized by Store.GetConfig/SetConfig and Engine.UpdateConfig.
const (
	ConfigRefreshInterval        = "refresh_interval"
	ConfigDefaultCommunity       = "default_community"
	ConfigScanTimeout            = "scan_timeout"
	ConfigSNMPTimeout            = "snmp_timeout"
	ConfigMaxHistoryDays         = "max_history_days"
	ConfigCPUWarningThreshold    = "cpu_warning_threshold"
	ConfigCPUCriticalThreshold   = "cpu_critical_threshold"
	ConfigMemoryWarningThreshold = "memory_warning_threshold"
	ConfigMemoryCriticalThreshold = "memory_critical_threshold"
	ConfigDiskWarningThreshold   = "disk_warning_threshold"
	ConfigDiskCriticalThreshold  = "disk_critical_threshold"
)

// ConfigRange is the {default, min, max} range of a recognized key.
type ConfigRange struct {
	Default string
	Min     int
	Max     int
}

// ConfigDefaults mirrors the key table in the external interfaces section:
// defaults and valid numeric ranges for every recognized configuration key.
var ConfigDefaults = map[string]ConfigRange{
	ConfigRefreshInterval:         {Default: "10", Min: 5, Max: 300},
	ConfigDefaultCommunity:        {Default: "public"},
	ConfigScanTimeout:             {Default: "3000", Min: 1000, Max: 30000},
	ConfigSNMPTimeout:             {Default: "5000", Min: 1000, Max: 30000},
	ConfigMaxHistoryDays:          {Default: "30", Min: 1, Max: 365},
	ConfigCPUWarningThreshold:     {Default: "75", Min: 1, Max: 100},
	ConfigCPUCriticalThreshold:    {Default: "90", Min: 1, Max: 100},
	ConfigMemoryWarningThreshold:  {Default: "80", Min: 1, Max: 100},
	ConfigMemoryCriticalThreshold: {Default: "95", Min: 1, Max: 100},
	ConfigDiskWarningThreshold:    {Default: "85", Min: 1, Max: 100},
	ConfigDiskCriticalThreshold:   {Default: "95", Min: 1, Max: 100},
}

// Threshold is a {warning, critical} pair for one metric kind.
type Threshold struct {
	Warning  float64
	Critical float64
}

// Thresholds holds the clamped, validated threshold set the Engine applies.
type Thresholds struct {
	CPU    Threshold
	Memory Threshold
	Disk   Threshold
}

// StoreStats is the row-count/footprint summary returned by Store.Stats.
type StoreStats struct {
	DeviceCount           int   `json:"device_count"`
	MetricCount           int   `json:"metric_count"`
	AlertCount            int   `json:"alert_count"`
	ScanHistoryCount      int   `json:"scan_history_count"`
	NetworkInterfaceCount int   `json:"network_interface_count"`
	StorageBytes          int64 `json:"storage_bytes"`
}
