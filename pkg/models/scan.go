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

// ScanRecord is an audit entry for a completed sweep.
type ScanRecord struct {
	ScanRange       string    `json:"scan_range"`
	TotalIPs        int       `json:"total_ips"`
	DiscoveredHosts int       `json:"discovered_hosts"`
	DurationMs      int64     `json:"duration_ms"`
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
}

// ScanOptions configures a single Scanner.Start invocation.
type ScanOptions struct {
	TimeoutMS    int  `json:"timeout_ms"`
	Concurrent   int  `json:"concurrent"`
	IncludePorts bool `json:"include_ports"`
}

// ScanState is the Scanner's state machine position.
type ScanState string

const (
	ScanIdle          ScanState = "idle"
	ScanScanning      ScanState = "scanning"
	ScanIdleCompleted ScanState = "idle_completed"
	ScanIdleStopped   ScanState = "idle_stopped"
	ScanIdleError     ScanState = "idle_error"
)

// HostResult is one responsive host found during a sweep.
type HostResult struct {
	IP       string `json:"ip"`
	RTTMs    int64  `json:"rtt_ms,omitempty"`
	OpenPort []int  `json:"ports,omitempty"`
}

// RangeInfo is the outcome of validating a range specification.
type RangeInfo struct {
	Valid    bool     `json:"valid"`
	Error    string   `json:"error,omitempty"`
	TotalIPs int      `json:"total_ips,omitempty"`
	FirstIP  string   `json:"first_ip,omitempty"`
	LastIP   string   `json:"last_ip,omitempty"`
	SampleIPs []string `json:"sample_ips,omitempty"`
}
