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

// Sample is the normalized output of HostProbe or RemoteProbe for one
// device in one tick. A probe never raises; it always returns a Sample,
// appending to Errors for anything it could not collect.
type Sample struct {
	System  SystemSample   `json:"system"`
	CPU     CPUSample      `json:"cpu"`
	Memory  MemorySample   `json:"memory"`
	Disk    DiskSample     `json:"disk"`
	Network []NetworkGroup `json:"network"`
	Errors  []string       `json:"errors,omitempty"`
}

// SystemSample mirrors the per-poll identity/uptime fields of a device.
type SystemSample struct {
	Hostname         string `json:"hostname"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	Contact          string `json:"contact"`
	UptimeS          int64  `json:"uptime_s"`
	Platform         string `json:"platform"`
	Arch             string `json:"arch"`
	CPUCores         int    `json:"cpu_cores"`
	TotalMemoryBytes uint64 `json:"total_memory_bytes"`
}

// CPUSample is the CPU half of a Sample.
type CPUSample struct {
	UsagePercent float64 `json:"usage_percent"`
	Ok           bool    `json:"-"`
}

// MemorySample is the memory half of a Sample.
type MemorySample struct {
	UsagePercent float64 `json:"usage_percent"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsedBytes    uint64  `json:"used_bytes"`
	Ok           bool    `json:"-"`
}

// DiskSample is the disk half of a Sample.
type DiskSample struct {
	UsagePercent float64 `json:"usage_percent"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsedBytes    uint64  `json:"used_bytes"`
	Ok           bool    `json:"-"`
}

// NetworkGroup groups the interfaces discovered on one probed target.
type NetworkGroup struct {
	Name       string             `json:"name"`
	Interfaces []InterfaceSample  `json:"interfaces"`
}

// InterfaceSample is one interface as reported by a probe, before it is
// persisted as a models.NetworkInterface row.
type InterfaceSample struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Speed       uint64 `json:"speed"`
	AdminStatus string `json:"admin_status"`
	OperStatus  string `json:"oper_status"`
	InOctets    uint64 `json:"in_octets"`
	OutOctets   uint64 `json:"out_octets"`
	CIDR        string `json:"cidr,omitempty"`
	MAC         string `json:"mac,omitempty"`
	Internal    bool   `json:"internal,omitempty"`
	Primary     bool   `json:"primary,omitempty"`
}

// Primary returns the first non-loopback, IPv4-family, non-internal
// interface across every network group, matching HostProbe's primary
// interface selection rule.
func (s *Sample) Primary() *InterfaceSample {
	for i := range s.Network {
		for j := range s.Network[i].Interfaces {
			iface := &s.Network[i].Interfaces[j]
			if !iface.Internal && iface.CIDR != "" {
				return iface
			}
		}
	}

	return nil
}
