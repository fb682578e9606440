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

// LocalDeviceID is the sentinel id of the device populated from the host
// machine via HostProbe rather than RemoteProbe.
const LocalDeviceID = "localhost"

// LocalCommunity marks a device as host-probed; it is never sent on the wire.
const LocalCommunity = "local"

// DeviceStatus is the derived health of a device.
type DeviceStatus string

const (
	StatusUnknown  DeviceStatus = "unknown"
	StatusOnline   DeviceStatus = "online"
	StatusWarning  DeviceStatus = "warning"
	StatusCritical DeviceStatus = "critical"
	StatusOffline  DeviceStatus = "offline"
)

// Device is a monitored endpoint, either the local host or a remote device
// reachable via the management protocol.
type Device struct {
	ID          string       `json:"id"`
	IP          string       `json:"ip"`
	Hostname    string       `json:"hostname"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Contact     string       `json:"contact"`
	Community   string       `json:"community"`
	Status      DeviceStatus `json:"status"`
	FirstSeen   time.Time    `json:"first_seen"`
	LastSeen    time.Time    `json:"last_seen"`
}

// IsLocal reports whether this device is the host-probed sentinel.
func (d *Device) IsLocal() bool {
	return d.ID == LocalDeviceID
}
