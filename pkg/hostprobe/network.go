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

package hostprobe

import (
	"fmt"
	"net"

	"github.com/lanwatch/collector/pkg/models"
)

// collectNetwork enumerates every interface, exposing name, CIDR, MAC and
// an internal (loopback) flag; the first non-internal entry with an IPv4
// address is flagged Primary.
func (p *Prober) collectNetwork(sample *models.Sample) {
	ifaces, err := net.Interfaces()
	if err != nil {
		sample.Errors = append(sample.Errors, fmt.Sprintf("network: %v", err))
		return
	}

	group := models.NetworkGroup{Name: "local"}
	primarySet := false

	for i, iface := range ifaces {
		entry := models.InterfaceSample{
			Index:       i + 1,
			Name:        iface.Name,
			MAC:         iface.HardwareAddr.String(),
			Internal:    iface.Flags&net.FlagLoopback != 0,
			AdminStatus: adminStatus(iface.Flags),
			OperStatus:  operStatus(iface.Flags),
		}

		if addrs, err := iface.Addrs(); err == nil {
			for _, addr := range addrs {
				ipNet, ok := addr.(*net.IPNet)
				if !ok || ipNet.IP.To4() == nil {
					continue
				}

				entry.CIDR = ipNet.String()

				break
			}
		}

		if !entry.Internal && entry.CIDR != "" && !primarySet {
			entry.Primary = true
			primarySet = true
		}

		group.Interfaces = append(group.Interfaces, entry)
	}

	sample.Network = []models.NetworkGroup{group}
}

func adminStatus(flags net.Flags) string {
	if flags&net.FlagUp != 0 {
		return "up"
	}

	return "down"
}

func operStatus(flags net.Flags) string {
	if flags&net.FlagRunning != 0 {
		return "up"
	}

	return "down"
}
