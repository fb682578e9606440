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

package scan

import (
	"fmt"
	"net"
)

// Preset is a named, ready-to-use range specification offered by the
// "list scan presets" entry of the inbound control surface.
type Preset struct {
	Name  string `json:"name"`
	Range string `json:"range"`
}

// Presets returns the constant list of common range shapes: the /24
// containing the host's primary address (if one can be determined) plus
// the common RFC1918 private ranges.
func Presets() []Preset {
	presets := make([]Preset, 0, 4)

	if local := localSlash24(); local != "" {
		presets = append(presets, Preset{Name: "current network", Range: local})
	}

	presets = append(presets,
		Preset{Name: "home network", Range: "192.168.1.0/24"},
		Preset{Name: "office network", Range: "10.0.0.0/24"},
		Preset{Name: "private class B", Range: "172.16.0.0/24"},
	)

	return presets
}

// localSlash24 derives the /24 containing the first non-loopback IPv4
// address this host has configured, or "" if none is found.
func localSlash24() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}

		ip4 := ipNet.IP.To4()
		if ip4 == nil {
			continue
		}

		return fmt.Sprintf("%d.%d.%d.0/24", ip4[0], ip4[1], ip4[2])
	}

	return ""
}
