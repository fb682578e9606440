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

package remoteprobe

import (
	"context"
	"strings"

	"github.com/gosnmp/gosnmp"

	"github.com/lanwatch/collector/pkg/models"
)

const ucdKilobyte = 1024

// collectMemory prefers the UCD-MIB real-memory counters, which report in
// whole kilobytes and need no unit lookup; if a device doesn't carry the
// net-snmpd UCD tree it falls back to scanning the host-resources storage
// table for the row whose description reads like physical memory.
func (p *Prober) collectMemory(_ context.Context, client *gosnmp.GoSNMP, sample *models.Sample) {
	if total, used, ok := p.ucdMemory(client); ok {
		sample.Memory.TotalBytes = total
		sample.Memory.UsedBytes = used
		sample.Memory.UsagePercent = percentOf(used, total)
		sample.Memory.Ok = true

		return
	}

	if total, used, ok := p.storageRowMemory(client); ok {
		sample.Memory.TotalBytes = total
		sample.Memory.UsedBytes = used
		sample.Memory.UsagePercent = percentOf(used, total)
		sample.Memory.Ok = true

		return
	}

	sample.Errors = append(sample.Errors, "memory: no UCD or host-resources memory counters found")
}

func (p *Prober) ucdMemory(client *gosnmp.GoSNMP) (total, used uint64, ok bool) {
	result, err := client.Get([]string{oidMemTotalReal, oidMemAvailReal})
	if err != nil || result.Error != gosnmp.NoError || len(result.Variables) != 2 {
		return 0, 0, false
	}

	totalReal, ok1 := pduToFloat(result.Variables[0])
	availReal, ok2 := pduToFloat(result.Variables[1])

	if !ok1 || !ok2 {
		return 0, 0, false
	}

	total = uint64(totalReal) * ucdKilobyte
	avail := uint64(availReal) * ucdKilobyte

	if avail > total {
		return 0, 0, false
	}

	return total, total - avail, true
}

func (p *Prober) storageRowMemory(client *gosnmp.GoSNMP) (total, used uint64, ok bool) {
	rows := p.walkHostStorageTable(client)

	for _, row := range rows {
		desc := strings.ToLower(row.description)
		if strings.Contains(desc, "memory") || strings.Contains(desc, "ram") {
			return row.size, row.used, true
		}
	}

	return 0, 0, false
}
