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

// collectDisk aggregates every hrStorageTable row that looks like a mounted
// filesystem rather than memory or a removable device: a description
// containing "/", "c:" or "disk". Devices that expose only one root
// filesystem and devices that expose many mount points both collapse to a
// single total/used pair.
func (p *Prober) collectDisk(_ context.Context, client *gosnmp.GoSNMP, sample *models.Sample) {
	rows := p.walkHostStorageTable(client)

	var total, used uint64

	var matched bool

	for _, row := range rows {
		if !looksLikeFilesystem(row.description) {
			continue
		}

		total += row.size
		used += row.used
		matched = true
	}

	if !matched {
		sample.Errors = append(sample.Errors, "disk: no filesystem-like hrStorageTable row found")
		return
	}

	sample.Disk.TotalBytes = total
	sample.Disk.UsedBytes = used
	sample.Disk.UsagePercent = percentOf(used, total)
	sample.Disk.Ok = true
}

func looksLikeFilesystem(description string) bool {
	desc := strings.ToLower(description)

	return strings.Contains(desc, "/") || strings.Contains(desc, "c:") || strings.Contains(desc, "disk")
}
