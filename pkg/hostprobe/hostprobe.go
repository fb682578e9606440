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

// Package hostprobe produces a Sample for the local host machine (C2):
// CPU, memory, disk and interface readings with per-platform collection
// strategies and OS-agnostic fallbacks. A Prober never returns an error;
// partial failures are appended to the Sample's Errors slice.
package hostprobe

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

// Prober collects a Sample describing the machine it runs on.
type Prober struct {
	log logger.Logger
}

// NewProber constructs a host Prober.
func NewProber(log logger.Logger) *Prober {
	return &Prober{log: log}
}

// Collect gathers system, CPU, memory, disk and interface readings. It
// always returns a non-nil Sample, appending failures to Sample.Errors
// rather than returning an error itself.
func (p *Prober) Collect(ctx context.Context) *models.Sample {
	sample := &models.Sample{}

	p.collectSystem(ctx, sample)
	p.collectCPU(ctx, sample)
	p.collectMemory(ctx, sample)
	p.collectDisk(ctx, sample)
	p.collectNetwork(sample)

	return sample
}

func (p *Prober) collectSystem(ctx context.Context, sample *models.Sample) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
		sample.Errors = append(sample.Errors, fmt.Sprintf("hostname: %v", err))
	}

	sample.System.Hostname = hostname
	sample.System.Platform = runtime.GOOS
	sample.System.Arch = runtime.GOARCH
	sample.System.CPUCores = runtime.NumCPU()

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		sample.Errors = append(sample.Errors, fmt.Sprintf("uptime: %v", err))
	} else {
		sample.System.UptimeS = int64(uptime)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		sample.System.TotalMemoryBytes = vm.Total
	}
}

func (p *Prober) collectMemory(ctx context.Context, sample *models.Sample) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		sample.Errors = append(sample.Errors, fmt.Sprintf("memory: %v", err))
		return
	}

	used := vm.Total - vm.Free
	sample.Memory = models.MemorySample{
		TotalBytes:   vm.Total,
		UsedBytes:    used,
		UsagePercent: percentOf(used, vm.Total),
		Ok:           true,
	}
}

func (p *Prober) collectDisk(ctx context.Context, sample *models.Sample) {
	total, used, err := platformDiskUsage(ctx)
	if err != nil {
		sample.Errors = append(sample.Errors, fmt.Sprintf("disk: %v", err))
		return
	}

	sample.Disk = models.DiskSample{
		TotalBytes:   total,
		UsedBytes:    used,
		UsagePercent: percentOf(used, total),
		Ok:           true,
	}
}

// percentOf rounds half-up, matching the CPU/memory/disk percent rule.
func percentOf(used, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return math.Round(100 * float64(used) / float64(total))
}
