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

// Package remoteprobe is the management-protocol Sample producer (C3): it
// queries a remote device over SNMPv2c and normalizes the results the way
// hostprobe normalizes local OS readings.
package remoteprobe

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

// Prober queries remote devices via SNMPv2c, caching one session per
// (ip, community) pair.
type Prober struct {
	log      logger.Logger
	sessions *sessionCache
}

// NewProber constructs a remote Prober. timeout bounds each SNMP round trip.
func NewProber(log logger.Logger, timeout time.Duration) *Prober {
	return &Prober{log: log, sessions: newSessionCache(timeout)}
}

// Close releases every cached session.
func (p *Prober) Close() {
	p.sessions.closeAll()
}

// CollectAll runs the System, CPU, Memory, Disk and Interfaces collections
// one after another on the device's single cached session; each may fail
// independently without aborting the others, and CollectAll always returns
// a non-nil Sample. The sub-collections are sequential, not concurrent,
// because gosnmp.GoSNMP is not safe for concurrent use by multiple
// goroutines issuing requests on the same connection.
func (p *Prober) CollectAll(ctx context.Context, ip, community string) *models.Sample {
	sample := &models.Sample{}

	client, err := p.sessions.get(ip, community)
	if err != nil {
		sample.Errors = append(sample.Errors, fmt.Sprintf("session: %v", err))
		return sample
	}

	collectors := []func(context.Context, *gosnmp.GoSNMP, *models.Sample){
		p.collectSystem,
		p.collectCPU,
		p.collectMemory,
		p.collectDisk,
		p.collectInterfaces,
	}

	for _, collect := range collectors {
		local := &models.Sample{}
		collect(ctx, client, local)
		mergeSample(sample, local)
	}

	if isSessionError(sample.Errors) {
		p.sessions.invalidate(ip, community)
	}

	return sample
}

// mergeSample folds one sub-collection's partial Sample into the
// accumulator; each sub-collector only ever sets its own fields.
func mergeSample(dst, src *models.Sample) {
	if src.System.Hostname != "" || src.System.UptimeS != 0 {
		dst.System = src.System
	}

	if src.CPU.Ok {
		dst.CPU = src.CPU
	}

	if src.Memory.Ok {
		dst.Memory = src.Memory
	}

	if src.Disk.Ok {
		dst.Disk = src.Disk
	}

	if len(src.Network) > 0 {
		dst.Network = src.Network
	}

	dst.Errors = append(dst.Errors, src.Errors...)
}

// percentOf rounds used/total to a percentage, treating a zero total as 0%
// rather than dividing by zero.
func percentOf(used, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return math.Round(float64(used) / float64(total) * 100)
}

func isSessionError(errs []string) bool {
	for _, e := range errs {
		if len(e) >= 7 && e[:7] == "session" {
			return true
		}
	}

	return false
}
