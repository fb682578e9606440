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

//go:build linux

package hostprobe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var errProcStatFormat = errors.New("unexpected /proc/stat format")

// platformCPUPercent reads the aggregate "cpu" line of /proc/stat twice,
// 100ms apart, and derives busy percent from the idle/total delta.
func platformCPUPercent(ctx context.Context) (float64, error) {
	first, err := readProcStatCPU()
	if err != nil {
		return 0, err
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(100 * time.Millisecond):
	}

	second, err := readProcStatCPU()
	if err != nil {
		return 0, err
	}

	totalDelta := second.total() - first.total()
	idleDelta := second.idle - first.idle

	if totalDelta <= 0 {
		return 0, errProcStatFormat
	}

	return 100 - (float64(idleDelta)/float64(totalDelta))*100, nil
}

type procStatCPU struct {
	user, nice, system, idle, iowait, irq, softirq, steal int64
}

func (c procStatCPU) total() int64 {
	return c.user + c.nice + c.system + c.idle + c.iowait + c.irq + c.softirq + c.steal
}

func readProcStatCPU() (procStatCPU, error) {
	data, err := os.ReadFile("/proc/stat")
	if err != nil {
		return procStatCPU{}, err
	}

	firstLine := strings.SplitN(string(data), "\n", 2)[0]
	fields := strings.Fields(firstLine)

	if len(fields) < 8 || fields[0] != "cpu" {
		return procStatCPU{}, fmt.Errorf("%w: %q", errProcStatFormat, firstLine)
	}

	values := make([]int64, 8)

	for i := 0; i < 8; i++ {
		v, err := strconv.ParseInt(fields[i+1], 10, 64)
		if err != nil {
			return procStatCPU{}, fmt.Errorf("%w: %v", errProcStatFormat, err)
		}

		values[i] = v
	}

	return procStatCPU{
		user: values[0], nice: values[1], system: values[2], idle: values[3],
		iowait: values[4], irq: values[5], softirq: values[6], steal: values[7],
	}, nil
}
