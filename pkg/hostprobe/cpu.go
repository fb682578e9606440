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
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/lanwatch/collector/pkg/models"
)

// collectCPU tries the platform-specific reading first; on failure it falls
// back to a process-level CPU time delta, and only reports a failure in
// Sample.Errors if both fail.
func (p *Prober) collectCPU(ctx context.Context, sample *models.Sample) {
	percent, err := platformCPUPercent(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("platform cpu reading failed, trying process fallback")

		percent, err = fallbackCPUPercent(ctx)
	}

	if err != nil {
		sample.Errors = append(sample.Errors, fmt.Sprintf("cpu: %v", err))
		return
	}

	sample.CPU = models.CPUSample{UsagePercent: math.Round(percent), Ok: true}
}

// fallbackCPUPercent approximates usage from the current process's own CPU
// time delta over 100ms when no platform-specific reading is available.
func fallbackCPUPercent(ctx context.Context) (float64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}

	return proc.PercentWithContext(ctx, 100*time.Millisecond)
}
