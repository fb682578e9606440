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

//go:build !linux && !darwin && !windows

package hostprobe

import (
	"context"
	"errors"
)

var errNoPlatformCPUReading = errors.New("no platform-specific cpu reading for this os")

// platformCPUPercent has no implementation on this platform; collectCPU
// falls through to fallbackCPUPercent.
func platformCPUPercent(_ context.Context) (float64, error) {
	return 0, errNoPlatformCPUReading
}
