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

//go:build windows

package hostprobe

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
)

var errWMICOutputFormat = errors.New("could not parse processor load output")

// platformCPUPercent first asks the system scripting facility for the
// average processor load; if that produces nothing usable it falls back to
// a single processor's load percent via WMI.
func platformCPUPercent(ctx context.Context) (float64, error) {
	if v, err := loadPercentViaPowerShell(ctx); err == nil {
		return v, nil
	}

	return loadPercentViaWMIC(ctx)
}

func loadPercentViaPowerShell(ctx context.Context) (float64, error) {
	out, err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command",
		"(Get-CimInstance Win32_Processor | Measure-Object -Property LoadPercentage -Average).Average").Output()
	if err != nil {
		return 0, err
	}

	return parseFirstNumber(string(out))
}

func loadPercentViaWMIC(ctx context.Context) (float64, error) {
	out, err := exec.CommandContext(ctx, "wmic", "cpu", "get", "loadpercentage").Output()
	if err != nil {
		return 0, err
	}

	return parseFirstNumber(string(out))
}

func parseFirstNumber(s string) (float64, error) {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "LoadPercentage") {
			continue
		}

		return strconv.ParseFloat(line, 64)
	}

	return 0, errWMICOutputFormat
}
