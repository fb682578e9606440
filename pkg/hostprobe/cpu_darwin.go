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

//go:build darwin

package hostprobe

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
)

var errTopOutputFormat = errors.New("could not find CPU usage line in top output")

// platformCPUPercent shells out to `top -l 1 -n 0` and parses the user
// percent from the "CPU usage" summary line.
func platformCPUPercent(ctx context.Context) (float64, error) {
	out, err := exec.CommandContext(ctx, "top", "-l", "1", "-n", "0").Output()
	if err != nil {
		return 0, err
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "CPU usage") {
			continue
		}

		return parseTopUserPercent(line)
	}

	return 0, errTopOutputFormat
}

// parseTopUserPercent extracts N from a line shaped like:
// "CPU usage: 12.34% user, 5.67% sys, 82.0% idle"
func parseTopUserPercent(line string) (float64, error) {
	fields := strings.Split(line, ",")
	if len(fields) == 0 {
		return 0, errTopOutputFormat
	}

	for _, part := range strings.Fields(fields[0]) {
		if strings.HasSuffix(part, "%") {
			return strconv.ParseFloat(strings.TrimSuffix(part, "%"), 64)
		}
	}

	return 0, errTopOutputFormat
}
