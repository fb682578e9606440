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

	"golang.org/x/sys/windows"
)

// platformDiskUsage sums size and free space across every local logical
// drive, excluding zero-size drives (typically empty optical/removable).
func platformDiskUsage(_ context.Context) (total, used uint64, err error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return 0, 0, err
	}

	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}

		root := string(rune('A'+i)) + `:\`

		var freeBytes, totalBytes, totalFreeBytes uint64

		rootPtr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}

		if err := windows.GetDiskFreeSpaceEx(rootPtr, &freeBytes, &totalBytes, &totalFreeBytes); err != nil {
			continue
		}

		if totalBytes == 0 {
			continue
		}

		total += totalBytes
		used += totalBytes - totalFreeBytes
	}

	return total, used, nil
}
