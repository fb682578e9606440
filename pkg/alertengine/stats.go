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

package alertengine

import (
	"time"

	"github.com/lanwatch/collector/pkg/models"
)

// Stats computes a fresh summary of the active set plus recently resolved
// history. It never touches the Store — everything it needs is already
// resident in memory.
func (e *Engine) Stats() models.AlertStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := models.AlertStats{
		BySeverity: make(map[models.AlertSeverity]int),
		ByType:     make(map[models.AlertType]int),
		ByDevice:   make(map[string]int),
	}

	for _, a := range e.active {
		stats.Total++
		stats.BySeverity[a.Severity]++
		stats.ByType[a.Type]++
		stats.ByDevice[a.DeviceID]++

		if a.Acknowledged {
			stats.Acknowledged++
		} else {
			stats.Unacknowledged++
		}
	}

	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			stats.ResolvedLast24Hour++
		}
	}

	return stats
}
