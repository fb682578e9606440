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

package engine

import (
	"context"
	"time"
)

// durationUntil2AM returns the time remaining until the next 2 AM local,
// rolling over to the following day if it's already past 2 AM today.
func durationUntil2AM(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}

// runMaintenance fires on the daily maintenance timer: it runs the
// retention cleanup and rearms the timer for the following day.
func (e *Engine) runMaintenance(ctx context.Context) {
	if err := e.Maintenance(ctx); err != nil {
		e.log.Error().Err(err).Msg("scheduled maintenance failed")
	} else {
		e.log.Info().Msg("scheduled maintenance completed")
	}

	e.maintenanceTimer = e.clock.Timer(durationUntil2AM(e.clock.Now()))
}
