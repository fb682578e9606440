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
	"fmt"
	"strconv"
	"time"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
	"github.com/lanwatch/collector/pkg/monerr"
)

// loadConfig reads every recognized key from the Store (falling back to
// ConfigDefaults for anything unset), clamps ranges, and rejects a
// warning/critical pair that doesn't hold warning < critical by keeping
// the prior pair instead.
func (e *Engine) loadConfig(ctx context.Context) error {
	values, err := e.store.ListConfig(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	get := func(key string) string {
		if v, ok := values[key]; ok && v != "" {
			return v
		}

		return models.ConfigDefaults[key].Default
	}

	refresh := clampInt(atoiOr(get(models.ConfigRefreshInterval), 10), 5, 300)
	scanTimeout := clampInt(atoiOr(get(models.ConfigScanTimeout), 3000), 1000, 30000)
	snmpTimeout := clampInt(atoiOr(get(models.ConfigSNMPTimeout), 5000), 1000, 30000)
	retention := clampInt(atoiOr(get(models.ConfigMaxHistoryDays), 30), 1, 365)
	community := get(models.ConfigDefaultCommunity)

	e.cfgMu.Lock()
	prior := e.thresholds
	e.cfgMu.Unlock()

	thresholds := models.Thresholds{
		CPU: clampThresholdPair(get(models.ConfigCPUWarningThreshold), get(models.ConfigCPUCriticalThreshold),
			prior.CPU, "cpu", e.log),
		Memory: clampThresholdPair(get(models.ConfigMemoryWarningThreshold), get(models.ConfigMemoryCriticalThreshold),
			prior.Memory, "memory", e.log),
		Disk: clampThresholdPair(get(models.ConfigDiskWarningThreshold), get(models.ConfigDiskCriticalThreshold),
			prior.Disk, "disk", e.log),
	}

	e.cfgMu.Lock()
	e.refresh = time.Duration(refresh) * time.Second
	e.thresholds = thresholds
	e.community = community
	e.scanTimeoutMS = scanTimeout
	e.snmpTimeoutMS = snmpTimeout
	e.retentionDays = retention
	e.cfgMu.Unlock()

	return nil
}

// UpdateConfig validates every key against the recognized range table,
// persists the change set to the Store, reloads configuration, and
// restarts the ticker if the refresh interval changed.
func (e *Engine) UpdateConfig(ctx context.Context, updates map[string]string) error {
	for key, value := range updates {
		rng, known := models.ConfigDefaults[key]
		if !known {
			return monerr.New(monerr.KindInvalid, fmt.Sprintf("unknown configuration key %q", key))
		}

		if rng.Min != 0 || rng.Max != 0 {
			n, err := strconv.Atoi(value)
			if err != nil || n < rng.Min || n > rng.Max {
				return monerr.New(monerr.KindInvalid, fmt.Sprintf("%s out of range [%d,%d]", key, rng.Min, rng.Max))
			}
		}
	}

	for key, value := range updates {
		if err := e.store.SetConfig(ctx, key, value); err != nil {
			return fmt.Errorf("set config %s: %w", key, err)
		}
	}

	previous := e.currentRefresh()

	if err := e.loadConfig(ctx); err != nil {
		return err
	}

	if newRefresh := e.currentRefresh(); newRefresh != previous {
		select {
		case e.reloadCh <- newRefresh:
		default:
		}
	}

	return nil
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}

	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// clampThresholdPair clamps each bound to [1, 100] and keeps the prior
// pair unchanged if the clamped values don't satisfy warning < critical.
func clampThresholdPair(warningRaw, criticalRaw string, prior models.Threshold, label string, log logger.Logger) models.Threshold {
	warning := clampFloat(atofOr(warningRaw, prior.Warning), 1, 100)
	critical := clampFloat(atofOr(criticalRaw, prior.Critical), 1, 100)

	if warning >= critical {
		log.Warn().Str("metric", label).Float64("warning", warning).Float64("critical", critical).
			Msg("rejecting threshold pair: warning must be below critical")

		return prior
	}

	return models.Threshold{Warning: warning, Critical: critical}
}

func atofOr(s string, fallback float64) float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}

	return n
}
