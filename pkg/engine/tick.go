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
	"sync"
	"time"

	"github.com/lanwatch/collector/pkg/models"
)

// Start implements lifecycle.Service. Initialize must have been called
// first so the ticker and maintenance timer already exist.
func (e *Engine) Start(ctx context.Context) error {
	e.startWg.Add(1)
	defer e.startWg.Done()

	e.wg.Add(1)
	defer e.wg.Done()

	e.running.Store(true)
	defer e.running.Store(false)

	e.log.Info().Dur("interval", e.currentRefresh()).Msg("engine started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.done:
			return nil
		case <-e.ticker.Chan():
			e.Tick(ctx)
		case <-e.maintenanceTimer.Chan():
			e.runMaintenance(ctx)
		case newInterval := <-e.reloadCh:
			e.ticker.Stop()
			e.ticker = e.clock.Ticker(newInterval)
			e.log.Info().Dur("interval", newInterval).Msg("refresh interval hot-reloaded")
		}
	}
}

// Stop implements lifecycle.Service: stop the ticker and timer, wait for
// in-flight work, then close the Scanner, RemoteProbe sessions, the
// Broadcaster (if the sink exposes Close), and finally the Store.
func (e *Engine) Stop(_ context.Context) error {
	e.closeOnce.Do(func() { close(e.done) })

	e.startWg.Wait()
	e.wg.Wait()

	if e.ticker != nil {
		e.ticker.Stop()
	}

	if e.maintenanceTimer != nil {
		e.maintenanceTimer.Stop()
	}

	e.scanner.Stop()

	if err := e.scanner.Close(); err != nil {
		e.log.Error().Err(err).Msg("failed to close scanner")
	}

	e.remote.Close()

	if closer, ok := e.sink.(interface{ Close() }); ok {
		closer.Close()
	}

	if err := e.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	return nil
}

func (e *Engine) currentRefresh() time.Duration {
	e.cfgMu.Lock()
	defer e.cfgMu.Unlock()

	return e.refresh
}

// Tick runs one monitoring cycle: it is skipped outright if a scan is in
// progress, and coalesced (skipped) if the previous tick has not yet
// finished.
func (e *Engine) Tick(ctx context.Context) {
	if e.scanInProgress.Load() {
		e.log.Debug().Msg("skipping tick: scan in progress")
		return
	}

	if !e.ticking.CompareAndSwap(false, true) {
		e.log.Debug().Msg("skipping tick: previous tick still running")
		return
	}
	defer e.ticking.Store(false)

	start := e.clock.Now()

	tickCtx, cancel := context.WithTimeout(ctx, e.currentRefresh()*2)
	defer cancel()

	devices := e.reg.snapshot()

	poolSize := defaultWorkerPoolSize
	if len(devices) < poolSize {
		poolSize = len(devices)
	}

	if poolSize > 0 {
		jobs := make(chan *models.Device)

		var wg sync.WaitGroup

		for i := 0; i < poolSize; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for d := range jobs {
					e.pollDevice(tickCtx, d)
				}
			}()
		}

		for _, d := range devices {
			jobs <- d
		}

		close(jobs)
		wg.Wait()
	}

	cycleMs := e.clock.Now().Sub(start).Milliseconds()
	e.lastTickMs.Store(cycleMs)

	updated := e.reg.snapshot()
	snapshot := make([]models.Device, len(updated))

	for i, d := range updated {
		snapshot[i] = *d
	}

	e.emit(string(models.EventMonitoringUpdate), models.MonitoringUpdateData{
		Devices:   snapshot,
		Timestamp: e.clock.Now(),
		CycleMs:   cycleMs,
	})
}

// pollDevice probes one device, persists the result, and evaluates
// thresholds. It never returns an error: probe failure is handled by
// marking the device offline and raising an alert.
func (e *Engine) pollDevice(ctx context.Context, d *models.Device) {
	var sample *models.Sample

	if d.IsLocal() {
		sample = e.host.Collect(ctx)
	} else {
		sample = e.remote.CollectAll(ctx, d.IP, d.Community)
	}

	if !reachable(sample) {
		e.markOffline(ctx, d)
		return
	}

	now := e.clock.Now()

	if d.FirstSeen.IsZero() {
		d.FirstSeen = now
	}

	d.Hostname = sample.System.Hostname
	d.Description = sample.System.Description
	d.Location = sample.System.Location
	d.Contact = sample.System.Contact
	d.LastSeen = now

	if err := e.store.UpsertDevice(ctx, d); err != nil {
		e.log.Error().Err(err).Str("device_id", d.ID).Msg("failed to persist polled device")
	}

	info := &models.SystemInfo{DeviceID: d.ID, UptimeS: sample.System.UptimeS, Timestamp: now}
	if err := e.store.InsertSystemInfo(ctx, info); err != nil {
		e.log.Error().Err(err).Str("device_id", d.ID).Msg("failed to insert system info")
	}

	if metrics := metricsFromSample(d.ID, sample, now); len(metrics) > 0 {
		if err := e.store.InsertMetrics(ctx, d.ID, metrics); err != nil {
			e.log.Error().Err(err).Str("device_id", d.ID).Msg("failed to insert metrics")
		}
	}

	if err := e.store.ReplaceInterfaces(ctx, d.ID, interfacesFromSample(d.ID, sample, now)); err != nil {
		e.log.Error().Err(err).Str("device_id", d.ID).Msg("failed to replace interfaces")
	}

	d.Status = e.checkThresholds(ctx, d, sample)
	e.reg.upsert(d)

	e.emit(string(models.EventHostOnline), map[string]any{"device_id": d.ID, "ip": d.IP})
}

func (e *Engine) markOffline(ctx context.Context, d *models.Device) {
	d.Status = models.StatusOffline
	d.LastSeen = e.clock.Now()

	if err := e.store.UpsertDevice(ctx, d); err != nil {
		e.log.Error().Err(err).Str("device_id", d.ID).Msg("failed to persist offline device")
	}

	e.reg.upsert(d)

	if _, err := e.alerts.Create(ctx, models.AlertCreate{
		DeviceID: d.ID,
		DeviceIP: d.IP,
		Type:     models.AlertOffline,
		Severity: models.SeverityCritical,
		Message:  fmt.Sprintf("%s is unreachable", d.IP),
	}); err != nil {
		e.log.Error().Err(err).Str("device_id", d.ID).Msg("failed to create offline alert")
	}

	e.emit(string(models.EventHostOffline), map[string]any{"device_id": d.ID, "ip": d.IP})
}

// reachable reports whether a probe reached the device at all: a sample
// with no identity, no usage metric, and at least one error is treated as
// a total miss rather than a set of partial failures.
func reachable(sample *models.Sample) bool {
	if sample == nil {
		return false
	}

	if sample.System.Hostname != "" || sample.CPU.Ok || sample.Memory.Ok || sample.Disk.Ok {
		return true
	}

	return len(sample.Errors) == 0
}

// checkThresholds evaluates cpu/memory/disk usage against the configured
// thresholds, creating or auto-resolving alerts as needed, and returns the
// device's derived status.
func (e *Engine) checkThresholds(ctx context.Context, d *models.Device, sample *models.Sample) models.DeviceStatus {
	e.cfgMu.Lock()
	thresholds := e.thresholds
	e.cfgMu.Unlock()

	e.evaluateMetric(ctx, d, models.AlertCPU, sample.CPU.Ok, sample.CPU.UsagePercent, thresholds.CPU)
	e.evaluateMetric(ctx, d, models.AlertMemory, sample.Memory.Ok, sample.Memory.UsagePercent, thresholds.Memory)
	e.evaluateMetric(ctx, d, models.AlertDisk, sample.Disk.Ok, sample.Disk.UsagePercent, thresholds.Disk)

	return e.deviceStatus(d.ID)
}

func (e *Engine) evaluateMetric(ctx context.Context, d *models.Device, alertType models.AlertType,
	ok bool, usage float64, threshold models.Threshold) {
	if !ok {
		return
	}

	switch {
	case usage >= threshold.Critical:
		e.createThresholdAlert(ctx, d, alertType, models.SeverityCritical, usage)
	case usage >= threshold.Warning:
		e.createThresholdAlert(ctx, d, alertType, models.SeverityWarning, usage)
	default:
		if err := e.alerts.AutoResolve(ctx, d.ID, alertType, usage, threshold); err != nil {
			e.log.Error().Err(err).Str("device_id", d.ID).Str("type", string(alertType)).Msg("auto-resolve failed")
		}
	}
}

func (e *Engine) createThresholdAlert(ctx context.Context, d *models.Device, alertType models.AlertType,
	severity models.AlertSeverity, usage float64) {
	name := d.Hostname
	if name == "" {
		name = d.IP
	}

	_, err := e.alerts.Create(ctx, models.AlertCreate{
		DeviceID: d.ID,
		DeviceIP: d.IP,
		Type:     alertType,
		Severity: severity,
		Message:  fmt.Sprintf("%s usage %.1f%% on %s", alertType, usage, name),
	})
	if err != nil {
		e.log.Error().Err(err).Str("device_id", d.ID).Str("type", string(alertType)).Msg("failed to create threshold alert")
	}
}

// deviceStatus derives overall device health from its unacknowledged
// active alerts: critical beats warning beats online.
func (e *Engine) deviceStatus(deviceID string) models.DeviceStatus {
	hasCritical, hasWarning := false, false

	for _, a := range e.alerts.Active() {
		if a.DeviceID != deviceID || a.Acknowledged {
			continue
		}

		switch a.Severity {
		case models.SeverityCritical:
			hasCritical = true
		case models.SeverityWarning:
			hasWarning = true
		}
	}

	switch {
	case hasCritical:
		return models.StatusCritical
	case hasWarning:
		return models.StatusWarning
	default:
		return models.StatusOnline
	}
}

func metricsFromSample(deviceID string, sample *models.Sample, ts time.Time) []models.MetricSample {
	var out []models.MetricSample

	add := func(t models.MetricType, ok bool, value float64) {
		if !ok {
			return
		}

		out = append(out, models.MetricSample{DeviceID: deviceID, MetricType: t, Value: value, Unit: models.UnitForMetricType(t), Timestamp: ts})
	}

	add(models.MetricCPUUsage, sample.CPU.Ok, sample.CPU.UsagePercent)
	add(models.MetricMemoryUsage, sample.Memory.Ok, sample.Memory.UsagePercent)
	add(models.MetricDiskUsage, sample.Disk.Ok, sample.Disk.UsagePercent)

	if sample.Memory.Ok {
		out = append(out,
			models.MetricSample{DeviceID: deviceID, MetricType: models.MetricMemoryTotal, Value: float64(sample.Memory.TotalBytes), Unit: models.UnitBytes, Timestamp: ts},
			models.MetricSample{DeviceID: deviceID, MetricType: models.MetricMemoryUsed, Value: float64(sample.Memory.UsedBytes), Unit: models.UnitBytes, Timestamp: ts},
		)
	}

	if sample.Disk.Ok {
		out = append(out,
			models.MetricSample{DeviceID: deviceID, MetricType: models.MetricDiskTotal, Value: float64(sample.Disk.TotalBytes), Unit: models.UnitBytes, Timestamp: ts},
			models.MetricSample{DeviceID: deviceID, MetricType: models.MetricDiskUsed, Value: float64(sample.Disk.UsedBytes), Unit: models.UnitBytes, Timestamp: ts},
		)
	}

	return out
}

func interfacesFromSample(deviceID string, sample *models.Sample, ts time.Time) []models.NetworkInterface {
	var out []models.NetworkInterface

	for _, group := range sample.Network {
		for _, iface := range group.Interfaces {
			out = append(out, models.NetworkInterface{
				DeviceID:    deviceID,
				Index:       iface.Index,
				Name:        iface.Name,
				Description: iface.Description,
				Type:        iface.Type,
				Speed:       iface.Speed,
				AdminStatus: iface.AdminStatus,
				OperStatus:  iface.OperStatus,
				InOctets:    iface.InOctets,
				OutOctets:   iface.OutOctets,
				Timestamp:   ts,
			})
		}
	}

	return out
}
