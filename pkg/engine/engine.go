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

// Package engine is the orchestrator (C7): it owns the device registry,
// drives the poll ticker and daily maintenance job, evaluates thresholds,
// dispatches scans, and sequences startup and shutdown across every other
// component.
package engine

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

const defaultWorkerPoolSize = 16

// Engine implements lifecycle.Service: call Initialize once to load state
// and run the first monitoring cycle, then hand it to lifecycle.Run (or
// call Start/Stop directly) to drive the ticker loop.
type Engine struct {
	log     logger.Logger
	store   Store
	host    HostProbe
	remote  RemoteProbe
	scanner Scanner
	alerts  AlertEngine
	sink    EventSink
	clock   Clock
	reg     *registry

	cfgMu         sync.Mutex
	refresh       time.Duration
	thresholds    models.Thresholds
	community     string
	scanTimeoutMS int
	snmpTimeoutMS int
	retentionDays int

	ticker           Ticker
	maintenanceTimer Ticker
	reloadCh         chan time.Duration

	scanInProgress atomic.Bool
	ticking        atomic.Bool
	running        atomic.Bool
	lastTickMs     atomic.Int64

	scanMu     sync.Mutex
	lastScanAt time.Time

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	startWg   sync.WaitGroup
}

// New wires an Engine from its already-constructed collaborators. Scanner
// and AlertEngine are expected to have been constructed with sink (the
// Broadcaster) as their own event sink already — New does not redo that
// wiring, it only composes the finished pieces.
func New(store Store, host HostProbe, remote RemoteProbe, scanner Scanner, alerts AlertEngine,
	sink EventSink, log logger.Logger, clock Clock) *Engine {
	if clock == nil {
		clock = realClock{}
	}

	return &Engine{
		log:      log,
		store:    store,
		host:     host,
		remote:   remote,
		scanner:  scanner,
		alerts:   alerts,
		sink:     sink,
		clock:    clock,
		reg:      newRegistry(),
		done:     make(chan struct{}),
		reloadCh: make(chan time.Duration, 1),
	}
}

func (e *Engine) emit(eventType string, data any) {
	if e.sink != nil {
		e.sink.Emit(eventType, data)
	}
}

// Initialize runs the strict startup sequence: load configuration, hydrate
// the registry from the Store, ensure the localhost device exists, hydrate
// the active alerts, arm the ticker and maintenance timer, and run one
// monitoring cycle immediately so the first API read already has data.
func (e *Engine) Initialize(ctx context.Context) error {
	if err := e.loadConfig(ctx); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	devices, err := e.store.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("initialize: load devices: %w", err)
	}

	e.reg.load(devices)

	if err := e.ensureLocalDevice(ctx); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if err := e.alerts.Load(ctx); err != nil {
		return fmt.Errorf("initialize: load alerts: %w", err)
	}

	e.cfgMu.Lock()
	refresh := e.refresh
	e.cfgMu.Unlock()

	e.ticker = e.clock.Ticker(refresh)
	e.maintenanceTimer = e.clock.Timer(durationUntil2AM(e.clock.Now()))

	e.Tick(ctx)

	return nil
}

// ensureLocalDevice inserts the host-probed sentinel device the first time
// Initialize runs, using the primary non-loopback interface address or
// 127.0.0.1 if none is found.
func (e *Engine) ensureLocalDevice(ctx context.Context) error {
	if _, ok := e.reg.get(models.LocalDeviceID); ok {
		return nil
	}

	ip := "127.0.0.1"

	if sample := e.host.Collect(ctx); sample != nil {
		if primary := sample.Primary(); primary != nil {
			if host, _, err := net.ParseCIDR(primary.CIDR); err == nil {
				ip = host.String()
			}
		}
	}

	now := e.clock.Now()
	d := &models.Device{
		ID:        models.LocalDeviceID,
		IP:        ip,
		Community: models.LocalCommunity,
		Status:    models.StatusUnknown,
		FirstSeen: now,
		LastSeen:  now,
	}

	if err := e.store.UpsertDevice(ctx, d); err != nil {
		return fmt.Errorf("ensure localhost device: %w", err)
	}

	e.reg.upsert(d)

	return nil
}

// Devices returns a snapshot of every tracked device.
func (e *Engine) Devices() []*models.Device {
	return e.reg.snapshot()
}

// Device returns one tracked device by id.
func (e *Engine) Device(id string) (*models.Device, bool) {
	return e.reg.get(id)
}

// HealthStatus is the "health" entry of the inbound control surface.
type HealthStatus struct {
	Running        bool      `json:"running"`
	DevicesTracked int       `json:"devices_tracked"`
	ActiveAlerts   int       `json:"active_alerts"`
	LastTickMs     int64     `json:"last_tick_ms"`
	LastScanTime   time.Time `json:"last_scan_time,omitempty"`
}

// Health reports a capability/health snapshot for the inbound control
// surface.
func (e *Engine) Health() HealthStatus {
	e.scanMu.Lock()
	lastScan := e.lastScanAt
	e.scanMu.Unlock()

	return HealthStatus{
		Running:        e.running.Load(),
		DevicesTracked: len(e.reg.snapshot()),
		ActiveAlerts:   len(e.alerts.Active()),
		LastTickMs:     e.lastTickMs.Load(),
		LastScanTime:   lastScan,
	}
}

// Maintenance runs the retention cleanup on demand, independent of the
// daily schedule, for the "maintenance" entry of the inbound control
// surface.
func (e *Engine) Maintenance(ctx context.Context) error {
	e.cfgMu.Lock()
	retention := e.retentionDays
	e.cfgMu.Unlock()

	return e.store.Cleanup(ctx, retention)
}
