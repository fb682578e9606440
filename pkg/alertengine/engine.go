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

// Package alertengine owns the canonical active-alert set: dedup on
// create, lifecycle transitions, threshold-driven auto-resolution, and
// on-demand statistics. One mutex covers the whole active set so that
// Create/Ack/Resolve/Delete on a given alert id are totally ordered.
package alertengine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

// Store is the persistence surface AlertEngine needs. *store.Store
// satisfies it; tests substitute a fake to avoid a real database.
type Store interface {
	InsertAlert(ctx context.Context, a *models.Alert) error
	UpsertAlert(ctx context.Context, a *models.Alert) error
	AckAlert(ctx context.Context, id, who string) error
	ResolveAlert(ctx context.Context, id, who string) error
	DeleteAlert(ctx context.Context, id string) error
	ListAlerts(ctx context.Context, filter models.AlertFilter, limit, offset int) ([]*models.Alert, error)
}

// EventSink receives alert lifecycle events. The Engine wires this to the
// Broadcaster.
type EventSink interface {
	Emit(eventType string, data any)
}

// Engine is the canonical active-alert set.
type Engine struct {
	store Store
	sink  EventSink
	log   logger.Logger

	mu      sync.Mutex
	active  map[string]*models.Alert
	history []*models.Alert
}

const maxHistory = 1000

// New constructs an Engine. Call Load before serving traffic so the
// active set reflects what's already in the Store.
func New(store Store, sink EventSink, log logger.Logger) *Engine {
	return &Engine{
		store:  store,
		sink:   sink,
		log:    log,
		active: make(map[string]*models.Alert),
	}
}

func (e *Engine) emit(eventType string, data any) {
	if e.sink != nil {
		e.sink.Emit(eventType, data)
	}
}

// Load hydrates the active set from the Store: every alert that is
// neither acknowledged nor resolved.
func (e *Engine) Load(ctx context.Context) error {
	unacked := false

	alerts, err := e.store.ListAlerts(ctx, models.AlertFilter{Acknowledged: &unacked, ActiveOnly: true}, 0, 0)
	if err != nil {
		return fmt.Errorf("load active alerts: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.active = make(map[string]*models.Alert, len(alerts))
	for _, a := range alerts {
		e.active[a.ID] = a
	}

	return nil
}

// findActiveLocked returns the active, unacknowledged, unresolved alert
// matching (deviceID, alertType, severity), if any. Caller holds e.mu.
func (e *Engine) findActiveLocked(deviceID string, alertType models.AlertType, severity models.AlertSeverity) *models.Alert {
	for _, a := range e.active {
		if a.DeviceID == deviceID && a.Type == alertType && a.Severity == severity &&
			!a.Acknowledged && a.ResolvedAt == nil {
			return a
		}
	}

	return nil
}

// Create dedups against the active set on (device_id, type, severity): a
// matching, still-open alert has its occurrence_count bumped instead of
// minting a new id.
func (e *Engine) Create(ctx context.Context, c models.AlertCreate) (*models.Alert, error) {
	e.mu.Lock()

	if existing := e.findActiveLocked(c.DeviceID, c.Type, c.Severity); existing != nil {
		existing.OccurrenceCount++
		existing.LastOccurrence = time.Now().UTC()
		snapshot := *existing
		e.mu.Unlock()

		if err := e.store.UpsertAlert(ctx, &snapshot); err != nil {
			return nil, fmt.Errorf("upsert alert occurrence: %w", err)
		}

		return &snapshot, nil
	}

	now := time.Now().UTC()
	a := &models.Alert{
		ID:              uuid.NewString(),
		DeviceID:        c.DeviceID,
		DeviceIP:        c.DeviceIP,
		Type:            c.Type,
		Severity:        c.Severity,
		Message:         c.Message,
		Metadata:        c.Metadata,
		CreatedAt:       now,
		OccurrenceCount: 1,
		LastOccurrence:  now,
	}

	e.active[a.ID] = a
	snapshot := *a
	e.mu.Unlock()

	if err := e.store.InsertAlert(ctx, &snapshot); err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}

	e.emit("alert_created", &snapshot)

	return &snapshot, nil
}

// Ack acknowledges an active, not-yet-acknowledged alert.
func (e *Engine) Ack(ctx context.Context, id, who string) (*models.Alert, error) {
	e.mu.Lock()

	a, ok := e.active[id]
	if !ok {
		e.mu.Unlock()
		return nil, ErrAlertNotActive
	}

	if a.Acknowledged {
		e.mu.Unlock()
		return nil, ErrAlertAlreadyAcked
	}

	now := time.Now().UTC()
	a.Acknowledged = true
	a.AcknowledgedBy = who
	a.AcknowledgedAt = &now
	snapshot := *a
	e.mu.Unlock()

	if err := e.store.AckAlert(ctx, id, who); err != nil {
		return nil, fmt.Errorf("ack alert: %w", err)
	}

	e.emit("alert_acknowledged", &snapshot)

	return &snapshot, nil
}

// Resolve closes an active, not-yet-resolved alert, moving it out of the
// active set and into history.
func (e *Engine) Resolve(ctx context.Context, id, who string) (*models.Alert, error) {
	e.mu.Lock()

	a, ok := e.active[id]
	if !ok {
		e.mu.Unlock()
		return nil, ErrAlertNotActive
	}

	if a.ResolvedAt != nil {
		e.mu.Unlock()
		return nil, ErrAlertAlreadyResolved
	}

	now := time.Now().UTC()
	a.ResolvedAt = &now
	a.ResolvedBy = who
	snapshot := *a

	delete(e.active, id)
	e.appendHistoryLocked(&snapshot)

	e.mu.Unlock()

	if err := e.store.ResolveAlert(ctx, id, who); err != nil {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}

	e.emit("alert_resolved", &snapshot)

	return &snapshot, nil
}

// Delete removes an alert from both the active set and the Store
// unconditionally.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	delete(e.active, id)
	e.mu.Unlock()

	if err := e.store.DeleteAlert(ctx, id); err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}

	e.emit("alert_deleted", map[string]any{"id": id})

	return nil
}

// AutoResolve resolves active alerts for (deviceID, alertType) whose
// condition has cleared: cpu/memory/disk clear when currentValue drops
// below the warning threshold; offline clears unconditionally (the caller
// invokes this only after a successful poll).
func (e *Engine) AutoResolve(ctx context.Context, deviceID string, alertType models.AlertType, currentValue float64, threshold models.Threshold) error {
	var toResolve []string

	e.mu.Lock()

	for id, a := range e.active {
		if a.DeviceID != deviceID || a.Type != alertType {
			continue
		}

		switch alertType {
		case models.AlertOffline:
			toResolve = append(toResolve, id)
		default:
			if currentValue < threshold.Warning {
				toResolve = append(toResolve, id)
			}
		}
	}

	e.mu.Unlock()

	for _, id := range toResolve {
		if _, err := e.Resolve(ctx, id, "auto"); err != nil && e.log != nil {
			e.log.Error().Err(err).Str("alert_id", id).Msg("auto-resolve failed")
		}
	}

	return nil
}

func (e *Engine) appendHistoryLocked(a *models.Alert) {
	e.history = append(e.history, a)
	if len(e.history) > maxHistory {
		e.history = e.history[len(e.history)-maxHistory:]
	}
}

// Active returns a snapshot of the current active set.
func (e *Engine) Active() []*models.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*models.Alert, 0, len(e.active))
	for _, a := range e.active {
		snapshot := *a
		out = append(out, &snapshot)
	}

	return out
}
