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

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lanwatch/collector/pkg/models"
)

// InsertAlert writes a new alert row. Unlike a replace-on-conflict insert,
// this fails if id already exists — duplicate (device_id, type, severity)
// activations are deduplicated by AlertEngine before they ever reach the
// Store, so an id collision here indicates a caller bug, not a dedup case.
func (s *Store) InsertAlert(ctx context.Context, a *models.Alert) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		meta = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO alerts
			(id, device_id, device_ip, type, severity, message, metadata, acknowledged,
			 acknowledged_by, acknowledged_at, created_at, resolved_at, resolved_by,
			 occurrence_count, last_occurrence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.DeviceID, a.DeviceIP, string(a.Type), string(a.Severity), a.Message, string(meta),
		boolToInt(a.Acknowledged), a.AcknowledgedBy, a.AcknowledgedAt, a.CreatedAt, a.ResolvedAt, a.ResolvedBy,
		a.OccurrenceCount, a.LastOccurrence)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return ErrAlertAlreadyExists
		}

		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	return nil
}

// UpsertAlert replaces the mutable fields of an already-created alert; used
// by AlertEngine to mirror in-memory occurrence/ack/resolve updates without
// re-running the duplicate-id guard InsertAlert applies.
func (s *Store) UpsertAlert(ctx context.Context, a *models.Alert) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		meta = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE alerts SET
			device_ip = ?, message = ?, metadata = ?, acknowledged = ?, acknowledged_by = ?,
			acknowledged_at = ?, resolved_at = ?, resolved_by = ?, occurrence_count = ?, last_occurrence = ?
		WHERE id = ?
	`, a.DeviceIP, a.Message, string(meta), boolToInt(a.Acknowledged), a.AcknowledgedBy,
		a.AcknowledgedAt, a.ResolvedAt, a.ResolvedBy, a.OccurrenceCount, a.LastOccurrence, a.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	return nil
}

// AckAlert marks an alert acknowledged by who.
func (s *Store) AckAlert(ctx context.Context, id, who string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE alerts SET acknowledged = 1, acknowledged_by = ?, acknowledged_at = ?
		WHERE id = ? AND acknowledged = 0
	`, who, now, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	return rowsAffectedOrNotFound(res)
}

// ResolveAlert marks an alert resolved.
func (s *Store) ResolveAlert(ctx context.Context, id, who string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE alerts SET resolved_at = ?, resolved_by = ? WHERE id = ? AND resolved_at IS NULL
	`, now, who, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	return rowsAffectedOrNotFound(res)
}

// DeleteAlert removes an alert permanently.
func (s *Store) DeleteAlert(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	return rowsAffectedOrNotFound(res)
}

// ListAlerts returns alerts matching filter, most recent first.
func (s *Store) ListAlerts(ctx context.Context, filter models.AlertFilter, limit, offset int) ([]*models.Alert, error) {
	query := `SELECT id, device_id, device_ip, type, severity, message, metadata, acknowledged,
		acknowledged_by, acknowledged_at, created_at, resolved_at, resolved_by, occurrence_count, last_occurrence
		FROM alerts WHERE 1=1`

	var args []interface{}

	if filter.DeviceID != "" {
		query += ` AND device_id = ?`
		args = append(args, filter.DeviceID)
	}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}

	if filter.Severity != "" {
		query += ` AND severity = ?`
		args = append(args, string(filter.Severity))
	}

	if filter.Acknowledged != nil {
		query += ` AND acknowledged = ?`
		args = append(args, boolToInt(*filter.Acknowledged))
	}

	if filter.ActiveOnly {
		query += ` AND resolved_at IS NULL`
	}

	query += ` ORDER BY created_at DESC`

	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Alert

	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

func scanAlert(rows *sql.Rows) (*models.Alert, error) {
	a := &models.Alert{}

	var alertType, severity, meta string

	var acked int

	err := rows.Scan(&a.ID, &a.DeviceID, &a.DeviceIP, &alertType, &severity, &a.Message, &meta, &acked,
		&a.AcknowledgedBy, &a.AcknowledgedAt, &a.CreatedAt, &a.ResolvedAt, &a.ResolvedBy,
		&a.OccurrenceCount, &a.LastOccurrence)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
	}

	a.Type = models.AlertType(alertType)
	a.Severity = models.AlertSeverity(severity)
	a.Acknowledged = acked != 0

	if meta != "" {
		_ = json.Unmarshal([]byte(meta), &a.Metadata)
	}

	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

func rowsAffectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	if n == 0 {
		return ErrAlertNotFound
	}

	return nil
}
