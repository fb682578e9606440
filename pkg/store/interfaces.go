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
	"fmt"
	"time"

	"github.com/lanwatch/collector/pkg/models"
)

// ReplaceInterfaces atomically replaces the interface snapshot for a
// device: delete-then-insert within one transaction, so the store never
// shows a mix of old and new rows.
func (s *Store) ReplaceInterfaces(ctx context.Context, deviceID string, list []models.NetworkInterface) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM network_interfaces WHERE device_id = ?`, deviceID); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO network_interfaces
			(device_id, idx, name, description, type, speed, admin_status, oper_status, in_octets, out_octets, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()

	for _, iface := range list {
		ts := iface.Timestamp
		if ts.IsZero() {
			ts = now
		}

		_, err := stmt.ExecContext(ctx, deviceID, iface.Index, iface.Name, iface.Description, iface.Type,
			iface.Speed, iface.AdminStatus, iface.OperStatus, iface.InOctets, iface.OutOctets, ts)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
		}
	}

	return tx.Commit()
}

// ListInterfaces returns the current interface snapshot for a device.
func (s *Store) ListInterfaces(ctx context.Context, deviceID string) ([]models.NetworkInterface, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT device_id, idx, name, description, type, speed, admin_status, oper_status, in_octets, out_octets, timestamp
		FROM network_interfaces WHERE device_id = ? ORDER BY idx
	`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.NetworkInterface

	for rows.Next() {
		var iface models.NetworkInterface

		if err := rows.Scan(&iface.DeviceID, &iface.Index, &iface.Name, &iface.Description, &iface.Type,
			&iface.Speed, &iface.AdminStatus, &iface.OperStatus, &iface.InOctets, &iface.OutOctets, &iface.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
		}

		out = append(out, iface)
	}

	return out, rows.Err()
}
