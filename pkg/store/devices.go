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
	"errors"
	"fmt"
	"time"

	"github.com/lanwatch/collector/pkg/models"
)

// UpsertDevice inserts or replaces a device by id. last_seen is always
// refreshed to now; first_seen is preserved across updates.
func (s *Store) UpsertDevice(ctx context.Context, d *models.Device) error {
	if d.ID == "" {
		return ErrDeviceIDRequired
	}

	if d.IP == "" {
		return ErrDeviceIPRequired
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := time.Now().UTC()
	d.LastSeen = now

	if d.FirstSeen.IsZero() {
		d.FirstSeen = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO devices (id, ip, hostname, description, location, contact, community, status, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ip = excluded.ip,
			hostname = excluded.hostname,
			description = excluded.description,
			location = excluded.location,
			contact = excluded.contact,
			community = excluded.community,
			status = excluded.status,
			last_seen = excluded.last_seen
	`, d.ID, d.IP, d.Hostname, d.Description, d.Location, d.Contact, d.Community, string(d.Status), d.FirstSeen, d.LastSeen)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	// Preserve the existing first_seen instead of clobbering it on update.
	_, err = s.db.ExecContext(ctx, `
		UPDATE devices SET first_seen = (
			SELECT MIN(first_seen) FROM devices WHERE id = ?
		) WHERE id = ?
	`, d.ID, d.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	return nil
}

// GetDevice returns the device with the given id.
func (s *Store) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	row := s.db.QueryRowContext(ctx, deviceSelectCols+` FROM devices WHERE id = ?`, id)
	return scanDevice(row)
}

// GetDeviceByIP returns the device with the given IP, if any.
func (s *Store) GetDeviceByIP(ctx context.Context, ip string) (*models.Device, error) {
	row := s.db.QueryRowContext(ctx, deviceSelectCols+` FROM devices WHERE ip = ?`, ip)
	return scanDevice(row)
}

// ListDevices returns every known device.
func (s *Store) ListDevices(ctx context.Context) ([]*models.Device, error) {
	rows, err := s.db.QueryContext(ctx, deviceSelectCols+` FROM devices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Device

	for rows.Next() {
		d, err := scanDeviceRows(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, d)
	}

	return out, rows.Err()
}

// DeleteDevice removes a device along with its metrics, system_info,
// network_interfaces, and alerts. The child tables also carry an
// ON DELETE CASCADE foreign key, but the deletes are issued explicitly
// here too rather than relying on that alone, since alerts reference
// device_id without an FK (resolved history can outlive a deleted
// device's metrics) and needs an explicit delete regardless.
func (s *Store) DeleteDevice(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"metrics", "system_info", "network_interfaces", "alerts"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE device_id = ?`, id); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	if n == 0 {
		return ErrDeviceNotFound
	}

	return tx.Commit()
}

const deviceSelectCols = `SELECT id, ip, hostname, description, location, contact, community, status, first_seen, last_seen`

func scanDevice(row *sql.Row) (*models.Device, error) {
	d := &models.Device{}

	var status string

	err := row.Scan(&d.ID, &d.IP, &d.Hostname, &d.Description, &d.Location, &d.Contact, &d.Community, &status, &d.FirstSeen, &d.LastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeviceNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
	}

	d.Status = models.DeviceStatus(status)

	return d, nil
}

func scanDeviceRows(rows *sql.Rows) (*models.Device, error) {
	d := &models.Device{}

	var status string

	if err := rows.Scan(&d.ID, &d.IP, &d.Hostname, &d.Description, &d.Location, &d.Contact, &d.Community, &status, &d.FirstSeen, &d.LastSeen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
	}

	d.Status = models.DeviceStatus(status)

	return d, nil
}
