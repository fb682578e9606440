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

	"github.com/lanwatch/collector/pkg/models"
)

// AppendScanHistory records one completed (or stopped/errored) sweep.
func (s *Store) AppendScanHistory(ctx context.Context, rec *models.ScanRecord) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_history (scan_range, total_ips, discovered_hosts, duration_ms, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ScanRange, rec.TotalIPs, rec.DiscoveredHosts, rec.DurationMs, rec.StartedAt, rec.CompletedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	return nil
}

// ListScanHistory returns the most recent sweeps, newest first.
func (s *Store) ListScanHistory(ctx context.Context, limit int) ([]*models.ScanRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT scan_range, total_ips, discovered_hosts, duration_ms, started_at, completed_at
		FROM scan_history ORDER BY completed_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.ScanRecord

	for rows.Next() {
		rec := &models.ScanRecord{}

		if err := rows.Scan(&rec.ScanRange, &rec.TotalIPs, &rec.DiscoveredHosts, &rec.DurationMs, &rec.StartedAt, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
		}

		out = append(out, rec)
	}

	return out, rows.Err()
}
