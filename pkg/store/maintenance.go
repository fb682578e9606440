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

// Cleanup purges aged rows under three independent retention rules: metrics
// and system_info older than retentionDays, interface snapshots older than a
// day (only the latest snapshot per device is ever meaningful), and resolved
// alerts older than a week.
func (s *Store) Cleanup(ctx context.Context, retentionDays int) error {
	if retentionDays <= 0 {
		retentionDays = 30
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := time.Now().UTC()
	metricsCutoff := now.AddDate(0, 0, -retentionDays)
	interfacesCutoff := now.Add(-24 * time.Hour)
	alertsCutoff := now.AddDate(0, 0, -7)

	stmts := []struct {
		query string
		arg   interface{}
	}{
		{`DELETE FROM metrics WHERE timestamp < ?`, metricsCutoff},
		{`DELETE FROM system_info WHERE timestamp < ?`, metricsCutoff},
		{`DELETE FROM network_interfaces WHERE timestamp < ?`, interfacesCutoff},
		{`DELETE FROM alerts WHERE resolved_at IS NOT NULL AND resolved_at < ?`, alertsCutoff},
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt.query, stmt.arg); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
		}
	}

	return nil
}

// Stats reports row counts per table and the on-disk size of the database
// file, used for the operator-facing storage footprint summary.
func (s *Store) Stats(ctx context.Context) (*models.StoreStats, error) {
	stats := &models.StoreStats{}

	counts := []struct {
		table string
		dst   *int
	}{
		{"devices", &stats.DeviceCount},
		{"metrics", &stats.MetricCount},
		{"alerts", &stats.AlertCount},
		{"scan_history", &stats.ScanHistoryCount},
		{"network_interfaces", &stats.NetworkInterfaceCount},
	}

	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
		}
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()`,
	).Scan(&stats.StorageBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}

	return stats, nil
}
