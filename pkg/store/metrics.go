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

// InsertMetric writes a single metric row.
func (s *Store) InsertMetric(ctx context.Context, deviceID string, metricType models.MetricType, value float64, unit models.MetricUnit) error {
	return s.InsertMetrics(ctx, deviceID, []models.MetricSample{{
		DeviceID:   deviceID,
		MetricType: metricType,
		Value:      value,
		Unit:       unit,
		Timestamp:  time.Now().UTC(),
	}})
}

// InsertMetrics writes a batch of samples for one device atomically: all
// rows are committed together or none are, matching the per-tick batch
// contract in the component design.
func (s *Store) InsertMetrics(ctx context.Context, deviceID string, samples []models.MetricSample) error {
	if len(samples) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO metrics (device_id, metric_type, value, unit, timestamp) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sample := range samples {
		ts := sample.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}

		if _, err := stmt.ExecContext(ctx, deviceID, string(sample.MetricType), sample.Value, string(sample.Unit), ts); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
		}
	}

	return tx.Commit()
}

// LatestMetrics returns the most recent row per metric type for a device.
// When types is empty, every type present for the device is returned.
func (s *Store) LatestMetrics(ctx context.Context, deviceID string, types []models.MetricType) ([]models.MetricSample, error) {
	query := `
		SELECT device_id, metric_type, value, unit, timestamp FROM metrics m
		WHERE device_id = ? AND timestamp = (
			SELECT MAX(timestamp) FROM metrics WHERE device_id = m.device_id AND metric_type = m.metric_type
		)`

	args := []interface{}{deviceID}

	if len(types) > 0 {
		query += ` AND metric_type IN (` + placeholders(len(types)) + `)`

		for _, t := range types {
			args = append(args, string(t))
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.MetricSample

	for rows.Next() {
		var m models.MetricSample

		var metricType, unit string

		if err := rows.Scan(&m.DeviceID, &metricType, &m.Value, &unit, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
		}

		m.MetricType = models.MetricType(metricType)
		m.Unit = models.MetricUnit(unit)
		out = append(out, m)
	}

	return out, rows.Err()
}

// MetricsHistory returns samples for one device/type, ascending by
// timestamp, within the trailing windowHours.
func (s *Store) MetricsHistory(ctx context.Context, deviceID string, metricType models.MetricType, windowHours int) ([]models.MetricSample, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(windowHours) * time.Hour)

	rows, err := s.db.QueryContext(ctx, `
		SELECT device_id, metric_type, value, unit, timestamp FROM metrics
		WHERE device_id = ? AND metric_type = ? AND timestamp >= ?
		ORDER BY timestamp ASC
	`, deviceID, string(metricType), cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.MetricSample

	for rows.Next() {
		var m models.MetricSample

		var mt, unit string

		if err := rows.Scan(&m.DeviceID, &mt, &m.Value, &unit, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
		}

		m.MetricType = models.MetricType(mt)
		m.Unit = models.MetricUnit(unit)
		out = append(out, m)
	}

	return out, rows.Err()
}

// AggregateMetrics buckets samples into hour/day windows, returning one row
// per bucket with avg/min/max/sample_count — the simple roll-up the spec's
// non-goals explicitly permit.
func (s *Store) AggregateMetrics(ctx context.Context, deviceID string, metricType models.MetricType, period string, windowHours int) ([]models.AggregateBucket, error) {
	var bucketExpr string

	switch period {
	case "day":
		bucketExpr = `strftime('%Y-%m-%d 00:00:00', timestamp)`
	default:
		bucketExpr = `strftime('%Y-%m-%d %H:00:00', timestamp)`
	}

	cutoff := time.Now().UTC().Add(-time.Duration(windowHours) * time.Hour)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bucketExpr+` AS bucket, AVG(value), MIN(value), MAX(value), COUNT(*)
		FROM metrics
		WHERE device_id = ? AND metric_type = ? AND timestamp >= ?
		GROUP BY bucket
		ORDER BY bucket ASC
	`, deviceID, string(metricType), cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.AggregateBucket

	for rows.Next() {
		var b models.AggregateBucket

		var bucketStr string

		var count int

		if err := rows.Scan(&bucketStr, &b.Avg, &b.Min, &b.Max, &count); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
		}

		ts, err := time.Parse("2006-01-02 15:04:05", bucketStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
		}

		b.BucketStart = ts
		b.SampleCount = count
		out = append(out, b)
	}

	return out, rows.Err()
}

// Overview returns the fleet-wide device/status counts and the average of
// each usage metric's latest reading across every device that has reported
// one, for the "metrics overview" entry of the inbound control surface.
func (s *Store) Overview(ctx context.Context) (*models.MetricsOverview, error) {
	out := &models.MetricsOverview{StatusCounts: make(map[string]int)}

	statusRows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM devices GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = statusRows.Close() }()

	for statusRows.Next() {
		var status string

		var count int

		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
		}

		out.StatusCounts[status] = count
		out.TotalDevices += count
	}

	if err := statusRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}

	avgRows, err := s.db.QueryContext(ctx, `
		SELECT metric_type, AVG(value) FROM (
			SELECT metric_type, value,
				ROW_NUMBER() OVER (PARTITION BY device_id, metric_type ORDER BY timestamp DESC) AS rn
			FROM metrics
			WHERE metric_type IN (?, ?, ?)
		) WHERE rn = 1
		GROUP BY metric_type
	`, string(models.MetricCPUUsage), string(models.MetricMemoryUsage), string(models.MetricDiskUsage))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = avgRows.Close() }()

	for avgRows.Next() {
		var metricType string

		var avg float64

		if err := avgRows.Scan(&metricType, &avg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
		}

		switch models.MetricType(metricType) {
		case models.MetricCPUUsage:
			out.AvgCPUUsage = avg
		case models.MetricMemoryUsage:
			out.AvgMemoryUsage = avg
		case models.MetricDiskUsage:
			out.AvgDiskUsage = avg
		}
	}

	return out, avgRows.Err()
}

// TopUsage ranks devices by their latest reading of metricType, descending,
// truncated to limit rows, for the "top usage" entry of the inbound control
// surface.
func (s *Store) TopUsage(ctx context.Context, metricType models.MetricType, limit int) ([]models.DeviceUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.ip, d.hostname, latest.value, latest.timestamp FROM (
			SELECT device_id, value, timestamp,
				ROW_NUMBER() OVER (PARTITION BY device_id ORDER BY timestamp DESC) AS rn
			FROM metrics
			WHERE metric_type = ?
		) latest
		JOIN devices d ON d.id = latest.device_id
		WHERE latest.rn = 1
		ORDER BY latest.value DESC
		LIMIT ?
	`, string(metricType), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.DeviceUsage

	for rows.Next() {
		var u models.DeviceUsage

		if err := rows.Scan(&u.DeviceID, &u.IP, &u.Hostname, &u.Value, &u.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
		}

		out = append(out, u)
	}

	return out, rows.Err()
}

// InsertSystemInfo writes a per-poll summary row.
func (s *Store) InsertSystemInfo(ctx context.Context, info *models.SystemInfo) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ts := info.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_info (device_id, uptime_s, processes, users, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, info.DeviceID, info.UptimeS, info.Processes, info.Users, ts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	return nil
}

func placeholders(n int) string {
	out := make([]byte, 0, n*2-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}

		out = append(out, '?')
	}

	return string(out)
}
