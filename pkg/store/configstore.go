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
	"strconv"

	"github.com/lanwatch/collector/pkg/models"
)

// GetConfig returns the stored value for key, or its documented default if
// the key has never been set.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM configuration WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		if rng, ok := models.ConfigDefaults[key]; ok {
			return rng.Default, nil
		}

		return "", fmt.Errorf("%w: %s", ErrFailedToQuery, key)
	}

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}

	return value, nil
}

// ListConfig returns every recognized configuration key with its current
// (or default, if unset) value.
func (s *Store) ListConfig(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(models.ConfigDefaults))

	for key, rng := range models.ConfigDefaults {
		out[key] = rng.Default
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM configuration`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, value string

		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToScan, err)
		}

		out[key] = value
	}

	return out, rows.Err()
}

// SetConfig validates value against key's documented range (when the key is
// numeric) and clamps it into range before persisting, rather than rejecting
// an out-of-range write outright.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	rng, ok := models.ConfigDefaults[key]
	if !ok {
		return fmt.Errorf("%w: unrecognized config key %s", ErrFailedToInsert, key)
	}

	if rng.Min != 0 || rng.Max != 0 {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be numeric: %v", ErrFailedToInsert, key, err)
		}

		if n < rng.Min {
			n = rng.Min
		}

		if n > rng.Max {
			n = rng.Max
		}

		value = strconv.Itoa(n)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO configuration (key, value, description) VALUES (?, ?, '')
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInsert, err)
	}

	return nil
}
