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

// Package config loads the collector's bootstrap configuration: a JSON
// file, then environment variable overrides. This is only the process
// bootstrap layer — once the Store opens, its persisted configuration
// table takes over as described in the engine package.
package config

import (
	"context"

	"github.com/lanwatch/collector/pkg/logger"
)

// EnvPrefix is prepended to every environment variable this package reads,
// and is the prefix accepted by EnvConfigLoader's CONFIG_JSON escape hatch.
const EnvPrefix = "COLLECTOR_"

// Config is the bootstrap configuration: where the store lives, what the
// engine logs at, and the initial values for the Store-owned settings
// before the Store's own configuration table has ever been read.
type Config struct {
	DBPath            string        `json:"db_path"`
	ListenAddr        string        `json:"listen_addr"`
	Logging           logger.Config `json:"logging"`
	RefreshInterval   int           `json:"refresh_interval"`
	DefaultCommunity  string        `json:"default_community"`
	ScanTimeoutMS     int           `json:"scan_timeout"`
	SNMPTimeoutMS     int           `json:"snmp_timeout"`
	MaxHistoryDays    int           `json:"max_history_days"`
	CPUWarning        int           `json:"cpu_warning_threshold"`
	CPUCritical       int           `json:"cpu_critical_threshold"`
	MemoryWarning     int           `json:"memory_warning_threshold"`
	MemoryCritical    int           `json:"memory_critical_threshold"`
	DiskWarning       int           `json:"disk_warning_threshold"`
	DiskCritical      int           `json:"disk_critical_threshold"`

	// PushWSPath is the HTTP path the dashboard's WebSocket client
	// upgrades on; empty disables the WebSocket push transport.
	PushWSPath string `json:"push_ws_path"`

	// NatsURL, if set, opens a NATS connection and subscribes it to the
	// Broadcaster under NatsSubject so a sibling process can consume
	// events over the LAN's message bus instead of a browser WebSocket.
	NatsURL     string `json:"nats_url"`
	NatsSubject string `json:"nats_subject"`
}

// Default returns the bootstrap defaults mirrored from the configuration
// key table; these only take effect until the Store's own values load.
func Default() Config {
	return Config{
		DBPath:           "collector.db",
		ListenAddr:       ":8090",
		Logging:          logger.DefaultConfig(),
		RefreshInterval:  10,
		DefaultCommunity: "public",
		ScanTimeoutMS:    3000,
		SNMPTimeoutMS:    5000,
		MaxHistoryDays:   30,
		CPUWarning:       75,
		CPUCritical:      90,
		MemoryWarning:    80,
		MemoryCritical:   95,
		DiskWarning:      85,
		DiskCritical:     95,
		PushWSPath:       "/ws",
	}
}

// ConfigLoader loads configuration into dst from a named source.
type ConfigLoader interface {
	Load(ctx context.Context, path string, dst interface{}) error
}

// Load reads the bootstrap config file (if it exists) and then applies
// environment overrides, following the teacher's file-then-env order.
func Load(ctx context.Context, path string, log logger.Logger) (Config, error) {
	cfg := Default()

	if path != "" {
		fileLoader := &FileConfigLoader{}
		if err := fileLoader.Load(ctx, path, &cfg); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("no config file loaded, using defaults")
		}
	}

	envLoader := NewEnvConfigLoader(log, EnvPrefix)
	if err := envLoader.Load(ctx, "", &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
