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

// Package store is the embedded relational Store (C1): durable storage for
// devices, metrics, system info, interfaces, alerts, scan history and
// configuration, backed by modernc.org/sqlite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the typed accessor described in the component design: concurrent
// reads are safe, writes are serialized by writeMu the way the teacher's
// embedded stores document a single-writer connection.
type Store struct {
	db      *sql.DB
	writeMu sync.Mutex
	log     logger.Logger
}

// Open opens (creating if absent) the sqlite database at path, applies the
// schema, and seeds default configuration keys on first open.
func Open(ctx context.Context, path string, log logger.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsnWithPragmas(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedOpenDB, err)
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedOpenDB, err)
	}

	s := &Store{db: db, log: log}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := s.seedDefaults(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// dsnWithPragmas appends modernc.org/sqlite's _pragma DSN parameter so
// foreign key enforcement is ON for the connection. modernc.org/sqlite
// leaves FK enforcement off by default, which would otherwise silently
// skip the ON DELETE CASCADE clauses in the schema.
func dsnWithPragmas(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep + "_pragma=" + url.QueryEscape("foreign_keys(1)") + "&_time_format=sqlite"
}

func (s *Store) migrate(ctx context.Context) error {
	content, err := migrationsFS.ReadFile("migrations/schema.sql")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToInit, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, stmt := range splitStatements(string(content)) {
		if stmt == "" {
			continue
		}

		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: statement %q: %v", ErrFailedToInit, stmt, err)
		}
	}

	return nil
}

func (s *Store) seedDefaults(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for key, rng := range models.ConfigDefaults {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO configuration (key, value, description) VALUES (?, ?, '')
			 ON CONFLICT(key) DO NOTHING`, key, rng.Default)
		if err != nil {
			return fmt.Errorf("%w: seeding %s: %v", ErrFailedToInsert, key, err)
		}
	}

	return nil
}

// splitStatements breaks a schema file into individual ';'-terminated
// statements, skipping blank lines and comments.
func splitStatements(content string) []string {
	var out []string

	var b strings.Builder

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}

		b.WriteString(line)
		b.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			out = append(out, strings.TrimSuffix(strings.TrimSpace(b.String()), ";"))
			b.Reset()
		}
	}

	if rest := strings.TrimSpace(b.String()); rest != "" {
		out = append(out, rest)
	}

	return out
}
