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

// Package app wires the collector's components together and drives the
// Engine under lifecycle.Run, the way cmd/core/app does for the teacher's
// core service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/lanwatch/collector/pkg/alertengine"
	"github.com/lanwatch/collector/pkg/broadcaster"
	"github.com/lanwatch/collector/pkg/config"
	"github.com/lanwatch/collector/pkg/engine"
	"github.com/lanwatch/collector/pkg/hostprobe"
	"github.com/lanwatch/collector/pkg/lifecycle"
	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/pushnats"
	"github.com/lanwatch/collector/pkg/pushws"
	"github.com/lanwatch/collector/pkg/remoteprobe"
	"github.com/lanwatch/collector/pkg/scan"
	"github.com/lanwatch/collector/pkg/store"
)

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath string
}

// Run boots the collector: opens the Store, constructs every probe and
// engine collaborator wired to the shared Broadcaster, starts the optional
// push transports, and drives the Engine under lifecycle.Run until a
// termination signal arrives.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	bootLog := logger.WithComponentLogger("bootstrap")

	cfg, err := config.Load(ctx, opts.ConfigPath, bootLog)
	if err != nil {
		return fmt.Errorf("load bootstrap config: %w", err)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log := logger.WithComponentLogger("collector")

	st, err := store.Open(ctx, cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	bc := broadcaster.New(log)

	if nc, closeNats := connectNats(cfg, bc, log); nc != nil {
		defer closeNats()
	}

	stopPush := servePushWS(cfg, bc, log)
	defer stopPush()

	host := hostprobe.NewProber(log)
	remote := remoteprobe.NewProber(log, time.Duration(cfg.SNMPTimeoutMS)*time.Millisecond)

	scanner, err := scan.NewScanner(log, bc)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("open scanner: %w", err)
	}

	alerts := alertengine.New(st, bc, log)

	eng := engine.New(st, host, remote, scanner, alerts, bc, log, nil)

	if err := eng.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	log.Info().Str("db_path", cfg.DBPath).Dur("refresh_interval", time.Duration(cfg.RefreshInterval)*time.Second).
		Msg("collector starting")

	return lifecycle.Run(ctx, eng, log, lifecycle.Options{})
}

// connectNats opens the optional NATS connection and subscribes it to the
// Broadcaster for the lifetime of the process. It returns a nil connection
// and a no-op closer if NatsURL is unset.
func connectNats(cfg config.Config, bc *broadcaster.Broadcaster, log logger.Logger) (*nats.Conn, func()) {
	if cfg.NatsURL == "" {
		return nil, func() {}
	}

	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		log.Error().Err(err).Str("url", cfg.NatsURL).Msg("failed to connect to nats, push-over-nats disabled")
		return nil, func() {}
	}

	subject := cfg.NatsSubject
	if subject == "" {
		subject = "collector.events"
	}

	id := bc.Subscribe(pushnats.New(nc, subject, log))

	log.Info().Str("url", cfg.NatsURL).Str("subject", subject).Msg("publishing events to nats")

	return nc, func() {
		bc.Unsubscribe(id)
		nc.Close()
	}
}

// servePushWS starts the dashboard WebSocket push endpoint in the
// background if PushWSPath is set. It returns a closer that shuts the
// listener down; calling it is safe even if the endpoint was never
// started.
func servePushWS(cfg config.Config, bc *broadcaster.Broadcaster, log logger.Logger) func() {
	if cfg.PushWSPath == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.PushWSPath, func(w http.ResponseWriter, r *http.Request) {
		h, err := pushws.Upgrade(w, r, log)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		id := bc.Subscribe(h)

		pushws.ReadLoop(h)
		bc.Unsubscribe(id)
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("path", cfg.PushWSPath).Msg("serving websocket push endpoint")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("websocket push listener stopped")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}
}
