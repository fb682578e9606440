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

// Package lifecycle supplies the signal-driven run loop shared by the
// collector binary: wait for SIGINT/SIGTERM, cancel the service's context,
// and give it a bounded window to shut down cleanly.
package lifecycle

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/lanwatch/collector/pkg/logger"
)

// Service is anything Run can drive: Start blocks until ctx is canceled or
// a fatal error occurs, Stop releases resources once Start has
// returned.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Options configures Run.
type Options struct {
	// ShutdownTimeout bounds how long Stop is given to complete after
	// a termination signal arrives. Defaults to 30s.
	ShutdownTimeout time.Duration
}

const defaultShutdownTimeout = 30 * time.Second

// Run starts svc, blocks until SIGINT or SIGTERM is received (or svc.Start
// returns on its own), then runs svc.Stop with a bounded timeout.
func Run(ctx context.Context, svc Service, log logger.Logger, opts Options) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startErrCh := make(chan error, 1)

	go func() {
		startErrCh <- svc.Start(runCtx)
	}()

	var startErr error

	select {
	case <-runCtx.Done():
		log.Info().Msg("received shutdown signal")
		startErr = <-startErrCh
	case startErr = <-startErrCh:
		stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer shutdownCancel()

	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("service stop returned an error")

		if startErr != nil {
			return fmt.Errorf("start: %w; shutdown: %v", startErr, err)
		}

		return fmt.Errorf("shutdown: %w", err)
	}

	if startErr != nil && startErr != context.Canceled {
		return fmt.Errorf("start: %w", startErr)
	}

	return nil
}
