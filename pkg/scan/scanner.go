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

// Package scan implements range-specification parsing and the liveness /
// port sweep used to discover responsive hosts on a LAN segment.
package scan

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

const (
	defaultTimeoutMS  = 2000
	defaultConcurrent = 50
	batchDelay        = 100 * time.Millisecond
)

// EventSink receives scanner lifecycle and progress events. The Engine
// wires one implementation backed by the Broadcaster; tests can supply
// something that just records calls.
type EventSink interface {
	Emit(eventType string, data any)
}

// hostProber sends a liveness probe to one address. icmpProber is the
// production implementation; tests substitute a fake to avoid needing
// raw-socket privilege.
type hostProber interface {
	probe(ctx context.Context, ip string, timeout time.Duration) (bool, time.Duration, error)
	close() error
}

// Scanner sweeps an address range for responsive hosts, optionally
// checking a fixed list of well-known ports on each survivor.
type Scanner struct {
	log  logger.Logger
	sink EventSink
	icmp hostProber

	mu    sync.Mutex
	state models.ScanState

	stopped atomic.Bool
}

// NewScanner opens the shared ICMP socket used for liveness probing.
// Opening this socket typically requires CAP_NET_RAW or root.
func NewScanner(log logger.Logger, sink EventSink) (*Scanner, error) {
	prober, err := newICMPProber()
	if err != nil {
		return nil, err
	}

	return &Scanner{log: log, sink: sink, icmp: prober, state: models.ScanIdle}, nil
}

// State reports the scanner's current state-machine position.
func (s *Scanner) State() models.ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Close releases the ICMP socket.
func (s *Scanner) Close() error {
	return s.icmp.close()
}

// Ping sends a single ICMP echo probe to host, independent of any sweep in
// progress, and reports whether it replied and the round-trip time if so.
func (s *Scanner) Ping(ctx context.Context, host string, timeout time.Duration) (bool, time.Duration, error) {
	if timeout <= 0 {
		timeout = defaultTimeoutMS * time.Millisecond
	}

	return s.icmp.probe(ctx, host, timeout)
}

// PortScan checks the fixed well-known port list against host and returns
// the ones that accepted a TCP connection, independent of any sweep.
func (s *Scanner) PortScan(ctx context.Context, host string, timeout time.Duration) []int {
	return checkPorts(ctx, host, timeout)
}

func applyDefaults(opts models.ScanOptions) models.ScanOptions {
	if opts.TimeoutMS <= 0 {
		opts.TimeoutMS = defaultTimeoutMS
	}

	if opts.Concurrent <= 0 {
		opts.Concurrent = defaultConcurrent
	}

	return opts
}

func (s *Scanner) emit(eventType string, data any) {
	if s.sink != nil {
		s.sink.Emit(eventType, data)
	}
}

// Start parses rangeSpec, sweeps every resulting address for liveness, and
// returns the responsive hosts. Only one sweep may run at a time; a second
// call while scanning is in progress returns ErrScanAlreadyRunning.
func (s *Scanner) Start(ctx context.Context, rangeSpec string, opts models.ScanOptions) ([]models.HostResult, error) {
	s.mu.Lock()
	if s.state == models.ScanScanning {
		s.mu.Unlock()
		return nil, ErrScanAlreadyRunning
	}

	s.state = models.ScanScanning
	s.mu.Unlock()

	s.stopped.Store(false)

	ips, _, err := ParseRange(rangeSpec)
	if err != nil {
		s.finish(models.ScanIdleError)
		s.emit("scan_error", map[string]any{"error": err.Error()})

		return nil, err
	}

	opts = applyDefaults(opts)
	probeTimeout := time.Duration(opts.TimeoutMS) * time.Millisecond

	s.emit("scan_started", map[string]any{"range": rangeSpec, "total": len(ips)})

	results := s.sweep(ctx, ips, opts, probeTimeout)

	if s.stopped.Load() {
		s.finish(models.ScanIdleStopped)
		s.emit("scan_stopped", map[string]any{"total_scanned": len(ips), "total_found": len(results)})

		return results, nil
	}

	s.finish(models.ScanIdleCompleted)
	s.emit("scan_completed", map[string]any{"total_scanned": len(ips), "total_found": len(results)})

	return results, nil
}

func (s *Scanner) finish(state models.ScanState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Stop requests the in-progress sweep to end after its current batch; it
// does not interrupt probes already in flight.
func (s *Scanner) Stop() {
	s.stopped.Store(true)
}

func (s *Scanner) sweep(ctx context.Context, ips []string, opts models.ScanOptions, probeTimeout time.Duration) []models.HostResult {
	var results []models.HostResult

	total := len(ips)
	scanned := 0

	for start := 0; start < total; start += opts.Concurrent {
		if s.stopped.Load() || ctx.Err() != nil {
			break
		}

		end := start + opts.Concurrent
		if end > total {
			end = total
		}

		batch := ips[start:end]

		for _, host := range s.probeBatch(ctx, batch, probeTimeout, opts.IncludePorts) {
			results = append(results, host)
		}

		scanned += len(batch)

		percent := scanned * 100 / total
		s.emit("scan_progress", map[string]any{"percent": percent})

		if end < total && !s.stopped.Load() {
			time.Sleep(batchDelay)
		}
	}

	return results
}

func (s *Scanner) probeBatch(ctx context.Context, batch []string, probeTimeout time.Duration, includePorts bool) []models.HostResult {
	var (
		mu      sync.Mutex
		results []models.HostResult
		wg      sync.WaitGroup
	)

	for _, ip := range batch {
		ip := ip

		wg.Add(1)

		go func() {
			defer wg.Done()

			alive, rtt, err := s.icmp.probe(ctx, ip, probeTimeout)
			if err != nil {
				s.log.Error().Err(err).Str("ip", ip).Msg("icmp probe failed")
			}

			if !alive {
				return
			}

			host := models.HostResult{IP: ip, RTTMs: rtt.Milliseconds()}

			if includePorts {
				host.OpenPort = checkPorts(ctx, ip, defaultPortTimeout)
			}

			mu.Lock()
			results = append(results, host)
			mu.Unlock()

			s.emit("host_discovered", map[string]any{"ip": ip, "rtt_ms": host.RTTMs, "ports": host.OpenPort})
		}()
	}

	wg.Wait()

	return results
}
