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

package scan

import (
	"context"
	"net"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

// fakeProber treats every address except those in dead as alive, with a 1ms
// RTT, so Start()'s batching logic can be exercised without a raw socket.
type fakeProber struct {
	dead map[string]bool
}

func (f *fakeProber) probe(_ context.Context, ip string, _ time.Duration) (bool, time.Duration, error) {
	if f.dead[ip] {
		return false, 0, nil
	}

	return true, time.Millisecond, nil
}

func (f *fakeProber) close() error { return nil }

// recordingSink collects every emitted event for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingSink) Emit(eventType string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, eventType)
}

func (r *recordingSink) has(eventType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events {
		if e == eventType {
			return true
		}
	}

	return false
}

func newTestScanner(sink EventSink, dead map[string]bool) *Scanner {
	return &Scanner{
		log:   logger.NewTestLogger(),
		sink:  sink,
		icmp:  &fakeProber{dead: dead},
		state: models.ScanIdle,
	}
}

func TestStartSweepsEveryHostAndCompletes(t *testing.T) {
	sink := &recordingSink{}
	s := newTestScanner(sink, nil)

	results, err := s.Start(context.Background(), "10.0.0.1-3", models.ScanOptions{Concurrent: 2})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, models.ScanIdleCompleted, s.State())
	assert.True(t, sink.has("scan_started"))
	assert.True(t, sink.has("scan_completed"))
	assert.True(t, sink.has("host_discovered"))
}

func TestStartSkipsDeadHosts(t *testing.T) {
	s := newTestScanner(nil, map[string]bool{"10.0.0.2": true})

	results, err := s.Start(context.Background(), "10.0.0.1-3", models.ScanOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	for _, r := range results {
		assert.NotEqual(t, "10.0.0.2", r.IP)
	}
}

func TestStartRejectsConcurrentScan(t *testing.T) {
	s := newTestScanner(nil, nil)

	s.mu.Lock()
	s.state = models.ScanScanning
	s.mu.Unlock()

	_, err := s.Start(context.Background(), "10.0.0.1", models.ScanOptions{})
	assert.ErrorIs(t, err, ErrScanAlreadyRunning)
}

func TestStartRejectsInvalidRange(t *testing.T) {
	sink := &recordingSink{}
	s := newTestScanner(sink, nil)

	_, err := s.Start(context.Background(), "not-an-ip", models.ScanOptions{})
	require.Error(t, err)
	assert.Equal(t, models.ScanIdleError, s.State())
	assert.True(t, sink.has("scan_error"))
}

func TestStopEndsSweepAtNextBatchBoundary(t *testing.T) {
	s := newTestScanner(nil, nil)

	resultCh := make(chan []models.HostResult, 1)
	errCh := make(chan error, 1)

	go func() {
		results, err := s.Start(context.Background(), "10.0.0.1-5", models.ScanOptions{Concurrent: 1})
		resultCh <- results
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	s.Stop()

	require.NoError(t, <-errCh)
	results := <-resultCh
	assert.Equal(t, models.ScanIdleStopped, s.State())
	assert.Less(t, len(results), 5)
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	opts := applyDefaults(models.ScanOptions{})
	assert.Equal(t, defaultTimeoutMS, opts.TimeoutMS)
	assert.Equal(t, defaultConcurrent, opts.Concurrent)
}

func TestPingReportsLivenessIndependentOfSweep(t *testing.T) {
	s := newTestScanner(nil, map[string]bool{"10.0.0.2": true})

	alive, _, err := s.Ping(context.Background(), "10.0.0.1", 0)
	require.NoError(t, err)
	assert.True(t, alive)

	dead, _, err := s.Ping(context.Background(), "10.0.0.2", 0)
	require.NoError(t, err)
	assert.False(t, dead)
}

func TestPortScanReturnsSortedOpenPorts(t *testing.T) {
	s := newTestScanner(nil, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	port := ln.Addr().(*net.TCPAddr).Port
	scanPorts = append([]int{port}, scanPorts...)
	defer func() { scanPorts = scanPorts[1:] }()

	open := s.PortScan(context.Background(), "127.0.0.1", 200*time.Millisecond)
	assert.Contains(t, open, port)
	assert.True(t, sort.IntsAreSorted(open))
}
