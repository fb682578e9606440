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
	"fmt"
	"net"
	"sort"
	"sync"
	"time"
)

// defaultPortTimeout bounds a single per-port connect attempt.
const defaultPortTimeout = 1000 * time.Millisecond

// scanPorts is the fixed port-scan target list used when a sweep is asked
// to enrich responsive hosts with open-port information.
var scanPorts = []int{22, 23, 53, 80, 443, 161, 162, 3389}

// checkPorts probes every port in scanPorts against host concurrently and
// returns the ones that accepted a TCP connection, sorted ascending.
func checkPorts(ctx context.Context, host string, timeout time.Duration) []int {
	if timeout <= 0 {
		timeout = defaultPortTimeout
	}

	var (
		mu   sync.Mutex
		open []int
		wg   sync.WaitGroup
	)

	for _, port := range scanPorts {
		port := port

		wg.Add(1)

		go func() {
			defer wg.Done()

			if dialPort(ctx, host, port, timeout) {
				mu.Lock()
				open = append(open, port)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	sort.Ints(open)

	return open
}

func dialPort(ctx context.Context, host string, port int, timeout time.Duration) bool {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer

	conn, err := dialer.DialContext(probeCtx, "tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return false
	}

	_ = conn.Close()

	return true
}
