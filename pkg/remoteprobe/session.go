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

package remoteprobe

import (
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"
)

const (
	defaultTimeout = 5 * time.Second
	defaultRetries = 2
	snmpPort       = 161
)

// sessionCache holds one connected gosnmp.GoSNMP client per (ip, community),
// reused across polls. A session-level error evicts its entry so the next
// poll opens a fresh one; a race between two openers for the same key is
// resolved by discarding the loser's client rather than serializing opens.
type sessionCache struct {
	mu      sync.Mutex
	clients map[string]*gosnmp.GoSNMP
	timeout time.Duration
}

func newSessionCache(timeout time.Duration) *sessionCache {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &sessionCache{clients: make(map[string]*gosnmp.GoSNMP), timeout: timeout}
}

func sessionKey(ip, community string) string {
	return ip + "|" + community
}

func (c *sessionCache) get(ip, community string) (*gosnmp.GoSNMP, error) {
	key := sessionKey(ip, community)

	c.mu.Lock()
	if client, ok := c.clients[key]; ok {
		c.mu.Unlock()
		return client, nil
	}
	c.mu.Unlock()

	client := &gosnmp.GoSNMP{
		Target:             ip,
		Port:               snmpPort,
		Community:          community,
		Version:            gosnmp.Version2c,
		Timeout:            c.timeout,
		Retries:            defaultRetries,
		ExponentialTimeout: true,
		MaxOids:            gosnmp.MaxOids,
	}

	if err := client.Connect(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.clients[key]; ok {
		c.mu.Unlock()
		_ = client.Conn.Close()

		return existing, nil
	}

	c.clients[key] = client
	c.mu.Unlock()

	return client, nil
}

// invalidate drops a cached session after a session-level error, so the
// next get() call opens a fresh connection.
func (c *sessionCache) invalidate(ip, community string) {
	key := sessionKey(ip, community)

	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[key]; ok {
		if client.Conn != nil {
			_ = client.Conn.Close()
		}

		delete(c.clients, key)
	}
}

func (c *sessionCache) closeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, client := range c.clients {
		if client.Conn != nil {
			_ = client.Conn.Close()
		}

		delete(c.clients, key)
	}
}
