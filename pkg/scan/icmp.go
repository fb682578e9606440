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
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const icmpProtocolICMP = 1

// icmpProber sends ICMP echo requests over one shared raw socket and
// dispatches replies back to their waiting caller by sequence number. A
// single background reader serves every concurrent probe so batches don't
// each need their own socket.
type icmpProber struct {
	conn       *icmp.PacketConn
	identifier int
	seq        atomic.Uint32

	mu      sync.Mutex
	pending map[uint32]chan time.Time
}

func newICMPProber() (*icmpProber, error) {
	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return nil, fmt.Errorf("open icmp socket: %w", err)
	}

	p := &icmpProber{
		conn:       conn,
		identifier: int(time.Now().UnixNano() & 0xffff),
		pending:    make(map[uint32]chan time.Time),
	}

	go p.listen()

	return p, nil
}

func (p *icmpProber) listen() {
	buf := make([]byte, 1500)

	for {
		n, _, err := p.conn.ReadFrom(buf)
		if err != nil {
			return
		}

		receivedAt := time.Now()

		msg, err := icmp.ParseMessage(icmpProtocolICMP, buf[:n])
		if err != nil || msg.Type != ipv4.ICMPTypeEchoReply {
			continue
		}

		echo, ok := msg.Body.(*icmp.Echo)
		if !ok || echo.ID != p.identifier {
			continue
		}

		seq := uint32(echo.Seq)

		p.mu.Lock()
		ch, found := p.pending[seq]
		p.mu.Unlock()

		if found {
			select {
			case ch <- receivedAt:
			default:
			}
		}
	}
}

// probe sends one echo request to ip and waits up to timeout for the
// matching reply.
func (p *icmpProber) probe(ctx context.Context, ip string, timeout time.Duration) (bool, time.Duration, error) {
	dst, err := net.ResolveIPAddr("ip4", ip)
	if err != nil {
		return false, 0, err
	}

	seq := p.seq.Add(1)

	wm := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.identifier,
			Seq:  int(seq),
			Data: []byte("lanwatch-collector"),
		},
	}

	wb, err := wm.Marshal(nil)
	if err != nil {
		return false, 0, err
	}

	replyCh := make(chan time.Time, 1)

	p.mu.Lock()
	p.pending[seq] = replyCh
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.pending, seq)
		p.mu.Unlock()
	}()

	start := time.Now()

	if _, err := p.conn.WriteTo(wb, dst); err != nil {
		return false, 0, err
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case receivedAt := <-replyCh:
		return true, receivedAt.Sub(start), nil
	case <-probeCtx.Done():
		return false, time.Since(start), nil
	}
}

func (p *icmpProber) close() error {
	return p.conn.Close()
}
