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
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/lanwatch/collector/pkg/models"
)

const maxSampleIPs = 5

// ParseRange expands a range specification into the list of addresses it
// names. Three grammar forms are accepted: a single host ("A.B.C.D"), a
// last-octet range ("A.B.C.D-N"), and CIDR notation ("A.B.C.D/24").
func ParseRange(spec string) ([]string, models.RangeInfo, error) {
	spec = strings.TrimSpace(spec)

	var (
		ips []string
		err error
	)

	switch {
	case strings.Contains(spec, "/"):
		ips, err = expandCIDR(spec)
	case strings.Contains(spec, "-"):
		ips, err = expandOctetRange(spec)
	default:
		ips, err = expandSingleHost(spec)
	}

	if err != nil {
		return nil, models.RangeInfo{Valid: false, Error: err.Error()}, err
	}

	if len(ips) == 0 {
		return nil, models.RangeInfo{Valid: false, Error: ErrEmptyRange.Error()}, ErrEmptyRange
	}

	sampleN := len(ips)
	if sampleN > maxSampleIPs {
		sampleN = maxSampleIPs
	}

	return ips, models.RangeInfo{
		Valid:     true,
		TotalIPs:  len(ips),
		FirstIP:   ips[0],
		LastIP:    ips[len(ips)-1],
		SampleIPs: append([]string{}, ips[:sampleN]...),
	}, nil
}

func expandSingleHost(spec string) ([]string, error) {
	ip := net.ParseIP(spec)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidRange, spec)
	}

	return []string{ip.String()}, nil
}

func expandOctetRange(spec string) ([]string, error) {
	idx := strings.LastIndex(spec, "-")
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q has no octet range separator", ErrInvalidRange, spec)
	}

	base, endPart := spec[:idx], spec[idx+1:]

	ip := net.ParseIP(base).To4()
	if ip == nil {
		return nil, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidRange, base)
	}

	end, err := strconv.Atoi(endPart)
	if err != nil || end < 0 || end > 255 {
		return nil, fmt.Errorf("%w: %q is not a valid last-octet bound", ErrInvalidRange, endPart)
	}

	start := int(ip[3])
	if end < start {
		return nil, fmt.Errorf("%w: end octet %d is before start octet %d", ErrInvalidRange, end, start)
	}

	prefix := fmt.Sprintf("%d.%d.%d", ip[0], ip[1], ip[2])

	ips := make([]string, 0, end-start+1)
	for o := start; o <= end; o++ {
		ips = append(ips, fmt.Sprintf("%s.%d", prefix, o))
	}

	return ips, nil
}
