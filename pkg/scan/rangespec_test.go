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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRangeSingleHost(t *testing.T) {
	ips, info, err := ParseRange("192.168.1.5")
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.1.5"}, ips)
	assert.True(t, info.Valid)
	assert.Equal(t, 1, info.TotalIPs)
	assert.Equal(t, "192.168.1.5", info.FirstIP)
	assert.Equal(t, "192.168.1.5", info.LastIP)
}

func TestParseRangeOctetRange(t *testing.T) {
	ips, info, err := ParseRange("192.168.1.10-12")
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.1.10", "192.168.1.11", "192.168.1.12"}, ips)
	assert.Equal(t, 3, info.TotalIPs)
	assert.Equal(t, "192.168.1.10", info.FirstIP)
	assert.Equal(t, "192.168.1.12", info.LastIP)
}

func TestParseRangeOctetRangeRejectsDescending(t *testing.T) {
	_, info, err := ParseRange("192.168.1.20-10")
	require.Error(t, err)
	assert.False(t, info.Valid)
}

func TestParseRangeCIDRExcludesNetworkAndBroadcast(t *testing.T) {
	ips, info, err := ParseRange("192.168.1.0/24")
	require.NoError(t, err)
	assert.Equal(t, 254, info.TotalIPs)
	assert.NotContains(t, ips, "192.168.1.0")
	assert.NotContains(t, ips, "192.168.1.255")
	assert.Equal(t, "192.168.1.1", info.FirstIP)
	assert.Equal(t, "192.168.1.254", info.LastIP)
	assert.Len(t, info.SampleIPs, maxSampleIPs)
}

func TestParseRangeRejectsGarbage(t *testing.T) {
	_, info, err := ParseRange("not-an-ip")
	require.Error(t, err)
	assert.False(t, info.Valid)
	assert.NotEmpty(t, info.Error)
}

func TestParseRangeCIDRSlash32IsSingleHost(t *testing.T) {
	ips, info, err := ParseRange("10.0.0.5/32")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.5"}, ips)
	assert.Equal(t, 1, info.TotalIPs)
}
