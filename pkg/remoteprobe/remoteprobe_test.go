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
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"

	"github.com/lanwatch/collector/pkg/logger"
	"github.com/lanwatch/collector/pkg/models"
)

func TestNewProberDefaultsTimeout(t *testing.T) {
	p := NewProber(logger.NewTestLogger(), 0)
	assert.Equal(t, defaultTimeout, p.sessions.timeout)
}

func TestSessionKeyIsStableAndDistinct(t *testing.T) {
	assert.Equal(t, "10.0.0.1|public", sessionKey("10.0.0.1", "public"))
	assert.NotEqual(t, sessionKey("10.0.0.1", "public"), sessionKey("10.0.0.1", "private"))
}

func TestIsSessionErrorMatchesOnlySessionPrefix(t *testing.T) {
	assert.True(t, isSessionError([]string{"session: connect refused"}))
	assert.False(t, isSessionError([]string{"cpu: no data", "disk: no data"}))
	assert.False(t, isSessionError(nil))
}

func TestPercentOfZeroTotal(t *testing.T) {
	assert.Equal(t, float64(0), percentOf(10, 0))
	assert.Equal(t, float64(50), percentOf(50, 100))
}

func TestPduToFloatHandlesNumericKinds(t *testing.T) {
	v, ok := pduToFloat(gosnmp.SnmpPDU{Value: uint32(42)})
	assert.True(t, ok)
	assert.Equal(t, float64(42), v)

	v, ok = pduToFloat(gosnmp.SnmpPDU{Value: "17"})
	assert.True(t, ok)
	assert.Equal(t, float64(17), v)

	_, ok = pduToFloat(gosnmp.SnmpPDU{Value: struct{}{}})
	assert.False(t, ok)
}

func TestTimeTicksConvertsToSeconds(t *testing.T) {
	pdu := gosnmp.SnmpPDU{Type: gosnmp.TimeTicks, Value: uint32(12345)}
	assert.Equal(t, int64(12345), timeTicks(pdu))
	assert.Equal(t, int64(123), timeTicks(pdu)/uptimeCentisecondsPerSecond)
}

func TestRowIndexExtractsTrailingInteger(t *testing.T) {
	idx, ok := rowIndex(".1.3.6.1.2.1.25.2.3.1.3.1")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = rowIndex("")
	assert.False(t, ok)
}

func TestLooksLikeFilesystemMatchesKnownPatterns(t *testing.T) {
	assert.True(t, looksLikeFilesystem("/"))
	assert.True(t, looksLikeFilesystem("C:\\ Label"))
	assert.True(t, looksLikeFilesystem("Physical memory disk cache"))
	assert.False(t, looksLikeFilesystem("Virtual memory"))
}

func TestIfStatusNameKnownCodes(t *testing.T) {
	assert.Equal(t, "up", ifStatusName(gosnmp.SnmpPDU{Value: 1}))
	assert.Equal(t, "down", ifStatusName(gosnmp.SnmpPDU{Value: 2}))
	assert.Equal(t, "lowerLayerDown", ifStatusName(gosnmp.SnmpPDU{Value: 7}))
	assert.Equal(t, "unknown", ifStatusName(gosnmp.SnmpPDU{Value: 99}))
}

func TestIfTypeNameKnownCodes(t *testing.T) {
	assert.Equal(t, "ethernetCsmacd", ifTypeName(gosnmp.SnmpPDU{Value: 6}))
	assert.Equal(t, "softwareLoopback", ifTypeName(gosnmp.SnmpPDU{Value: 24}))
	assert.Equal(t, "type200", ifTypeName(gosnmp.SnmpPDU{Value: 200}))
}

func TestMergeSampleOnlyOverwritesSuccessfulFields(t *testing.T) {
	dst := &models.Sample{}

	mergeSample(dst, &models.Sample{CPU: models.CPUSample{UsagePercent: 12, Ok: true}})
	mergeSample(dst, &models.Sample{Memory: models.MemorySample{Ok: false}, Errors: []string{"memory: boom"}})

	assert.True(t, dst.CPU.Ok)
	assert.Equal(t, float64(12), dst.CPU.UsagePercent)
	assert.False(t, dst.Memory.Ok)
	assert.Equal(t, []string{"memory: boom"}, dst.Errors)
}

func TestNewSessionCacheClampsNonPositiveTimeout(t *testing.T) {
	c := newSessionCache(-1 * time.Second)
	assert.Equal(t, defaultTimeout, c.timeout)
}
