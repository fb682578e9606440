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
	"context"
	"fmt"

	"github.com/gosnmp/gosnmp"

	"github.com/lanwatch/collector/pkg/models"
)

const (
	maxCPUPercent    = 100
	loadAverageScale = 10
)

// collectCPU tries the host-resources processor load table first, since it
// reports an actual instantaneous load per CPU; if the device doesn't
// implement it, it falls back to the UCD-MIB one-minute load average scaled
// into a rough percentage. If neither answers, it records the failure and
// leaves CPU.Ok false so the caller knows not to trust the zero value.
func (p *Prober) collectCPU(_ context.Context, client *gosnmp.GoSNMP, sample *models.Sample) {
	if pct, ok := p.averageProcessorLoad(client); ok {
		sample.CPU.UsagePercent = pct
		sample.CPU.Ok = true

		return
	}

	if pct, ok := p.loadAverageAsPercent(client); ok {
		sample.CPU.UsagePercent = pct
		sample.CPU.Ok = true

		return
	}

	sample.CPU.UsagePercent = 0
	sample.CPU.Ok = false
	sample.Errors = append(sample.Errors, "cpu: neither hrProcessorLoad nor laLoad1 answered")
}

func (p *Prober) averageProcessorLoad(client *gosnmp.GoSNMP) (float64, bool) {
	var (
		sum   float64
		count int
	)

	err := client.BulkWalk(oidHrProcessorLoad, func(pdu gosnmp.SnmpPDU) error {
		v, ok := pduToFloat(pdu)
		if !ok {
			return nil
		}

		sum += v
		count++

		return nil
	})
	if err != nil || count == 0 {
		return 0, false
	}

	return sum / float64(count), true
}

func (p *Prober) loadAverageAsPercent(client *gosnmp.GoSNMP) (float64, bool) {
	result, err := client.Get([]string{oidLaLoad1})
	if err != nil || result.Error != gosnmp.NoError || len(result.Variables) == 0 {
		return 0, false
	}

	load, ok := pduToFloat(result.Variables[0])
	if !ok {
		return 0, false
	}

	pct := load * loadAverageScale
	if pct > maxCPUPercent {
		pct = maxCPUPercent
	}

	return pct, true
}

// pduToFloat converts whatever numeric type gosnmp decoded a PDU into,
// since SNMP integer-family values arrive as int, int64 or uint.
func pduToFloat(pdu gosnmp.SnmpPDU) (float64, bool) {
	switch n := pdu.Value.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%f", &f); err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}
