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

const uptimeCentisecondsPerSecond = 100

// collectSystem queries the six standard MIB-II system identifiers.
func (p *Prober) collectSystem(_ context.Context, client *gosnmp.GoSNMP, sample *models.Sample) {
	oids := []string{oidSysDescr, oidSysObjectID, oidSysUptime, oidSysContact, oidSysName, oidSysLocation}

	result, err := client.Get(oids)
	if err != nil {
		sample.Errors = append(sample.Errors, fmt.Sprintf("system: %v", err))
		return
	}

	if result.Error != gosnmp.NoError {
		sample.Errors = append(sample.Errors, fmt.Sprintf("system: %s", result.Error))
		return
	}

	for _, v := range result.Variables {
		switch v.Name {
		case oidSysDescr:
			sample.System.Description = octetString(v)
		case oidSysUptime:
			sample.System.UptimeS = timeTicks(v) / uptimeCentisecondsPerSecond
		case oidSysContact:
			sample.System.Contact = octetString(v)
		case oidSysName:
			sample.System.Hostname = octetString(v)
		case oidSysLocation:
			sample.System.Location = octetString(v)
		}
	}

	if sample.System.Hostname == "" {
		sample.System.Hostname = client.Target
	}
}

func octetString(v gosnmp.SnmpPDU) string {
	if v.Type != gosnmp.OctetString {
		return ""
	}

	b, ok := v.Value.([]byte)
	if !ok {
		return ""
	}

	return string(b)
}

func timeTicks(v gosnmp.SnmpPDU) int64 {
	if v.Type != gosnmp.TimeTicks {
		return 0
	}

	switch n := v.Value.(type) {
	case uint32:
		return int64(n)
	case int:
		return int64(n)
	default:
		return 0
	}
}
