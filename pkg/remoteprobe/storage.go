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
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"
)

// hostStorageRow is one hrStorageTable entry, already converted from
// allocation units into bytes.
type hostStorageRow struct {
	description string
	size        uint64
	used        uint64
}

// walkHostStorageTable walks the four hrStorageTable columns shared by
// memory and disk collection and joins them by row index. A failed
// description walk yields no rows; any other column walk that fails just
// leaves that column zero for every row. Rows are returned whatever their
// size, zero-size rows included.
func (p *Prober) walkHostStorageTable(client *gosnmp.GoSNMP) []hostStorageRow {
	descr := make(map[int]string)
	allocUnits := make(map[int]uint64)
	size := make(map[int]uint64)
	used := make(map[int]uint64)

	_ = client.BulkWalk(oidHrStorageDescr, func(pdu gosnmp.SnmpPDU) error {
		idx, ok := rowIndex(pdu.Name)
		if !ok {
			return nil
		}

		descr[idx] = octetString(pdu)

		return nil
	})

	_ = client.BulkWalk(oidHrStorageAllocUts, func(pdu gosnmp.SnmpPDU) error {
		idx, ok := rowIndex(pdu.Name)
		if !ok {
			return nil
		}

		if v, ok := pduToFloat(pdu); ok {
			allocUnits[idx] = uint64(v)
		}

		return nil
	})

	_ = client.BulkWalk(oidHrStorageSize, func(pdu gosnmp.SnmpPDU) error {
		idx, ok := rowIndex(pdu.Name)
		if !ok {
			return nil
		}

		if v, ok := pduToFloat(pdu); ok {
			size[idx] = uint64(v)
		}

		return nil
	})

	_ = client.BulkWalk(oidHrStorageUsed, func(pdu gosnmp.SnmpPDU) error {
		idx, ok := rowIndex(pdu.Name)
		if !ok {
			return nil
		}

		if v, ok := pduToFloat(pdu); ok {
			used[idx] = uint64(v)
		}

		return nil
	})

	rows := make([]hostStorageRow, 0, len(descr))

	for idx, desc := range descr {
		units := allocUnits[idx]
		if units == 0 {
			units = 1
		}

		rows = append(rows, hostStorageRow{
			description: desc,
			size:        size[idx] * units,
			used:        used[idx] * units,
		})
	}

	return rows
}

// rowIndex extracts the trailing table index from a walked PDU name, e.g.
// ".1.3.6.1.2.1.25.2.3.1.3.1" -> 1.
func rowIndex(name string) (int, bool) {
	parts := strings.Split(name, ".")
	if len(parts) == 0 {
		return 0, false
	}

	idx, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}

	return idx, true
}
