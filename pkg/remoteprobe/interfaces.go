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
	"net"

	"github.com/gosnmp/gosnmp"

	"github.com/lanwatch/collector/pkg/models"
)

// collectInterfaces walks the eight ifTable columns it cares about and joins
// them by ifIndex, mirroring host probing's interface shape so the store
// layer doesn't need to know whether a sample came from the host or from
// SNMP.
func (p *Prober) collectInterfaces(_ context.Context, client *gosnmp.GoSNMP, sample *models.Sample) {
	byIndex := make(map[int]*models.InterfaceSample)

	ensure := func(idx int) *models.InterfaceSample {
		if iface, ok := byIndex[idx]; ok {
			return iface
		}

		iface := &models.InterfaceSample{Index: idx}
		byIndex[idx] = iface

		return iface
	}

	walks := []struct {
		oid   string
		apply func(*models.InterfaceSample, gosnmp.SnmpPDU)
	}{
		{oidIfDescr, func(i *models.InterfaceSample, pdu gosnmp.SnmpPDU) { i.Name = octetString(pdu) }},
		{oidIfType, func(i *models.InterfaceSample, pdu gosnmp.SnmpPDU) { i.Type = ifTypeName(pdu) }},
		{oidIfSpeed, func(i *models.InterfaceSample, pdu gosnmp.SnmpPDU) {
			if v, ok := pduToFloat(pdu); ok {
				i.Speed = uint64(v)
			}
		}},
		{oidIfPhysAddress, func(i *models.InterfaceSample, pdu gosnmp.SnmpPDU) { i.MAC = physAddress(pdu) }},
		{oidIfAdminStatus, func(i *models.InterfaceSample, pdu gosnmp.SnmpPDU) { i.AdminStatus = ifStatusName(pdu) }},
		{oidIfOperStatus, func(i *models.InterfaceSample, pdu gosnmp.SnmpPDU) { i.OperStatus = ifStatusName(pdu) }},
		{oidIfInOctets, func(i *models.InterfaceSample, pdu gosnmp.SnmpPDU) {
			if v, ok := pduToFloat(pdu); ok {
				i.InOctets = uint64(v)
			}
		}},
		{oidIfOutOctets, func(i *models.InterfaceSample, pdu gosnmp.SnmpPDU) {
			if v, ok := pduToFloat(pdu); ok {
				i.OutOctets = uint64(v)
			}
		}},
	}

	var walkErrs int

	for _, w := range walks {
		w := w

		err := client.BulkWalk(w.oid, func(pdu gosnmp.SnmpPDU) error {
			idx, ok := rowIndex(pdu.Name)
			if !ok {
				return nil
			}

			w.apply(ensure(idx), pdu)

			return nil
		})
		if err != nil {
			walkErrs++
		}
	}

	if len(byIndex) == 0 {
		sample.Errors = append(sample.Errors, fmt.Sprintf("interfaces: ifTable walk returned nothing (%d column errors)", walkErrs))
		return
	}

	group := models.NetworkGroup{Name: client.Target}

	for _, iface := range byIndex {
		group.Interfaces = append(group.Interfaces, *iface)
	}

	sample.Network = []models.NetworkGroup{group}
}

func ifTypeName(pdu gosnmp.SnmpPDU) string {
	v, ok := pduToFloat(pdu)
	if !ok {
		return "unknown"
	}

	switch int(v) {
	case 6:
		return "ethernetCsmacd"
	case 24:
		return "softwareLoopback"
	case 131:
		return "tunnel"
	case 71:
		return "ieee80211"
	default:
		return fmt.Sprintf("type%d", int(v))
	}
}

func ifStatusName(pdu gosnmp.SnmpPDU) string {
	v, ok := pduToFloat(pdu)
	if !ok {
		return "unknown"
	}

	switch int(v) {
	case 1:
		return "up"
	case 2:
		return "down"
	case 3:
		return "testing"
	case 5:
		return "dormant"
	case 6:
		return "notPresent"
	case 7:
		return "lowerLayerDown"
	default:
		return "unknown"
	}
}

func physAddress(pdu gosnmp.SnmpPDU) string {
	b, ok := pdu.Value.([]byte)
	if !ok || len(b) != 6 {
		return ""
	}

	return net.HardwareAddr(b).String()
}
