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

// Standard MIB-II and host-resources OIDs polled by CollectAll.
const (
	oidSysDescr    = ".1.3.6.1.2.1.1.1.0"
	oidSysObjectID = ".1.3.6.1.2.1.1.2.0"
	oidSysUptime   = ".1.3.6.1.2.1.1.3.0"
	oidSysContact  = ".1.3.6.1.2.1.1.4.0"
	oidSysName     = ".1.3.6.1.2.1.1.5.0"
	oidSysLocation = ".1.3.6.1.2.1.1.6.0"

	// Interface table (ifTable).
	oidIfDescr       = ".1.3.6.1.2.1.2.2.1.2"
	oidIfType        = ".1.3.6.1.2.1.2.2.1.3"
	oidIfSpeed       = ".1.3.6.1.2.1.2.2.1.5"
	oidIfPhysAddress = ".1.3.6.1.2.1.2.2.1.6"
	oidIfAdminStatus = ".1.3.6.1.2.1.2.2.1.7"
	oidIfOperStatus  = ".1.3.6.1.2.1.2.2.1.8"
	oidIfInOctets    = ".1.3.6.1.2.1.2.2.1.10"
	oidIfOutOctets   = ".1.3.6.1.2.1.2.2.1.16"

	// Host-resources MIB: processor load and storage tables, memory size.
	oidHrProcessorLoad   = ".1.3.6.1.2.1.25.3.3.1.2"
	oidHrStorageDescr    = ".1.3.6.1.2.1.25.2.3.1.3"
	oidHrStorageAllocUts = ".1.3.6.1.2.1.25.2.3.1.4"
	oidHrStorageSize     = ".1.3.6.1.2.1.25.2.3.1.5"
	oidHrStorageUsed     = ".1.3.6.1.2.1.25.2.3.1.6"
	oidHrMemorySize      = ".1.3.6.1.2.1.25.2.2.0"

	// UCD-MIB: load averages and memory counters (net-snmd's ucd-snmp-mib).
	oidLaLoad1        = ".1.3.6.1.4.1.2021.10.1.3.1"
	oidMemTotalReal   = ".1.3.6.1.4.1.2021.4.5.0"
	oidMemAvailReal   = ".1.3.6.1.4.1.2021.4.6.0"
	oidMemTotalSwap   = ".1.3.6.1.4.1.2021.4.3.0"
	oidMemAvailSwap   = ".1.3.6.1.4.1.2021.4.4.0"
	oidMemBuffer      = ".1.3.6.1.4.1.2021.4.14.0"
	oidMemCached      = ".1.3.6.1.4.1.2021.4.15.0"
)
