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

package engine

import "github.com/lanwatch/collector/pkg/monerr"

// errScanInProgress is returned by ScanNetwork when a sweep is already
// running; the scanner itself enforces the exclusion, this just gives the
// engine layer a named, typed error to return before calling it.
var errScanInProgress = monerr.New(monerr.KindConflict, "scan already in progress")

// errDeviceNotFound is returned by control-surface operations that target a
// device id not present in the registry.
var errDeviceNotFound = monerr.New(monerr.KindNotFound, "device not found")
