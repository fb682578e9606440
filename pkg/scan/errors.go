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

import "errors"

var (
	// ErrScanAlreadyRunning is returned by Start when a sweep is already
	// in the scanning state.
	ErrScanAlreadyRunning = errors.New("scan already running")

	// ErrInvalidRange is returned when a range specification matches none
	// of the supported grammar forms.
	ErrInvalidRange = errors.New("invalid range specification")

	// ErrEmptyRange is returned when a range specification parses but
	// expands to zero addresses.
	ErrEmptyRange = errors.New("range specification produced no addresses")
)
