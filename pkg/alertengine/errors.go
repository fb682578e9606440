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

package alertengine

import "errors"

var (
	// ErrAlertNotActive is returned by Ack/Resolve when the given id is not
	// in the active set (already resolved, deleted, or never existed).
	ErrAlertNotActive = errors.New("alertengine: alert is not active")

	// ErrAlertAlreadyAcked is returned by Ack when the alert was already
	// acknowledged.
	ErrAlertAlreadyAcked = errors.New("alertengine: alert already acknowledged")

	// ErrAlertAlreadyResolved is returned by Resolve when the alert was
	// already resolved.
	ErrAlertAlreadyResolved = errors.New("alertengine: alert already resolved")
)
