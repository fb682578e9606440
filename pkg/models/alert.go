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

package models

import "time"

// AlertType identifies what condition an Alert describes.
type AlertType string

const (
	AlertCPU     AlertType = "cpu"
	AlertMemory  AlertType = "memory"
	AlertDisk    AlertType = "disk"
	AlertNetwork AlertType = "network"
	AlertOffline AlertType = "offline"
)

// AlertSeverity is the urgency of an Alert.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is one lifecycle instance of a threshold or reachability condition.
// An alert is active iff ResolvedAt is nil.
type Alert struct {
	ID              string            `json:"id"`
	DeviceID        string            `json:"device_id"`
	DeviceIP        string            `json:"device_ip"`
	Type            AlertType         `json:"type"`
	Severity        AlertSeverity     `json:"severity"`
	Message         string            `json:"message"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Acknowledged    bool              `json:"acknowledged"`
	AcknowledgedBy  string            `json:"acknowledged_by,omitempty"`
	AcknowledgedAt  *time.Time        `json:"acknowledged_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	ResolvedAt      *time.Time        `json:"resolved_at,omitempty"`
	ResolvedBy      string            `json:"resolved_by,omitempty"`
	OccurrenceCount int               `json:"occurrence_count"`
	LastOccurrence  time.Time         `json:"last_occurrence"`
}

// IsActive reports whether the alert has not yet been resolved.
func (a *Alert) IsActive() bool {
	return a.ResolvedAt == nil
}

// AlertCreate carries the fields needed to create or dedup an alert.
type AlertCreate struct {
	DeviceID string
	DeviceIP string
	Type     AlertType
	Severity AlertSeverity
	Message  string
	Metadata map[string]string
}

// AlertFilter narrows ListAlerts results. Zero-value fields are ignored.
type AlertFilter struct {
	DeviceID     string
	Type         AlertType
	Severity     AlertSeverity
	Acknowledged *bool
	ActiveOnly   bool
}

// AlertStats is the on-demand computed summary AlertEngine produces.
type AlertStats struct {
	Total              int                       `json:"total"`
	BySeverity         map[AlertSeverity]int     `json:"by_severity"`
	ByType             map[AlertType]int         `json:"by_type"`
	ByDevice           map[string]int            `json:"by_device"`
	Acknowledged       int                       `json:"acknowledged"`
	Unacknowledged     int                       `json:"unacknowledged"`
	ResolvedLast24Hour int                       `json:"resolved_last_24h"`
}
