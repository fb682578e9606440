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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresetsIncludesRFC1918Ranges(t *testing.T) {
	presets := Presets()

	names := make(map[string]string, len(presets))
	for _, p := range presets {
		names[p.Name] = p.Range
	}

	assert.Equal(t, "192.168.1.0/24", names["home network"])
	assert.Equal(t, "10.0.0.0/24", names["office network"])
	assert.Equal(t, "172.16.0.0/24", names["private class B"])
}

func TestPresetsRangesAreParseable(t *testing.T) {
	for _, p := range Presets() {
		_, info, err := ParseRange(p.Range)
		assert.NoError(t, err, "preset %q: %q", p.Name, p.Range)
		assert.True(t, info.Valid, "preset %q: %q", p.Name, p.Range)
	}
}
