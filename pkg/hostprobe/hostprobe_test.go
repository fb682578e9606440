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

package hostprobe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanwatch/collector/pkg/logger"
)

func TestCollectNeverReturnsNil(t *testing.T) {
	p := NewProber(logger.NewTestLogger())

	sample := p.Collect(context.Background())
	require.NotNil(t, sample)
	assert.NotEmpty(t, sample.System.Platform)
	assert.Greater(t, sample.System.CPUCores, 0)
}

func TestPercentOfBoundaries(t *testing.T) {
	assert.Equal(t, float64(0), percentOf(0, 0))
	assert.Equal(t, float64(50), percentOf(5, 10))
	assert.Equal(t, float64(100), percentOf(10, 10))
}
