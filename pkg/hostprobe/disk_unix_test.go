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

//go:build linux || darwin

package hostprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizeSuffixKilobytes(t *testing.T) {
	v, err := parseSizeSuffix("100K")
	require.NoError(t, err)
	assert.Equal(t, uint64(100*1024), v)
}

func TestParseSizeSuffixGigabytes(t *testing.T) {
	v, err := parseSizeSuffix("2G")
	require.NoError(t, err)
	assert.Equal(t, uint64(2*1024*1024*1024), v)
}
