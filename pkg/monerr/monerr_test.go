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

package monerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndOf(t *testing.T) {
	err := New(KindNotFound, "device missing")
	assert.Equal(t, KindNotFound, Of(err))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindConflict))
}

func TestWrapPreservesUnwrap(t *testing.T) {
	base := errors.New("dial timeout")
	wrapped := Wrap(KindTransient, base, "probe failed")

	assert.Equal(t, KindTransient, Of(wrapped))
	assert.True(t, errors.Is(wrapped, base))
}

func TestOfUnknownError(t *testing.T) {
	assert.Equal(t, KindUnknown, Of(errors.New("plain")))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(KindFatal, nil, "msg"))
}
