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

package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanwatch/collector/pkg/logger"
)

type fakeService struct {
	shutdownCalled atomic.Bool
	startErr       error
	shutdownErr    error
}

func (f *fakeService) Start(ctx context.Context) error {
	<-ctx.Done()
	return f.startErr
}

func (f *fakeService) Stop(_ context.Context) error {
	f.shutdownCalled.Store(true)
	return f.shutdownErr
}

func TestRunReturnsWhenParentContextCanceled(t *testing.T) {
	svc := &fakeService{}
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)

	go func() {
		errCh <- Run(ctx, svc, logger.NewTestLogger(), Options{ShutdownTimeout: time.Second})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	require.NoError(t, <-errCh)
	assert.True(t, svc.shutdownCalled.Load())
}

func TestRunReturnsStartErrorAndStillStops(t *testing.T) {
	svc := &fakeService{}
	svc.startErr = nil

	fs := &fakeServiceImmediateErr{err: errors.New("boom")}

	err := Run(context.Background(), fs, logger.NewTestLogger(), Options{ShutdownTimeout: time.Second})
	require.Error(t, err)
	assert.True(t, fs.shutdownCalled.Load())
}

type fakeServiceImmediateErr struct {
	shutdownCalled atomic.Bool
	err            error
}

func (f *fakeServiceImmediateErr) Start(_ context.Context) error {
	return f.err
}

func (f *fakeServiceImmediateErr) Stop(_ context.Context) error {
	f.shutdownCalled.Store(true)
	return nil
}
