package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/depot/internal/app"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newComponents(ctrl *gomock.Controller, loader *mocks.MockConfigLoader, logger *mocks.MockLogger) *app.Components {
	application := app.New(
		loader,
		mocks.NewMockLockfileStore(ctrl),
		nil,
		nil,
		nil,
		mocks.NewMockPackageCache(ctrl),
		mocks.NewMockTracer(ctrl),
		mocks.NewMockRenderer(ctrl),
		logger,
	)
	return &app.Components{App: application, Logger: logger}
}

// TestRun_Success verifies that run returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	components := newComponents(ctrl, mocks.NewMockConfigLoader(ctrl), mocks.NewMockLogger(ctrl))

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provider)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "depot version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs the error when a command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().DiscoverRoot("/work").Return("", domain.ErrConfigNotFound)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
	})

	components := newComponents(ctrl, loader, logger)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"deps", "list"}, new(bytes.Buffer), new(bytes.Buffer), provider,
		func(a *app.App) {
			a.WithWorkDir("/work")
		})

	assert.Equal(t, 1, exitCode)
}

// TestRun_CleanupCalled verifies that the provider's cleanup runs after the command.
func TestRun_CleanupCalled(t *testing.T) {
	ctrl := gomock.NewController(t)
	components := newComponents(ctrl, mocks.NewMockConfigLoader(ctrl), mocks.NewMockLogger(ctrl))

	cleaned := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() { cleaned = true }, nil
	}

	assert.Equal(t, 0, run(context.Background(), []string{"version"}, new(bytes.Buffer), new(bytes.Buffer), provider))
	assert.True(t, cleaned)
}
