package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetcache/internal/adapters/logger"
	"go.trai.ch/assetcache/internal/app"
	"go.trai.ch/assetcache/internal/build"
	"go.trai.ch/assetcache/internal/core/domain"
	"go.trai.ch/assetcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func staticProvider(components *app.Components) ComponentProvider {
	return func(context.Context) (*app.Components, error) {
		return components, nil
	}
}

func newComponents(t *testing.T) *app.Components {
	t.Helper()

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)

	cfg := domain.DefaultConfig()
	cfg.RootDirectory = t.TempDir()
	loader.EXPECT().Load(gomock.Any()).Return(cfg, nil).AnyTimes()

	log := logger.NewNop()
	return app.NewComponents(app.New(loader, log, nil), log, loader, nil)
}

func TestRun_ProviderError(t *testing.T) {
	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"stats"}, new(bytes.Buffer), stderr,
		func(context.Context) (*app.Components, error) {
			return nil, errors.New("graph failed")
		})

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: graph failed")
}

func TestRun_PutThenGet(t *testing.T) {
	components := newComponents(t)
	provider := staticProvider(components)
	ctx := context.Background()

	stdout := new(bytes.Buffer)
	exitCode := run(ctx, []string{
		"put", "--kind", "sprite", "--request", `{"id":"hero","timestamp":1}`, "--artifact", `{"mesh":"x","lod":2}`,
	}, stdout, new(bytes.Buffer), provider)
	require.Equal(t, 0, exitCode)
	key := domain.Fingerprint(strings.TrimSpace(stdout.String()))
	assert.True(t, key.Valid())

	stdout.Reset()
	exitCode = run(ctx, []string{
		"get", "--kind", "sprite", "--request", `{"id":"hero","timestamp":99}`,
	}, stdout, new(bytes.Buffer), provider)
	require.Equal(t, 0, exitCode)
	assert.JSONEq(t, `{"mesh":"x","lod":2}`, stdout.String())

	stdout.Reset()
	exitCode = run(ctx, []string{"ls"}, stdout, new(bytes.Buffer), provider)
	require.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), key.Short())
}

func TestRun_MissExitCode(t *testing.T) {
	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"get", "--kind", "sprite"},
		new(bytes.Buffer), stderr, staticProvider(newComponents(t)))

	assert.Equal(t, 2, exitCode)
	assert.Contains(t, stderr.String(), "miss")
}

func TestRun_CommandFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load("broken.yaml").Return(domain.Config{}, domain.ErrInvalidConfig)
	log.EXPECT().Error(gomock.Any()).Times(1)

	components := app.NewComponents(app.New(loader, log, nil), log, loader, nil)

	exitCode := run(context.Background(), []string{"clear", "--config", "broken.yaml"},
		new(bytes.Buffer), new(bytes.Buffer), staticProvider(components))
	assert.Equal(t, 1, exitCode)
}

func TestRun_Version(t *testing.T) {
	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer),
		staticProvider(newComponents(t)))

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), build.Version)
}
