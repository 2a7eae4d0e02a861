package acquire_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/cache"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports/mocks"
	"go.trai.ch/depot/internal/engine/acquire"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const dir = "/cache"

var (
	wisp   = domain.PackageID{Name: "wisp", Version: "1.0.0"}
	mist   = domain.PackageID{Name: "mist", Version: "2.3.0"}
	stdlib = domain.PackageID{Name: "stdlib", Version: "0.34.0"}
)

type fixture struct {
	registry *mocks.MockRegistry
	cache    *mocks.MockPackageCache
	unpacker *mocks.MockUnpacker
	pipeline *acquire.Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	f := &fixture{
		registry: mocks.NewMockRegistry(ctrl),
		cache:    mocks.NewMockPackageCache(ctrl),
		unpacker: mocks.NewMockUnpacker(ctrl),
	}
	f.pipeline = acquire.NewPipeline(f.registry, f.cache, f.unpacker, log)
	return f
}

func archive(body string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(body))
}

func metadata(t *testing.T, err error) map[string]any {
	t.Helper()
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	return zErr.Metadata()
}

func TestPipeline_AllCachedDownloadsNothing(t *testing.T) {
	f := newFixture(t)

	for _, id := range []domain.PackageID{mist, stdlib, wisp} {
		f.cache.EXPECT().Has(dir, id).Return(true, nil)
	}
	f.registry.EXPECT().GetArchive(gomock.Any(), gomock.Any()).Times(0)

	count, err := f.pipeline.Acquire(context.Background(), dir, []domain.PackageID{mist, stdlib, wisp})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPipeline_DownloadsMissingPackages(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Has(dir, mist).Return(true, nil)
	f.cache.EXPECT().Has(dir, wisp).Return(false, nil)
	f.cache.EXPECT().Stage(dir).Return("/cache/.staging/1", nil)
	f.registry.EXPECT().GetArchive(gomock.Any(), wisp).Return(archive("wisp-archive"), nil)
	f.unpacker.EXPECT().Unpack(gomock.Any(), "/cache/.staging/1").DoAndReturn(
		func(r io.Reader, _ string) error {
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, "wisp-archive", string(data))
			return nil
		})
	f.cache.EXPECT().Commit(dir, "/cache/.staging/1", wisp).Return(nil)

	count, err := f.pipeline.Acquire(context.Background(), dir, []domain.PackageID{mist, wisp})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPipeline_FailureIdentifiesPackageAndStage(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(f *fixture)
		wantStage string
		wantCause error
	}{
		{
			name: "download",
			setup: func(f *fixture) {
				f.registry.EXPECT().GetArchive(gomock.Any(), wisp).
					Return(nil, zerr.With(domain.ErrRegistryRequestFailed, "status_code", 503))
			},
			wantStage: domain.StageDownload,
			wantCause: domain.ErrRegistryRequestFailed,
		},
		{
			name: "signature",
			setup: func(f *fixture) {
				f.registry.EXPECT().GetArchive(gomock.Any(), wisp).Return(archive("x"), nil)
				f.unpacker.EXPECT().Unpack(gomock.Any(), gomock.Any()).
					Return(zerr.With(domain.ErrArchiveSignatureInvalid, "stage", domain.StageSignature))
			},
			wantStage: domain.StageSignature,
			wantCause: domain.ErrArchiveSignatureInvalid,
		},
		{
			name: "extract",
			setup: func(f *fixture) {
				f.registry.EXPECT().GetArchive(gomock.Any(), wisp).Return(archive("x"), nil)
				f.unpacker.EXPECT().Unpack(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			wantStage: domain.StageExtract,
			wantCause: errors.New("disk full"),
		},
		{
			name: "commit",
			setup: func(f *fixture) {
				f.registry.EXPECT().GetArchive(gomock.Any(), wisp).Return(archive("x"), nil)
				f.unpacker.EXPECT().Unpack(gomock.Any(), gomock.Any()).Return(nil)
				f.cache.EXPECT().Commit(dir, "/cache/.staging/1", wisp).
					Return(zerr.With(domain.ErrCacheCommitFailed, "stage", domain.StageCommit))
			},
			wantStage: domain.StageCommit,
			wantCause: domain.ErrCacheCommitFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cache.EXPECT().Has(dir, wisp).Return(false, nil)
			f.cache.EXPECT().Stage(dir).Return("/cache/.staging/1", nil)
			f.cache.EXPECT().Discard("/cache/.staging/1").Return(nil)
			tt.setup(f)

			count, err := f.pipeline.Acquire(context.Background(), dir, []domain.PackageID{wisp})
			require.Error(t, err)
			assert.Equal(t, 0, count)
			assert.ErrorContains(t, err, domain.ErrAcquisitionFailed.Error())
			assert.ErrorContains(t, err, tt.wantCause.Error())

			md := metadata(t, err)
			assert.Equal(t, "wisp", md["package"])
			assert.Equal(t, "1.0.0", md["version"])
			assert.Equal(t, tt.wantStage, md["stage"])
		})
	}
}

func TestPipeline_FailureCancelsRemainingWork(t *testing.T) {
	f := newFixture(t)
	f.pipeline.SetLimit(1)

	f.cache.EXPECT().Has(dir, mist).Return(false, nil)
	f.cache.EXPECT().Stage(dir).Return("/cache/.staging/1", nil)
	f.registry.EXPECT().GetArchive(gomock.Any(), mist).Return(nil, domain.ErrRegistryRequestFailed)
	f.cache.EXPECT().Discard("/cache/.staging/1").Return(nil)

	// The second package never reaches the cache.
	f.cache.EXPECT().Has(dir, wisp).Times(0)

	_, err := f.pipeline.Acquire(context.Background(), dir, []domain.PackageID{mist, wisp})
	require.Error(t, err)
	assert.Equal(t, "mist", metadata(t, err)["package"])
}

func TestPipeline_CacheFailures(t *testing.T) {
	t.Run("stat", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Has(dir, wisp).Return(false, domain.ErrCacheStatFailed)
		f.registry.EXPECT().GetArchive(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.pipeline.Acquire(context.Background(), dir, []domain.PackageID{wisp})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrCacheStatFailed.Error())
		assert.Equal(t, domain.StageCache, metadata(t, err)["stage"])
	})

	t.Run("staging directory", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Has(dir, wisp).Return(false, nil)
		f.cache.EXPECT().Stage(dir).Return("", domain.ErrCacheStageFailed)
		f.registry.EXPECT().GetArchive(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.pipeline.Acquire(context.Background(), dir, []domain.PackageID{wisp})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrCacheStageFailed.Error())
		assert.Equal(t, domain.StageCache, metadata(t, err)["stage"])
	})
}

func TestPipeline_WithPackageCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	fs := afero.NewMemMapFs()
	registry := mocks.NewMockRegistry(ctrl)
	unpacker := mocks.NewMockUnpacker(ctrl)

	registry.EXPECT().GetArchive(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id domain.PackageID) (io.ReadCloser, error) {
			return archive(id.String()), nil
		}).Times(2)
	unpacker.EXPECT().Unpack(gomock.Any(), gomock.Any()).DoAndReturn(
		func(r io.Reader, dest string) error {
			data, err := io.ReadAll(r)
			if err != nil {
				return err
			}
			return afero.WriteFile(fs, filepath.Join(dest, "ID"), data, domain.FilePerm)
		}).Times(2)

	pipeline := acquire.NewPipeline(registry, cache.NewStore(fs), unpacker, log)
	ids := []domain.PackageID{mist, wisp}

	count, err := pipeline.Acquire(context.Background(), dir, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	data, err := afero.ReadFile(fs, filepath.Join(domain.PackagePath(dir, wisp), "ID"))
	require.NoError(t, err)
	assert.Equal(t, "wisp@1.0.0", string(data))

	// A second run finds everything in place.
	count, err = pipeline.Acquire(context.Background(), dir, ids)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStageOf(t *testing.T) {
	inner := zerr.With(domain.ErrArchiveChecksumMismatch, "stage", domain.StageSignature)
	outer := zerr.Wrap(inner, "outer")

	assert.Equal(t, domain.StageSignature, acquire.StageOf(outer))
	assert.Empty(t, acquire.StageOf(errors.New("plain")))
}
