// Package acquire downloads, verifies and unpacks resolved packages into the
// package cache, and prunes the ones a new manifest no longer needs.
package acquire

import (
	"context"
	"errors"
	"runtime"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Pipeline is the acquisition pipeline.
type Pipeline struct {
	registry ports.Registry
	cache    ports.PackageCache
	unpacker ports.Unpacker
	logger   ports.Logger
	limit    int
	flight   singleflight.Group
}

// NewPipeline creates a Pipeline that runs up to one download per CPU.
func NewPipeline(
	registry ports.Registry,
	cache ports.PackageCache,
	unpacker ports.Unpacker,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		registry: registry,
		cache:    cache,
		unpacker: unpacker,
		logger:   logger,
		limit:    runtime.NumCPU(),
	}
}

// Acquire makes every package in ids present in the cache at dir and returns
// how many had to be downloaded. The first failure cancels the remaining
// downloads and is returned with the package, version and stage attached.
func (p *Pipeline) Acquire(ctx context.Context, dir string, ids []domain.PackageID) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit)

	fetched := make([]bool, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return acquisitionErr(err, id, domain.StageDownload)
			}

			key := dir + "\x00" + id.String()
			v, err, _ := p.flight.Do(key, func() (any, error) {
				return p.acquireOne(gctx, dir, id)
			})
			if err != nil {
				return err
			}
			fetched[i] = v.(bool)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	count := 0
	for _, ok := range fetched {
		if ok {
			count++
		}
	}
	return count, nil
}

// acquireOne reports whether id had to be downloaded.
func (p *Pipeline) acquireOne(ctx context.Context, dir string, id domain.PackageID) (bool, error) {
	has, err := p.cache.Has(dir, id)
	if err != nil {
		return false, acquisitionErr(err, id, domain.StageCache)
	}
	if has {
		p.logger.Debug("package already cached", "package", id.String())
		return false, nil
	}

	staging, err := p.cache.Stage(dir)
	if err != nil {
		return false, acquisitionErr(err, id, domain.StageCache)
	}

	if err := p.fetchInto(ctx, dir, staging, id); err != nil {
		if discardErr := p.cache.Discard(staging); discardErr != nil {
			p.logger.Debug("failed to discard staging directory", "path", staging, "error", discardErr.Error())
		}
		return false, err
	}

	p.logger.Debug("package downloaded", "package", id.String())
	return true, nil
}

func (p *Pipeline) fetchInto(ctx context.Context, dir, staging string, id domain.PackageID) error {
	p.logger.Debug("downloading package", "package", id.String())

	body, err := p.registry.GetArchive(ctx, id)
	if err != nil {
		return acquisitionErr(err, id, domain.StageDownload)
	}
	defer func() {
		_ = body.Close()
	}()

	if err := p.unpacker.Unpack(body, staging); err != nil {
		return acquisitionErr(err, id, domain.StageExtract)
	}

	if err := p.cache.Commit(dir, staging, id); err != nil {
		return acquisitionErr(err, id, domain.StageCommit)
	}
	return nil
}

// acquisitionErr wraps err with the package identity and the stage that
// failed. A stage already recorded deeper in the chain wins over fallback.
func acquisitionErr(err error, id domain.PackageID, fallback string) error {
	stage := stageOf(err)
	if stage == "" {
		stage = fallback
	}
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrAcquisitionFailed.Error()), "package", id.Name)
	wrapped = zerr.With(wrapped, "version", id.Version)
	return zerr.With(wrapped, "stage", stage)
}

func stageOf(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		z, ok := e.(*zerr.Error)
		if !ok {
			continue
		}
		if stage, ok := z.Metadata()["stage"].(string); ok {
			return stage
		}
	}
	return ""
}
