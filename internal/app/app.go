// Package app implements the application layer for depot.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/depot/internal/adapters/telemetry"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/depot/internal/engine/acquire"
	"go.trai.ch/depot/internal/engine/resolution"
	"go.trai.ch/zerr"
)

// DownloadPhase is the span name reported while packages are being acquired.
const DownloadPhase = "Downloading packages"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	lockfiles    ports.LockfileStore
	resolver     *resolution.Engine
	pipeline     *acquire.Pipeline
	pruner       *acquire.Pruner
	cache        ports.PackageCache
	tracer       ports.Tracer
	renderer     ports.Renderer
	logger       ports.Logger
	workDir      string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	lockfiles ports.LockfileStore,
	resolver *resolution.Engine,
	pipeline *acquire.Pipeline,
	pruner *acquire.Pruner,
	cache ports.PackageCache,
	tracer ports.Tracer,
	renderer ports.Renderer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		lockfiles:    lockfiles,
		resolver:     resolver,
		pipeline:     pipeline,
		pruner:       pruner,
		cache:        cache,
		tracer:       tracer,
		renderer:     renderer,
		logger:       log,
		workDir:      ".",
	}
}

// WithWorkDir sets the directory project discovery starts from.
// This is primarily used for testing.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// DownloadDeps brings the package cache in line with the project's requirements.
//
// The stored manifest is reused when its requirements still match, otherwise
// versions are resolved again. Packages the new manifest no longer needs are
// pruned, every package it names is acquired, and only then are the manifest
// and ledger rewritten.
func (a *App) DownloadDeps(ctx context.Context) error {
	start := time.Now()

	// Report phase spans through the renderer.
	setupOTel(telemetry.NewBridge(a.renderer))

	root, project, err := a.loadProject()
	if err != nil {
		return err
	}

	reqs, err := project.AllDependencies()
	if err != nil {
		return err
	}

	stored, err := a.lockfiles.ReadManifest(root)
	if err != nil {
		return err
	}

	decision, err := a.resolver.Decide(ctx, reqs, stored)
	if err != nil {
		return err
	}

	dir := packagesDir(root)
	ledger, err := a.lockfiles.ReadLedger(dir)
	if err != nil {
		return err
	}

	if removed := a.pruner.Prune(dir, ledger, decision.Manifest); len(removed) > 0 {
		a.logger.Debug("pruned stale packages", "count", len(removed))
	}

	count, err := a.acquire(ctx, dir, decision.Manifest)
	if err != nil {
		return err
	}

	if err := a.lockfiles.WriteManifest(root, decision.Manifest); err != nil {
		return err
	}
	if err := a.lockfiles.WriteLedger(dir, domain.LedgerFromManifest(decision.Manifest)); err != nil {
		return err
	}

	a.renderer.OnSummary(count, time.Since(start))
	return nil
}

func (a *App) acquire(ctx context.Context, dir string, manifest *domain.Manifest) (int, error) {
	ctx, span := a.tracer.Start(ctx, DownloadPhase)
	defer span.End()

	ids := manifest.PackageIDs()
	span.SetAttribute("packages", len(ids))

	count, err := a.pipeline.Acquire(ctx, dir, ids)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	span.SetAttribute("downloaded", count)
	return count, nil
}

// ListDeps writes one "name version" line per package in the stored manifest.
func (a *App) ListDeps(_ context.Context, w io.Writer) error {
	root, err := a.configLoader.DiscoverRoot(a.workDir)
	if err != nil {
		return err
	}

	manifest, err := a.lockfiles.ReadManifest(root)
	if err != nil {
		return err
	}
	if manifest == nil {
		a.logger.Info(fmt.Sprintf("no %s found, run `depot deps download` first", domain.ManifestFileName))
		return nil
	}

	for _, id := range manifest.PackageIDs() {
		if _, err := fmt.Fprintf(w, "%s %s\n", id.Name, id.Version); err != nil {
			return err
		}
	}
	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Manifest also removes manifest.toml, forcing the next download to resolve again.
	Manifest bool
}

// Clean removes the package cache and, optionally, the manifest.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	root, err := a.configLoader.DiscoverRoot(a.workDir)
	if err != nil {
		return err
	}

	var errs error

	remove := func(name string, fn func() error) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := fn(); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "target", name))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	dir := packagesDir(root)
	remove("package cache", func() error { return a.cache.Clear(dir) })

	if options.Manifest {
		remove(domain.ManifestFileName, func() error { return a.lockfiles.RemoveManifest(root) })
	}

	return errs
}

// ConfigureLogging applies the global output flags to the logger.
func (a *App) ConfigureLogging(verbose, json bool) {
	type configurable interface {
		SetVerbose(enable bool)
		SetJSON(enable bool)
	}
	if l, ok := a.logger.(configurable); ok {
		l.SetJSON(json)
		l.SetVerbose(verbose)
	}
}

func (a *App) loadProject() (string, *domain.Project, error) {
	root, err := a.configLoader.DiscoverRoot(a.workDir)
	if err != nil {
		return "", nil, err
	}

	project, err := a.configLoader.Load(root)
	if err != nil {
		return "", nil, err
	}
	return root, project, nil
}

// packagesDir returns the package cache directory for a project root,
// honouring DEPOT_PACKAGES_DIR.
func packagesDir(root string) string {
	if dir := os.Getenv(domain.PackagesDirEnv); dir != "" {
		return dir
	}
	return domain.DefaultPackagesPath(root)
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	// Every started span is reported to the renderer.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)

	otel.SetTracerProvider(tp)
}
