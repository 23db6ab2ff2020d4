package internal

import (
	"fmt"
	"logmerge/internal/archive/interfaces"
	"logmerge/internal/models"
	"logmerge/internal/providers"
	"logmerge/internal/report"
	"logmerge/internal/services"
	"logmerge/internal/structures"
	"path/filepath"
	"time"
)

type App struct {
	conf     *structures.Config
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	matcher  services.MatcherInterface
	resolver services.ResolverInterface
	builder  *report.Builder
	store    interfaces.ManifestStoreInterface
	now      func() time.Time
}

func NewApp(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, matcher services.MatcherInterface, resolver services.ResolverInterface, builder *report.Builder, store interfaces.ManifestStoreInterface) *App {
	return &App{
		conf:     conf,
		logger:   logger,
		metrics:  metrics,
		matcher:  matcher,
		resolver: resolver,
		builder:  builder,
		store:    store,
		now:      time.Now,
	}
}

// Directories lists the input directories in processing order. Relative
// entries are resolved against the base directory; with no entries the base
// directory itself is processed.
func (a *App) Directories() []string {
	if len(a.conf.Input.Directories) == 0 {
		return []string{a.conf.Input.BaseDir}
	}
	dirs := make([]string, 0, len(a.conf.Input.Directories))
	for _, d := range a.conf.Input.Directories {
		if !filepath.IsAbs(d) {
			d = filepath.Join(a.conf.Input.BaseDir, d)
		}
		dirs = append(dirs, d)
	}
	return dirs
}

// Run reconciles every input directory in order and writes all reports.
// Any write failure aborts the run.
func (a *App) Run() (*models.RunManifest, error) {
	manifest := models.NewRunManifest(a.now())
	a.logger.Infof(providers.TypeApp, "Starting %s run %s", a.conf.AppName, manifest.RunID)

	if err := a.builder.Reset(); err != nil {
		return nil, err
	}

	for _, dir := range a.Directories() {
		counts, err := a.processDirectory(dir)
		if err != nil {
			return nil, err
		}
		manifest.Directories = append(manifest.Directories, counts)
	}

	if err := a.builder.Flush(); err != nil {
		return nil, err
	}

	manifest.Entries = a.builder.Entries()
	manifest.FinishedAt = a.now()

	if path := a.conf.Persistence.ManifestPath; path != "" {
		if err := a.store.SaveManifest(path, manifest); err != nil {
			return nil, fmt.Errorf("save manifest: %w", err)
		}
	}
	if err := a.metrics.Flush(); err != nil {
		return nil, err
	}

	summary := manifest.Summary()
	a.logger.Infof(providers.TypeApp, "Run %s finished: %d entries (%d same, %d different, %d missing), %d v4 logs without v5",
		manifest.RunID, len(manifest.Entries),
		summary.ByDivergence[models.DivergenceSame],
		summary.ByDivergence[models.DivergenceDifferent],
		summary.ByDivergence[models.DivergenceMissing],
		summary.MissingV5)
	return manifest, nil
}

func (a *App) processDirectory(dir string) (models.DirectoryCounts, error) {
	start := a.now()
	a.logger.Infof(providers.TypeApp, "Processing directory: %s", dir)

	result, err := a.matcher.Match(dir)
	if err != nil {
		return models.DirectoryCounts{}, err
	}

	for _, pair := range result.Pairs {
		if !pair.HasV5() {
			continue
		}
		res := a.resolver.Resolve(pair)
		a.metrics.IncPairs(string(res.Entry.Divergence))

		if _, err := a.builder.WriteMerged(res); err != nil {
			return models.DirectoryCounts{}, err
		}
		if !a.builder.Add(res.Entry) {
			a.metrics.IncDuplicatesSkipped()
		}
	}

	if err := a.builder.WriteCounts(result.Counts); err != nil {
		return models.DirectoryCounts{}, err
	}
	a.metrics.ObserveDirectoryDuration(a.now().Sub(start))
	return result.Counts, nil
}

// LastManifest loads the manifest written by the previous run, if any.
func (a *App) LastManifest() (*models.RunManifest, error) {
	if a.conf.Persistence.ManifestPath == "" {
		return nil, fmt.Errorf("persistence.manifestPath is not configured")
	}
	return a.store.LoadManifest(a.conf.Persistence.ManifestPath)
}

func (a *App) Close() {
	a.store.Close()
	a.logger.Close()
}
