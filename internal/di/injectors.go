//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"logmerge/internal"
	"logmerge/internal/archive"
	"logmerge/internal/providers"
	"logmerge/internal/report"
	"logmerge/internal/services"
	"logmerge/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		archive.NewZstdCompressor,
		archive.NewFileManager,
		archive.NewManifestStore,
		services.NewSessionLoader,
		services.NewMatcher,
		services.NewResolver,
		report.NewBuilder,
		internal.NewApp,
	)

	return nil, nil
}
