//go:build wireinject
// +build wireinject

package session

import (
	"github.com/google/wire"

	"github.com/honeycarbs/empleos/internal/catalog"
	"github.com/honeycarbs/empleos/internal/config"
	"github.com/honeycarbs/empleos/pkg/logging"
	"github.com/honeycarbs/empleos/pkg/portalapi"
)

// InitializeSession creates a Session with all dependencies wired up.
func InitializeSession(cfg config.Config, log *logging.Logger) (*Session, error) {
	wire.Build(
		providePortalConfig,
		portalapi.NewClient,

		catalog.New,
		wire.Bind(new(Catalog), new(*catalog.Catalog)),

		providePageSize,
		NewWithDeps,
	)

	return &Session{}, nil
}

// providePortalConfig extracts client settings from main config.
func providePortalConfig(cfg config.Config, log *logging.Logger) portalapi.Config {
	return portalapi.Config{
		BaseURL: cfg.BaseURL,
		Logger:  log.Named("portalapi"),
	}
}

// providePageSize extracts the page size from main config.
func providePageSize(cfg config.Config) int {
	return cfg.PageSize
}
