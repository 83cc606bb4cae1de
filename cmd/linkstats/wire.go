//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"linkstats/internal/biz"
	"linkstats/internal/conf"
	"linkstats/internal/data"
	"linkstats/internal/enrichment"
	"linkstats/internal/eventbus"
	"linkstats/internal/server"
	"linkstats/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Shortener, *conf.Clicks, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		server.ProviderSet,
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		eventbus.ProviderSet,
		enrichment.ProviderSet,
		newApp,
	))
}
