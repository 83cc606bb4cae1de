package biz

import (
	"linkstats/internal/eventbus"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewCodeGenerator,
	NewShortenUsecase,
	NewRedirectUsecase,
	NewStatsUsecase,
	NewClickEventHandler,
	wire.Bind(new(ClickPublisher), new(*eventbus.EventBus)),
)
