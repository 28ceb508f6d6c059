//go:build wireinject
// +build wireinject

package main

import (
	"github.com/Jacobbrewer1/den/cmd/bot/config"
	"github.com/Jacobbrewer1/den/pkg/platform"
	"github.com/Jacobbrewer1/den/pkg/registry"
	"github.com/google/wire"
	"github.com/gorilla/mux"
)

func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		provideLogger,
		provideSession,
		provideMongo,
		provideLimiter,
		provideVoiceManager,
		provideScheduler,
		provideOrchestrator,
		provideTickets,
		platform.NewDiscord,
		wire.Bind(new(platform.Client), new(*platform.Discord)),
		registry.New,
		mux.NewRouter,
		NewApp,
	)
	return new(App), nil, nil
}
