//go:build wireinject
// +build wireinject

package di

import (
	"ArbLens/pkg/config"
	"ArbLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Models
		ProvideDividendFX,
		ProvideADRParity,
		ProvideScripElection,
		ProvideCountryValuation,
		ProvideMacroRegime,
		ProvideSyntheticSim,
		ProvideRegistry,

		// Use cases and presentation
		ProvideEvaluator,
		ProvideEngineHandler,
		ProvideApp,
	)
	return nil, nil
}
