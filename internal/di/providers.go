package di

import (
	"fmt"
	"time"

	"ArbLens/internal/domain/service"
	"ArbLens/internal/handler/api"
	"ArbLens/internal/services/engine"
	"ArbLens/internal/usecase"
	"ArbLens/pkg/cache"
	"ArbLens/pkg/config"
	xhttp "ArbLens/pkg/http"
	applogger "ArbLens/pkg/logger"
	"ArbLens/pkg/metrics"
	"ArbLens/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideCache creates the configured cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		c, err := cache.NewRedisCache(
			cache.WithAddr(cfg.Cache.Redis.Addr),
			cache.WithPassword(cfg.Cache.Redis.Password),
			cache.WithDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	case "none":
		return cache.Nop{}, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvideDividendFX creates the dividend currency arbitrage model.
func ProvideDividendFX(cfg *config.Config) *engine.DividendFX {
	return engine.NewDividendFX(engine.DividendFXParams{
		MinSpreadBPS: cfg.Engine.DividendFX.MinSpreadBPS,
		DayCount:     cfg.Engine.DividendFX.DayCount,
	})
}

// ProvideADRParity creates the ADR/local parity model.
func ProvideADRParity(cfg *config.Config) *engine.ADRParity {
	return engine.NewADRParity(engine.ADRParityParams{
		DeadBandBPS:     cfg.Engine.ADRParity.DeadBandBPS,
		StalenessWindow: cfg.Engine.ADRParity.StalenessWindow,
	})
}

// ProvideScripElection creates the scrip election model.
func ProvideScripElection(cfg *config.Config) *engine.ScripElection {
	return engine.NewScripElection(engine.ScripElectionParams{
		WholeShares: cfg.Engine.Scrip.WholeShares,
	})
}

// ProvideCountryValuation creates the country valuation scoring model.
func ProvideCountryValuation(cfg *config.Config) *engine.CountryValuation {
	w := cfg.Engine.Valuation.Weights
	return engine.NewCountryValuation(engine.ValuationParams{
		Mode:     cfg.Engine.Valuation.Mode,
		MinPeers: cfg.Engine.Valuation.MinPeers,
		Weights: engine.ValuationWeights{
			PE:            w.PE,
			ForwardPE:     w.ForwardPE,
			PriceToBook:   w.PriceToBook,
			DividendYield: w.DividendYield,
			Returns:       w.Returns,
		},
	})
}

// ProvideMacroRegime creates the macro regime scoring model.
func ProvideMacroRegime(cfg *config.Config) *engine.MacroRegime {
	return engine.NewMacroRegime(engine.MacroRegimeParams{
		ShortTenorMonths: cfg.Engine.Regime.ShortTenorMonths,
		LongTenorMonths:  cfg.Engine.Regime.LongTenorMonths,
		LookbackMonths:   cfg.Engine.Regime.LookbackMonths,
	})
}

// ProvideSyntheticSim creates the synthetic leveraged strategy simulator.
func ProvideSyntheticSim(cfg *config.Config) *engine.SyntheticSim {
	s := cfg.Engine.Sim
	return engine.NewSyntheticSim(engine.SyntheticSimParams{
		InitialCash:        s.InitialCash,
		MarginPct:          s.MarginPct,
		MaintenancePct:     s.MaintenancePct,
		RollMonths:         s.RollMonths,
		DividendDragAnnual: s.DividendDragAnnual,
		FinancingAnnualPct: s.FinancingAnnualPct,
		AltLeverage:        s.AltLeverage,
		MinPeriods:         s.MinPeriods,
	})
}

// ProvideRegistry registers all models under their names.
func ProvideRegistry(
	dividendFX *engine.DividendFX,
	adrParity *engine.ADRParity,
	scrip *engine.ScripElection,
	valuation *engine.CountryValuation,
	regime *engine.MacroRegime,
	sim *engine.SyntheticSim,
) *service.Registry {
	return service.NewRegistry(dividendFX, adrParity, scrip, valuation, regime, sim)
}

// ProvideEvaluator creates the batch evaluator.
func ProvideEvaluator(cfg *config.Config, l *applogger.Logger, rec *metrics.Recorder) *usecase.Evaluator {
	return usecase.NewEvaluator(l, rec, cfg.Engine.Workers)
}

// ProvideEngineHandler creates the HTTP handler.
func ProvideEngineHandler(
	cfg *config.Config,
	l *applogger.Logger,
	rec *metrics.Recorder,
	c cache.Service,
	evaluator *usecase.Evaluator,
	registry *service.Registry,
	dividendFX *engine.DividendFX,
	adrParity *engine.ADRParity,
	scrip *engine.ScripElection,
	valuation *engine.CountryValuation,
	regime *engine.MacroRegime,
	sim *engine.SyntheticSim,
) xhttp.Handler {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return api.NewEngineHandler(l, rec, c, ttl, evaluator, registry, dividendFX, adrParity, scrip, valuation, regime, sim)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, h xhttp.Handler, c cache.Service) *server.App {
	return server.New(cfg, l, h, c)
}
