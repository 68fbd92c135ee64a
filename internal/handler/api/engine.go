package api

import (
	"fmt"
	"net/http"
	"time"

	"ArbLens/internal/domain/models"
	"ArbLens/internal/domain/service"
	"ArbLens/internal/services/engine"
	"ArbLens/internal/usecase"
	"ArbLens/pkg/cache"
	xhttp "ArbLens/pkg/http"
	xlogger "ArbLens/pkg/logger"
	"ArbLens/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// EngineHandler exposes the valuation models over HTTP. Evaluations are pure
// functions of (inputs, scenario), so responses are cached under the pair of
// digests and replayed verbatim on identical requests.
type EngineHandler struct {
	logger    *xlogger.Logger
	recorder  *metrics.Recorder
	cache     cache.Service
	cacheTTL  time.Duration
	evaluator *usecase.Evaluator
	registry  *service.Registry

	dividendFX *engine.DividendFX
	adrParity  *engine.ADRParity
	scrip      *engine.ScripElection
	valuation  *engine.CountryValuation
	regime     *engine.MacroRegime
	sim        *engine.SyntheticSim
}

// NewEngineHandler wires the handler with all six models.
func NewEngineHandler(
	logger *xlogger.Logger,
	recorder *metrics.Recorder,
	c cache.Service,
	cacheTTL time.Duration,
	evaluator *usecase.Evaluator,
	registry *service.Registry,
	dividendFX *engine.DividendFX,
	adrParity *engine.ADRParity,
	scrip *engine.ScripElection,
	valuation *engine.CountryValuation,
	regime *engine.MacroRegime,
	sim *engine.SyntheticSim,
) *EngineHandler {
	if c == nil {
		c = cache.Nop{}
	}
	return &EngineHandler{
		logger:     logger,
		recorder:   recorder,
		cache:      c,
		cacheTTL:   cacheTTL,
		evaluator:  evaluator,
		registry:   registry,
		dividendFX: dividendFX,
		adrParity:  adrParity,
		scrip:      scrip,
		valuation:  valuation,
		regime:     regime,
		sim:        sim,
	}
}

func (h *EngineHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/models", h.Models)
	g.POST("/arb/dividend-fx", h.DividendFX)
	g.POST("/arb/adr-parity", h.ADRParity)
	g.POST("/arb/adr-parity/batch", h.ADRParityBatch)
	g.POST("/arb/scrip", h.Scrip)
	g.POST("/score/countries", h.CountryScores)
	g.POST("/score/regime", h.Regime)
	g.POST("/simulate/synthetic", h.Simulate)
}

// Health reports process liveness.
func (h *EngineHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Models lists the registered model names.
func (h *EngineHandler) Models(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.registry.Names())
}

func (h *EngineHandler) DividendFX(c echo.Context) error {
	req := &models.DividendFXRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	in := engine.DividendFXInputs{
		Term:        req.Term,
		CompanyRate: req.CompanyRate,
		MarketRate:  req.MarketRate,
	}
	return h.evaluate(c, h.dividendFX.Name(), in, req.Scenario.Build(), func(sc models.Scenario) (models.ModelResult, error) {
		return h.dividendFX.EvaluateTerm(in, sc)
	})
}

func (h *EngineHandler) ADRParity(c echo.Context) error {
	req := &models.ADRParityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	in := engine.ADRParityInputs{
		ADR:   req.ADR,
		Local: req.Local,
		Ratio: req.Ratio,
		FX:    req.FX,
	}
	return h.evaluate(c, h.adrParity.Name(), in, req.Scenario.Build(), func(sc models.Scenario) (models.ModelResult, error) {
		return h.adrParity.EvaluatePair(in, sc)
	})
}

// ADRParityBatch evaluates many pairs under one scenario and returns a
// ranked table, ordered by absolute deviation.
func (h *EngineHandler) ADRParityBatch(c echo.Context) error {
	req := &models.ADRParityBatchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	items := make([]usecase.BatchItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.BatchItem{
			Entity: it.Entity,
			Inputs: engine.ADRParityInputs{
				ADR:   it.ADR,
				Local: it.Local,
				Ratio: it.Ratio,
				FX:    it.FX,
			},
		})
	}

	batch := h.evaluator.Run(c.Request().Context(), h.adrParity, items, req.Scenario.Build())
	return xhttp.SuccessResponse(c, usecase.RankResults(batch))
}

func (h *EngineHandler) Scrip(c echo.Context) error {
	req := &models.ScripRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	in := engine.ScripElectionInputs{
		Term:    req.Term,
		Market:  req.Market,
		Holding: req.Holding,
	}
	return h.evaluate(c, h.scrip.Name(), in, req.Scenario.Build(), func(sc models.Scenario) (models.ModelResult, error) {
		return h.scrip.EvaluateElection(in, sc)
	})
}

// CountryScoresResponse carries the summary result with the full ranked
// table alongside it.
type CountryScoresResponse struct {
	Result  models.ModelResult   `json:"result"`
	Ranking usecase.RankingTable `json:"ranking"`
}

func (h *EngineHandler) CountryScores(c echo.Context) error {
	req := &models.CountryScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	in := engine.CountryValuationInputs{Countries: req.Countries}
	sc := req.Scenario.Build()
	key := cacheKey(h.valuation.Name(), in.Digest(), sc.Digest())

	var cached CountryScoresResponse
	if err := h.cache.Get(c.Request().Context(), key, &cached); err == nil {
		return xhttp.SuccessResponse(c, cached)
	}

	start := time.Now()
	result, err := h.valuation.Evaluate(in, sc)
	if err != nil {
		return h.fail(c, h.valuation.Name(), err)
	}
	scores, skipped, err := h.valuation.Scores(in, sc)
	if err != nil {
		return h.fail(c, h.valuation.Name(), err)
	}
	h.observe(h.valuation.Name(), result, time.Since(start))

	resp := CountryScoresResponse{
		Result:  result,
		Ranking: usecase.RankCountryScores(scores, skipped),
	}
	h.store(c, key, resp)
	return xhttp.SuccessResponse(c, resp)
}

// RegimeResponse pairs the uniform result with the full assessment detail.
type RegimeResponse struct {
	Result     models.ModelResult `json:"result"`
	Assessment engine.Assessment  `json:"assessment"`
}

func (h *EngineHandler) Regime(c echo.Context) error {
	req := &models.RegimeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	in := engine.MacroRegimeInputs{
		Curve:      req.Curve,
		Domestic:   req.Domestic,
		Comparator: req.Comparator,
	}
	sc := req.Scenario.Build()
	key := cacheKey(h.regime.Name(), in.Digest(), sc.Digest())

	var cached RegimeResponse
	if err := h.cache.Get(c.Request().Context(), key, &cached); err == nil {
		return xhttp.SuccessResponse(c, cached)
	}

	start := time.Now()
	result, err := h.regime.Evaluate(in, sc)
	if err != nil {
		return h.fail(c, h.regime.Name(), err)
	}
	assessment, err := h.regime.Assess(in, sc)
	if err != nil {
		return h.fail(c, h.regime.Name(), err)
	}
	h.observe(h.regime.Name(), result, time.Since(start))

	resp := RegimeResponse{Result: result, Assessment: assessment}
	h.store(c, key, resp)
	return xhttp.SuccessResponse(c, resp)
}

// SimulateResponse carries the summary result, the full equity path, and the
// comparator table.
type SimulateResponse struct {
	Result     models.ModelResult     `json:"result"`
	Outcome    engine.SimOutcome      `json:"outcome"`
	Comparison usecase.ComparisonTable `json:"comparison"`
}

func (h *EngineHandler) Simulate(c echo.Context) error {
	req := &models.SimulateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	in := engine.SyntheticSimInputs{
		Index:       req.Index,
		Comparators: req.Comparators,
		Combo: engine.ComboSpec{
			Contracts:       req.Combo.Contracts,
			Multiplier:      req.Combo.Multiplier,
			StrikeOffsetPct: req.Combo.StrikeOffsetPct,
			TenorMonths:     req.Combo.TenorMonths,
		},
		Financing: req.Financing,
		Regimes:   req.Regimes,
	}
	sc := req.Scenario.Build()
	key := cacheKey(h.sim.Name(), in.Digest(), sc.Digest())

	var cached SimulateResponse
	if err := h.cache.Get(c.Request().Context(), key, &cached); err == nil {
		return xhttp.SuccessResponse(c, cached)
	}

	start := time.Now()
	result, err := h.sim.Evaluate(in, sc)
	if err != nil {
		return h.fail(c, h.sim.Name(), err)
	}
	outcome, err := h.sim.Simulate(in, sc)
	if err != nil {
		return h.fail(c, h.sim.Name(), err)
	}
	h.observe(h.sim.Name(), result, time.Since(start))

	resp := SimulateResponse{
		Result:     result,
		Outcome:    outcome,
		Comparison: usecase.BuildComparison(outcome),
	}
	h.store(c, key, resp)
	return xhttp.SuccessResponse(c, resp)
}

// evaluate runs one model with caching, metrics, and error mapping.
func (h *EngineHandler) evaluate(c echo.Context, name string, in models.Inputs, sc models.Scenario, run func(models.Scenario) (models.ModelResult, error)) error {
	key := cacheKey(name, in.Digest(), sc.Digest())

	var cached models.ModelResult
	if err := h.cache.Get(c.Request().Context(), key, &cached); err == nil {
		return xhttp.SuccessResponse(c, cached)
	}

	start := time.Now()
	result, err := run(sc)
	if err != nil {
		return h.fail(c, name, err)
	}
	h.observe(name, result, time.Since(start))

	h.store(c, key, result)
	return xhttp.SuccessResponse(c, result)
}

func (h *EngineHandler) fail(c echo.Context, model string, err error) error {
	appErr := xhttp.FromDomain(err)
	if appErr.Status == http.StatusBadRequest && h.recorder != nil {
		h.recorder.RecordValidationFailure(model)
	}
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("evaluation failed", xlogger.String("model", model), xlogger.Error(err))
	} else {
		h.logger.Warn("evaluation rejected", xlogger.String("model", model), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func (h *EngineHandler) observe(model string, result models.ModelResult, d time.Duration) {
	if h.recorder == nil {
		return
	}
	h.recorder.ObserveEvaluation(model, string(result.Signal), d)
	h.recorder.RecordMagnitude(model, result.Magnitude)
}

func (h *EngineHandler) store(c echo.Context, key string, value interface{}) {
	if err := h.cache.Set(c.Request().Context(), key, value, h.cacheTTL); err != nil {
		h.logger.Warn("cache store failed", xlogger.Error(err))
	}
}

func cacheKey(model, inputsDigest, scenarioDigest string) string {
	return fmt.Sprintf("eval:%s:%s:%s", model, inputsDigest, scenarioDigest)
}

var _ xhttp.Handler = (*EngineHandler)(nil)
