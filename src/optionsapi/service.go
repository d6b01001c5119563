package optionsapi

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/jiaming2012/option-valuation/src/optionmodels"
	"github.com/jiaming2012/option-valuation/src/pricing"
)

// ValuationService fronts the pricing engine for transport handlers.
// It owns tracing and request-scoped logging so the engine itself
// stays pure.
type ValuationService struct {
	solverConfig pricing.SolverConfig
}

func NewValuationService(solverConfig pricing.SolverConfig) *ValuationService {
	return &ValuationService{
		solverConfig: solverConfig.WithDefaults(),
	}
}

func (s *ValuationService) Price(ctx context.Context, in optionmodels.OptionInputs) (optionmodels.PricingResult, error) {
	tracer := otel.Tracer("ValuationService")
	ctx, span := tracer.Start(ctx, "ValuationService.Price")
	defer span.End()

	logger := log.WithContext(ctx)

	result, err := pricing.BlackScholes(in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pricing failed")
		return optionmodels.PricingResult{}, fmt.Errorf("ValuationService: Price: %w", err)
	}

	logger.WithFields(log.Fields{
		"optionType": in.OptionType,
	}).Debugf("ValuationService: Price: priced at %.6f", result.OptionPrice)

	return result, nil
}

// ImpliedVolatility recovers the volatility behind marketPrice and
// reprices the option at that volatility so the response carries a
// consistent set of sensitivities.
func (s *ValuationService) ImpliedVolatility(ctx context.Context, in optionmodels.OptionInputs, marketPrice float64) (optionmodels.ImpliedVolatilityResult, error) {
	tracer := otel.Tracer("ValuationService")
	ctx, span := tracer.Start(ctx, "ValuationService.ImpliedVolatility")
	defer span.End()

	logger := log.WithContext(ctx)

	sigma, err := pricing.ImpliedVolatility(in, marketPrice, s.solverConfig)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "solver did not converge")
		return optionmodels.ImpliedVolatilityResult{}, fmt.Errorf("ValuationService: ImpliedVolatility: %w", err)
	}

	in.Volatility = sigma

	result, err := pricing.BlackScholes(in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pricing failed at recovered volatility")
		return optionmodels.ImpliedVolatilityResult{}, fmt.Errorf("ValuationService: ImpliedVolatility: reprice: %w", err)
	}

	logger.WithFields(log.Fields{
		"optionType": in.OptionType,
	}).Debugf("ValuationService: ImpliedVolatility: recovered %.6f", sigma)

	return optionmodels.ImpliedVolatilityResult{
		PricingResult:     result,
		ImpliedVolatility: sigma,
	}, nil
}

func (s *ValuationService) RealizedVolatility(ctx context.Context, closes []float64, periodsPerYear int) (float64, error) {
	tracer := otel.Tracer("ValuationService")
	_, span := tracer.Start(ctx, "ValuationService.RealizedVolatility")
	defer span.End()

	vol, err := pricing.RealizedVolatility(closes, periodsPerYear)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "realized volatility failed")
		return 0, fmt.Errorf("ValuationService: RealizedVolatility: %w", err)
	}

	return vol, nil
}
