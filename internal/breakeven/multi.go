package breakeven

import (
	"context"
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
)

// CompareRegimes runs the same cost structure through every annex and ranks
// the resulting minimum prices.
func (s *Solver) CompareRegimes(ctx context.Context, req PricingRequest) (*RegimePricingComparison, error) {
	var rows []RegimePricing

	for _, regime := range domain.Regimes() {
		variant := req
		variant.Regime = regime
		variant.ApplyFactorR = false

		analysis, err := s.Analyze(ctx, variant)
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "compare_regimes",
				Message:   fmt.Sprintf("failed to analyze %s", regime),
				Cause:     err,
			}
		}

		rows = append(rows, RegimePricing{
			Regime:        regime,
			EffectiveRate: analysis.RateLoad.EffectiveTaxRate,
			TotalRateLoad: analysis.TotalRateLoad,
			MinimumPrice:  analysis.MinimumPrice,
		})
	}

	result := &RegimePricingComparison{Rows: rows}
	for i := range rows {
		v, ok := rows[i].MinimumPrice.Value()
		if !ok {
			continue
		}
		if result.Cheapest == nil {
			result.Cheapest = &rows[i]
			continue
		}
		best, _ := result.Cheapest.MinimumPrice.Value()
		if v.LessThan(best) {
			result.Cheapest = &rows[i]
		}
	}

	result.Recommendations = s.generateRegimeRecommendations(req, result)
	return result, nil
}

// generateRegimeRecommendations creates recommendations from a cross-annex comparison
func (s *Solver) generateRegimeRecommendations(req PricingRequest, result *RegimePricingComparison) []string {
	var recommendations []string

	if result.Cheapest == nil {
		return append(recommendations, "No annex yields a feasible minimum price: rate load reaches 100% in every annex")
	}

	best, _ := result.Cheapest.MinimumPrice.Value()
	recommendations = append(recommendations,
		fmt.Sprintf("Lowest minimum price under %s: R$ %s", result.Cheapest.Regime, best.StringFixed(2)))

	for _, row := range result.Rows {
		if row.Regime != req.Regime {
			continue
		}
		current, ok := row.MinimumPrice.Value()
		if ok && current.GreaterThan(best) {
			recommendations = append(recommendations,
				fmt.Sprintf("The selected %s costs R$ %s more per unit than %s",
					req.Regime, current.Sub(best).StringFixed(2), result.Cheapest.Regime))
		}
	}

	if req.Regime == domain.RegimeIII || req.Regime == domain.RegimeV {
		recommendations = append(recommendations,
			"Anexo III and V are chosen by Factor R, not by preference; check the payroll ratio before switching")
	}
	if adj := s.RegimeAdjustment(result.Cheapest.Regime); adj.IsPositive() {
		recommendations = append(recommendations,
			fmt.Sprintf("%s includes an extra %s%% load for the employer contribution outside the DAS",
				result.Cheapest.Regime, adj.Mul(hundred).StringFixed(1)))
	}

	return recommendations
}
