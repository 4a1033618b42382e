package compare

import (
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxRegime names the two regimes the comparison puts side by side
type TaxRegime string

const (
	RegimeSimplesNacional TaxRegime = "simples_nacional"
	RegimeLucroPresumido  TaxRegime = "lucro_presumido"
)

// Label returns the display name of the regime
func (r TaxRegime) Label() string {
	switch r {
	case RegimeSimplesNacional:
		return "Simples Nacional"
	case RegimeLucroPresumido:
		return "Lucro Presumido"
	default:
		return string(r)
	}
}

// SimplesRevenueCeiling is the RBT12 above which a company leaves the Simples Nacional
var SimplesRevenueCeiling = decimal.NewFromInt(4800000)

// ComparisonRequest holds the figures of one period for the consultancy comparison
type ComparisonRequest struct {
	ClientName      string              `json:"client_name,omitempty"`
	Activity        domain.ActivityType `json:"activity"`
	Regime          domain.Regime       `json:"regime"`
	TrailingRevenue decimal.Decimal     `json:"trailing_revenue"`
	PeriodRevenue   decimal.Decimal     `json:"period_revenue"`
	Payroll12       decimal.Decimal     `json:"payroll_12"`
	// ApplyFactorR lets Factor R pick between Anexo III and V. Otherwise
	// Simples is computed on the declared annex.
	ApplyFactorR    bool                `json:"apply_factor_r"`
}

// TaxComparison is the Simples Nacional vs Lucro Presumido result for one period
type TaxComparison struct {
	Request         ComparisonRequest           `json:"request"`
	Simples         domain.TaxComputationResult `json:"simples"`
	Presumed        domain.PresumedProfitResult `json:"presumed"`
	Winner          TaxRegime                   `json:"winner"`
	Difference      decimal.Decimal             `json:"difference"` // absolute
	Recommendations []string                    `json:"recommendations"`
}

// EfficiencyRequest holds a month of transactions for the fiscal efficiency report
type EfficiencyRequest struct {
	ClientName      string                      `json:"client_name,omitempty"`
	Activity        domain.ActivityType         `json:"activity"`
	Regime          domain.Regime               `json:"regime"`
	TrailingRevenue decimal.Decimal             `json:"trailing_revenue"`
	Payroll12       decimal.Decimal             `json:"payroll_12"`
	Transactions    []domain.Transaction        `json:"transactions"`
	TaxRules        domain.TaxRuleConfiguration `json:"tax_rules"`
	ApplyFactorR    bool                        `json:"apply_factor_r"`
}

// EfficiencyReport scores how close the current Simples bill is to the cheapest option
type EfficiencyReport struct {
	ClientName      string                              `json:"client_name,omitempty"`
	Invoiced        decimal.Decimal                     `json:"invoiced"`
	Simples         domain.TaxComputationResult         `json:"simples"`
	Presumed        domain.AdvancedPresumedProfitResult `json:"presumed"`
	SimplesIsBetter bool                                `json:"simples_is_better"`
	Economy         decimal.Decimal                     `json:"economy"`
	Score           int                                 `json:"score"` // 0-100
	Recommendations []string                            `json:"recommendations"`
}

// EfficiencyScore is floor(min(simples, presumed) / simples * 100).
// Nothing invoiced or nothing owed under Simples scores 100.
func EfficiencyScore(invoiced, simplesTax, presumedTax decimal.Decimal) int {
	if !invoiced.IsPositive() || !simplesTax.IsPositive() {
		return 100
	}
	best := decimal.Min(simplesTax, presumedTax)
	return int(best.Div(simplesTax).Mul(decimal.NewFromInt(100)).Floor().IntPart())
}

// GenerateRecommendations creates recommendations for a period comparison
func GenerateRecommendations(c *TaxComparison) []string {
	recommendations := []string{}

	switch {
	case c.Difference.IsZero():
		recommendations = append(recommendations,
			"Both regimes cost the same for this period")
	default:
		loser := RegimeLucroPresumido
		if c.Winner == RegimeLucroPresumido {
			loser = RegimeSimplesNacional
		}
		recommendations = append(recommendations,
			fmt.Sprintf("%s saves R$ %s this period over %s",
				c.Winner.Label(), c.Difference.StringFixed(2), loser.Label()))
	}

	req := c.Request
	if c.Simples.AppliedRegime != "" && c.Simples.AppliedRegime != req.Regime {
		recommendations = append(recommendations,
			fmt.Sprintf("Factor R moved the Simples computation from %s to %s", req.Regime, c.Simples.AppliedRegime))
	}
	if req.TrailingRevenue.GreaterThan(SimplesRevenueCeiling) {
		recommendations = append(recommendations,
			fmt.Sprintf("RBT12 of R$ %s exceeds the Simples Nacional ceiling; Lucro Presumido is mandatory",
				req.TrailingRevenue.StringFixed(2)))
	}
	if c.Simples.BracketIndex == 6 {
		recommendations = append(recommendations,
			"RBT12 is in the last Simples bracket; review the regime choice for next year")
	}

	return recommendations
}

// GenerateEfficiencyRecommendations creates recommendations for an efficiency report
func GenerateEfficiencyRecommendations(r *EfficiencyReport) []string {
	recommendations := []string{}

	if !r.Invoiced.IsPositive() {
		return append(recommendations, "No inflows recorded for the period")
	}

	if r.SimplesIsBetter {
		recommendations = append(recommendations,
			fmt.Sprintf("Simples Nacional is the efficient choice, saving R$ %s", r.Economy.StringFixed(2)))
	} else {
		recommendations = append(recommendations,
			fmt.Sprintf("Lucro Presumido would cost R$ %s less this period (score %d/100)", r.Economy.StringFixed(2), r.Score))
	}

	if r.Presumed.ExemptAmount.IsPositive() {
		recommendations = append(recommendations,
			fmt.Sprintf("R$ %s of monofásico or exempt sales stays outside the PIS/COFINS base",
				r.Presumed.ExemptAmount.StringFixed(2)))
	}

	return recommendations
}
