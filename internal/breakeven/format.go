package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter formats pricing results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a pricing analysis
func (tf *TableFormatter) Format(result *PricingAnalysis) string {
	var sb strings.Builder

	sb.WriteString("PRICING / BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	req := result.Request
	if req.ClientName != "" {
		sb.WriteString(fmt.Sprintf("Client:              %s\n", req.ClientName))
	}
	sb.WriteString(fmt.Sprintf("Activity:            %s\n", req.Activity))
	sb.WriteString(fmt.Sprintf("Selected Regime:     %s\n", req.Regime))
	if result.AppliedRegime != req.Regime {
		sb.WriteString(fmt.Sprintf("Applied Regime:      %s (Factor R)\n", result.AppliedRegime))
	}
	sb.WriteString(fmt.Sprintf("RBT12:               R$ %s\n", tf.formatCurrency(req.TrailingRevenue)))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Status)))
	sb.WriteString("\n")

	sb.WriteString("RATE LOAD\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Effective Tax Rate:  %s%%\n", tf.formatPercent(result.RateLoad.EffectiveTaxRate)))
	sb.WriteString(fmt.Sprintf("Fee Rate:            %s%%\n", tf.formatPercent(result.RateLoad.FeeRate)))
	if !result.RateLoad.RegimeAdjustment.IsZero() {
		sb.WriteString(fmt.Sprintf("Regime Adjustment:   %s%%\n", tf.formatPercent(result.RateLoad.RegimeAdjustment)))
	}
	sb.WriteString(fmt.Sprintf("Total Load:          %s%%\n", tf.formatPercent(result.TotalRateLoad)))
	sb.WriteString("\n")

	sb.WriteString("UNIT COSTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Variable Cost:       R$ %s\n", tf.formatCurrency(req.Costs.VariableCostUnit)))
	sb.WriteString(fmt.Sprintf("Fixed Cost / Unit:   R$ %s\n", tf.formatCurrency(result.FixedCostUnit)))
	sb.WriteString(fmt.Sprintf("Total Unit Cost:     R$ %s\n", tf.formatCurrency(result.UnitCost)))
	sb.WriteString("\n")

	sb.WriteString("PRICE\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Minimum Price:       %s\n", tf.formatMinimum(result.MinimumPrice)))
	if req.Costs.ProposedPrice.IsPositive() {
		sb.WriteString(fmt.Sprintf("Proposed Price:      R$ %s\n", tf.formatCurrency(req.Costs.ProposedPrice)))
		sb.WriteString(fmt.Sprintf("Unit Margin:         %sR$ %s\n", tf.deltaSymbol(result.UnitMargin), tf.formatCurrency(result.UnitMargin.Abs())))
	}
	sb.WriteString("\n")

	if ev := result.Evaluation; ev != nil {
		sb.WriteString(fmt.Sprintf("SALE AT R$ %s\n", tf.formatCurrency(ev.Price)))
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Simples Tax:         R$ %s\n", tf.formatCurrency(ev.TaxAmount)))
		sb.WriteString(fmt.Sprintf("Fees:                R$ %s\n", tf.formatCurrency(ev.FeeAmount)))
		if !ev.AdjustmentAmount.IsZero() {
			sb.WriteString(fmt.Sprintf("Regime Adjustment:   R$ %s\n", tf.formatCurrency(ev.AdjustmentAmount)))
		}
		sb.WriteString(fmt.Sprintf("Gross Profit:        R$ %s (%s%%)\n", tf.formatCurrency(ev.GrossProfit), ev.GrossMarginPct.StringFixed(1)))
		sb.WriteString(fmt.Sprintf("Net Profit:          R$ %s (%s%%)\n", tf.formatCurrency(ev.NetProfit), ev.NetMarginPct.StringFixed(1)))
		sb.WriteString("\n")

		sb.WriteString("DAS BREAKDOWN\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, e := range ev.Breakdown.Entries() {
			if e.Amount.IsZero() {
				continue
			}
			sb.WriteString(fmt.Sprintf("%-8s R$ %12s\n", strings.ToUpper(string(e.SubTax)), tf.formatCurrency(e.Amount)))
		}
		sb.WriteString("\n")
	}

	if result.FactorRAlert != nil {
		sb.WriteString("FACTOR R\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Factor R:            %s%%\n", tf.formatPercent(result.FactorRAlert.Value)))
		sb.WriteString(fmt.Sprintf("%s\n", result.FactorRAlert.Message))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatCurve formats break-even curve samples
func (tf *TableFormatter) FormatCurve(curve []CurvePoint) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN CURVE\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%12s %14s %16s  %s\n", "Price", "Unit Margin", "Monthly Result", "Status"))
	for _, p := range curve {
		sb.WriteString(fmt.Sprintf("%12s %14s %16s  %s\n",
			tf.formatCurrency(p.Price),
			tf.formatCurrency(p.UnitMargin),
			tf.formatShort(p.MonthlyResult),
			p.Status.Label()))
	}
	return sb.String()
}

// FormatRegimeComparison formats the cross-annex minimum price ranking
func (tf *TableFormatter) FormatRegimeComparison(result *RegimePricingComparison) string {
	var sb strings.Builder

	sb.WriteString("MINIMUM PRICE BY ANNEX\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-12s %16s %12s %16s\n", "Annex", "Effective Rate", "Total Load", "Minimum Price"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, row := range result.Rows {
		marker := ""
		if result.Cheapest != nil && row.Regime == result.Cheapest.Regime {
			marker = " *"
		}
		sb.WriteString(fmt.Sprintf("%-12s %15s%% %11s%% %16s%s\n",
			row.Regime.String(),
			tf.formatPercent(row.EffectiveRate),
			tf.formatPercent(row.TotalRateLoad),
			tf.formatMinimum(row.MinimumPrice),
			marker))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for any pricing result
func (jf *JSONFormatter) Format(result interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(status domain.PricingStatus) string {
	if status == domain.StatusBreakEvenOrAbove {
		return "✓ " + status.Label()
	}
	return "⚠ " + status.Label()
}

func (tf *TableFormatter) formatMinimum(m MinimumPrice) string {
	v, ok := m.Value()
	if !ok {
		return "infeasible (load >= 100%)"
	}
	return "R$ " + tf.formatCurrency(v)
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatPercent(d decimal.Decimal) string {
	return d.Mul(hundred).StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsNegative() {
		return "-"
	}
	return ""
}
