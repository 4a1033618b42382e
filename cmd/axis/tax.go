package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/compare"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/axisacco/AXIS-ACCOUTING/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var simplesCmd = &cobra.Command{
	Use:   "simples",
	Short: "Compute the Simples Nacional tax (DAS) of a period",
	Example: "  axis simples --regime III --rbt12 180000 --revenue 10000\n" +
		"  axis simples --regime III --activity service --payroll 30000 --rbt12 180000 --revenue 10000",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		regimeFlag, _ := cmd.Flags().GetString("regime")
		regime, err := domain.ParseRegime(regimeFlag)
		if err != nil {
			return err
		}
		trailing, err := decimalFlag(cmd, "rbt12")
		if err != nil {
			return err
		}
		revenue, err := decimalFlag(cmd, "revenue")
		if err != nil {
			return err
		}
		payroll, err := decimalFlag(cmd, "payroll")
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, "table", "json"); err != nil {
			return err
		}

		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}

		var result domain.TaxComputationResult
		activityFlag, _ := cmd.Flags().GetString("activity")
		if activityFlag != "" {
			activity, err := domain.ParseActivityType(activityFlag)
			if err != nil {
				return err
			}
			result, err = engine.ComputeForActivity(activity, regime, trailing, revenue, payroll)
			if err != nil {
				return err
			}
		} else {
			result, err = engine.ComputeProgressiveTax(trailing, revenue, regime)
			if err != nil {
				return err
			}
		}

		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), result)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "SIMPLES NACIONAL")
		fmt.Fprintln(out, strings.Repeat("=", 40))
		fmt.Fprintf(out, "Selected Regime:     %s\n", regime)
		if result.AppliedRegime != "" && result.AppliedRegime != regime {
			fmt.Fprintf(out, "Applied Regime:      %s (Factor R)\n", result.AppliedRegime)
		}
		fmt.Fprintf(out, "RBT12:               R$ %s\n", trailing.StringFixed(2))
		fmt.Fprintf(out, "Period Revenue:      R$ %s\n", revenue.StringFixed(2))
		fmt.Fprintf(out, "Bracket:             %d (up to R$ %s)\n", result.BracketIndex, result.BracketCeiling.StringFixed(2))
		fmt.Fprintf(out, "Nominal Rate:        %s%%\n", percent(result.NominalRate, 2))
		fmt.Fprintf(out, "Deduction:           R$ %s\n", result.Deduction.StringFixed(2))
		fmt.Fprintf(out, "Effective Rate:      %s%%\n", percent(result.EffectiveRate, 4))
		fmt.Fprintf(out, "Tax (DAS):           R$ %s\n", result.TaxAmount.StringFixed(2))
		fmt.Fprintln(out)
		writeBreakdown(out, result.Breakdown)
		return nil
	},
}

var factorRCmd = &cobra.Command{
	Use:   "factor-r",
	Short: "Resolve Anexo III or V from the payroll / revenue ratio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		trailing, err := decimalFlag(cmd, "rbt12")
		if err != nil {
			return err
		}
		payroll, err := decimalFlag(cmd, "payroll")
		if err != nil {
			return err
		}
		if trailing.IsNegative() || payroll.IsNegative() {
			return calculation.ErrNegativeAmount
		}

		alert := calculation.NewFactorRAlert(trailing, payroll)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Factor R:            %s%%\n", percent(alert.Value, 2))
		fmt.Fprintf(out, "Regime:              %s\n", calculation.ResolveFactorRRegime(trailing, payroll))
		fmt.Fprintf(out, "%s\n", alert.Message)
		return nil
	},
}

var presumidoCmd = &cobra.Command{
	Use:   "presumido",
	Short: "Estimate Lucro Presumido taxes on a period revenue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		activityFlag, _ := cmd.Flags().GetString("activity")
		activity, err := domain.ParseActivityType(activityFlag)
		if err != nil {
			return err
		}
		revenue, err := decimalFlag(cmd, "revenue")
		if err != nil {
			return err
		}
		payroll, err := decimalFlag(cmd, "payroll")
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, "table", "json"); err != nil {
			return err
		}

		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		result, err := engine.ComputePresumedProfit(revenue, payroll, activity)
		if err != nil {
			return err
		}

		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), result)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "LUCRO PRESUMIDO")
		fmt.Fprintln(out, strings.Repeat("=", 40))
		fmt.Fprintf(out, "Activity:            %s\n", activity)
		fmt.Fprintf(out, "Period Revenue:      R$ %s\n", revenue.StringFixed(2))
		fmt.Fprintln(out)
		writePresumed(out, result)
		return nil
	},
}

var presumidoAdvancedCmd = &cobra.Command{
	Use:   "presumido-advanced [company-file]",
	Short: "Estimate Lucro Presumido per transaction from a company file",
	Long: "Splits the inflows of a company file by activity and product category " +
		"(monofasico and isento entries leave the PIS/COFINS base unless the tax rules say otherwise).",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, "table", "json"); err != nil {
			return err
		}

		cfg, engine, err := loadCompany(cmd, args[0])
		if err != nil {
			return err
		}

		txs := ledger.FilterByClient(cfg.Transactions, cfg.Client.ID)
		if monthFlag, _ := cmd.Flags().GetString("month"); monthFlag != "" {
			txs, err = monthTransactions(txs, monthFlag)
			if err != nil {
				return err
			}
		}

		result, err := engine.ComputePresumedProfitAdvanced(txs, cfg.TaxRules)
		if err != nil {
			return err
		}

		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), result)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "LUCRO PRESUMIDO (PER TRANSACTION)")
		fmt.Fprintln(out, strings.Repeat("=", 40))
		fmt.Fprintf(out, "Client:              %s\n", cfg.Client.Name)
		fmt.Fprintf(out, "Gross Revenue:       R$ %s\n", result.TotalGross.StringFixed(2))
		fmt.Fprintf(out, "  Commerce:          R$ %s\n", result.CommerceGross.StringFixed(2))
		fmt.Fprintf(out, "  Services:          R$ %s\n", result.ServiceGross.StringFixed(2))
		fmt.Fprintf(out, "PIS/COFINS Exempt:   R$ %s\n", result.ExemptAmount.StringFixed(2))
		fmt.Fprintf(out, "Effective Rate:      %s%%\n", percent(result.EffectiveRate, 2))
		fmt.Fprintln(out)
		writePresumed(out, result.PresumedProfitResult)
		return nil
	},
}

var provisionsCmd = &cobra.Command{
	Use:   "provisions",
	Short: "Compute FGTS, 13th salary and vacation provisions of a salary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		salary, err := decimalFlag(cmd, "salary")
		if err != nil {
			return err
		}

		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		p, err := engine.ComputeProvisions(salary)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Salary:              R$ %s\n", salary.StringFixed(2))
		fmt.Fprintf(out, "FGTS (8%%):           R$ %s\n", p.FGTS.StringFixed(2))
		fmt.Fprintf(out, "13th Provision:      R$ %s\n", p.Provision13th.StringFixed(2))
		fmt.Fprintf(out, "Vacation Provision:  R$ %s\n", p.ProvisionVacations.StringFixed(2))
		fmt.Fprintf(out, "Total Provisions:    R$ %s\n", p.TotalProvisions.StringFixed(2))
		fmt.Fprintf(out, "Employer Cost:       R$ %s\n", p.TotalEmployerCost.StringFixed(2))
		return nil
	},
}

// monthTransactions keeps the entries dated inside a YYYY-MM month
func monthTransactions(txs []domain.Transaction, month string) ([]domain.Transaction, error) {
	first, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	r, err := ledger.NewDateRange(first, first.AddDate(0, 1, -1))
	if err != nil {
		return nil, err
	}
	return ledger.FilterByRange(txs, r), nil
}

func percent(d decimal.Decimal, places int32) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(places)
}

func writeBreakdown(w io.Writer, b domain.Breakdown) {
	fmt.Fprintln(w, "BREAKDOWN")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, s := range domain.SubTaxes() {
		amount := b[s]
		if amount.IsZero() {
			continue
		}
		fmt.Fprintf(w, "%-20s R$ %s\n", strings.ToUpper(string(s)), amount.StringFixed(2))
	}
}

func writePresumed(w io.Writer, p domain.PresumedProfitResult) {
	rows := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"IRPJ", p.IRPJ},
		{"CSLL", p.CSLL},
		{"PIS", p.PIS},
		{"COFINS", p.COFINS},
		{"ISS", p.ISS},
		{"ICMS", p.ICMS},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-20s R$ %s\n", r.label, r.amount.StringFixed(2))
	}
	fmt.Fprintf(w, "%-20s R$ %s\n", "TOTAL", p.Total.StringFixed(2))
}

func writeJSON(w io.Writer, v interface{}) error {
	jf := &compare.JSONFormatter{Pretty: true}
	s, err := jf.Format(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s)
	return nil
}

func initTaxCommands() {
	simplesCmd.Flags().String("regime", "III", "Simples annex (I, II, III, IV, V)")
	simplesCmd.Flags().String("activity", "", "Activity (commerce, industry, service); service applies Factor R to III/V")
	simplesCmd.Flags().String("rbt12", "", "Gross revenue of the last 12 months")
	simplesCmd.Flags().String("revenue", "", "Revenue of the period being taxed")
	simplesCmd.Flags().String("payroll", "", "Payroll of the last 12 months (Factor R)")
	simplesCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	simplesCmd.Flags().String("regulatory-config", "", "Path to a bracket table override")
	_ = simplesCmd.MarkFlagRequired("rbt12")
	_ = simplesCmd.MarkFlagRequired("revenue")

	factorRCmd.Flags().String("rbt12", "", "Gross revenue of the last 12 months")
	factorRCmd.Flags().String("payroll", "", "Payroll of the last 12 months")
	_ = factorRCmd.MarkFlagRequired("rbt12")
	_ = factorRCmd.MarkFlagRequired("payroll")

	presumidoCmd.Flags().String("activity", "", "Activity (commerce, industry, service)")
	presumidoCmd.Flags().String("revenue", "", "Revenue of the period")
	presumidoCmd.Flags().String("payroll", "", "Payroll of the last 12 months")
	presumidoCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	presumidoCmd.Flags().String("regulatory-config", "", "Path to a bracket table override")
	_ = presumidoCmd.MarkFlagRequired("activity")
	_ = presumidoCmd.MarkFlagRequired("revenue")

	presumidoAdvancedCmd.Flags().String("month", "", "Only use transactions of this month (YYYY-MM)")
	presumidoAdvancedCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	provisionsCmd.Flags().String("salary", "", "Monthly salary")
	_ = provisionsCmd.MarkFlagRequired("salary")

	rootCmd.AddCommand(simplesCmd)
	rootCmd.AddCommand(factorRCmd)
	rootCmd.AddCommand(presumidoCmd)
	rootCmd.AddCommand(presumidoAdvancedCmd)
	rootCmd.AddCommand(provisionsCmd)
}
