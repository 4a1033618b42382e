package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/compare"
	"github.com/axisacco/AXIS-ACCOUTING/internal/ledger"
	"github.com/spf13/cobra"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

var compareCmd = &cobra.Command{
	Use:   "compare [company-file]",
	Short: "Compare Simples Nacional against Lucro Presumido for one period",
	Long: "Puts the Simples tax and the Lucro Presumido estimate of one period side by side. " +
		"The period revenue comes from --revenue, or from the company's inflows of --month.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, "table", "csv", "json"); err != nil {
			return err
		}

		cfg, engine, err := loadCompany(cmd, args[0])
		if err != nil {
			return err
		}

		revenue, err := decimalFlag(cmd, "revenue")
		if err != nil {
			return err
		}
		if monthFlag, _ := cmd.Flags().GetString("month"); monthFlag != "" {
			month, err := parseMonth(monthFlag)
			if err != nil {
				return err
			}
			txs := ledger.FilterByClient(cfg.Transactions, cfg.Client.ID)
			revenue = ledger.PeriodRevenue(txs, month.Year(), month.Month(), ledger.PlannerMonthly)
		}

		req := compare.CompanyComparisonRequest(cfg, revenue)
		req.ApplyFactorR, _ = cmd.Flags().GetBool("apply-factor-r")
		result, err := compare.NewCompareEngine(engine).Compare(commandContext(cmd), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "csv":
			s, err := (&compare.CSVFormatter{}).Format(result)
			if err != nil {
				return err
			}
			fmt.Fprint(out, s)
		case "json":
			return writeJSON(out, result)
		default:
			fmt.Fprint(out, (&compare.TableFormatter{}).Format(result))
		}
		return nil
	},
}

var efficiencyCmd = &cobra.Command{
	Use:   "efficiency [company-file]",
	Short: "Score the Simples bill of a month against the per-transaction Lucro Presumido estimate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, "table", "csv", "json"); err != nil {
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

		req := compare.CompanyEfficiencyRequest(cfg, txs)
		req.ApplyFactorR, _ = cmd.Flags().GetBool("apply-factor-r")
		report, err := compare.NewCompareEngine(engine).Efficiency(commandContext(cmd), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "csv":
			s, err := (&compare.CSVFormatter{}).FormatEfficiency(report)
			if err != nil {
				return err
			}
			fmt.Fprint(out, s)
		case "json":
			return writeJSON(out, report)
		default:
			fmt.Fprint(out, (&compare.TableFormatter{}).FormatEfficiency(report))
		}
		return nil
	},
}

var indicatorsCmd = &cobra.Command{
	Use:   "indicators [company-file]",
	Short: "Show the dashboard indicators of a period",
	Long: "Totals inflows and manual outflows, the payroll share and the DAS of the period, " +
		"then the real net profit and ROI. --period is daily, weekly, monthly, annual or " +
		"custom (with --from and --to as YYYY-MM-DD); --now pins the reference date.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, "table", "json"); err != nil {
			return err
		}

		periodFlag, _ := cmd.Flags().GetString("period")
		period, err := calculation.ParsePayrollPeriod(periodFlag)
		if err != nil {
			return err
		}

		var custom ledger.DateRange
		if period == calculation.PayrollCustom {
			fromFlag, _ := cmd.Flags().GetString("from")
			toFlag, _ := cmd.Flags().GetString("to")
			from, err := time.Parse("2006-01-02", fromFlag)
			if err != nil {
				return fmt.Errorf("invalid --from %q, expected YYYY-MM-DD", fromFlag)
			}
			to, err := time.Parse("2006-01-02", toFlag)
			if err != nil {
				return fmt.Errorf("invalid --to %q, expected YYYY-MM-DD", toFlag)
			}
			custom = ledger.DateRange{Start: from, End: to}
		}

		cfg, engine, err := loadCompany(cmd, args[0])
		if err != nil {
			return err
		}

		aggregator := ledger.NewAggregator(engine)
		if nowFlag, _ := cmd.Flags().GetString("now"); nowFlag != "" {
			now, err := time.Parse("2006-01-02", nowFlag)
			if err != nil {
				return fmt.Errorf("invalid --now %q, expected YYYY-MM-DD", nowFlag)
			}
			aggregator.Now = func() time.Time { return now }
		}

		ind, err := aggregator.IndicatorsForCompany(commandContext(cmd), cfg, period, custom)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			return writeJSON(out, ind)
		}

		fmt.Fprintln(out, "INDICATORS")
		fmt.Fprintln(out, strings.Repeat("=", 40))
		fmt.Fprintf(out, "Client:              %s\n", cfg.Client.Name)
		fmt.Fprintf(out, "Period:              %s (%s to %s)\n", ind.Period,
			ind.Range.Start.Format("2006-01-02"), ind.Range.End.Format("2006-01-02"))
		fmt.Fprintf(out, "Total Inflows:       R$ %s\n", ind.TotalInflows.StringFixed(2))
		fmt.Fprintf(out, "Manual Outflows:     R$ %s\n", ind.ManualOutflows.StringFixed(2))
		fmt.Fprintf(out, "Payroll:             R$ %s\n", ind.PeriodPayroll.StringFixed(2))
		fmt.Fprintf(out, "DAS:                 R$ %s\n", ind.DAS.StringFixed(2))
		fmt.Fprintf(out, "Total Outflows:      R$ %s\n", ind.TotalOutflows.StringFixed(2))
		fmt.Fprintf(out, "Net Profit:          R$ %s\n", ind.NetProfit.StringFixed(2))
		fmt.Fprintf(out, "ROI:                 %s%%\n", ind.ROI.StringFixed(2))
		return nil
	},
}

var plannerCmd = &cobra.Command{
	Use:   "planner [company-file]",
	Short: "Project revenue, Simples tax and costs over a month, quarter or year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format, "table", "json"); err != nil {
			return err
		}

		monthFlag, _ := cmd.Flags().GetString("month")
		month, err := parseMonth(monthFlag)
		if err != nil {
			return err
		}
		periodFlag, _ := cmd.Flags().GetString("period")
		period, err := ledger.ParsePlannerPeriod(periodFlag)
		if err != nil {
			return err
		}
		fixed, err := decimalFlag(cmd, "fixed")
		if err != nil {
			return err
		}
		variable, err := decimalFlag(cmd, "variable")
		if err != nil {
			return err
		}

		cfg, engine, err := loadCompany(cmd, args[0])
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("fixed") && cfg.Pricing != nil {
			fixed = cfg.Pricing.FixedCostsMonthly
		}

		summary, err := ledger.NewAggregator(engine).Plan(commandContext(cmd), ledger.PlannerRequest{
			ClientID:             cfg.Client.ID,
			Year:                 month.Year(),
			Month:                month.Month(),
			Period:               period,
			Regime:               cfg.Client.Regime,
			FixedCostsMonthly:    fixed,
			VariableCostsMonthly: variable,
			Transactions:         cfg.Transactions,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			return writeJSON(out, summary)
		}

		fmt.Fprintln(out, "FINANCIAL PLANNER")
		fmt.Fprintln(out, strings.Repeat("=", 40))
		fmt.Fprintf(out, "Horizon:             %s from %s\n", summary.Period, summary.From.Format("2006-01"))
		fmt.Fprintf(out, "RBT12:               R$ %s\n", summary.TrailingRevenue.StringFixed(2))
		fmt.Fprintf(out, "Revenue:             R$ %s\n", summary.Revenue.StringFixed(2))
		fmt.Fprintf(out, "Simples Tax:         R$ %s\n", summary.TotalTaxes.StringFixed(2))
		fmt.Fprintf(out, "Fixed Costs:         R$ %s\n", summary.TotalFixed.StringFixed(2))
		fmt.Fprintf(out, "Variable Costs:      R$ %s\n", summary.TotalVariable.StringFixed(2))
		fmt.Fprintf(out, "Net Profit:          R$ %s\n", summary.NetProfit.StringFixed(2))
		fmt.Fprintf(out, "Margin:              %s%%\n", summary.MarginPct.StringFixed(2))
		return nil
	},
}

func initReportCommands() {
	compareCmd.Flags().String("revenue", "", "Revenue of the period")
	compareCmd.Flags().String("month", "", "Use the company's inflows of this month (YYYY-MM)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	compareCmd.Flags().Bool("apply-factor-r", false, "Let Factor R choose between Anexo III and V")
	compareCmd.MarkFlagsMutuallyExclusive("revenue", "month")
	compareCmd.MarkFlagsOneRequired("revenue", "month")

	efficiencyCmd.Flags().String("month", "", "Only use transactions of this month (YYYY-MM)")
	efficiencyCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	efficiencyCmd.Flags().Bool("apply-factor-r", false, "Let Factor R choose between Anexo III and V")

	indicatorsCmd.Flags().String("period", string(calculation.PayrollMonthly), "daily, weekly, monthly, annual or custom")
	indicatorsCmd.Flags().String("from", "", "Custom period start (YYYY-MM-DD)")
	indicatorsCmd.Flags().String("to", "", "Custom period end (YYYY-MM-DD), inclusive")
	indicatorsCmd.Flags().String("now", "", "Reference date (YYYY-MM-DD), today by default")
	indicatorsCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	plannerCmd.Flags().String("month", "", "First month of the horizon (YYYY-MM)")
	plannerCmd.Flags().String("period", string(ledger.PlannerMonthly), "monthly, quarterly or annual")
	plannerCmd.Flags().String("fixed", "", "Monthly fixed costs (defaults to the pricing block)")
	plannerCmd.Flags().String("variable", "", "Monthly variable costs")
	plannerCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	_ = plannerCmd.MarkFlagRequired("month")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(efficiencyCmd)
	rootCmd.AddCommand(indicatorsCmd)
	rootCmd.AddCommand(plannerCmd)
}
