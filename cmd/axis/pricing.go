package main

import (
	"errors"
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/axisacco/AXIS-ACCOUTING/internal/config"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/spf13/cobra"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing [company-file]",
	Short: "Compute the minimum viable price of the company's cost structure",
	Long: "Reads the pricing block of a company file and reports the minimum viable " +
		"price, the viability of the proposed price and the detail of one sale. " +
		"--price overrides the proposed price; --curve adds the break-even curve and " +
		"volume; --compare-regimes ranks the minimum price across every annex.",
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
		if cfg.Pricing == nil {
			return fmt.Errorf("%s has no pricing block", args[0])
		}

		req := breakeven.PricingRequest{
			ClientName:      cfg.Client.Name,
			Activity:        cfg.Client.Activity,
			Regime:          cfg.Client.Regime,
			TrailingRevenue: cfg.Client.AnnualRevenue,
			Payroll12:       cfg.Client.Payroll12,
			Costs:           *cfg.Pricing,
		}
		req.ApplyFactorR, _ = cmd.Flags().GetBool("apply-factor-r")
		if cmd.Flags().Changed("price") {
			price, err := decimalFlag(cmd, "price")
			if err != nil {
				return err
			}
			req.Costs.ProposedPrice = price
		}
		if regimeFlag, _ := cmd.Flags().GetString("regime"); regimeFlag != "" {
			req.Regime, err = domain.ParseRegime(regimeFlag)
			if err != nil {
				return err
			}
		}

		ctx := commandContext(cmd)
		solver := breakeven.NewSolver(engine, config.SolverOptions(cfg))
		out := cmd.OutOrStdout()

		if compareRegimes, _ := cmd.Flags().GetBool("compare-regimes"); compareRegimes {
			comparison, err := solver.CompareRegimes(ctx, req)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(out, comparison)
			}
			fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatRegimeComparison(comparison))
			return nil
		}

		analysis, err := solver.Analyze(ctx, req)
		if err != nil {
			return err
		}

		withCurve, _ := cmd.Flags().GetBool("curve")
		result := struct {
			Analysis        *breakeven.PricingAnalysis `json:"analysis"`
			Curve           []breakeven.CurvePoint     `json:"curve,omitempty"`
			BreakEvenVolume string                     `json:"break_even_volume,omitempty"`
		}{Analysis: analysis}

		if withCurve {
			result.Curve, err = solver.BreakEvenCurve(ctx, analysis)
			if err != nil && !errors.Is(err, breakeven.ErrInfeasiblePrice) {
				return err
			}
			if volume, err := solver.BreakEvenVolume(analysis); err == nil {
				result.BreakEvenVolume = volume.StringFixed(2)
			}
		}

		if format == "json" {
			return writeJSON(out, result)
		}

		tf := &breakeven.TableFormatter{}
		fmt.Fprint(out, tf.Format(analysis))
		if len(result.Curve) > 0 {
			fmt.Fprint(out, tf.FormatCurve(result.Curve))
		}
		if result.BreakEvenVolume != "" {
			fmt.Fprintf(out, "Break-even Volume:   %s units/month\n", result.BreakEvenVolume)
		}
		return nil
	},
}

func initPricingCommand() {
	pricingCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	pricingCmd.Flags().String("price", "", "Proposed price overriding the company file")
	pricingCmd.Flags().String("regime", "", "Annex overriding the client's regime")
	pricingCmd.Flags().Bool("apply-factor-r", false, "Let Factor R choose between Anexo III and V")
	pricingCmd.Flags().Bool("curve", false, "Include the break-even curve and volume")
	pricingCmd.Flags().Bool("compare-regimes", false, "Rank the minimum price across every annex")

	rootCmd.AddCommand(pricingCmd)
}
