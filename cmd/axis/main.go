package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/config"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "axis %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "axis",
	Short: "Simples Nacional and pricing calculator CLI",
	Long: "Tax and pricing calculators for small Brazilian companies: Simples Nacional " +
		"(Anexos I to V with Factor R), Lucro Presumido, payroll provisions, minimum " +
		"viable price and break-even analysis, plus the HTTP API behind the portal.",
	SilenceUsage: true,
}

// cliLogger writes JSON logs to stderr; --debug lowers the level to debug
func cliLogger(cmd *cobra.Command) calculation.Logger {
	level := slog.LevelWarn
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		level = slog.LevelDebug
	}
	return config.NewSlogAdapter(config.NewLogger(cmd.ErrOrStderr(), level))
}

// loadCompany parses a company file and builds an engine honoring its
// regulatory override
func loadCompany(cmd *cobra.Command, path string) (*domain.Configuration, *calculation.CalculationEngine, error) {
	logger := cliLogger(cmd)

	parser := config.NewInputParser()
	parser.SetLogger(logger)
	cfg, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}

	engine, err := config.NewEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, engine, nil
}

// newEngine builds an engine for flag-driven commands, reading --regulatory-config when set
func newEngine(cmd *cobra.Command) (*calculation.CalculationEngine, error) {
	regulatoryFile, _ := cmd.Flags().GetString("regulatory-config")
	return config.NewEngine(&domain.Configuration{RegulatoryFile: regulatoryFile}, cliLogger(cmd))
}

// decimalFlag reads a string flag as a decimal. Unset flags are zero.
func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	s, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, s, err)
	}
	return v, nil
}

// parseMonth reads a YYYY-MM flag value
func parseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return t, nil
}

// checkFormat rejects output formats a command does not support
func checkFormat(format string, supported ...string) error {
	for _, s := range supported {
		if format == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (use %s)", format, strings.Join(supported, ", "))
}

var validateCmd = &cobra.Command{
	Use:   "validate [company-file]",
	Short: "Validate a company file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		cfg, _, err := loadCompany(cmd, inputFile)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Company file %s is valid\n", inputFile)
		for _, w := range config.NewInputParser().Warnings(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")

	initTaxCommands()
	initPricingCommand()
	initReportCommands()
	initServeCommand()

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
