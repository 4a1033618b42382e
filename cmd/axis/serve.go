package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/axisacco/AXIS-ACCOUTING/internal/api"
	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/axisacco/AXIS-ACCOUTING/internal/config"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: "Serves the calculators over HTTP. Settings come from the environment " +
		"(PORT, ALLOWED_ORIGINS, LOG_LEVEL, GIN_MODE, REGULATORY_FILE, READ_HEADER_TIMEOUT, " +
		"SHUTDOWN_TIMEOUT), optionally loaded from --env-file.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		envFiles, _ := cmd.Flags().GetStringSlice("env-file")
		sc := config.LoadServerConfig(envFiles...)
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			sc.LogLevel = config.ParseLevel("debug")
		}

		logger := config.InitLogger(sc.LogLevel)
		gin.SetMode(sc.GinMode)

		engine, err := config.NewEngine(&domain.Configuration{RegulatoryFile: sc.RegulatoryFile}, config.NewSlogAdapter(logger))
		if err != nil {
			return err
		}

		handler := api.NewHandler(engine, breakeven.DefaultSolverOptions(), logger)
		srv := &http.Server{
			Addr:              sc.Addr(),
			Handler:           api.NewRouter(handler, sc.AllowedOrigins),
			ReadHeaderTimeout: sc.ReadHeaderTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server starting", "addr", srv.Addr, "origins", sc.AllowedOrigins)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err, ok := <-errCh:
			if ok {
				logger.Error("server failed", "error", err)
				return err
			}
			return nil
		case <-quit:
		}

		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("forced shutdown", "error", err)
			return err
		}
		logger.Info("server stopped")
		return nil
	},
}

func initServeCommand() {
	serveCmd.Flags().StringSlice("env-file", nil, "Dotenv files to load before reading the environment")

	rootCmd.AddCommand(serveCmd)
}
