package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeops/registry/internal/httpapi"
	"github.com/codeops/registry/pkg/config"
	"github.com/codeops/registry/pkg/log"
	"github.com/codeops/registry/pkg/metrics"
	"github.com/codeops/registry/pkg/registry"
	"github.com/codeops/registry/pkg/store"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "registryd",
	Short: "registryd serves the team service registry's HTTP API",
	Long: `registryd is the single-binary control plane for a team's service
registry: dependency graph, port and route namespaces, generated
configuration artifacts, solution/workstation composition, and health
aggregation, served over HTTP.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"registryd version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	cobra.OnInitialize(initLogging)

	serveCmd.Flags().String("addr", ":8088", "HTTP listen address for the registry API")
	serveCmd.Flags().String("metrics-addr", "127.0.0.1:9090", "HTTP listen address for /metrics")
	serveCmd.Flags().String("data-dir", "./data", "Directory holding the BoltDB state file")

	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")
	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the registry HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		metrics.SetVersion(Version)
		metrics.RegisterComponent("store", false, "opening")

		s, err := store.NewBoltStore(dataDir)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer s.Close()
		metrics.RegisterComponent("store", true, "open")
		metrics.RegisterComponent("httpapi", false, "starting")

		reg := registry.New(s, config.DefaultLimits())
		verifier := httpapi.NewStubVerifier()
		router := httpapi.NewRouter(reg, verifier)

		collector := metrics.NewCollector(s)
		collector.Start()
		defer collector.Stop()

		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			mux.Handle("/health", metrics.HealthHandler())
			mux.Handle("/ready", metrics.ReadyHandler())
			mux.Handle("/live", metrics.LivenessHandler())
			log.Info(fmt.Sprintf("metrics endpoint listening on http://%s/metrics", metricsAddr))
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Errorf("metrics server stopped", err)
			}
		}()
		metrics.RegisterComponent("httpapi", true, "ready")

		server := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info(fmt.Sprintf("registry API listening on %s", addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("API server error: %w", err)
		case <-sigCh:
			log.Info("shutting down")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}
