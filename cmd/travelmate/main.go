package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/travelmate/ai/configloader"
	"github.com/hrygo/travelmate/ai/metrics"
	"github.com/hrygo/travelmate/ai/routing"
	"github.com/hrygo/travelmate/internal/profile"
	"github.com/hrygo/travelmate/internal/version"
	"github.com/hrygo/travelmate/server"
)

var (
	rootCmd = &cobra.Command{
		Use:   "travelmate",
		Short: `A conversational travel assistant. Plan trips, track expenses and find places nearby.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isRunningAsSystemdService() {
				// Missing .env is fine.
				_ = godotenv.Load()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.StringFull())
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("port", 28090)

	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	flags.String("addr", "", "address of server")
	flags.Int("port", 28090, "port of server")
	flags.String("user", "", "user id of the chat session")
	flags.String("intents-dir", "", "directory holding an intents.yaml override")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Int("max-history", 0, "messages kept per session")
	flags.Float64("rate-limit", 0, "API requests per second per client")
	flags.Duration("session-ttl", 0, "idle time before an API session expires")

	for _, name := range []string{"mode", "addr", "port", "user", "intents-dir", "log-level", "max-history", "rate-limit", "session-ttl"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("travelmate")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, chatCmd, detectCmd, versionCmd)
}

// loadProfile assembles the profile from flags, environment and defaults, then installs the logger.
func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:       viper.GetString("mode"),
		Addr:       viper.GetString("addr"),
		Port:       viper.GetInt("port"),
		UserID:     viper.GetString("user"),
		IntentsDir: viper.GetString("intents-dir"),
		LogLevel:   viper.GetString("log-level"),
		MaxHistory: viper.GetInt("max-history"),
		RateLimit:  viper.GetFloat64("rate-limit"),
		SessionTTL: viper.GetDuration("session-ttl"),
		Version:    version.GetCurrentVersion(viper.GetString("mode")),
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	setupLogger(p)
	return p, nil
}

func setupLogger(p *profile.Profile) {
	level, _ := p.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if p.IsDev() {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// newDetector builds the keyword detector, applying the intents override when configured.
func newDetector(p *profile.Profile) (*routing.Detector, error) {
	if p.IntentsDir == "" {
		return routing.NewDetector(nil), nil
	}

	registry, err := routing.LoadRegistry(configloader.NewLoader(p.IntentsDir, routing.EmbeddedRules()))
	if err != nil {
		return nil, errors.Wrapf(err, "load intents from %s", p.IntentsDir)
	}
	slog.Info("loaded intent rules", slog.String("dir", p.IntentsDir))
	return routing.NewDetector(registry), nil
}

func runServe(cmd *cobra.Command) error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	detector, err := newDetector(p)
	if err != nil {
		return err
	}

	// SIGINT and SIGTERM trigger a graceful shutdown.
	ctx, stop := signal.NotifyContext(cmd.Context(), terminationSignals...)
	defer stop()

	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())
	s, err := server.NewServer(ctx, p, detector, exporter)
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}

	printGreetings(cmd.OutOrStdout(), p)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.Start(gctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "failed to start server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.Shutdown(context.Background())
		return nil
	})
	return g.Wait()
}

func printGreetings(w io.Writer, p *profile.Profile) {
	fmt.Fprintf(w, "TravelMate %s started successfully!\n", p.Version)

	if p.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
	}
	fmt.Fprintf(w, "Build: %s\n", version.String())
	fmt.Fprintf(w, "Mode: %s\n", p.Mode)

	if len(p.Addr) == 0 {
		fmt.Fprintf(w, "Server running on port %d\n", p.Port)
		fmt.Fprintf(w, "API available at: http://localhost:%d/api/v1\n", p.Port)
	} else {
		fmt.Fprintf(w, "Server running on %s:%d\n", p.Addr, p.Port)
		fmt.Fprintf(w, "API available at: http://%s:%d/api/v1\n", p.Addr, p.Port)
	}
	fmt.Fprintln(w)
}

// isRunningAsSystemdService detects if the process is running under systemd
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
