package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/discochess/netprobe"
	"github.com/discochess/netprobe/internal/backend"
	_ "github.com/discochess/netprobe/internal/backend/mock"
	"github.com/discochess/netprobe/internal/batcher"
	"github.com/discochess/netprobe/internal/encoder"
	"github.com/discochess/netprobe/internal/stats"
	statslogger "github.com/discochess/netprobe/internal/stats/logger"
	statsprom "github.com/discochess/netprobe/internal/stats/prometheus"
	"github.com/discochess/netprobe/internal/weights"
)

var (
	backendName string
	policyMode  string
	threshold   float64
	historyMode string
	inputMode   string
	noTrim      bool
	metricsAddr string
	ortLib      string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "netprobe <network> [batch-size]",
	Short: "Batched policy/value network evaluation of chess positions",
	Long: `Netprobe reads FEN strings from stdin, one per line, evaluates them in
fixed-size batches with a policy/value network, and writes one report per
position to stdout followed by a BATCH_DONE marker per batch.

Blank lines are skipped and never count toward a batch. A partial batch at
end of input is still evaluated. Diagnostics go to stderr; stdout carries
only the machine-readable report.

Examples:
  # Evaluate positions with the default batch size of 4
  netprobe net.onnx < positions.txt

  # Larger batches, raw top-set output instead of legal filtering
  netprobe net.onnx.gz 256 --policy-mode top`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEval,

	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&backendName, "backend", "", "backend to use (default: first available)")
	rootCmd.Flags().StringVar(&policyMode, "policy-mode", "legal", "policy output: legal (logits for legal moves) or top (thresholded full scan)")
	rootCmd.Flags().Float64Var(&threshold, "threshold", netprobe.DefaultThreshold, "probability cutoff for --policy-mode top")
	rootCmd.Flags().StringVar(&historyMode, "history", "filled", "history planes: filled or none")
	rootCmd.Flags().StringVar(&inputMode, "input-mode", "streaming", "input strategy: streaming or read-all")
	rootCmd.Flags().BoolVar(&noTrim, "no-trim", false, "disable whitespace trimming of input lines")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9100)")
	rootCmd.Flags().StringVar(&ortLib, "ort-lib", "", "path to the onnxruntime shared library")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose diagnostics")
}

// loadConfig merges flags with NETPROBE_* environment variables.
// Flags win over the environment.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("NETPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{
		"backend", "policy-mode", "threshold", "history",
		"input-mode", "no-trim", "metrics-addr", "ort-lib",
	} {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return v, nil
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func runEval(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	networkPath := args[0]
	batchSize := netprobe.DefaultBatchSize
	if len(args) == 2 {
		batchSize, err = strconv.Atoi(args[1])
		if err != nil || batchSize < 1 {
			return fmt.Errorf("invalid batch size %q", args[1])
		}
	}

	opts, err := pipelineOptions(v)
	if err != nil {
		return err
	}

	collector, err := newCollector(v, logger)
	if err != nil {
		return err
	}

	logger.Info("loading network", zap.String("path", networkPath))
	modelPath, cleanup, err := weights.Stage(networkPath)
	if err != nil {
		return err
	}
	defer cleanup()

	available := backend.Backends()
	if len(available) == 0 {
		return backend.ErrNoBackend
	}
	name := v.GetString("backend")
	if name == "" {
		name = available[0]
		logger.Info("auto-selected backend", zap.String("backend", name))
	}

	net, err := backend.Create(name, backend.Config{
		ModelPath:   modelPath,
		LibraryPath: v.GetString("ort-lib"),
		Logger:      logger.Named(name),
	})
	if err != nil {
		return fmt.Errorf("creating backend %s: %w", name, err)
	}
	defer net.Close()

	logger.Info("network created",
		zap.String("backend", name),
		zap.Int("batchSize", batchSize),
	)

	pipeline, err := netprobe.New(append(opts,
		netprobe.WithNetwork(net),
		netprobe.WithBatchSize(batchSize),
		netprobe.WithStats(collector),
		netprobe.WithLogger(logger.Named("pipeline")),
	)...)
	if err != nil {
		return err
	}

	return pipeline.Run(context.Background(), os.Stdin, os.Stdout)
}

// pipelineOptions translates the merged configuration into pipeline
// options, rejecting unknown mode names up front.
func pipelineOptions(v *viper.Viper) ([]netprobe.Option, error) {
	var opts []netprobe.Option

	switch mode := v.GetString("policy-mode"); mode {
	case "legal":
		opts = append(opts, netprobe.WithPolicyMode(netprobe.PolicyLegal))
	case "top":
		opts = append(opts,
			netprobe.WithPolicyMode(netprobe.PolicyTopSet),
			netprobe.WithThreshold(float32(v.GetFloat64("threshold"))),
		)
	default:
		return nil, fmt.Errorf("unknown policy mode %q", mode)
	}

	switch mode := v.GetString("history"); mode {
	case "filled":
		opts = append(opts, netprobe.WithHistoryMode(encoder.HistoryFilled))
	case "none":
		opts = append(opts, netprobe.WithHistoryMode(encoder.HistoryNone))
	default:
		return nil, fmt.Errorf("unknown history mode %q", mode)
	}

	switch mode := v.GetString("input-mode"); mode {
	case "streaming":
		opts = append(opts, netprobe.WithInputMode(batcher.Streaming))
	case "read-all":
		opts = append(opts, netprobe.WithInputMode(batcher.ReadAll))
	default:
		return nil, fmt.Errorf("unknown input mode %q", mode)
	}

	if v.GetBool("no-trim") {
		opts = append(opts, netprobe.WithBlankPolicy(batcher.RawBlank))
	}

	return opts, nil
}

// newCollector picks the stats backend: prometheus when an address is
// configured, zap at verbose, otherwise no-op.
func newCollector(v *viper.Viper, logger *zap.Logger) (stats.Collector, error) {
	if addr := v.GetString("metrics-addr"); addr != "" {
		server := &http.Server{Addr: addr, Handler: promhttp.Handler()}
		go func() {
			logger.Info("serving metrics", zap.String("addr", addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		return statsprom.New(nil), nil
	}
	if verbose {
		return statslogger.New(logger.Named("stats")), nil
	}
	return stats.NewNoop(), nil
}
