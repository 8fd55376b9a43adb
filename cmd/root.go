package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sellerkit/gomws/config"
	"github.com/sellerkit/gomws/mws"
)

var (
	cfgFile   string
	storeName string
	cfg       *config.Config
	logger    zerolog.Logger
	client    *mws.Client

	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build metadata shown by --version and used by
// the selfupdate command.
func SetVersion(v, t string) {
	version = v
	buildTime = t
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, t)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gomws",
	Short: "A command-line client for the Amazon MWS API",
	Long: `gomws is a CLI around the gomws client library for Amazon Marketplace
Web Services. It can check per-section service status, list and filter
orders, and inspect marketplace participations for a configured store.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "store name from config (default is the 'default' store)")
}

// initializeApp initializes the configuration and the MWS client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	storeCfg, err := cfg.Store(storeName)
	if err != nil {
		return err
	}

	store := mws.Store{
		SellerID:      storeCfg.SellerID,
		MarketplaceID: storeCfg.MarketplaceID,
		AccessKeyID:   storeCfg.AccessKeyID,
		SecretKey:     storeCfg.SecretKey,
		AuthToken:     storeCfg.AuthToken,
		Endpoint:      storeCfg.Endpoint,
	}

	var opts []mws.Option
	if cfg.Mock.Enabled {
		mock := mws.NewMockTransport(os.DirFS(cfg.Mock.Dir), cfg.Mock.Files...)
		opts = append(opts, mws.WithMock(mock))
		logger.Info().Str("dir", cfg.Mock.Dir).Int("files", len(cfg.Mock.Files)).Msg("Mock mode enabled")
	}

	client, err = mws.NewClient(store, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create MWS client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Console output only makes sense on a terminal
	if cfg.Format == "json" || !isatty.IsTerminal(os.Stderr.Fd()) {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
