// Package bootstrap resolves the configuration, logger and service client
// shared by the shopgpt commands.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/papercomputeco/shopgpt/pkg/config"
	"github.com/papercomputeco/shopgpt/pkg/logger"
	"github.com/papercomputeco/shopgpt/pkg/transport"
)

// ConfigFlag names the persistent flag holding the config file path.
const ConfigFlag = "config"

// Env is what a command needs to talk to the assistant service.
type Env struct {
	Config config.Config
	Logger *zap.Logger
	Client *transport.Client

	closeLog func() error
}

// LogTarget selects where an Env logs.
type LogTarget int

const (
	// LogStderr writes logs to the command's error stream.
	LogStderr LogTarget = iota

	// LogFile writes logs to the configured log file, for commands that own
	// the terminal.
	LogFile
)

// AddFlags registers the flags every command shares.
func AddFlags(flags *pflag.FlagSet) {
	flags.String(ConfigFlag, "", "Path to the config file (default ~/.shopgpt/config.toml)")
	flags.String("base-url", "", "Assistant service URL (default "+config.DefaultBaseURL+")")
	flags.Duration("timeout", 0, "Timeout for one exchange, 0 for none")
	flags.String("log-file", "", "Log file for the chat screen (default ~/.shopgpt/shopgpt.log)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("no-color", false, "Disable colors")
}

// Load resolves configuration from cmd's flags and builds the logger and
// client.
func Load(cmd *cobra.Command, target LogTarget) (*Env, error) {
	path, err := cmd.Flags().GetString(ConfigFlag)
	if err != nil {
		path = ""
	}

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}

	env := &Env{Config: cfg}
	switch target {
	case LogFile:
		l, closeFn, err := logger.NewFileLogger(cfg.Debug, cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("could not set up logging: %w", err)
		}
		env.Logger = l
		env.closeLog = closeFn
	default:
		out := cmd.ErrOrStderr()
		if out == nil {
			out = os.Stderr
		}
		env.Logger = logger.NewLogger(cfg.Debug, out)
	}

	env.Logger.Debug("configuration loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("request_timeout", cfg.RequestTimeout),
		zap.String("source", cfg.Source),
	)

	env.Client = transport.NewClient(transport.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
	}, env.Logger)
	return env, nil
}

// Close flushes the logger.
func (e *Env) Close() error {
	if e.closeLog != nil {
		return e.closeLog()
	}
	_ = e.Logger.Sync()
	return nil
}
