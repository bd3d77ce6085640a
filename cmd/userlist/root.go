package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/dusk-indust/userlist/internal/config"
	"github.com/dusk-indust/userlist/internal/logging"
	"github.com/dusk-indust/userlist/internal/users"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	ConfigPath string
	BaseURL    string
	Timeout    time.Duration
	LogLevel   string
	UserAgent  string
	Verbose    bool
}

// app is the state a subcommand runs against, built once per invocation.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	source *users.HTTPClient
	list   *users.ListClient

	feed sync.WaitGroup
}

// newRootCmd builds the command tree. The returned cleanup func must run
// after Execute on every path, success or error: cobra skips post-run hooks
// when a command fails.
func newRootCmd() (*cobra.Command, func()) {
	var flags rootFlags
	a := &app{}

	root := &cobra.Command{
		Use:           "userlist",
		Short:         "Browse and edit users from the dummyjson demo API",
		Long:          "userlist fetches and searches users from a remote API and keeps a local, editable copy of the result.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "path to a userlist.yml config file (default: ./userlist.yml if present)")
	pf.StringVar(&flags.BaseURL, "base-url", "", "API root (default "+config.DefaultBaseURL+")")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "HTTP request timeout (default 30s)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.UserAgent, "user-agent", "", "User-Agent header sent to the API")
	pf.BoolVar(&flags.Verbose, "verbose", false, "print collection change events to stderr")

	root.AddCommand(
		newListCmd(a),
		newSearchCmd(a),
		newExportCmd(a),
		newServeMCPCmd(a),
	)
	return root, a.close
}

// init resolves config (file, then flag overrides) and builds the client.
func (a *app) init(cmd *cobra.Command, flags rootFlags) error {
	var (
		cfg *config.Config
		err error
	)
	if flags.ConfigPath != "" {
		cfg, err = config.LoadFile(flags.ConfigPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	pf := cmd.Flags()
	if pf.Changed("base-url") {
		cfg.BaseURL = flags.BaseURL
	}
	if pf.Changed("timeout") {
		cfg.Timeout = flags.Timeout
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if pf.Changed("user-agent") {
		cfg.UserAgent = flags.UserAgent
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "userlist/" + version
	}

	a.cfg = cfg
	a.logger = logger
	a.source = users.NewHTTPClient(
		users.WithBaseURL(cfg.BaseURL),
		users.WithTimeout(cfg.Timeout),
		users.WithUserAgent(userAgent),
	)
	a.list = users.NewListClient(a.source, users.WithLogger(logger))

	if flags.Verbose {
		events, _ := a.list.Subscribe()
		out := cmd.ErrOrStderr()
		a.feed.Add(1)
		go func() {
			defer a.feed.Done()
			for ev := range events {
				fmt.Fprintln(out, users.FormatEvent(ev))
			}
		}()
	}

	logger.Debug("client configured",
		zap.String("baseURL", cfg.BaseURL),
		zap.Duration("timeout", cfg.Timeout))
	return nil
}

// close flushes the event feed and the logger. It is safe to call when init
// never ran.
func (a *app) close() {
	if a.list != nil {
		a.list.Close()
	}
	a.feed.Wait()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
