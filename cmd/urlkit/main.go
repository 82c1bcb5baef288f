package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"urlkit/config"
	"urlkit/location"
	"urlkit/logging"
	"urlkit/urlutil"
)

// app carries the state every subcommand shares once the root has run.
type app struct {
	configPath string
	href       string
	userAgent  string
	verbose    bool

	cfg    *config.Config
	logger *logging.ZapLogger
	src    *location.Memory
	util   *urlutil.Util
}

var errNoHref = errors.New("no current location: pass --href or set href in the config file")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "urlkit",
		Short: "Inspect and build URLs relative to a current location",
		Long: `urlkit reads query parameters, paths and fragments from a current
location, builds new URLs against it, and tells internal links from
external ones.

The current location comes from --href or the "href" key of the
config file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&a.href, "href", "", "current location (overrides the config file)")
	flags.StringVar(&a.userAgent, "user-agent", "", "user agent for robots.txt checks (overrides the config file)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		paramsCmd(a),
		getCmd(a),
		hasCmd(a),
		addCmd(a),
		removeCmd(a),
		pathCmd(a),
		hashCmd(a),
		setHashCmd(a),
		originCmd(a),
		hostCmd(a),
		externalCmd(a),
		buildCmd(a),
		linksCmd(a),
		configCmd(a),
	)

	return rootCmd
}

// builtin reports whether cmd is one of cobra's own help or completion commands.
func builtin(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Name() == "completion" {
			return true
		}
	}
	return false
}

// loadConfig reads the config file and applies the flag overrides.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.href != "" {
		cfg.Href = a.href
	}
	if a.userAgent != "" {
		cfg.UserAgent = a.userAgent
	}
	if a.verbose {
		cfg.Log.Level = string(logging.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if builtin(cmd) {
		return nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logger, err := logging.NewZap(level, cfg.Log.Development)
	if err != nil {
		return err
	}
	a.logger = logger

	if cfg.Href == "" {
		return errNoHref
	}
	src, err := location.NewMemoryFromHref(cfg.Href)
	if err != nil {
		return err
	}
	a.src = src
	a.util = urlutil.New(src, urlutil.WithLogger(logger))
	logger.Debug("Current location is %s", cfg.Href)
	return nil
}
