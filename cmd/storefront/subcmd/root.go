// Package subcmd holds the storefront CLI command tree.
package subcmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vjzest/architect-storefront/internal/app"
	"github.com/vjzest/architect-storefront/internal/config"
	"github.com/vjzest/architect-storefront/pkg/logger"
)

var configPath string

// RootCmd is the storefront command tree root.
var RootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Client for the architect storefront API",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
}

// newApp builds and starts the application for one command invocation. The
// returned stop function must be called before the command exits.
func newApp(cmd *cobra.Command) (*app.Application, func(), error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
		if err == nil {
			cfg.ApplyEnv()
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewDefault("storefront")
	a, err := app.New(cfg, log, app.Options{})
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.Start(ctx); err != nil {
		return nil, nil, err
	}
	stop := func() { _ = a.Stop(context.Background()) }
	return a, stop, nil
}

// table starts a tab-aligned writer on stdout.
func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
