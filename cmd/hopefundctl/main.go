// Command hopefundctl inspects campaign catalogs and seeds MongoDB from them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hopefund/internal/campaign"
	"hopefund/internal/catalog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand.
type options struct {
	catalogPath string
	verbose     bool
	now         func() time.Time
}

func newRootCmd() *cobra.Command {
	opts := &options{now: time.Now}

	root := &cobra.Command{
		Use:           "hopefundctl",
		Short:         "Manage HopeFund campaign catalogs",
		Long:          "hopefundctl lists, checks and seeds the campaigns the HopeFund server displays.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "YAML catalog file (default: built-in demo campaigns)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newListCmd(opts),
		newCheckCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// campaigns loads the catalog named by --catalog, or the demo set.
func (o *options) campaigns() ([]campaign.Campaign, error) {
	if o.catalogPath == "" {
		return catalog.Demo(o.now())
	}
	data, err := os.ReadFile(o.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Parse(data, o.now())
}
