// Command portalctl runs maintenance jobs against the portal database:
// schema migration, the alumni sweep and gateway payment reconciliation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"umrahportal/internal/config"
	"umrahportal/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.Load()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.AppConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Maintenance jobs for the umrah portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			l := logger.Init(cfg.AppEnv, cfg.LogLevel, cfg.Location())
			cmd.SetContext(l.WithContext(cmd.Context()))
		},
	}

	root.AddCommand(migrateCmd(cfg))
	root.AddCommand(sweepAlumniCmd(cfg))
	root.AddCommand(reconcilePaymentsCmd(cfg))

	return root
}
