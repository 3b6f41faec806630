package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"umrahportal/internal/bootstrap"
	"umrahportal/internal/config"
	"umrahportal/internal/database"
	"umrahportal/internal/database/migration"
	"umrahportal/internal/worker"
)

func migrateCmd(cfg *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := database.NewPostgres(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			return migration.EnsureMigrated(ctx, db, *log.Ctx(ctx))
		},
	}
}

func sweepAlumniCmd(cfg *config.AppConfig) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "sweep-alumni",
		Short: "Upgrade every jamaah whose itinerary is completed to alumni",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg := prometheus.NewRegistry()
			portal, err := bootstrap.New(ctx, cfg, reg)
			if err != nil {
				return err
			}
			defer portal.Close()

			sweeper, err := worker.NewAlumniSweeper(portal.Repos.Users, portal.Services.Upgrades, cfg.Worker, reg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				sweeper.WithWorkers(workers)
			}

			res, err := sweeper.Run(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "checked=%d upgraded=%d failed=%d\n", res.Checked, res.Upgraded, res.Failed)
			if err != nil {
				return err
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d checks failed", res.Failed, res.Checked)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", cfg.Worker.SweepWorkers, "concurrent upgrade checks")

	return cmd
}

func reconcilePaymentsCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		interval time.Duration
		batch    int
	)

	cmd := &cobra.Command{
		Use:   "reconcile-payments",
		Short: "Poll the payment gateway for pending gateway payments",
		Long: `Poll the payment gateway for pending gateway payments and apply
their final status.

Without --interval a single pass runs. With --interval the command keeps
polling until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			portal, err := bootstrap.New(ctx, cfg, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer portal.Close()

			r := worker.NewPaymentReconciler(portal.Services.Payments, batch)
			if interval > 0 {
				if err := r.Run(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}
			res, err := r.RunOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked=%d updated=%d failed=%d\n", res.Checked, res.Updated, res.Failed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "poll continuously at this interval (e.g. 5m)")
	cmd.Flags().IntVar(&batch, "batch", cfg.Worker.ReconcileBatch, "pending payments per pass")

	return cmd
}
