package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DerickDutraDev/store-GBS/storage"
)

var sweepImagesCmd = &cobra.Command{
	Use:   "sweep-images",
	Short: "Remove uploaded images no product references",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		svc, err := openServices(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer svc.Close()

		rep, err := storage.NewSweeper(svc.bucket, svc.products, cfg.SweepGrace, log).Sweep(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d kept=%d removed=%d failed=%d\n",
			rep.Scanned, rep.Kept, rep.Removed, rep.Failed)
		return nil
	},
}
