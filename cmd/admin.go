package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DerickDutraDev/store-GBS/db"
	"github.com/DerickDutraDev/store-GBS/store"
)

var revokeAdmin bool

var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin <email>",
	Short: "Grant or revoke the admin role for an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		gdb, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, log.Named("gorm"))
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		profile, err := store.NewProfileStore(gdb).SetAdmin(cmd.Context(), args[0], !revokeAdmin)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no account registered with %s", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s admin=%t\n", profile.Email, profile.IsAdmin)
		return nil
	},
}

func init() {
	grantAdminCmd.Flags().BoolVar(&revokeAdmin, "revoke", false, "remove the admin role instead of granting it")
}
