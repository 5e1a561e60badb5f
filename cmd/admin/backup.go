package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khoahotran/personal-card/adapters/media_storage"
	backupUC "github.com/khoahotran/personal-card/internal/application/usecase/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Dump the database with pg_dump and upload it to the object store",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			return err
		}

		out, err := backupUC.NewBackupUseCase(backupUC.PgDump{DSN: cfg.DB.DSN}, store, appLogger).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", out.URL, out.Bytes)
		return nil
	},
}
