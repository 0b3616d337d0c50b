package main

import (
	"context"
	"fmt"

	"voxcredit/internal/config"
	"voxcredit/internal/logger"
	"voxcredit/internal/repository"
	"voxcredit/internal/repository/db"
	"voxcredit/internal/service"

	"github.com/spf13/cobra"
)

func promoteCmd() *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "promote [username]",
		Short: "Grant (or with --revoke, remove) admin rights for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level)

			conn, err := db.InitDB(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			accounts := service.NewAccountService(repository.NewRepository(conn).Users)
			if err := accounts.SetAdmin(context.Background(), args[0], !revoke); err != nil {
				return fmt.Errorf("update %q: %w", args[0], err)
			}
			log.Infow("admin flag updated", "username", args[0], "is_admin", !revoke)
			return nil
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "remove admin rights instead of granting them")
	return cmd
}
