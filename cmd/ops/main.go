package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickpersak/idle-rpg/internal/database"
	"github.com/rickpersak/idle-rpg/internal/ops"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "idlerpg-ops",
		Short:         "Operational tooling for the idle RPG backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBackupCmd(), newRestoreCmd(), newSlotsCmd())
	return root
}

func newBackupCmd() *cobra.Command {
	var dataDir, out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory to a .tar.gz",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = fmt.Sprintf("idlerpg-backup-%s.tar.gz", time.Now().UTC().Format("20060102-150405"))
			}
			if err := ops.BackupDataDir(dataDir, out); err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "path to data directory")
	cmd.Flags().StringVar(&out, "out", "", "output archive path (.tar.gz)")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	var archive, target string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a backup archive into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive == "" {
				return fmt.Errorf("--archive is required")
			}
			if err := ops.RestoreDataDir(archive, target); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "restored into", target)
			return nil
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "backup archive to restore")
	cmd.Flags().StringVar(&target, "target", "data", "directory to restore into")
	return cmd
}

func newSlotsCmd() *cobra.Command {
	var dataDir, dbPath, userID string
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Inspect save slots stored in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = filepath.Join(dataDir, "saves.db")
			}
			ctx := context.Background()
			db, err := database.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if userID == "" {
				users, err := ops.ListUsers(ctx, db)
				if err != nil {
					return err
				}
				if len(users) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no save slots")
					return nil
				}
				for _, u := range users {
					fmt.Fprintln(cmd.OutOrStdout(), u)
				}
				return nil
			}

			slots, err := ops.ListSlots(ctx, db, userID)
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no save slots for", userID)
				return nil
			}
			for _, s := range slots {
				marker := " "
				if s.LastSlot {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %-20s %s (%d bytes)\n",
					marker, s.Key, s.SaveName, s.SavedAt.UTC().Format(time.RFC3339), s.Bytes)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "path to data directory")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to saves database (defaults to <data-dir>/saves.db)")
	cmd.Flags().StringVar(&userID, "user", "", "user id to inspect (omit to list users)")
	return cmd
}
