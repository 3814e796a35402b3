package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"monday-export/internal/config"
	"monday-export/internal/models"
	"monday-export/internal/store"
)

func newHistoryCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		boardID int64
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := historyDBPath(cfg)
			if err != nil {
				return err
			}
			if boardID < 0 {
				return &config.ConfigError{Field: "board_id", Reason: "--board-id must be a positive integer"}
			}

			st, err := store.Open(path)
			if err != nil {
				return err
			}
			defer st.Close()

			filter := store.ExportFilter{Limit: limit}
			if boardID > 0 {
				filter.BoardID = strconv.FormatInt(boardID, 10)
			}
			records, err := st.ListExports(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if records == nil {
				records = []models.ExportRecord{}
			}

			if *jsonOutput {
				return writeJSON(records)
			}
			return writeHistory(records)
		},
	}

	cmd.Flags().Int64VarP(&boardID, "board-id", "b", 0, "only show exports of this board")
	cmd.Flags().IntVar(&limit, "limit", store.DefaultListLimit, "maximum number of exports to show")

	cmd.AddCommand(newHistoryMigrateCmd(cfg, jsonOutput))
	return cmd
}

func newHistoryMigrateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect history database schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := historyDBPath(cfg)
			if err != nil {
				return err
			}

			if dryRun {
				plan, err := store.InspectMigrations(path)
				if err != nil {
					return fmt.Errorf("inspect migrations: %w", err)
				}
				if *jsonOutput {
					return writeJSON(plan)
				}
				return writeMigrationPlan(plan)
			}

			st, err := store.Open(path)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer st.Close()

			status, err := st.SchemaStatus()
			if err != nil {
				return err
			}
			if *jsonOutput {
				return writeJSON(status)
			}
			return writePlain("History database at schema version %d.\n", status.CurrentVersion)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show pending migrations without applying")
	return cmd
}

func historyDBPath(cfg *config.Config) (string, error) {
	path := strings.TrimSpace(cfg.HistoryDB)
	if path == "" {
		return "", &config.ConfigError{
			Field:  "history_db",
			Reason: "no history database configured; pass --history-db or set MONDAY_EXPORT_HISTORY_DB",
		}
	}
	return path, nil
}
