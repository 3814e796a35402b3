package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"monday-export/internal/api"
	"monday-export/internal/config"
	"monday-export/internal/models"
	"monday-export/internal/store"
	"monday-export/internal/workbook"
)

type exportResult struct {
	BoardID      string `json:"board_id"`
	BoardName    string `json:"board_name"`
	ItemCount    int    `json:"item_count"`
	SubitemCount int    `json:"subitem_count"`
	Path         string `json:"path"`
}

func newExportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		fetch      fetchFlags
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a board to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			boardID, err := fetch.apply(cmd, cfg)
			if err != nil {
				return err
			}

			board, err := fetchBoard(cmd.Context(), cfg, boardID)
			if err != nil {
				return err
			}

			destination := strings.TrimSpace(outputPath)
			if destination == "" {
				destination = workbook.DefaultOutputPath(board.Name)
			}
			path, err := workbook.NewBuilder().Export(board, destination)
			if err != nil {
				return err
			}

			result := exportResult{
				BoardID:      board.ID,
				BoardName:    board.Name,
				ItemCount:    len(board.Items),
				SubitemCount: board.SubitemCount(),
				Path:         path,
			}
			recordExport(cmd.Context(), cfg, result)

			if *jsonOutput {
				return writeJSON(result)
			}
			return writeExportSummary(result)
		},
	}

	fetch.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output .xlsx path (default: <board name>.xlsx)")

	return cmd
}

func fetchBoard(ctx context.Context, cfg *config.Config, boardID string) (models.Board, error) {
	var board models.Board
	err := withClient(cfg, func(client *api.Client) error {
		var err error
		board, err = client.FetchBoard(ctx, boardID, cfg.IncludeSubitems)
		return err
	})
	if err != nil {
		return models.Board{}, &fetchError{BoardID: boardID, Err: err}
	}
	return board, nil
}

// recordExport appends the export to the history database when one is
// configured. Failures are logged and never fail the export.
func recordExport(ctx context.Context, cfg *config.Config, result exportResult) {
	if strings.TrimSpace(cfg.HistoryDB) == "" {
		return
	}
	logger := slog.Default().With("component", "history", "path", cfg.HistoryDB)

	st, err := store.Open(cfg.HistoryDB)
	if err != nil {
		logger.Warn("failed to open export history", "error", err)
		return
	}
	defer st.Close()

	record := &models.ExportRecord{
		BoardID:      result.BoardID,
		BoardName:    result.BoardName,
		ItemCount:    result.ItemCount,
		SubitemCount: result.SubitemCount,
		Path:         result.Path,
	}
	if err := st.RecordExport(ctx, record); err != nil {
		logger.Warn("failed to record export", "error", err)
		return
	}
	logger.Debug("recorded export", "id", record.ID)
}
