package api

import (
	"context"
	"log/slog"

	"monday-export/internal/models"
)

const (
	DefaultPageSize = 500
	MinPageSize     = 1
	MaxPageSize     = 1000
)

// Executor runs a single GraphQL operation. *Client is the production
// implementation.
type Executor interface {
	Execute(ctx context.Context, query string, variables map[string]any, out any) error
}

// FetchOptions controls the items phase of FetchBoard.
type FetchOptions struct {
	PageSize        int
	IncludeSubitems bool
}

// FetchBoard assembles a full board snapshot in two phases: one metadata
// request, then item pages until the server stops returning a cursor.
//
// Requests are strictly sequential because each page's cursor comes from the
// previous response. Any request failure aborts the fetch; nothing is retried.
func FetchBoard(ctx context.Context, exec Executor, boardID string, opts FetchOptions) (models.Board, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	board, err := fetchMetadata(ctx, exec, boardID)
	if err != nil {
		return models.Board{}, err
	}
	slog.Info("fetched board metadata",
		"board_id", boardID,
		"name", board.Name,
		"columns", len(board.Columns),
		"groups", len(board.Groups),
	)

	items, err := fetchItems(ctx, exec, boardID, opts)
	if err != nil {
		return models.Board{}, err
	}
	if len(items) == 0 {
		slog.Warn("no items retrieved for board", "board_id", boardID)
	}

	return board.WithItems(items), nil
}

func fetchMetadata(ctx context.Context, exec Executor, boardID string) (models.Board, error) {
	var resp boardMetadataResponse
	vars := map[string]any{"board_id": []string{boardID}}
	if err := exec.Execute(ctx, BoardMetadataQuery, vars, &resp); err != nil {
		return models.Board{}, err
	}
	if len(resp.Boards) == 0 {
		return models.Board{}, &NotFoundError{BoardID: boardID}
	}
	return resp.Boards[0].toModel(), nil
}

func fetchItems(ctx context.Context, exec Executor, boardID string, opts FetchOptions) ([]models.Item, error) {
	var items []models.Item
	var cursor *string

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, &RemoteRequestError{Detail: "fetch cancelled", Err: err}
		}

		vars := map[string]any{
			"board_id":         boardID,
			"limit":            opts.PageSize,
			"cursor":           cursor,
			"include_subitems": opts.IncludeSubitems,
		}
		var resp itemsPageResponse
		if err := exec.Execute(ctx, ItemsPageQuery, vars, &resp); err != nil {
			return nil, err
		}

		// A page without a board envelope ends pagination rather than failing,
		// even on the first page.
		if len(resp.Boards) == 0 || resp.Boards[0].ItemsPage == nil {
			slog.Debug("items page without board envelope; stopping", "board_id", boardID, "page", page)
			break
		}

		pageInfo := resp.Boards[0].ItemsPage
		for _, payload := range pageInfo.Items {
			items = append(items, payload.toModel())
		}
		slog.Info("fetched items page",
			"board_id", boardID,
			"page", page,
			"page_items", len(pageInfo.Items),
			"total_items", len(items),
		)

		if pageInfo.Cursor == nil || *pageInfo.Cursor == "" {
			break
		}
		next := *pageInfo.Cursor
		cursor = &next
	}

	return items, nil
}
