package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"monday-export/internal/api"
	"monday-export/internal/config"
)

// fetchFlags are the connection and paging flags shared by commands that
// read a board.
type fetchFlags struct {
	boardID         int64
	apiToken        string
	apiURL          string
	pageSize        int
	timeout         time.Duration
	includeSubitems bool
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64VarP(&f.boardID, "board-id", "b", 0, "board id to fetch (required)")
	cmd.Flags().StringVar(&f.apiToken, "api-token", "", "API token (default: MONDAY_API_TOKEN)")
	cmd.Flags().StringVar(&f.apiURL, "api-url", "", "GraphQL endpoint")
	cmd.Flags().IntVar(&f.pageSize, "page-size", config.DefaultPageSize, "items per page (1-1000)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", time.Duration(config.DefaultTimeoutSeconds)*time.Second, "per-request timeout")
	cmd.Flags().BoolVar(&f.includeSubitems, "include-subitems", false, "also fetch one level of subitems")
}

// apply copies explicitly set flags onto cfg, validates the result and
// returns the board id in wire form.
func (f *fetchFlags) apply(cmd *cobra.Command, cfg *config.Config) (string, error) {
	flags := cmd.Flags()
	if flags.Changed("api-token") {
		cfg.APIToken = f.apiToken
	}
	if flags.Changed("api-url") {
		cfg.APIURL = f.apiURL
	}
	if flags.Changed("page-size") {
		cfg.PageSize = f.pageSize
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = f.timeout.Seconds()
	}
	if flags.Changed("include-subitems") {
		cfg.IncludeSubitems = f.includeSubitems
	}

	if f.boardID <= 0 {
		return "", &config.ConfigError{Field: "board_id", Reason: "--board-id must be a positive integer"}
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	return strconv.FormatInt(f.boardID, 10), nil
}

func withClient(cfg *config.Config, fn func(*api.Client) error) error {
	client := api.NewClient(api.Options{
		URL:               cfg.APIURL,
		Token:             cfg.APIToken,
		APIVersion:        cfg.APIVersion,
		UserAgent:         userAgent(),
		Timeout:           cfg.Timeout(),
		PageSize:          cfg.PageSize,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	defer client.Close()
	return fn(client)
}
