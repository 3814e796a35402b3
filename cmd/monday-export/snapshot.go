package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"monday-export/internal/config"
	"monday-export/internal/format"
)

func newSnapshotCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		fetch      fetchFlags
		formatName string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Dump a board snapshot as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if *jsonOutput && !cmd.Flags().Changed("format") {
				formatName = "json"
			}
			formatter, err := format.ForName(formatName)
			if err != nil {
				return &config.ConfigError{Field: "format", Reason: err.Error()}
			}

			boardID, err := fetch.apply(cmd, cfg)
			if err != nil {
				return err
			}
			board, err := fetchBoard(cmd.Context(), cfg, boardID)
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if path := strings.TrimSpace(outputPath); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return formatter.Write(w, board)
		},
	}

	fetch.register(cmd)
	cmd.Flags().StringVar(&formatName, "format", "json", "snapshot format (json or yaml)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")

	return cmd
}
