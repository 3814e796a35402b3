package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"monday-export/internal/format"
	"monday-export/internal/models"
	"monday-export/internal/store"
)

const historyNameWidth = 32

var outputFormatter format.Formatter = format.JSONFormatter{}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeExportSummary(result exportResult) error {
	return writePlain("%s\n", successStyle.Render(exportSummaryLine(result)))
}

func exportSummaryLine(result exportResult) string {
	return fmt.Sprintf("Successfully exported board %s (%s items) to %s",
		result.BoardName, humanize.Comma(int64(result.ItemCount)), result.Path)
}

func writeHistory(records []models.ExportRecord) error {
	if len(records) == 0 {
		return writePlain("%s\n", mutedStyle.Render("no exports recorded"))
	}
	for _, record := range records {
		if err := writePlain("%s\n", formatHistoryLine(record)); err != nil {
			return err
		}
	}
	return nil
}

func formatHistoryLine(record models.ExportRecord) string {
	name := runewidth.Truncate(record.BoardName, historyNameWidth, "…")
	return fmt.Sprintf("%s  %s  %s items  %s  %s",
		runewidth.FillRight(name, historyNameWidth),
		record.BoardID,
		humanize.Comma(int64(record.ItemCount)),
		record.Path,
		mutedStyle.Render(humanize.Time(record.ExportedAt)),
	)
}

func writeMigrationPlan(plan *store.MigrationStatus) error {
	lines := []string{
		fmt.Sprintf("Current version: %d", plan.CurrentVersion),
		fmt.Sprintf("Available version: %d", plan.AvailableVersion),
	}
	if len(plan.Pending) == 0 {
		lines = append(lines, "No pending migrations.")
	} else {
		lines = append(lines, fmt.Sprintf("Pending migrations: %d", len(plan.Pending)))
		for _, m := range plan.Pending {
			lines = append(lines, fmt.Sprintf("  %d: %s", m.Version, m.Description))
		}
	}
	return writePlain("%s\n", strings.Join(lines, "\n"))
}
