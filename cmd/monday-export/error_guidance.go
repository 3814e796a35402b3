package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"monday-export/internal/api"
	"monday-export/internal/config"
	"monday-export/internal/workbook"
)

const (
	configErrorPrefix = "Configuration error: "
	fetchErrorPrefix  = "Failed to fetch board: "
	exportErrorPrefix = "Failed to export workbook: "
)

// fetchError marks a failure while reading a board from the API.
type fetchError struct {
	BoardID string
	Err     error
}

func (e *fetchError) Error() string {
	return fmt.Sprintf("board %s: %v", e.BoardID, e.Err)
}

func (e *fetchError) Unwrap() error {
	return e.Err
}

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		lines := []string{configErrorPrefix + cfgErr.Error()}
		switch cfgErr.Field {
		case "api_token":
			lines = append(lines, "hint: create a personal API token under Developers > My access tokens in monday.com.")
		case "history_db":
			lines = append(lines, "hint: history is recorded only for exports run with a history database.")
		}
		return uniqueLines(lines)
	}

	var exportErr *workbook.ExportError
	if errors.As(err, &exportErr) {
		return uniqueLines([]string{
			exportErrorPrefix + exportErr.Error(),
			"hint: check that the output directory exists and is writable.",
		})
	}

	var (
		fetchErr  *fetchError
		notFound  *api.NotFoundError
		remoteErr *api.RemoteRequestError
	)
	isFetch := errors.As(err, &fetchErr)
	isNotFound := errors.As(err, &notFound)
	isRemote := errors.As(err, &remoteErr)
	if !isFetch && !isNotFound && !isRemote {
		return uniqueLines([]string{err.Error()})
	}

	lines := []string{fetchErrorPrefix + err.Error()}
	if isNotFound {
		lines = append(lines, "hint: check the board id and that the token's user can access the board.")
		return uniqueLines(lines)
	}

	if isRemote {
		switch remoteErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			lines = append(lines, "hint: verify MONDAY_API_TOKEN or --api-token; the token may be expired or lack board access.")
		case http.StatusTooManyRequests:
			lines = append(lines, "hint: rate limited; lower --page-size or set requests_per_second.")
		}
		if remoteErr.Status >= http.StatusInternalServerError {
			lines = append(lines, "hint: the API returned a server error; retry shortly.")
		}
	}

	if (isRemote && remoteErr.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; raise --timeout or MONDAY_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines, "hint: check network connectivity and MONDAY_API_URL.")
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
