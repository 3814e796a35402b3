package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"monday-export/internal/config"
)

const (
	logLevelEnvKey = "MONDAY_EXPORT_LOG_LEVEL"
	verboseLevel   = "info"
)

// logLevelSources are the places a log level can come from, highest
// precedence first: --log-level, --verbose, environment, config file.
type logLevelSources struct {
	flag    string
	verbose bool
	env     string
	config  string
}

// selected returns the raw level and the name of the source it came from.
func (s logLevelSources) selected() (string, string) {
	switch {
	case strings.TrimSpace(s.flag) != "":
		return s.flag, "flag"
	case s.verbose:
		return verboseLevel, "verbose"
	case strings.TrimSpace(s.env) != "":
		return s.env, "env"
	case strings.TrimSpace(s.config) != "":
		return s.config, "config"
	}
	return config.DefaultLogLevel, "default"
}

// configureLoggerForCLI installs the default slog logger. An invalid
// --log-level is a configuration error; invalid env or config levels fall
// back to the default level with a warning for stderr.
func configureLoggerForCLI(sources logLevelSources) (string, error) {
	if sources.env == "" {
		sources.env = os.Getenv(logLevelEnvKey)
	}
	raw, source := sources.selected()

	level, err := parseLogLevel(raw)
	if err == nil {
		slog.SetDefault(newLogger(level))
		return "", nil
	}

	var warning string
	switch source {
	case "flag":
		return "", &config.ConfigError{Field: "log_level", Reason: fmt.Sprintf("invalid --log-level %q", raw)}
	case "env":
		warning = fmt.Sprintf("warning: invalid %s=%q; defaulting to %s", logLevelEnvKey, raw, config.DefaultLogLevel)
	case "config":
		warning = fmt.Sprintf("warning: invalid log_level=%q; defaulting to %s", raw, config.DefaultLogLevel)
	}
	slog.SetDefault(newLogger(slog.LevelWarn))
	return warning, nil
}

// parseLogLevel accepts slog level names, "warning", and numeric levels.
func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	if strings.EqualFold(value, "warning") {
		value = "warn"
	}
	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
