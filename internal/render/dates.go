package render

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"monday-export/internal/models"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDateValue tries the structured payload's "date" field first and then
// the display text.
func parseDateValue(value models.ColumnValue) (time.Time, bool) {
	if obj, ok := value.Parse().Object(); ok {
		if datePart, ok := obj["date"].(string); ok && datePart != "" {
			if t, ok := parseISO(datePart); ok {
				return t, true
			}
		}
	}
	return parseFreeform(value.Text)
}

func parseISO(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFreeform(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if t, ok := parseISO(text); ok {
		return t, true
	}
	t, err := dateparse.ParseIn(text, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
