package render

import (
	"math"
	"strconv"
	"strings"

	"monday-export/internal/models"
)

var builtinTypes = map[string]RenderFunc{
	"date":     renderDate,
	"numbers":  renderNumber,
	"numeric":  renderNumber,
	"checkbox": renderCheckbox,
	"people":   renderPeople,
}

func renderDate(value models.ColumnValue) Cell {
	if t, ok := parseDateValue(value); ok {
		return Cell{Value: t, Hint: HintDate}
	}
	return textCell(value)
}

// Numbers arrive as display text, sometimes with thousands separators.
func renderNumber(value models.ColumnValue) Cell {
	raw := strings.TrimSpace(strings.ReplaceAll(value.Text, ",", ""))
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return textCell(value)
	}
	return Cell{Value: n}
}

func renderCheckbox(value models.ColumnValue) Cell {
	parsed := value.Parse()
	if !parsed.Structured() {
		return textCell(value)
	}
	data := parsed.Data
	if obj, ok := data.(map[string]any); ok {
		data = obj["checked"]
	}
	if checked, ok := asBool(data); ok {
		return Cell{Value: checked}
	}
	return textCell(value)
}

func renderPeople(value models.ColumnValue) Cell {
	return Cell{Value: strings.ReplaceAll(value.Text, "\n", ", ")}
}

// The API stores checkbox state as {"checked": "true"} while older payloads
// use a JSON boolean.
func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch b {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
