package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monday-export/internal/models"
)

func strPtr(s string) *string { return &s }

func cv(text string, raw *string) *models.ColumnValue {
	return &models.ColumnValue{ID: "col", Text: text, Value: raw}
}

func TestRenderMissingValue(t *testing.T) {
	cell := DefaultRenderer.Render(models.Column{ID: "col", Type: "date"}, nil)
	assert.Equal(t, Cell{Value: ""}, cell)
}

func TestRenderUnknownTypesPassThrough(t *testing.T) {
	for _, columnType := range []string{"text", "status", "formula", "mirror", "", "some_future_type"} {
		t.Run(columnType, func(t *testing.T) {
			cell := DefaultRenderer.Render(models.Column{Type: columnType}, cv("line1\nline2", strPtr(`{"x":1}`)))
			assert.Equal(t, "line1\nline2", cell.Value)
			assert.Equal(t, HintNone, cell.Hint)
		})
	}
}

func TestRenderNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want any
	}{
		{name: "thousands separator", text: "1,234.50", want: 1234.5},
		{name: "plain", text: "42", want: 42.0},
		{name: "negative", text: "-3.25", want: -3.25},
		{name: "padded", text: " 7 ", want: 7.0},
		{name: "not a number", text: "N/A", want: "N/A"},
		{name: "empty", text: "", want: ""},
		{name: "nan stays text", text: "NaN", want: "NaN"},
		{name: "infinity stays text", text: "Inf", want: "Inf"},
	}

	for _, columnType := range []string{"numbers", "numeric"} {
		for _, tt := range tests {
			t.Run(columnType+"/"+tt.name, func(t *testing.T) {
				cell := DefaultRenderer.Render(models.Column{Type: columnType}, cv(tt.text, nil))
				assert.Equal(t, tt.want, cell.Value)
				assert.Equal(t, HintNone, cell.Hint)
			})
		}
	}
}

func TestRenderDate(t *testing.T) {
	column := models.Column{Type: "date"}

	t.Run("structured date", func(t *testing.T) {
		cell := DefaultRenderer.Render(column, cv("Jan 15", strPtr(`{"date":"2024-01-15","changed_at":"x"}`)))
		assert.Equal(t, HintDate, cell.Hint)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), cell.Value)
	})

	t.Run("structured date time", func(t *testing.T) {
		cell := DefaultRenderer.Render(column, cv("", strPtr(`{"date":"2024-01-15T09:30:00Z"}`)))
		assert.Equal(t, HintDate, cell.Hint)
		assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), cell.Value)
	})

	t.Run("null payload uses display text", func(t *testing.T) {
		cell := DefaultRenderer.Render(column, cv("2024-01-15", nil))
		assert.Equal(t, HintDate, cell.Hint)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), cell.Value)
	})

	t.Run("free form display text", func(t *testing.T) {
		cell := DefaultRenderer.Render(column, cv("March 3, 2024", strPtr(`{"date":""}`)))
		require.Equal(t, HintDate, cell.Hint)
		got := cell.Value.(time.Time)
		assert.Equal(t, 2024, got.Year())
		assert.Equal(t, time.March, got.Month())
		assert.Equal(t, 3, got.Day())
	})

	t.Run("bad structured date falls back to text parse", func(t *testing.T) {
		cell := DefaultRenderer.Render(column, cv("2024-02-01", strPtr(`{"date":"garbage"}`)))
		assert.Equal(t, HintDate, cell.Hint)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), cell.Value)
	})

	t.Run("unparseable stays text", func(t *testing.T) {
		cell := DefaultRenderer.Render(column, cv("someday", strPtr(`{not json`)))
		assert.Equal(t, HintNone, cell.Hint)
		assert.Equal(t, "someday", cell.Value)
	})

	t.Run("empty stays empty", func(t *testing.T) {
		cell := DefaultRenderer.Render(column, cv("", nil))
		assert.Equal(t, Cell{Value: ""}, cell)
	})
}

func TestRenderCheckbox(t *testing.T) {
	column := models.Column{Type: "checkbox"}
	tests := []struct {
		name string
		text string
		raw  *string
		want any
	}{
		{name: "bare boolean", text: "v", raw: strPtr(`true`), want: true},
		{name: "checked boolean", text: "v", raw: strPtr(`{"checked":true}`), want: true},
		{name: "checked false", text: "", raw: strPtr(`{"checked":false}`), want: false},
		{name: "checked string", text: "v", raw: strPtr(`{"checked":"true"}`), want: true},
		{name: "unknown checked value", text: "v", raw: strPtr(`{"checked":"maybe"}`), want: "v"},
		{name: "no payload", text: "", raw: nil, want: ""},
		{name: "invalid payload", text: "v", raw: strPtr(`nope`), want: "v"},
		{name: "json null", text: "", raw: strPtr(`null`), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := DefaultRenderer.Render(column, cv(tt.text, tt.raw))
			assert.Equal(t, tt.want, cell.Value)
		})
	}
}

func TestRenderPeople(t *testing.T) {
	cell := DefaultRenderer.Render(models.Column{Type: "people"}, cv("Ada Lovelace\nAlan Turing", nil))
	assert.Equal(t, "Ada Lovelace, Alan Turing", cell.Value)
}

func TestRenderIsDeterministic(t *testing.T) {
	column := models.Column{Type: "date"}
	value := cv("2024-01-15", strPtr(`{"date":"2024-01-15"}`))
	assert.Equal(t, DefaultRenderer.Render(column, value), DefaultRenderer.Render(column, value))
}

func TestRendererWith(t *testing.T) {
	upper := func(v models.ColumnValue) Cell { return Cell{Value: "rating:" + v.Text} }
	custom := DefaultRenderer.With("rating", upper)

	assert.True(t, custom.Handles("rating"))
	assert.False(t, DefaultRenderer.Handles("rating"))
	assert.Equal(t, "rating:4", custom.Render(models.Column{Type: "rating"}, cv("4", nil)).Value)
	assert.Equal(t, "4", DefaultRenderer.Render(models.Column{Type: "rating"}, cv("4", nil)).Value)
	assert.Equal(t, 1234.5, custom.Render(models.Column{Type: "numbers"}, cv("1,234.5", nil)).Value)
}
