// Package render converts board column values into typed spreadsheet cells.
//
// Rendering is total: every column type, including ones the server adds in the
// future, produces a cell. Types without a registered RenderFunc fall back to
// the value's display text.
package render

import "monday-export/internal/models"

// Hint tells the workbook how a cell should be formatted.
type Hint string

const (
	HintNone Hint = ""
	HintDate Hint = "date"
)

// Cell is a rendered cell value. Value is one of string, float64, bool or
// time.Time.
type Cell struct {
	Value any
	Hint  Hint
}

// RenderFunc renders a present column value for one column type.
type RenderFunc func(value models.ColumnValue) Cell

// Renderer dispatches column values to a RenderFunc by column type. A
// Renderer is never modified after construction and is safe to share.
type Renderer struct {
	byType map[string]RenderFunc
}

// DefaultRenderer handles the built-in column types.
var DefaultRenderer = NewRenderer()

// NewRenderer returns a renderer with the built-in column types registered.
func NewRenderer() *Renderer {
	byType := make(map[string]RenderFunc, len(builtinTypes))
	for columnType, fn := range builtinTypes {
		byType[columnType] = fn
	}
	return &Renderer{byType: byType}
}

// With returns a copy of r that renders columnType with fn.
func (r *Renderer) With(columnType string, fn RenderFunc) *Renderer {
	byType := make(map[string]RenderFunc, len(r.byType)+1)
	for k, v := range r.byType {
		byType[k] = v
	}
	byType[columnType] = fn
	return &Renderer{byType: byType}
}

// Handles reports whether columnType has a dedicated RenderFunc.
func (r *Renderer) Handles(columnType string) bool {
	_, ok := r.byType[columnType]
	return ok
}

// Render converts value, which may be nil when the item has no value for
// column, into a cell.
func (r *Renderer) Render(column models.Column, value *models.ColumnValue) Cell {
	if value == nil {
		return Cell{Value: ""}
	}
	fn, ok := r.byType[column.Type]
	if !ok {
		return textCell(*value)
	}
	return fn(*value)
}

func textCell(value models.ColumnValue) Cell {
	return Cell{Value: value.Text}
}
