// Package workbook lays out board snapshots as formatted XLSX workbooks.
package workbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"monday-export/internal/models"
	"monday-export/internal/render"
)

const (
	SummarySheet = "Summary"

	defaultSheet = "Sheet1"
)

var itemHeaders = []string{
	"Item ID",
	"Item Name",
	"Group",
	"Group Color",
	"Creator",
	"Created At",
	"Updated At",
}

// Workbook is a built, unsaved workbook. Close it when done.
type Workbook struct {
	file       *excelize.File
	ItemsSheet string
	styles     styleSet
}

// File exposes the underlying excelize file.
func (w *Workbook) File() *excelize.File {
	return w.file
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	return w.file.SaveAs(path)
}

// Close releases the workbook's resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Builder turns board snapshots into workbooks.
type Builder struct {
	style    StyleConfig
	renderer *render.Renderer
	now      func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithStyle replaces the default style.
func WithStyle(style StyleConfig) Option {
	return func(b *Builder) { b.style = style }
}

// WithRenderer replaces the default column value renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(b *Builder) { b.renderer = r }
}

// WithClock sets the clock used for the summary's export timestamp.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		style:    DefaultStyle(),
		renderer: render.DefaultRenderer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build lays out the items and summary sheets for board.
func (b *Builder) Build(board models.Board) (*Workbook, error) {
	f := excelize.NewFile()
	wb, err := b.build(f, board)
	if err != nil {
		_ = f.Close()
		return nil, &ExportError{Err: err}
	}
	return wb, nil
}

func (b *Builder) build(f *excelize.File, board models.Board) (*Workbook, error) {
	title := SheetTitle(board.Name)
	if err := f.SetSheetName(defaultSheet, title); err != nil {
		return nil, fmt.Errorf("name items sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	styles, err := registerStyles(f, b.style)
	if err != nil {
		return nil, fmt.Errorf("register styles: %w", err)
	}

	wb := &Workbook{file: f, ItemsSheet: title, styles: styles}
	if err := b.writeItems(wb, board); err != nil {
		return nil, fmt.Errorf("write items sheet: %w", err)
	}
	if err := b.writeSummary(wb, board); err != nil {
		return nil, fmt.Errorf("write summary sheet: %w", err)
	}

	idx, err := f.GetSheetIndex(title)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	return wb, nil
}

func (b *Builder) writeItems(wb *Workbook, board models.Board) error {
	f, sheet := wb.file, wb.ItemsSheet
	columns := board.OrderedColumns()

	headers := make([]string, 0, len(itemHeaders)+len(columns))
	headers = append(headers, itemHeaders...)
	for _, column := range columns {
		headers = append(headers, column.Title)
	}

	widths := make([]float64, len(headers))
	for i, header := range headers {
		if err := setCell(f, sheet, i+1, 1, header, wb.styles.header); err != nil {
			return err
		}
		widths[i] = b.clampWidth(float64(runewidth.StringWidth(header)))
	}

	for i, item := range board.Items {
		row := i + 2
		banded := row%2 == 0
		for col, cell := range b.itemRow(board, item, columns) {
			style := wb.styles.cellStyle(cell.Hint == render.HintDate, banded)
			if err := setCell(f, sheet, col+1, row, cell.Value, style); err != nil {
				return err
			}
			if w := b.displayWidth(cell); w > widths[col] {
				widths[col] = min(w, b.style.MaxColumnWidth)
			}
		}
	}

	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
		Selection:   []excelize.Selection{{SQRef: "A2", ActiveCell: "A2", Pane: "bottomLeft"}},
	}); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(headers), len(board.Items)+1)
	if err != nil {
		return err
	}
	return f.AutoFilter(sheet, "A1:"+last, nil)
}

// itemRow renders the fixed item columns followed by one cell per board column.
func (b *Builder) itemRow(board models.Board, item models.Item, columns []models.Column) []render.Cell {
	var groupTitle, groupColor, creator string
	if item.Group != nil {
		group := *item.Group
		if known, ok := board.GroupByID(group.ID); ok {
			group = known
		}
		groupTitle, groupColor = group.Title, group.Color
	}
	if item.Creator != nil {
		creator = item.Creator.Name
	}

	row := make([]render.Cell, 0, len(itemHeaders)+len(columns))
	row = append(row,
		render.Cell{Value: item.ID},
		render.Cell{Value: item.Name},
		render.Cell{Value: groupTitle},
		render.Cell{Value: groupColor},
		render.Cell{Value: creator},
		timestampCell(item.CreatedAt),
		timestampCell(item.UpdatedAt),
	)
	for _, column := range columns {
		var value *models.ColumnValue
		if cv, ok := item.ColumnValueByID(column.ID); ok {
			value = &cv
		}
		row = append(row, b.renderer.Render(column, value))
	}
	return row
}

func timestampCell(t *time.Time) render.Cell {
	if t == nil {
		return render.Cell{Value: ""}
	}
	return render.Cell{Value: t.UTC(), Hint: render.HintDate}
}

func (b *Builder) writeSummary(wb *Workbook, board models.Board) error {
	f := wb.file
	rows := [][2]any{
		{"Board Name", board.Name},
		{"Board ID", board.ID},
		{"Item Count", len(board.Items)},
		{"Group Count", len(board.Groups)},
		{"Column Count", len(board.Columns)},
	}
	if board.Description != "" {
		rows = append(rows, [2]any{"Description", board.Description})
	}
	rows = append(rows, [2]any{"Exported At", b.now().UTC()})

	if err := setCell(f, SummarySheet, 1, 1, "Property", wb.styles.header); err != nil {
		return err
	}
	if err := setCell(f, SummarySheet, 2, 1, "Value", wb.styles.header); err != nil {
		return err
	}
	for i, pair := range rows {
		row := i + 2
		if err := setCell(f, SummarySheet, 1, row, pair[0], wb.styles.summaryLabel); err != nil {
			return err
		}
		valueStyle := wb.styles.summaryValue
		if _, ok := pair[1].(time.Time); ok {
			valueStyle = wb.styles.summaryDate
		}
		if err := setCell(f, SummarySheet, 2, row, pair[1], valueStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", b.style.SummaryLabelWidth); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", b.style.SummaryValueWidth); err != nil {
		return err
	}
	return f.AutoFilter(SummarySheet, fmt.Sprintf("A1:B%d", len(rows)+1), nil)
}

func setCell(f *excelize.File, sheet string, col, row int, value any, style int) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, name, value); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, name, name, style)
}

// displayWidth estimates how wide a rendered cell appears: the longest line
// plus padding, or a fixed width for dates.
func (b *Builder) displayWidth(cell render.Cell) float64 {
	var text string
	switch v := cell.Value.(type) {
	case nil:
		return 0
	case time.Time:
		return b.style.DateColumnWidth
	case string:
		text = v
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		text = strconv.FormatBool(v)
	default:
		text = fmt.Sprint(v)
	}
	longest := 0
	for _, line := range strings.Split(text, "\n") {
		longest = max(longest, runewidth.StringWidth(strings.TrimRight(line, "\r")))
	}
	return float64(longest + 2)
}

func (b *Builder) clampWidth(width float64) float64 {
	return min(max(width, b.style.MinColumnWidth), b.style.MaxColumnWidth)
}
