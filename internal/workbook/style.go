package workbook

import (
	"github.com/xuri/excelize/v2"
)

// StyleConfig holds the fonts, fills, borders and layout constants applied
// to exported workbooks. It is passed by value and never mutated.
type StyleConfig struct {
	HeaderFill      string
	HeaderFontColor string
	BandFill        string
	BorderColor     string
	DateFormat      string

	MinColumnWidth  float64
	MaxColumnWidth  float64
	DateColumnWidth float64

	SummaryLabelWidth float64
	SummaryValueWidth float64
}

// DefaultStyle returns the standard export style.
func DefaultStyle() StyleConfig {
	return StyleConfig{
		HeaderFill:        "2F5496",
		HeaderFontColor:   "FFFFFF",
		BandFill:          "F2F6FC",
		BorderColor:       "D9D9D9",
		DateFormat:        "yyyy-mm-dd hh:mm",
		MinColumnWidth:    12,
		MaxColumnWidth:    48,
		DateColumnWidth:   22,
		SummaryLabelWidth: 18,
		SummaryValueWidth: 60,
	}
}

// styleSet holds the excelize style ids registered for one workbook.
type styleSet struct {
	header     int
	body       int
	bodyBanded int
	date       int
	dateBanded int

	summaryLabel int
	summaryValue int
	summaryDate  int
}

// cellStyle picks the style id for a body cell.
func (s styleSet) cellStyle(isDate, banded bool) int {
	switch {
	case isDate && banded:
		return s.dateBanded
	case isDate:
		return s.date
	case banded:
		return s.bodyBanded
	default:
		return s.body
	}
}

func registerStyles(f *excelize.File, cfg StyleConfig) (styleSet, error) {
	borders := []excelize.Border{
		{Type: "left", Color: cfg.BorderColor, Style: 1},
		{Type: "right", Color: cfg.BorderColor, Style: 1},
		{Type: "top", Color: cfg.BorderColor, Style: 1},
		{Type: "bottom", Color: cfg.BorderColor, Style: 1},
	}
	textAlign := &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true}
	band := excelize.Fill{Type: "pattern", Color: []string{cfg.BandFill}, Pattern: 1}
	dateFormat := cfg.DateFormat

	var set styleSet
	specs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&set.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: cfg.HeaderFontColor},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{cfg.HeaderFill}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    borders,
		}},
		{&set.body, &excelize.Style{Border: borders, Alignment: textAlign}},
		{&set.bodyBanded, &excelize.Style{Border: borders, Alignment: textAlign, Fill: band}},
		{&set.date, &excelize.Style{Border: borders, Alignment: textAlign, CustomNumFmt: &dateFormat}},
		{&set.dateBanded, &excelize.Style{Border: borders, Alignment: textAlign, Fill: band, CustomNumFmt: &dateFormat}},
		{&set.summaryLabel, &excelize.Style{Border: borders}},
		{&set.summaryValue, &excelize.Style{Border: borders, Alignment: textAlign}},
		{&set.summaryDate, &excelize.Style{Border: borders, Alignment: textAlign, CustomNumFmt: &dateFormat}},
	}
	for _, spec := range specs {
		id, err := f.NewStyle(spec.style)
		if err != nil {
			return styleSet{}, err
		}
		*spec.dst = id
	}
	return set, nil
}
