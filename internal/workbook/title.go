package workbook

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	maxSheetTitleLength = 31
	defaultSheetTitle   = "Board"
	itemsSheetFallback  = "Board Items"
)

var sheetTitleReplacer = strings.NewReplacer(
	`\`, "_",
	"/", "_",
	"*", "_",
	"?", "_",
	":", "_",
	"[", "_",
	"]", "_",
)

// SheetTitle derives a valid worksheet name from a board name.
func SheetTitle(boardName string) string {
	title := sheetTitleReplacer.Replace(norm.NFC.String(strings.TrimSpace(boardName)))

	runes := []rune(title)
	if len(runes) > maxSheetTitleLength {
		runes = runes[:maxSheetTitleLength]
	}
	// Sheet names may not begin or end with an apostrophe.
	if len(runes) > 0 && runes[0] == '\'' {
		runes[0] = '_'
	}
	if len(runes) > 0 && runes[len(runes)-1] == '\'' {
		runes[len(runes)-1] = '_'
	}
	title = strings.TrimSpace(string(runes))

	switch {
	case title == "":
		return defaultSheetTitle
	case strings.EqualFold(title, SummarySheet):
		return itemsSheetFallback
	}
	return title
}
