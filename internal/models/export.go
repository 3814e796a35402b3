package models

import "time"

// ExportRecord is one completed export as kept in the local history.
type ExportRecord struct {
	ID           string    `json:"id" yaml:"id"`
	BoardID      string    `json:"board_id" yaml:"board_id"`
	BoardName    string    `json:"board_name" yaml:"board_name"`
	ItemCount    int       `json:"item_count" yaml:"item_count"`
	SubitemCount int       `json:"subitem_count" yaml:"subitem_count"`
	Path         string    `json:"path" yaml:"path"`
	ExportedAt   time.Time `json:"exported_at" yaml:"exported_at"`
}
