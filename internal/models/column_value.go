package models

import (
	"encoding/json"
	"strings"
)

// ColumnValue is the value an item holds for one column. Text is the
// server-rendered display text; Value is the raw JSON payload, whose shape
// depends on the column type.
type ColumnValue struct {
	ID    string  `json:"id" yaml:"id"`
	Text  string  `json:"text" yaml:"text"`
	Title string  `json:"title,omitempty" yaml:"title,omitempty"`
	Type  string  `json:"type,omitempty" yaml:"type,omitempty"`
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`
}

// ParsedKind tags the variant held by a ParsedValue.
type ParsedKind int

const (
	// ParsedText means the raw payload was absent or undecodable and Text holds
	// the display text.
	ParsedText ParsedKind = iota
	// ParsedStructured means Data holds the decoded JSON payload.
	ParsedStructured
)

// ParsedValue is the result of decoding a column value's raw payload.
type ParsedValue struct {
	Kind ParsedKind
	Data any
	Text string
}

// Structured reports whether the payload decoded successfully.
func (p ParsedValue) Structured() bool {
	return p.Kind == ParsedStructured
}

// Object returns the decoded payload as a JSON object.
func (p ParsedValue) Object() (map[string]any, bool) {
	if p.Kind != ParsedStructured {
		return nil, false
	}
	obj, ok := p.Data.(map[string]any)
	return obj, ok
}

// Parse decodes the raw payload. An empty payload or invalid JSON falls back
// to the display text.
func (v ColumnValue) Parse() ParsedValue {
	if v.Value == nil || strings.TrimSpace(*v.Value) == "" {
		return ParsedValue{Kind: ParsedText, Text: v.Text}
	}
	var data any
	if err := json.Unmarshal([]byte(*v.Value), &data); err != nil {
		return ParsedValue{Kind: ParsedText, Text: v.Text}
	}
	return ParsedValue{Kind: ParsedStructured, Data: data, Text: v.Text}
}
