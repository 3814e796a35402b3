package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"monday-export/internal/models"
)

// flexString accepts a JSON string or number. GraphQL ID fields are strings
// on the wire, but some API versions emit user ids as numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

type boardMetadataResponse struct {
	Boards []boardPayload `json:"boards"`
}

type boardPayload struct {
	ID          flexString      `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	State       *string         `json:"state"`
	Columns     []columnPayload `json:"columns"`
	Groups      []groupPayload  `json:"groups"`
}

type columnPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type groupPayload struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Color    *string `json:"color"`
	Position *string `json:"position"`
}

type personPayload struct {
	ID   flexString `json:"id"`
	Name *string    `json:"name"`
}

type columnValuePayload struct {
	ID     string  `json:"id"`
	Text   *string `json:"text"`
	Title  string  `json:"title"`
	Type   string  `json:"type"`
	Value  *string `json:"value"`
	Column *struct {
		Title string `json:"title"`
	} `json:"column"`
}

// itemFields is shared by items and subitems.
type itemFields struct {
	ID           flexString           `json:"id"`
	Name         string               `json:"name"`
	CreatedAt    *string              `json:"created_at"`
	UpdatedAt    *string              `json:"updated_at"`
	Group        *groupPayload        `json:"group"`
	Creator      *personPayload       `json:"creator"`
	ColumnValues []columnValuePayload `json:"column_values"`
}

// itemPayload carries one level of subitems; subitemPayload carries none,
// which is what bounds the item tree to models.MaxItemDepth.
type itemPayload struct {
	itemFields
	Subitems []subitemPayload `json:"subitems"`
}

type subitemPayload struct {
	itemFields
}

type itemsPageResponse struct {
	Boards []struct {
		ItemsPage *itemsPagePayload `json:"items_page"`
	} `json:"boards"`
}

type itemsPagePayload struct {
	Cursor *string       `json:"cursor"`
	Items  []itemPayload `json:"items"`
}

func (b boardPayload) toModel() models.Board {
	board := models.Board{
		ID:          string(b.ID),
		Name:        b.Name,
		Description: deref(b.Description),
		State:       deref(b.State),
		Columns:     make([]models.Column, 0, len(b.Columns)),
		Groups:      make([]models.Group, 0, len(b.Groups)),
	}
	for _, c := range b.Columns {
		board.Columns = append(board.Columns, models.Column{ID: c.ID, Title: c.Title, Type: c.Type})
	}
	for _, g := range b.Groups {
		board.Groups = append(board.Groups, g.toModel())
	}
	return board
}

func (g groupPayload) toModel() models.Group {
	return models.Group{
		ID:       g.ID,
		Title:    g.Title,
		Color:    deref(g.Color),
		Position: deref(g.Position),
	}
}

func (p personPayload) toModel() models.Person {
	person := models.Person{Name: deref(p.Name)}
	if id, err := strconv.ParseInt(strings.TrimSpace(string(p.ID)), 10, 64); err == nil {
		person.ID = &id
	}
	return person
}

func (c columnValuePayload) toModel() models.ColumnValue {
	title := c.Title
	if title == "" && c.Column != nil {
		title = c.Column.Title
	}
	return models.ColumnValue{
		ID:    c.ID,
		Text:  deref(c.Text),
		Title: title,
		Type:  c.Type,
		Value: c.Value,
	}
}

func (f itemFields) toModel() models.Item {
	item := models.Item{
		ID:           string(f.ID),
		Name:         f.Name,
		CreatedAt:    parseTimestamp(f.CreatedAt),
		UpdatedAt:    parseTimestamp(f.UpdatedAt),
		ColumnValues: make([]models.ColumnValue, 0, len(f.ColumnValues)),
	}
	if f.Group != nil {
		group := f.Group.toModel()
		item.Group = &group
	}
	if f.Creator != nil {
		creator := f.Creator.toModel()
		item.Creator = &creator
	}
	for _, value := range f.ColumnValues {
		item.ColumnValues = append(item.ColumnValues, value.toModel())
	}
	return item
}

func (p itemPayload) toModel() models.Item {
	item := p.itemFields.toModel()
	if len(p.Subitems) > 0 {
		item.Subitems = make([]models.Item, 0, len(p.Subitems))
		for _, sub := range p.Subitems {
			item.Subitems = append(item.Subitems, sub.itemFields.toModel())
		}
	}
	return item
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp returns nil for absent or unparseable timestamps rather than
// failing the whole page.
func parseTimestamp(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
