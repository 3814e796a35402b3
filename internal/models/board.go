package models

// Column describes a board column. Type is drawn from the server's open
// vocabulary (date, numbers, checkbox, people, text, ...).
type Column struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Type  string `json:"type" yaml:"type"`
}

// Group is a named bucket of items on a board.
type Group struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`
	Position string `json:"position,omitempty" yaml:"position,omitempty"`
}

// Person is a board user. Both fields may be absent for deleted or system users.
type Person struct {
	ID   *int64 `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Board is an immutable snapshot of a board's metadata and items.
type Board struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	State       string   `json:"state,omitempty" yaml:"state,omitempty"`
	Columns     []Column `json:"columns" yaml:"columns"`
	Groups      []Group  `json:"groups" yaml:"groups"`
	Items       []Item   `json:"items" yaml:"items"`
}

// OrderedColumns returns the board columns in the order the API returned them.
func (b Board) OrderedColumns() []Column {
	return b.Columns
}

// WithItems returns a copy of the board with its item list replaced.
func (b Board) WithItems(items []Item) Board {
	out := b
	out.Items = make([]Item, len(items))
	for i, item := range items {
		out.Items[i] = item.TrimDepth()
	}
	return out
}

// GroupByID looks up a board group.
func (b Board) GroupByID(id string) (Group, bool) {
	for _, group := range b.Groups {
		if group.ID == id {
			return group, true
		}
	}
	return Group{}, false
}

// SubitemCount returns the number of subitems nested under the board's items.
func (b Board) SubitemCount() int {
	count := 0
	for _, item := range b.Items {
		count += len(item.Subitems)
	}
	return count
}
