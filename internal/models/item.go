package models

import "time"

// MaxItemDepth is how many levels of subitems an Item may carry. Subitems of
// subitems are not requested from the API and are dropped by TrimDepth.
const MaxItemDepth = 1

// Item is a single board row.
type Item struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Group        *Group        `json:"group,omitempty" yaml:"group,omitempty"`
	Creator      *Person       `json:"creator,omitempty" yaml:"creator,omitempty"`
	CreatedAt    *time.Time    `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    *time.Time    `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	ColumnValues []ColumnValue `json:"column_values" yaml:"column_values"`
	Subitems     []Item        `json:"subitems,omitempty" yaml:"subitems,omitempty"`
}

// ColumnValueByID returns the value stored for the given column, if any.
func (i Item) ColumnValueByID(columnID string) (ColumnValue, bool) {
	for _, value := range i.ColumnValues {
		if value.ID == columnID {
			return value, true
		}
	}
	return ColumnValue{}, false
}

// TrimDepth returns a copy of the item whose subitem tree is cut to MaxItemDepth.
func (i Item) TrimDepth() Item {
	return i.trim(0)
}

func (i Item) trim(depth int) Item {
	out := i
	if depth >= MaxItemDepth || len(i.Subitems) == 0 {
		out.Subitems = nil
		return out
	}
	out.Subitems = make([]Item, len(i.Subitems))
	for idx, sub := range i.Subitems {
		out.Subitems[idx] = sub.trim(depth + 1)
	}
	return out
}
