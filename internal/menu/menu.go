// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Callers detect them with errors.Is.
var (
	ErrEmptyName       = errors.New("menu name must not be empty")
	ErrDuplicateName   = errors.New("menu name already exists in category")
	ErrUnknownCategory = errors.New("unknown category")
	ErrItemNotFound    = errors.New("menu item not found")
)

// Category is one of the fixed menu groupings.
type Category string

const (
	Espresso    Category = "espresso"
	Frappuccino Category = "frappuccino"
	Blended     Category = "blended"
	Teavana     Category = "teavana"
	Desert      Category = "desert"
)

// Categories lists every category in display order.
var Categories = []Category{Espresso, Frappuccino, Blended, Teavana, Desert}

var titles = map[Category]string{
	Espresso:    "Espresso",
	Frappuccino: "Frappuccino",
	Blended:     "Blended",
	Teavana:     "Teavana",
	Desert:      "Desert",
}

// ParseCategory resolves s case-insensitively to a known Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := titles[c]; !ok {
		return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnknownCategory, s, Categories)
	}
	return c, nil
}

// Title is the display name of the category.
func (c Category) Title() string {
	if t, ok := titles[c]; ok {
		return t
	}
	return string(c)
}

// Index returns the display position of c, or -1.
func (c Category) Index() int {
	for i, k := range Categories {
		if k == c {
			return i
		}
	}
	return -1
}

// ID identifies an item. Servers may hand out integers, so a JSON number is
// accepted and kept in its decimal form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Item is a single menu entry.
type Item struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	IsSoldOut bool   `json:"isSoldOut"`
}

// CategoryMap maps each category to its items in display order.
type CategoryMap map[Category][]Item

// Clone returns a deep copy of m.
func (m CategoryMap) Clone() CategoryMap {
	out := make(CategoryMap, len(m))
	for k, v := range m {
		out[k] = CloneItems(v)
	}
	return out
}

// CloneItems copies items so the caller can mutate the result freely.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Find returns the index of the item with the given id, or -1.
func Find(items []Item, id ID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// Available counts the items that are not sold out.
func Available(items []Item) int {
	n := 0
	for _, it := range items {
		if !it.IsSoldOut {
			n++
		}
	}
	return n
}

// ValidateName trims name and checks it against the existing items of a
// category. The item identified by self is skipped in the duplicate check so
// renaming an item to its own name is allowed.
func ValidateName(name string, existing []Item, rejectDuplicates bool, self ID) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if !rejectDuplicates {
		return name, nil
	}
	for _, it := range existing {
		if self != "" && it.ID == self {
			continue
		}
		if it.Name == name {
			return "", fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	return name, nil
}
