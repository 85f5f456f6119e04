// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package render projects a category's items into display rows. Nothing here
// performs I/O or touches the store.
package render

import (
	"fmt"

	"github.com/staranto/menuctl/internal/menu"
)

// Row is one displayed item. Position is 1-based.
type Row struct {
	Position int     `json:"position"`
	ID       menu.ID `json:"id"`
	Name     string  `json:"name"`
	SoldOut  bool    `json:"soldout"`
}

// View is everything a surface needs to draw one category.
type View struct {
	Category  menu.Category `json:"category"`
	Rows      []Row         `json:"rows"`
	Total     int           `json:"total"`
	Available int           `json:"available"`
}

// Project builds the View for items of category c.
func Project(c menu.Category, items []menu.Item) View {
	rows := make([]Row, 0, len(items))
	for i, it := range items {
		rows = append(rows, Row{
			Position: i + 1,
			ID:       it.ID,
			Name:     it.Name,
			SoldOut:  it.IsSoldOut,
		})
	}
	return View{
		Category:  c,
		Rows:      rows,
		Total:     len(items),
		Available: menu.Available(items),
	}
}

// Badge is the count badge text. Sold-out items are not counted.
func Badge(v View) string {
	return fmt.Sprintf("%d of %d available", v.Available, v.Total)
}
