// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package differ compares the same category as held by two backends.
package differ

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/menuctl/internal/menu"
)

// Result of comparing two item lists.
type Result struct {
	Modified bool
	// Text is an ASCII rendering of the differences, empty when unmodified.
	Text string
}

type entry struct {
	ID        menu.ID `json:"id"`
	IsSoldOut bool    `json:"isSoldOut"`
}

// keyed indexes items by name. Ids are not comparable across backends, so
// they are carried as a value rather than used as the key.
func keyed(items []menu.Item) map[string]entry {
	out := make(map[string]entry, len(items))
	seen := map[string]int{}
	for _, it := range items {
		key := it.Name
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s (%d)", it.Name, n)
		}
		out[key] = entry{ID: it.ID, IsSoldOut: it.IsSoldOut}
	}
	return out
}

// Items diffs left against right. Ids are ignored when ignoreIDs is set.
func Items(left, right []menu.Item, ignoreIDs, color bool) (Result, error) {
	l, r := keyed(left), keyed(right)
	if ignoreIDs {
		for k, e := range l {
			e.ID = ""
			l[k] = e
		}
		for k, e := range r {
			e.ID = ""
			r[k] = e
		}
	}

	lb, err := json.Marshal(l)
	if err != nil {
		return Result{}, fmt.Errorf("marshaling left: %w", err)
	}
	rb, err := json.Marshal(r)
	if err != nil {
		return Result{}, fmt.Errorf("marshaling right: %w", err)
	}

	d, err := gojsondiff.New().Compare(lb, rb)
	if err != nil {
		return Result{}, fmt.Errorf("comparing: %w", err)
	}
	if !d.Modified() {
		return Result{}, nil
	}

	var lm map[string]interface{}
	if err := json.Unmarshal(lb, &lm); err != nil {
		return Result{}, fmt.Errorf("decoding left: %w", err)
	}

	f := formatter.NewAsciiFormatter(lm, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	})
	text, err := f.Format(d)
	if err != nil {
		return Result{}, fmt.Errorf("formatting diff: %w", err)
	}

	log.Debugf("differ: %d deltas", len(d.Deltas()))
	return Result{Modified: true, Text: text}, nil
}
