// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/menuctl/internal/config"
	"github.com/staranto/menuctl/internal/filters"
	"github.com/staranto/menuctl/internal/render"
)

// Formats accepted by --output.
var Formats = []string{"text", "json", "raw", "yaml"}

// columns are the row keys in display order.
var columns = []string{"position", "id", "name", "soldout"}

// Options control how Spit renders a view.
type Options struct {
	Format string
	Filter string
	Sort   string
	Color  bool
	Titles bool
}

// OptionsFromCommand reads the output flags shared by every command.
func OptionsFromCommand(cmd *cli.Command) Options {
	return Options{
		Format: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Color:  cmd.Bool("color"),
		Titles: cmd.Bool("titles"),
	}
}

// Spit orchestrates filtering, sorting and rendering of a view according to
// opts.
func Spit(view render.View, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump the whole view and go home.
	if opts.Format == "raw" {
		b, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal view: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	rows, err := Dataset(view, opts.Filter)
	if err != nil {
		return err
	}
	SortDataset(rows, opts.Sort)

	switch opts.Format {
	case "json":
		b, err := orderedJSON(rows)
		if err != nil {
			return fmt.Errorf("failed to marshal rows: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(orderedRows(rows))
		if err != nil {
			return fmt.Errorf("failed to marshal rows: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		TableWriter(rows, opts, w)
		_, err := fmt.Fprintf(w, "%s: %s\n", view.Category.Title(), render.Badge(view))
		return err
	}
}

// Dataset turns the rows of view into generic maps, keeping those that pass
// the filter spec.
func Dataset(view render.View, spec string) ([]map[string]interface{}, error) {
	raw, err := json.Marshal(view.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rows: %w", err)
	}

	kept := filters.FilterRows(gjson.ParseBytes(raw), spec)
	rows := make([]map[string]interface{}, 0, len(kept))
	for _, r := range kept {
		m, ok := r.Value().(map[string]interface{})
		if !ok {
			log.Warnf("skipping non-object row: %s", r.Raw)
			continue
		}
		rows = append(rows, m)
	}
	return rows, nil
}

// orderedRows converts rows to yaml.MapSlice so the encoder keeps column
// order.
func orderedRows(rows []map[string]interface{}) []yaml.MapSlice {
	out := make([]yaml.MapSlice, 0, len(rows))
	for _, row := range rows {
		ms := make(yaml.MapSlice, 0, len(columns))
		for _, c := range columns {
			ms = append(ms, yaml.MapItem{Key: c, Value: row[c]})
		}
		out = append(out, ms)
	}
	return out
}

// orderedJSON encodes rows as a JSON array whose objects keep column order.
func orderedJSON(rows []map[string]interface{}) ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		for j, c := range columns {
			v, err := json.Marshal(row[c])
			if err != nil {
				return nil, err
			}
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(c))
			b.WriteByte(':')
			b.Write(v)
		}
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

// TableWriter renders the rows in a tabular form honoring color and titles.
// Sold-out rows are dimmed when color is on.
func TableWriter(rows []map[string]interface{}, opts Options, w io.Writer) {
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
		soldOutStyle = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
		soldOutStyle = soldOutStyle.Faint(true).Strikethrough(true)
	}

	pad, _ := config.GetInt("padding", 2)

	cells := make([][]string, 0, len(rows))
	soldOut := make([]bool, 0, len(rows))
	for _, row := range rows {
		out, _ := row["soldout"].(bool)
		soldOut = append(soldOut, out)

		status := "-"
		if out {
			status = "sold out"
		}
		cells = append(cells, []string{
			InterfaceToString(row["position"], "-"),
			InterfaceToString(row["id"], "-"),
			InterfaceToString(row["name"], "-"),
			status,
		})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row >= 0 && row < len(soldOut) && soldOut[row]:
				style = soldOutStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(cells...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(columns...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		// Positions are the only numbers shown, so drop any fraction.
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
