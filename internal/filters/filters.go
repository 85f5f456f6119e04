// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// filterRegex splits a filter expression into key, operator and target.
// Operators are one of = ^ ~ < > @ or /, optionally prefixed with '!'.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// DelimEnv overrides the "," separating filter expressions.
const DelimEnv = "MENUCTL_FILTER_DELIM"

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs (unsupported operand or malformed expression) are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	delim := ","
	if d, ok := os.LookupEnv(DelimEnv); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil || parts[1] == "" {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(parts[2], "!")

		filters = append(filters, Filter{
			Key:     strings.TrimSpace(parts[1]),
			Negate:  negate,
			Operand: strings.TrimPrefix(parts[2], "!"),
			Target:  parts[3],
		})
	}

	return filters
}

// FilterRows returns the elements of the JSON array rows that satisfy every
// filter in spec. Keys are gjson paths into each row.
func FilterRows(rows gjson.Result, spec string) []gjson.Result {
	filters := BuildFilters(spec)

	//nolint:prealloc
	var kept []gjson.Result
	for _, row := range rows.Array() {
		if ApplyFilters(row, filters) {
			kept = append(kept, row)
		}
	}
	return kept
}

// ApplyFilters reports whether row matches all of filters. A filter whose
// key is absent from the row is reported and ignored.
func ApplyFilters(row gjson.Result, filters []Filter) bool {
	for _, filter := range filters {
		value := row.Get(filter.Key)
		if !value.Exists() {
			msg := fmt.Sprintf("filter key not found: %s", filter.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		var ok bool
		switch value.Type {
		case gjson.String:
			ok = checkStringOperand(value.String(), filter)
		case gjson.True, gjson.False:
			ok = checkStringOperand(strconv.FormatBool(value.Bool()), filter)
		case gjson.Number:
			ok = checkNumericOperand(value.Float(), filter)
		case gjson.JSON:
			if filter.Operand != "@" {
				log.Error("only @ is supported for object and array values: " + filter.Key)
				return false
			}
			ok = checkContainsOperand(value, filter)
		default:
			return false
		}

		if !ok {
			return false
		}
	}

	return true
}

// checkContainsOperand evaluates a membership style filter (operand '@')
// against array elements or object keys.
func checkContainsOperand(value gjson.Result, filter Filter) bool {
	found := false
	value.ForEach(func(key, elem gjson.Result) bool {
		if value.IsObject() {
			found = key.String() == filter.Target
		} else {
			found = elem.String() == filter.Target
		}
		return !found
	})
	return found == !filter.Negate
}

// checkNumericOperand compares a numeric value against the filter target using
// numeric semantics. Supported operands: =, >, < and their negations.
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + filter.Target)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Target == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Target) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Target) == !filter.Negate
	case ">":
		return value > filter.Target == !filter.Negate
	case "<":
		return value < filter.Target == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Target) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
