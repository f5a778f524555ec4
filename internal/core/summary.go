package core

import (
	"bytes"
	"encoding/json"
	"sort"
)

// CategoryTotal is the summed amount for one category.
type CategoryTotal struct {
	Category string
	Total    float64
}

// Summary is an ordered category→total mapping, highest total first.
// Ordering matters for the JSON encoding, so it is a slice rather than a map.
type Summary []CategoryTotal

// Summarize groups expenses by their exact stored category, sums amounts in
// input order, sorts descending by total (ties keep first-seen category
// order), and drops totals not strictly greater than minAmount.
//
// Accumulation follows the iteration order of the input so repeated runs over
// the same records produce identical floating-point results.
func Summarize(expenses []Expense, minAmount float64) Summary {
	totals := make(map[string]float64, len(expenses))
	order := make([]string, 0, len(expenses))
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount
	}

	summary := make(Summary, 0, len(order))
	for _, category := range order {
		summary = append(summary, CategoryTotal{Category: category, Total: totals[category]})
	}
	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].Total > summary[j].Total
	})

	filtered := summary[:0]
	for _, ct := range summary {
		if ct.Total > minAmount {
			filtered = append(filtered, ct)
		}
	}
	return filtered
}

// MarshalJSON encodes the summary as a JSON object whose keys appear in
// descending-total order.
func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ct := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ct.Category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(ct.Total)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
