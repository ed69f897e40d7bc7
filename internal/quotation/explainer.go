package quotation

import (
	"sort"
	"strings"
)

// GroupingRule folds every column whose name contains Pattern into one display label.
type GroupingRule struct {
	Label   string `json:"label" yaml:"label"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// Driver is one display category and its summed importance.
type Driver struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// DriverImportance is ordered ascending by score so a horizontal bar chart
// drawn in slice order puts the largest driver on top.
type DriverImportance []Driver

// Explain sums column importances into the caller's categories. Columns that
// match no rule are ignored; overlapping rules each count the column.
func Explain(importances map[string]float64, rules []GroupingRule) DriverImportance {
	// summed in a fixed column order so repeated calls agree to the last bit
	columns := make([]string, 0, len(importances))
	for column := range importances {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	drivers := make(DriverImportance, 0, len(rules))
	for _, rule := range rules {
		var score float64
		for _, column := range columns {
			if strings.Contains(column, rule.Pattern) {
				score += importances[column]
			}
		}
		drivers = append(drivers, Driver{Label: rule.Label, Score: score})
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Score < drivers[j].Score
	})
	return drivers
}

// Total returns the sum of all driver scores.
func (d DriverImportance) Total() float64 {
	var total float64
	for _, driver := range d {
		total += driver.Score
	}
	return total
}

// Largest returns the drivers largest first.
func (d DriverImportance) Largest() []Driver {
	out := make([]Driver, len(d))
	for i := range d {
		out[len(d)-1-i] = d[i]
	}
	return out
}
