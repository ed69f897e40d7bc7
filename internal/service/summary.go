package service

import (
	"fmt"

	"quotation/internal/quotation"
)

// SummarizeDrivers describes each contributing driver, largest first.
// Drivers with no weight are left out.
func SummarizeDrivers(drivers quotation.DriverImportance) []string {
	total := drivers.Total()
	if total <= 0 {
		return []string{}
	}

	summary := make([]string, 0, len(drivers))
	for _, d := range drivers.Largest() {
		if d.Score <= 0 {
			continue
		}
		summary = append(summary, fmt.Sprintf("%s accounts for %.1f%% of the model's attention", d.Label, 100*d.Score/total))
	}
	return summary
}
