package main

import (
	"fmt"
	"io"
	"strings"

	"quotation/internal/model"
)

func printQuote(w io.Writer, q *model.QuoteResponse) {
	fmt.Fprintf(w, "QUOTATION %s\n", q.QuoteID)
	if q.ClientName != "" {
		fmt.Fprintf(w, "  Client:     %s\n", q.ClientName)
	}
	if q.ProjectReference != "" {
		fmt.Fprintf(w, "  Reference:  %s\n", q.ProjectReference)
	}
	fmt.Fprintf(w, "  Region:     %s (x%.2f)\n", q.Region, q.Estimate.Multiplier)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Materials:  %s\n", q.Formatted.Materials)
	fmt.Fprintf(w, "  Labour:     %s\n", q.Formatted.Labour)
	fmt.Fprintf(w, "  Total:      %s\n", q.Formatted.Total)

	if len(q.DriverSummary) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "COST DRIVERS:")
		for _, line := range q.DriverSummary {
			fmt.Fprintf(w, "  * %s\n", line)
		}
	}
}

func printVariants(w io.Writer, variants []model.VariantResponse) {
	for i, v := range variants {
		if i > 0 {
			fmt.Fprintln(w)
		}
		marker := ""
		if v.Active {
			marker = " (active)"
		}
		fmt.Fprintf(w, "%s%s\n", strings.ToUpper(v.Name), marker)
		fmt.Fprintf(w, "  fields:          %s\n", strings.Join(v.Fields, ", "))
		fmt.Fprintf(w, "  building types:  %s\n", strings.Join(v.BuildingTypes, ", "))
		fmt.Fprintf(w, "  labour types:    %s\n", strings.Join(v.LabourTypes, ", "))
		if len(v.RegionMultipliers) == 0 {
			fmt.Fprintf(w, "  regions:         %s (no regional pricing)\n", strings.Join(v.Regions, ", "))
			continue
		}
		fmt.Fprintln(w, "  regions:")
		for _, region := range v.Regions {
			fmt.Fprintf(w, "    %-8s x%.2f\n", region, v.RegionMultipliers[region])
		}
	}
}

func printSchema(w io.Writer, s *model.SchemaResponse) {
	fmt.Fprintf(w, "MODEL %s (variant %s, %d columns)\n", s.Model, s.Variant, len(s.Columns))
	for _, column := range s.Columns {
		fmt.Fprintf(w, "  %-32s %.4f\n", column, s.Importances[column])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "DRIVERS:")
	for _, d := range s.Drivers {
		fmt.Fprintf(w, "  %-16s %.4f\n", d.Label, d.Score)
	}
}
