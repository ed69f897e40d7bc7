package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"quotation/internal/model"
)

const sampleArtifact = "../../artifacts/cost_estimation_model.json"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MODEL_SOURCE", "file")
	t.Setenv("QUOTE_CURRENCY_SYMBOL", "")
	t.Setenv("QUOTE_LOCALE", "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuoteJSON(t *testing.T) {
	out, err := execute(t,
		"--artifact", sampleArtifact, "--variant", "full",
		"quote", "--state", "lagos", "--floor-area", "100", "--rooms", "3",
		"--lights", "10", "--sockets", "8", "--client", "Ada", "--json",
	)
	if err != nil {
		t.Fatalf("quote error = %v", err)
	}

	var resp model.QuoteResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	// 150000 + 4500*100 + 25000*3 + 3500*10 + 4000*8 + 35000 (Lagos), then x1.15
	if resp.Formatted.Total != "₦893,550.00" {
		t.Errorf("Total = %q, want ₦893,550.00", resp.Formatted.Total)
	}
	if resp.Region != "Lagos" || resp.ClientName != "Ada" {
		t.Errorf("response = %+v", resp)
	}
}

func TestQuoteText(t *testing.T) {
	out, err := execute(t, "--artifact", sampleArtifact, "quote", "--state", "Oyo", "--floor-area", "50")
	if err != nil {
		t.Fatalf("quote error = %v", err)
	}
	for _, want := range []string{"QUOTATION", "Region:     Oyo (x1.00)", "Total:", "COST DRIVERS:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQuoteErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "Zero floor area", args: []string{"--artifact", sampleArtifact, "quote", "--floor-area", "0"}},
		{name: "Unknown region", args: []string{"--artifact", sampleArtifact, "quote", "--state", "Kano"}},
		{name: "Missing artifact", args: []string{"--artifact", "missing.json", "quote"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestQuoteAllowUnknownRegion(t *testing.T) {
	out, err := execute(t, "--artifact", sampleArtifact, "--allow-unknown-region", "quote", "--state", "Kano")
	if err != nil {
		t.Fatalf("quote error = %v", err)
	}
	if !strings.Contains(out, "Kano (x1.00)") {
		t.Errorf("output:\n%s", out)
	}
}

func TestVariantsCommand(t *testing.T) {
	out, err := execute(t, "--variant", "compact", "variants")
	if err != nil {
		t.Fatalf("variants error = %v", err)
	}
	if !strings.Contains(out, "COMPACT (active)") || !strings.Contains(out, "Lagos    x1.15") {
		t.Errorf("output:\n%s", out)
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "--artifact", sampleArtifact, "schema")
	if err != nil {
		t.Fatalf("schema error = %v", err)
	}
	if !strings.Contains(out, "MODEL cost_estimation_model (variant full, 19 columns)") {
		t.Errorf("output:\n%s", out)
	}
}

func TestPublishDryRun(t *testing.T) {
	out, err := execute(t, "publish", "--dry-run", "../../artifacts/compact_forest.yaml")
	if err != nil {
		t.Fatalf("publish error = %v", err)
	}
	if want := "compact_forest: valid forest model, variant compact, 10 columns"; !strings.Contains(out, want) {
		t.Errorf("output = %q, want %q", out, want)
	}
}
