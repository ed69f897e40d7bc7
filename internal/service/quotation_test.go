package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"quotation/internal/model"
	"quotation/internal/quotation"
	"quotation/internal/regressor"

	"github.com/google/uuid"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func fullColumns() []string {
	columns := []string{
		"floor_area_m2", "rooms", "lighting_points", "socket_points",
		"switch_points", "cable_length_m", "conduit_length_m",
	}
	for _, state := range []string{"Abuja", "Kwara", "Lagos", "Ogun", "Oyo", "Rivers"} {
		columns = append(columns, quotation.IndicatorColumn(quotation.CategoryState, state))
	}
	for _, b := range quotation.BuildingTypes {
		columns = append(columns, quotation.IndicatorColumn(quotation.CategoryBuildingType, b))
	}
	for _, l := range quotation.LabourTypes {
		columns = append(columns, quotation.IndicatorColumn(quotation.CategoryLabourType, l))
	}
	return columns
}

func newTestService(t *testing.T) *QuotationService {
	t.Helper()
	columns := fullColumns()
	schema, err := quotation.NewFeatureSchema(columns)
	if err != nil {
		t.Fatalf("NewFeatureSchema() error = %v", err)
	}
	stub, err := regressor.NewStub(regressor.StubSpec{Cost: 1_000_000}, len(columns), quietLogger)
	if err != nil {
		t.Fatalf("NewStub() error = %v", err)
	}
	predictor, err := quotation.NewPredictor(schema, stub)
	if err != nil {
		t.Fatalf("NewPredictor() error = %v", err)
	}
	engine := quotation.NewEngine(quotation.FullVariant(), predictor, false)
	return NewQuotationService(engine, quotation.NewFormatter("₦", "en"), "stub", quietLogger)
}

func lagosRequest() *model.QuoteRequest {
	return &model.QuoteRequest{
		State:            "lagos",
		BuildingType:     "house",
		LabourType:       "Standard",
		FloorAreaM2:      100,
		Rooms:            3,
		LightingPoints:   10,
		SocketPoints:     8,
		ClientName:       "Ada Okafor",
		ProjectReference: "LAG-001",
	}
}

func TestQuote(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Quote(context.Background(), lagosRequest())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	if _, err := uuid.Parse(resp.QuoteID); err != nil {
		t.Errorf("QuoteID %q is not a uuid: %v", resp.QuoteID, err)
	}
	if resp.Region != "Lagos" {
		t.Errorf("Region = %q, want canonical Lagos", resp.Region)
	}
	if resp.ClientName != "Ada Okafor" || resp.ProjectReference != "LAG-001" {
		t.Errorf("client metadata not echoed: %+v", resp)
	}

	wantFormatted := model.FormattedEstimate{
		Total:     "₦1,150,000.00",
		Materials: "₦747,500.00",
		Labour:    "₦402,500.00",
	}
	if resp.Formatted != wantFormatted {
		t.Errorf("Formatted = %+v, want %+v", resp.Formatted, wantFormatted)
	}
	if resp.Estimate.Multiplier != 1.15 {
		t.Errorf("Multiplier = %v, want 1.15", resp.Estimate.Multiplier)
	}

	if len(resp.Drivers) != len(quotation.FullVariant().GroupingRules) {
		t.Fatalf("got %d drivers", len(resp.Drivers))
	}
	for i := 1; i < len(resp.Drivers); i++ {
		if resp.Drivers[i-1].Score > resp.Drivers[i].Score {
			t.Fatalf("drivers not ascending: %+v", resp.Drivers)
		}
	}
	if want := "State Factor accounts for 31.6% of the model's attention"; resp.DriverSummary[0] != want {
		t.Errorf("DriverSummary[0] = %q, want %q", resp.DriverSummary[0], want)
	}
}

func TestQuoteUnknownRegion(t *testing.T) {
	svc := newTestService(t)

	for _, state := range []string{"Kano", "w", "ag", "war"} {
		t.Run(state, func(t *testing.T) {
			req := lagosRequest()
			req.State = state

			_, err := svc.Quote(context.Background(), req)
			var unknown *quotation.UnknownRegionError
			if !errors.As(err, &unknown) {
				t.Fatalf("Quote() error = %v, want UnknownRegionError", err)
			}
			if unknown.Region != state {
				t.Errorf("Region = %q, want %q", unknown.Region, state)
			}
		})
	}
}

func TestNormalizeKeepsFragments(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		in   quotation.Description
		want quotation.Description
	}{
		{
			name: "Fragments pass through",
			in:   quotation.Description{State: "w", BuildingType: "ustr", LabourType: "kill"},
			want: quotation.Description{State: "w", BuildingType: "ustr", LabourType: "kill"},
		},
		{
			name: "Prefixes and aliases resolve",
			in:   quotation.Description{State: "kwa", BuildingType: "factory", LabourType: "highly"},
			want: quotation.Description{State: "Kwara", BuildingType: "Industrial", LabourType: "Highly Skilled"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Normalize(tt.in)
			if got.State != tt.want.State || got.BuildingType != tt.want.BuildingType || got.LabourType != tt.want.LabourType {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQuoteStreamEvents(t *testing.T) {
	svc := newTestService(t)

	var events []string
	_, err := svc.QuoteStream(context.Background(), lagosRequest(), func(event string, data any) error {
		events = append(events, event)
		return nil
	})
	if err != nil {
		t.Fatalf("QuoteStream() error = %v", err)
	}
	want := []string{"normalized", "estimate", "drivers"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}

	stop := errors.New("client gone")
	_, err = svc.QuoteStream(context.Background(), lagosRequest(), func(event string, data any) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("QuoteStream() error = %v, want callback error", err)
	}
}

func TestVariantsAndSchema(t *testing.T) {
	svc := newTestService(t)

	variants := svc.Variants()
	if len(variants) != 2 {
		t.Fatalf("got %d variants", len(variants))
	}
	full, compact := variants[0], variants[1]
	if !full.Active || compact.Active {
		t.Errorf("active flags = %v/%v, want full active", full.Active, compact.Active)
	}
	if len(full.Fields) != 7 || len(compact.Fields) != 4 {
		t.Errorf("fields = %v / %v", full.Fields, compact.Fields)
	}
	if compact.RegionMultipliers != nil {
		t.Error("compact variant should not price regions")
	}
	if len(compact.Regions) != 6 {
		t.Errorf("compact regions = %v, want the known states", compact.Regions)
	}

	schema := svc.Schema()
	if len(schema.Columns) != 19 || schema.Variant != "full" {
		t.Errorf("Schema() = %+v", schema)
	}
	if schema.Drivers[0].Label != "State Factor" {
		t.Errorf("largest driver = %q", schema.Drivers[0].Label)
	}
}

func TestSummarizeDrivers(t *testing.T) {
	tests := []struct {
		name    string
		drivers quotation.DriverImportance
		want    []string
	}{
		{name: "Empty", drivers: nil, want: []string{}},
		{name: "All zero", drivers: quotation.DriverImportance{{Label: "Rooms"}}, want: []string{}},
		{
			name: "Largest first, zero dropped",
			drivers: quotation.DriverImportance{
				{Label: "Rooms", Score: 0},
				{Label: "Labour Skill", Score: 0.25},
				{Label: "Floor Area", Score: 0.75},
			},
			want: []string{
				"Floor Area accounts for 75.0% of the model's attention",
				"Labour Skill accounts for 25.0% of the model's attention",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeDrivers(tt.drivers)
			if len(got) != len(tt.want) {
				t.Fatalf("SummarizeDrivers() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
