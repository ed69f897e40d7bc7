package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"quotation/internal/model"
	"quotation/internal/quotation"
	"quotation/internal/utils"

	"github.com/google/uuid"
)

// fieldOrder is the order fields are listed to clients
var fieldOrder = []quotation.Field{
	quotation.FieldFloorArea,
	quotation.FieldRooms,
	quotation.FieldLightingPoints,
	quotation.FieldSocketPoints,
	quotation.FieldSwitchPoints,
	quotation.FieldCableLength,
	quotation.FieldConduitLength,
}

// QuotationService handles quotation business logic
type QuotationService struct {
	engine    *quotation.Engine
	formatter *quotation.Formatter
	modelName string
	logger    *slog.Logger
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	engine *quotation.Engine,
	formatter *quotation.Formatter,
	modelName string,
	logger *slog.Logger,
) *QuotationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotationService{
		engine:    engine,
		formatter: formatter,
		modelName: modelName,
		logger:    logger,
	}
}

// QuoteEventCallback is called for streaming quotation events
type QuoteEventCallback func(event string, data any) error

// Quote prices one project description
func (s *QuotationService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResponse, error) {
	return s.QuoteStream(ctx, req, nil)
}

// QuoteStream prices one project description and reports each stage to callback
func (s *QuotationService) QuoteStream(ctx context.Context, req *model.QuoteRequest, callback QuoteEventCallback) (*model.QuoteResponse, error) {
	startTime := time.Now()
	emit := func(event string, data any) error {
		if callback == nil {
			return nil
		}
		return callback(event, data)
	}

	desc := s.Normalize(req.Description())
	if err := emit("normalized", map[string]any{
		"state":         desc.State,
		"building_type": desc.BuildingType,
		"labour_type":   desc.LabourType,
	}); err != nil {
		return nil, err
	}

	quote, err := s.engine.Quote(ctx, desc)
	if err != nil {
		s.logger.Warn("quotation failed",
			slog.String("state", desc.State),
			slog.String("building_type", desc.BuildingType),
			slog.Any("error", err),
		)
		return nil, err
	}

	formatted := s.Format(quote.Estimate)
	if err := emit("estimate", map[string]any{
		"raw_cost":   quote.RawCost,
		"multiplier": quote.Estimate.Multiplier,
		"formatted":  formatted,
	}); err != nil {
		return nil, err
	}

	summary := SummarizeDrivers(quote.Drivers)
	if err := emit("drivers", summary); err != nil {
		return nil, err
	}

	took := time.Since(startTime).Milliseconds()
	response := &model.QuoteResponse{
		QuoteID:          uuid.NewString(),
		ClientName:       req.ClientName,
		ProjectReference: req.ProjectReference,
		Variant:          s.engine.Variant().Name,
		Region:           desc.State,
		Currency:         s.formatter.Symbol(),
		RawCost:          quote.RawCost,
		Estimate:         quote.Estimate,
		Formatted:        formatted,
		Drivers:          quote.Drivers,
		DriverSummary:    summary,
		Took:             took,
	}

	s.logger.Info("quotation issued",
		slog.String("quote_id", response.QuoteID),
		slog.String("model", s.modelName),
		slog.String("state", desc.State),
		slog.Float64("total", quote.Estimate.Total),
		slog.Int64("took_ms", took),
	)
	return response, nil
}

// Normalize canonicalises the categorical fields against the offered options.
// Values that match nothing are left for the engine to drop.
func (s *QuotationService) Normalize(d quotation.Description) quotation.Description {
	d.State = utils.CanonicalState(d.State, regionOptions(s.engine.Variant()))
	d.BuildingType = utils.CanonicalBuildingType(d.BuildingType, quotation.BuildingTypes)
	d.LabourType = utils.CanonicalLabourType(d.LabourType, quotation.LabourTypes)
	return d
}

// Format renders a cost estimate with the configured currency
func (s *QuotationService) Format(estimate quotation.CostEstimate) model.FormattedEstimate {
	return model.FormattedEstimate{
		Total:     s.formatter.Format(estimate.Total),
		Materials: s.formatter.Format(estimate.Materials),
		Labour:    s.formatter.Format(estimate.Labour),
	}
}

// Variants describes every built-in input schema and flags the one in use
func (s *QuotationService) Variants() []model.VariantResponse {
	return DescribeVariants(s.engine.Variant().Name)
}

// Schema lists the loaded model's columns, importances and grouped drivers
func (s *QuotationService) Schema() *model.SchemaResponse {
	predictor := s.engine.Predictor()
	return &model.SchemaResponse{
		Model:       s.modelName,
		Variant:     s.engine.Variant().Name,
		Columns:     predictor.Schema().Columns(),
		Importances: predictor.Importances(),
		Drivers:     s.engine.Drivers().Largest(),
	}
}

// DescribeVariants describes every built-in input schema, flagging active
func DescribeVariants(active string) []model.VariantResponse {
	variants := []*quotation.Variant{quotation.FullVariant(), quotation.CompactVariant()}
	out := make([]model.VariantResponse, 0, len(variants))
	for _, v := range variants {
		out = append(out, describeVariant(v, v.Name == active))
	}
	return out
}

func describeVariant(v *quotation.Variant, active bool) model.VariantResponse {
	fields := make([]string, 0, len(v.Columns))
	for _, f := range fieldOrder {
		if v.Uses(f) {
			fields = append(fields, v.Columns[f])
		}
	}

	var multipliers map[string]float64
	if len(v.RegionMultipliers) > 0 {
		multipliers = make(map[string]float64, len(v.RegionMultipliers))
		for region, m := range v.RegionMultipliers {
			multipliers[region] = m
		}
	}

	return model.VariantResponse{
		Name:              v.Name,
		Regions:           regionOptions(v),
		RegionMultipliers: multipliers,
		BuildingTypes:     append([]string(nil), quotation.BuildingTypes...),
		LabourTypes:       append([]string(nil), quotation.LabourTypes...),
		Fields:            fields,
		GroupingRules:     append([]quotation.GroupingRule(nil), v.GroupingRules...),
		Active:            active,
	}
}

// regionOptions falls back to the known states when a variant prices no regions
func regionOptions(v *quotation.Variant) []string {
	if regions := v.Regions(); len(regions) > 0 {
		return regions
	}
	regions := make([]string, 0, len(quotation.StateMultipliers))
	for region := range quotation.StateMultipliers {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}
