package model

import (
	"quotation/internal/quotation"
)

// QuoteRequest represents a project description submitted for quotation
type QuoteRequest struct {
	State          string   `json:"state" binding:"required"`
	BuildingType   string   `json:"building_type" binding:"required"`
	LabourType     string   `json:"labour_type" binding:"required"`
	FloorAreaM2    float64  `json:"floor_area_m2" binding:"required,gt=0"`
	Rooms          int      `json:"rooms" binding:"gte=1"`
	LightingPoints int      `json:"lighting_points" binding:"gte=1"`
	SocketPoints   int      `json:"socket_points" binding:"gte=1"`
	SwitchPoints   *int     `json:"switch_points,omitempty" binding:"omitempty,gt=0"`
	CableLengthM   *float64 `json:"cable_length_m,omitempty" binding:"omitempty,gt=0"`
	ConduitLengthM *float64 `json:"conduit_length_m,omitempty" binding:"omitempty,gt=0"`

	ClientName       string `json:"client_name,omitempty" binding:"max=200"`
	ProjectReference string `json:"project_reference,omitempty" binding:"max=100"`
}

// Description converts the request into the engine's input type
func (r *QuoteRequest) Description() quotation.Description {
	return quotation.Description{
		State:          r.State,
		BuildingType:   r.BuildingType,
		LabourType:     r.LabourType,
		FloorAreaM2:    r.FloorAreaM2,
		Rooms:          r.Rooms,
		LightingPoints: r.LightingPoints,
		SocketPoints:   r.SocketPoints,
		SwitchPoints:   r.SwitchPoints,
		CableLengthM:   r.CableLengthM,
		ConduitLengthM: r.ConduitLengthM,
	}
}

// FormattedEstimate holds the display strings of a cost estimate
type FormattedEstimate struct {
	Total     string `json:"total"`
	Materials string `json:"materials"`
	Labour    string `json:"labour"`
}

// QuoteResponse represents a completed quotation
type QuoteResponse struct {
	QuoteID          string                     `json:"quote_id"`
	ClientName       string                     `json:"client_name,omitempty"`
	ProjectReference string                     `json:"project_reference,omitempty"`
	Variant          string                     `json:"variant"`
	Region           string                     `json:"region"`
	Currency         string                     `json:"currency"`
	RawCost          float64                    `json:"raw_cost"`
	Estimate         quotation.CostEstimate     `json:"estimate"`
	Formatted        FormattedEstimate          `json:"formatted"`
	Drivers          quotation.DriverImportance `json:"drivers"`       // ascending, chart order
	DriverSummary    []string                   `json:"driver_summary"` // largest first
	Took             int64                      `json:"took_ms"`       // Response time in milliseconds
}

// VariantResponse describes the input schema a client should render
type VariantResponse struct {
	Name              string                   `json:"name"`
	Regions           []string                 `json:"regions"`
	RegionMultipliers map[string]float64       `json:"region_multipliers,omitempty"`
	BuildingTypes     []string                 `json:"building_types"`
	LabourTypes       []string                 `json:"labour_types"`
	Fields            []string                 `json:"fields"`
	GroupingRules     []quotation.GroupingRule `json:"grouping_rules"`
	Active            bool                     `json:"active"`
}

// SchemaResponse lists the loaded model's feature columns
type SchemaResponse struct {
	Model       string             `json:"model"`
	Variant     string             `json:"variant"`
	Columns     []string           `json:"columns"`
	Importances map[string]float64 `json:"importances"`
	Drivers     []quotation.Driver `json:"drivers"` // largest first
}

// ArtifactPublishResponse reports a stored artifact
type ArtifactPublishResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Columns int    `json:"columns"`
}
