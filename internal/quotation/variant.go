package quotation

import (
	"fmt"
	"sort"
)

// Field identifies a ProjectDescription attribute independent of any column naming.
type Field string

const (
	FieldFloorArea      Field = "floor_area"
	FieldRooms          Field = "rooms"
	FieldLightingPoints Field = "lighting_points"
	FieldSocketPoints   Field = "socket_points"
	FieldSwitchPoints   Field = "switch_points"
	FieldCableLength    Field = "cable_length"
	FieldConduitLength  Field = "conduit_length"
)

// Categorical field names. These double as indicator column prefixes.
const (
	CategoryState        = "state"
	CategoryBuildingType = "building_type"
	CategoryLabourType   = "labour_type"
)

// Known categorical options offered to users.
var (
	BuildingTypes = []string{"Residential", "Commercial", "Industrial"}
	LabourTypes   = []string{"Standard", "Skilled", "Highly Skilled"}
)

// Description is a project description as the engine sees it. Optional
// numeric fields are nil when the caller did not supply them.
type Description struct {
	State          string
	BuildingType   string
	LabourType     string
	FloorAreaM2    float64
	Rooms          int
	LightingPoints int
	SocketPoints   int
	SwitchPoints   *int
	CableLengthM   *float64
	ConduitLengthM *float64
}

// Variant is one input schema: which fields participate, under which column
// names, how importances are grouped for display and how regions are priced.
type Variant struct {
	Name              string             `json:"name" yaml:"name"`
	Columns           map[Field]string   `json:"columns" yaml:"columns"`
	GroupingRules     []GroupingRule     `json:"grouping_rules" yaml:"grouping_rules"`
	RegionMultipliers map[string]float64 `json:"region_multipliers,omitempty" yaml:"region_multipliers,omitempty"`
}

// Record flattens a description into column-keyed numerics and field-keyed
// categoricals. Fields the variant does not name, and optional fields left
// unset, are omitted and therefore encode as 0.
func (v *Variant) Record(d Description) Record {
	numeric := make(map[string]float64, len(v.Columns))
	put := func(f Field, value float64) {
		if col, ok := v.Columns[f]; ok {
			numeric[col] = value
		}
	}

	put(FieldFloorArea, d.FloorAreaM2)
	put(FieldRooms, float64(d.Rooms))
	put(FieldLightingPoints, float64(d.LightingPoints))
	put(FieldSocketPoints, float64(d.SocketPoints))
	if d.SwitchPoints != nil {
		put(FieldSwitchPoints, float64(*d.SwitchPoints))
	}
	if d.CableLengthM != nil {
		put(FieldCableLength, *d.CableLengthM)
	}
	if d.ConduitLengthM != nil {
		put(FieldConduitLength, *d.ConduitLengthM)
	}

	return Record{
		Numeric: numeric,
		Categorical: map[string]string{
			CategoryState:        d.State,
			CategoryBuildingType: d.BuildingType,
			CategoryLabourType:   d.LabourType,
		},
	}
}

// Uses reports whether the variant encodes a field.
func (v *Variant) Uses(f Field) bool {
	_, ok := v.Columns[f]
	return ok
}

// Regions lists the regions with a configured multiplier, alphabetically.
func (v *Variant) Regions() []string {
	regions := make([]string, 0, len(v.RegionMultipliers))
	for r := range v.RegionMultipliers {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// StateMultipliers are the regional price factors of the full variant.
var StateMultipliers = map[string]float64{
	"Lagos":  1.15,
	"Abuja":  1.12,
	"Rivers": 1.10,
	"Oyo":    1.00,
	"Ogun":   0.95,
	"Kwara":  0.92,
}

// FullVariant encodes every technical field and prices regions.
func FullVariant() *Variant {
	multipliers := make(map[string]float64, len(StateMultipliers))
	for k, v := range StateMultipliers {
		multipliers[k] = v
	}
	return &Variant{
		Name: "full",
		Columns: map[Field]string{
			FieldFloorArea:      "floor_area_m2",
			FieldRooms:          "rooms",
			FieldLightingPoints: "lighting_points",
			FieldSocketPoints:   "socket_points",
			FieldSwitchPoints:   "switch_points",
			FieldCableLength:    "cable_length_m",
			FieldConduitLength:  "conduit_length_m",
		},
		GroupingRules: []GroupingRule{
			{Label: "Floor Area", Pattern: "floor_area"},
			{Label: "Rooms", Pattern: "rooms"},
			{Label: "Lighting Points", Pattern: "lighting_points"},
			{Label: "Socket Points", Pattern: "socket_points"},
			{Label: "Switch Points", Pattern: "switch_points"},
			{Label: "Cable Length", Pattern: "cable_length"},
			{Label: "Conduit Length", Pattern: "conduit_length"},
			{Label: "Building Type", Pattern: "building_type"},
			{Label: "Labour Skill", Pattern: "labour_type"},
			{Label: "State Factor", Pattern: "state"},
		},
		RegionMultipliers: multipliers,
	}
}

// CompactVariant omits switch, cable and conduit inputs, uses the short column
// names and has no regional pricing.
func CompactVariant() *Variant {
	return &Variant{
		Name: "compact",
		Columns: map[Field]string{
			FieldFloorArea:      "floor_area_m2",
			FieldRooms:          "num_rooms",
			FieldLightingPoints: "num_lights",
			FieldSocketPoints:   "num_sockets",
		},
		GroupingRules: []GroupingRule{
			{Label: "Floor Area", Pattern: "floor_area"},
			{Label: "Rooms", Pattern: "num_rooms"},
			{Label: "Lighting Points", Pattern: "num_lights"},
			{Label: "Socket Points", Pattern: "num_sockets"},
			{Label: "Building Type", Pattern: "building_type"},
			{Label: "Labour Skill", Pattern: "labour_type"},
			{Label: "State Factor", Pattern: "state"},
		},
	}
}

// LookupVariant returns a built-in variant by name.
func LookupVariant(name string) (*Variant, error) {
	switch name {
	case "", "full":
		return FullVariant(), nil
	case "compact":
		return CompactVariant(), nil
	default:
		return nil, fmt.Errorf("unknown variant %q", name)
	}
}
