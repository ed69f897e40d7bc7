package quotation

// RegionAdjuster applies a per-region price multiplier to a raw estimate.
type RegionAdjuster struct {
	multipliers  map[string]float64
	allowUnknown bool
}

// NewRegionAdjuster copies the multiplier table. A nil or empty table means the
// variant has no regional pricing and every region gets 1.0. With allowUnknown
// set, regions missing from a non-empty table also fall back to 1.0.
func NewRegionAdjuster(multipliers map[string]float64, allowUnknown bool) *RegionAdjuster {
	table := make(map[string]float64, len(multipliers))
	for region, m := range multipliers {
		table[region] = m
	}
	return &RegionAdjuster{
		multipliers:  table,
		allowUnknown: allowUnknown,
	}
}

// Adjust returns the adjusted cost and the multiplier that produced it.
func (a *RegionAdjuster) Adjust(rawCost float64, region string) (float64, float64, error) {
	if len(a.multipliers) == 0 {
		return rawCost, 1.0, nil
	}

	multiplier, ok := a.multipliers[region]
	if !ok {
		if !a.allowUnknown {
			return 0, 0, &UnknownRegionError{Region: region}
		}
		return rawCost, 1.0, nil
	}
	return rawCost * multiplier, multiplier, nil
}
