package quotation

import (
	"math"
)

// Fixed cost split between materials and labour.
const (
	MaterialRatio = 0.65
	LabourRatio   = 1 - MaterialRatio
)

// CostEstimate is the region-adjusted total and its materials/labour split.
type CostEstimate struct {
	Total      float64 `json:"total"`
	Multiplier float64 `json:"multiplier"`
	Materials  float64 `json:"materials"`
	Labour     float64 `json:"labour"`
}

// Breakdown splits an adjusted cost into materials and labour.
func Breakdown(adjustedCost, multiplier float64) (*CostEstimate, error) {
	if math.IsNaN(adjustedCost) || math.IsInf(adjustedCost, 0) {
		return nil, &InvalidCostError{Stage: "breakdown", Value: adjustedCost}
	}

	return &CostEstimate{
		Total:      adjustedCost,
		Multiplier: multiplier,
		Materials:  adjustedCost * MaterialRatio,
		Labour:     adjustedCost * LabourRatio,
	}, nil
}
