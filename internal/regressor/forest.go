package regressor

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Aggregation modes for a tree ensemble.
const (
	AggregateMean    = "mean"    // bagged forest: average of tree outputs
	AggregateBoosted = "boosted" // gradient boosting: base + rate * sum of tree outputs
)

// TreeSpec is one regression tree in flat array form. Node i is a leaf when
// Left[i] < 0; otherwise rows with x[Feature[i]] <= Threshold[i] go Left.
type TreeSpec struct {
	Left      []int     `json:"left" yaml:"left"`
	Right     []int     `json:"right" yaml:"right"`
	Feature   []int     `json:"feature" yaml:"feature"`
	Threshold []float64 `json:"threshold" yaml:"threshold"`
	Value     []float64 `json:"value" yaml:"value"`
}

// ForestSpec is the serialised form of a tree ensemble.
type ForestSpec struct {
	Aggregation  string     `json:"aggregation" yaml:"aggregation"`
	LearningRate float64    `json:"learning_rate,omitempty" yaml:"learning_rate,omitempty"`
	BaseScore    float64    `json:"base_score,omitempty" yaml:"base_score,omitempty"`
	Trees        []TreeSpec `json:"trees" yaml:"trees"`
}

// Forest evaluates an ensemble of regression trees.
type Forest struct {
	spec        ForestSpec
	nFeatures   int
	importances []float64
}

// NewForest validates every tree against nFeatures. When importances is nil
// they are derived from split counts per feature, normalised to sum to 1.
func NewForest(spec ForestSpec, nFeatures int, importances []float64) (*Forest, error) {
	if len(spec.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	switch spec.Aggregation {
	case "":
		spec.Aggregation = AggregateMean
	case AggregateMean:
	case AggregateBoosted:
		if spec.LearningRate == 0 {
			spec.LearningRate = 1
		}
	default:
		return nil, fmt.Errorf("unknown aggregation %q", spec.Aggregation)
	}

	splits := make([]float64, nFeatures)
	for t, tree := range spec.Trees {
		if err := validateTree(tree, nFeatures); err != nil {
			return nil, fmt.Errorf("tree %d: %w", t, err)
		}
		for i, left := range tree.Left {
			if left >= 0 {
				splits[tree.Feature[i]]++
			}
		}
	}

	if importances == nil {
		importances = splits
		if total := floats.Sum(importances); total > 0 {
			floats.Scale(1/total, importances)
		}
	} else {
		if len(importances) != nFeatures {
			return nil, fmt.Errorf("forest has %d features but %d importances", nFeatures, len(importances))
		}
		importances = append([]float64(nil), importances...)
	}

	return &Forest{
		spec:        spec,
		nFeatures:   nFeatures,
		importances: importances,
	}, nil
}

func validateTree(tree TreeSpec, nFeatures int) error {
	n := len(tree.Value)
	if n == 0 {
		return fmt.Errorf("no nodes")
	}
	if len(tree.Left) != n || len(tree.Right) != n || len(tree.Feature) != n || len(tree.Threshold) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		if tree.Left[i] < 0 {
			continue
		}
		// children must point forward, which also rules out cycles
		if tree.Left[i] <= i || tree.Left[i] >= n || tree.Right[i] <= i || tree.Right[i] >= n {
			return fmt.Errorf("node %d has children out of range", i)
		}
		if tree.Feature[i] < 0 || tree.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, tree.Feature[i], nFeatures)
		}
	}
	return nil
}

func evalTree(tree TreeSpec, x []float64) float64 {
	node := 0
	for tree.Left[node] >= 0 {
		if x[tree.Feature[node]] <= tree.Threshold[node] {
			node = tree.Left[node]
		} else {
			node = tree.Right[node]
		}
	}
	return tree.Value[node]
}

// Predict implements quotation.Regressor.
func (f *Forest) Predict(_ context.Context, values []float64) (float64, error) {
	if len(values) != f.nFeatures {
		return 0, fmt.Errorf("forest expects %d features, got %d", f.nFeatures, len(values))
	}

	outputs := make([]float64, len(f.spec.Trees))
	for i, tree := range f.spec.Trees {
		outputs[i] = evalTree(tree, values)
	}
	sum := floats.Sum(outputs)

	if f.spec.Aggregation == AggregateBoosted {
		return f.spec.BaseScore + f.spec.LearningRate*sum, nil
	}
	return sum / float64(len(outputs)), nil
}

// FeatureImportances implements quotation.Regressor.
func (f *Forest) FeatureImportances() []float64 {
	return append([]float64(nil), f.importances...)
}
