package risk

import (
	"fmt"
	"math"
)

// Node is one decision-tree node in flat-array encoding. Internal nodes
// route on x[Feature] <= Threshold; leaves carry a value whose meaning
// depends on the ensemble (probability for the forest, margin for boost).
type Node struct {
	Feature   int      `json:"f"`
	Threshold float64  `json:"t"`
	Left      int      `json:"l"`
	Right     int      `json:"r"`
	Leaf      *float64 `json:"leaf,omitempty"`
}

// Tree is a flat-encoded decision tree rooted at node 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t Tree) validate() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Leaf != nil {
			continue
		}
		if n.Feature < 0 || n.Feature >= numFeatures {
			return fmt.Errorf("node %d routes on feature %d, out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has children %d/%d outside (%d, %d)", i, n.Left, n.Right, i, len(t.Nodes))
		}
	}
	return nil
}

// eval walks the tree for a standardized feature vector. Children always
// point forward in the node array, so the walk is bounded by the tree size.
func (t Tree) eval(x []float64) (float64, error) {
	idx := 0
	for steps := 0; steps < len(t.Nodes); steps++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("tree walk left node array at %d", idx)
		}
		n := t.Nodes[idx]
		if n.Leaf != nil {
			return *n.Leaf, nil
		}
		if n.Feature >= len(x) {
			return 0, fmt.Errorf("tree routes on feature %d, vector has %d", n.Feature, len(x))
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return 0, fmt.Errorf("tree walk did not reach a leaf")
}

// predict averages the per-tree class-1 probabilities.
func (f Forest) predict(x []float64) (float64, error) {
	var sum float64
	for _, t := range f.Trees {
		v, err := t.eval(x)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(f.Trees)), nil
}

// predict sums margin contributions over the bias and applies the sigmoid.
func (b Boost) predict(x []float64) (float64, error) {
	margin := b.Bias
	for _, t := range b.Trees {
		v, err := t.eval(x)
		if err != nil {
			return 0, err
		}
		margin += v
	}
	return sigmoid(margin), nil
}

// predict combines the two base probabilities through the logistic meta.
func (m Meta) predict(pForest, pBoost float64) float64 {
	z := m.Intercept + m.Weights[0]*pForest + m.Weights[1]*pBoost
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
