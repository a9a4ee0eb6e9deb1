package ml

import (
	"fmt"
	"math"
)

// leafMarker is the child index stored for both children of a leaf.
const leafMarker = -1

// Tree is a fitted binary regression tree in flat array form. Node 0 is the
// root; a node is a leaf when its left child is leafMarker. Samples with
// float32(x[Feature]) <= Threshold go left.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
	// Cover is the (weighted) number of training samples reaching each node.
	Cover []float64 `json:"cover"`
}

// coverTolerance is the relative slack allowed between a node's cover and the
// sum of its children's covers.
const coverTolerance = 1e-6

// Validate checks the structural invariants TreeSHAP and traversal rely on.
func (t *Tree) Validate(nFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n ||
		len(t.Value) != n || len(t.Cover) != n {
		return fmt.Errorf("tree arrays have inconsistent lengths")
	}

	parents := make([]int, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(t.Value[i]) || math.IsInf(t.Value[i], 0) {
			return fmt.Errorf("node %d: non-finite value", i)
		}
		if !(t.Cover[i] > 0) || math.IsInf(t.Cover[i], 0) {
			return fmt.Errorf("node %d: cover must be positive", i)
		}

		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafMarker {
			if right != leafMarker {
				return fmt.Errorf("node %d: leaf has a right child", i)
			}
			continue
		}

		if left <= i || right <= i || left >= n || right >= n || left == right {
			return fmt.Errorf("node %d: invalid children (%d, %d)", i, left, right)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d: feature index %d outside [0, %d)", i, f, nFeatures)
		}
		if math.IsNaN(t.Threshold[i]) || math.IsInf(t.Threshold[i], 0) {
			return fmt.Errorf("node %d: non-finite threshold", i)
		}
		sum := t.Cover[left] + t.Cover[right]
		if math.Abs(sum-t.Cover[i]) > coverTolerance*math.Max(1, t.Cover[i]) {
			return fmt.Errorf("node %d: cover %g does not match children %g", i, t.Cover[i], sum)
		}
		parents[left]++
		parents[right]++
	}

	for i := 1; i < n; i++ {
		if parents[i] != 1 {
			return fmt.Errorf("node %d is referenced %d times", i, parents[i])
		}
	}
	return nil
}

// IsLeaf reports whether node is a leaf.
func (t *Tree) IsLeaf(node int) bool {
	return t.ChildrenLeft[node] == leafMarker
}

// next returns the child x follows from an internal node. Inputs are rounded
// to float32 before the comparison, matching how the trees were fitted.
func (t *Tree) next(node int, x []float64) int {
	if float64(float32(x[t.Feature[node]])) <= t.Threshold[node] {
		return t.ChildrenLeft[node]
	}
	return t.ChildrenRight[node]
}

// Predict returns the value of the leaf x falls into.
func (t *Tree) Predict(x []float64) float64 {
	node := 0
	for !t.IsLeaf(node) {
		node = t.next(node, x)
	}
	return t.Value[node]
}

// ExpectedValue is the cover-weighted mean of the leaf values, i.e. the tree's
// output averaged over its training distribution.
func (t *Tree) ExpectedValue() float64 {
	var sum float64
	for i := range t.Value {
		if t.IsLeaf(i) {
			sum += t.Value[i] * t.Cover[i]
		}
	}
	return sum / t.Cover[0]
}

// MaxDepth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) MaxDepth() int {
	depth := make([]int, len(t.ChildrenLeft))
	deepest := 0
	for i := range t.ChildrenLeft {
		if t.IsLeaf(i) {
			deepest = max(deepest, depth[i])
			continue
		}
		depth[t.ChildrenLeft[i]] = depth[i] + 1
		depth[t.ChildrenRight[i]] = depth[i] + 1
	}
	return deepest
}

// NodeCount returns the number of nodes.
func (t *Tree) NodeCount() int {
	return len(t.ChildrenLeft)
}
