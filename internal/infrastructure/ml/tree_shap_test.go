package ml

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// repeatedFeatureTree splits on feature 0 twice along the left branch.
func repeatedFeatureTree() Tree {
	return Tree{
		ChildrenLeft:  []int{1, 3, -1, -1, -1},
		ChildrenRight: []int{2, 4, -1, -1, -1},
		Feature:       []int{0, 0, -2, -2, -2},
		Threshold:     []float64{30, 25, 0, 0, 0},
		Value:         []float64{0, 0, 1.0, 2.0, -1.0},
		Cover:         []float64{100, 60, 40, 20, 40},
	}
}

func TestTreeShap_SingleFeatureGetsFullDifference(t *testing.T) {
	tree := repeatedFeatureTree()

	tests := []struct {
		x    float64
		want float64
	}{
		{22, 1.6},
		{27, -1.4},
		{40, 0.6},
	}

	for _, tt := range tests {
		phi := make([]float64, 2)
		treeShap(&tree, []float64{tt.x, 0}, 1, phi)

		assert.InDelta(t, tt.want, phi[0], 1e-12)
		assert.Equal(t, 0.0, phi[1])
		assert.InDelta(t, tree.Predict([]float64{tt.x, 0})-tree.ExpectedValue(), phi[0], 1e-12)
	}
}

// Two-feature tree where Shapley values can be enumerated by hand:
// v({}) = -0.2, v({0}) = -5/9, v({1}) = -0.6, v({0,1}) = -1.
func TestTreeShap_MatchesBruteForce(t *testing.T) {
	tree := Tree{
		ChildrenLeft:  []int{1, -1, 3, -1, -1},
		ChildrenRight: []int{2, -1, 4, -1, -1},
		Feature:       []int{0, -2, 1, -2, -2},
		Threshold:     []float64{1500, 0, 34, 0, 0},
		Value:         []float64{0, 3.0, 0, 1.0, -1.0},
		Cover:         []float64{100, 10, 90, 20, 70},
	}

	phi := make([]float64, 2)
	treeShap(&tree, []float64{2500, 37}, 1, phi)

	assert.InDelta(t, 0.5*((-5.0/9+0.2)+(-1+0.6)), phi[0], 1e-12)
	assert.InDelta(t, 0.5*((-0.6+0.2)+(-1+5.0/9)), phi[1], 1e-12)
}

func TestTreeShap_AdditivityOnRandomInputs(t *testing.T) {
	// Depth-3 tree reusing features 0 and 2 at different depths.
	tree := Tree{
		ChildrenLeft:  []int{1, 3, 5, 7, -1, -1, -1, -1, -1},
		ChildrenRight: []int{2, 4, 6, 8, -1, -1, -1, -1, -1},
		Feature:       []int{0, 2, 1, 0, -2, -2, -2, -2, -2},
		Threshold:     []float64{0.5, 0.3, 0.7, 0.2, 0, 0, 0, 0, 0},
		Value:         []float64{0, 0, 0, 0, 0.9, -0.4, 1.3, 2.1, -0.7},
		Cover:         []float64{200, 120, 80, 70, 50, 30, 50, 25, 45},
	}
	assert.NoError(t, tree.Validate(3))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		x := []float64{rng.Float64(), rng.Float64(), rng.Float64()}
		phi := make([]float64, 3)
		treeShap(&tree, x, 0.5, phi)

		sum := phi[0] + phi[1] + phi[2]
		assert.InDelta(t, 0.5*(tree.Predict(x)-tree.ExpectedValue()), sum, 1e-9)
	}
}
