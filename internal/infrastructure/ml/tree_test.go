package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stumpTree() Tree {
	return Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{5, 0, 0},
		Value:         []float64{0, -1, 3},
		Cover:         []float64{10, 6, 4},
	}
}

func TestTree_PredictAndExpectation(t *testing.T) {
	tree := stumpTree()
	require.NoError(t, tree.Validate(2))

	assert.Equal(t, -1.0, tree.Predict([]float64{5, 0}), "equal to threshold goes left")
	assert.Equal(t, 3.0, tree.Predict([]float64{5.01, 0}))
	assert.InDelta(t, 0.6, tree.ExpectedValue(), 1e-12)
	assert.Equal(t, 1, tree.MaxDepth())
	assert.Equal(t, 3, tree.NodeCount())
}

func TestTree_SplitComparesAtFloat32(t *testing.T) {
	tree := stumpTree()
	tree.Threshold[0] = float64(float32(0.1))

	// Above the threshold in float64, equal to it once rounded to float32.
	x := []float64{0.1000000016, 0}
	require.Greater(t, x[0], tree.Threshold[0])
	assert.Equal(t, -1.0, tree.Predict(x))

	phi := make([]float64, 2)
	treeShap(&tree, x, 1, phi)
	assert.InDelta(t, -1.0-tree.ExpectedValue(), phi[0], 1e-12)
}

func TestTree_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tree)
	}{
		{"empty", func(tr *Tree) { *tr = Tree{} }},
		{"ragged", func(tr *Tree) { tr.Value = tr.Value[:2] }},
		{"child before parent", func(tr *Tree) { tr.ChildrenLeft[0] = 0 }},
		{"child out of range", func(tr *Tree) { tr.ChildrenRight[0] = 7 }},
		{"same child twice", func(tr *Tree) { tr.ChildrenRight[0] = 1 }},
		{"feature out of range", func(tr *Tree) { tr.Feature[0] = 2 }},
		{"leaf with right child", func(tr *Tree) { tr.ChildrenRight[1] = 2 }},
		{"zero cover", func(tr *Tree) { tr.Cover[1] = 0 }},
		{"cover mismatch", func(tr *Tree) { tr.Cover[0] = 11 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := stumpTree()
			tt.mutate(&tree)
			assert.Error(t, tree.Validate(2))
		})
	}
}

func TestTree_SingleLeaf(t *testing.T) {
	tree := Tree{
		ChildrenLeft:  []int{-1},
		ChildrenRight: []int{-1},
		Feature:       []int{-2},
		Threshold:     []float64{0},
		Value:         []float64{0.4},
		Cover:         []float64{50},
	}
	require.NoError(t, tree.Validate(3))

	phi := make([]float64, 3)
	treeShap(&tree, []float64{1, 2, 3}, 1, phi)

	assert.Equal(t, []float64{0, 0, 0}, phi)
	assert.Equal(t, 0.4, tree.ExpectedValue())
	assert.Equal(t, 0, tree.MaxDepth())
}
