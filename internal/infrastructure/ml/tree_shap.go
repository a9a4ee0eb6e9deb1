package ml

// Exact path-dependent TreeSHAP (Lundberg, Erion & Lee, "Consistent
// Individualized Feature Attribution for Tree Ensembles", Algorithm 2).
// Conditional expectations are estimated from node covers, so no background
// dataset is needed.

type pathElement struct {
	feature      int
	zeroFraction float64
	oneFraction  float64
	weight       float64
}

// extendPath grows the unique path by one split, updating the permutation
// weights of every subset size.
func extendPath(path []pathElement, depth int, zeroFraction, oneFraction float64, feature int) {
	path[depth] = pathElement{feature: feature, zeroFraction: zeroFraction, oneFraction: oneFraction}
	if depth == 0 {
		path[depth].weight = 1
	}
	d := float64(depth + 1)
	for i := depth - 1; i >= 0; i-- {
		path[i+1].weight += oneFraction * path[i].weight * float64(i+1) / d
		path[i].weight = zeroFraction * path[i].weight * float64(depth-i) / d
	}
}

// unwindPath undoes extendPath for the element at index, shifting later
// elements down.
func unwindPath(path []pathElement, depth, index int) {
	one := path[index].oneFraction
	zero := path[index].zeroFraction
	next := path[depth].weight
	d := float64(depth + 1)

	for i := depth - 1; i >= 0; i-- {
		if one != 0 {
			tmp := path[i].weight
			path[i].weight = next * d / (float64(i+1) * one)
			next = tmp - path[i].weight*zero*float64(depth-i)/d
		} else {
			path[i].weight = path[i].weight * d / (zero * float64(depth-i))
		}
	}

	for i := index; i < depth; i++ {
		path[i].feature = path[i+1].feature
		path[i].zeroFraction = path[i+1].zeroFraction
		path[i].oneFraction = path[i+1].oneFraction
	}
}

// unwoundPathSum is the total weight the path would have if the element at
// index were unwound, without modifying path.
func unwoundPathSum(path []pathElement, depth, index int) float64 {
	one := path[index].oneFraction
	zero := path[index].zeroFraction
	next := path[depth].weight
	var total float64

	if one != 0 {
		for i := depth - 1; i >= 0; i-- {
			tmp := next / (float64(i+1) * one)
			total += tmp
			next = path[i].weight - tmp*zero*float64(depth-i)
		}
	} else {
		for i := depth - 1; i >= 0; i-- {
			total += path[i].weight / (zero * float64(depth-i))
		}
	}
	return total * float64(depth+1)
}

// treeShap adds scale * phi(tree, x) into phi. x must already be transformed
// into the tree's input space.
func treeShap(t *Tree, x []float64, scale float64, phi []float64) {
	var walk func(node, depth int, parent []pathElement, zeroFraction, oneFraction float64, feature int)

	walk = func(node, depth int, parent []pathElement, zeroFraction, oneFraction float64, feature int) {
		path := make([]pathElement, depth+1)
		copy(path, parent)
		extendPath(path, depth, zeroFraction, oneFraction, feature)

		if t.IsLeaf(node) {
			leaf := t.Value[node] * scale
			for i := 1; i <= depth; i++ {
				w := unwoundPathSum(path, depth, i)
				el := path[i]
				phi[el.feature] += w * (el.oneFraction - el.zeroFraction) * leaf
			}
			return
		}

		split := t.Feature[node]
		hot := t.next(node, x)
		cold := t.ChildrenRight[node]
		if hot == cold {
			cold = t.ChildrenLeft[node]
		}
		cover := t.Cover[node]
		hotZero := t.Cover[hot] / cover
		coldZero := t.Cover[cold] / cover

		// A feature already on the path is unwound so its split is
		// accounted for once, with the combined fractions.
		incomingZero, incomingOne := 1.0, 1.0
		for i := 0; i <= depth; i++ {
			if path[i].feature == split {
				incomingZero = path[i].zeroFraction
				incomingOne = path[i].oneFraction
				unwindPath(path, depth, i)
				depth--
				break
			}
		}

		walk(hot, depth+1, path, hotZero*incomingZero, incomingOne, split)
		walk(cold, depth+1, path, coldZero*incomingZero, 0, split)
	}

	walk(0, 0, nil, 1, 1, -1)
}
