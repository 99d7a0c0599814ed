package supercluster

import "sort"

// kdTree is a static 2D index over a fixed set of positions. Nodes are
// implicit: the ids/coords slices are partitioned in place so that every
// subrange [left, right] is split around its median on alternating axes.
type kdTree struct {
	ids      []int
	coords   []float64 // x0, y0, x1, y1, ... stored with float32 precision
	nodeSize int
}

func newKDTree(xs, ys []float64, nodeSize int) *kdTree {
	t := &kdTree{
		ids:      make([]int, len(xs)),
		coords:   make([]float64, 2*len(xs)),
		nodeSize: nodeSize,
	}
	for i := range xs {
		t.ids[i] = i
		t.coords[2*i] = fround(xs[i])
		t.coords[2*i+1] = fround(ys[i])
	}
	if len(xs) > 0 {
		t.build(0, len(xs)-1, 0)
	}
	return t
}

func (t *kdTree) build(left, right, axis int) {
	if right-left <= t.nodeSize {
		return
	}
	sort.Sort(axisRange{tree: t, offset: left, n: right - left + 1, axis: axis})

	m := (left + right) >> 1
	t.build(left, m-1, 1-axis)
	t.build(m+1, right, 1-axis)
}

// axisRange sorts a subrange of the tree by one axis, moving ids with their coordinates.
type axisRange struct {
	tree   *kdTree
	offset int
	n      int
	axis   int
}

func (a axisRange) Len() int { return a.n }

func (a axisRange) Less(i, j int) bool {
	c := a.tree.coords
	return c[2*(a.offset+i)+a.axis] < c[2*(a.offset+j)+a.axis]
}

func (a axisRange) Swap(i, j int) {
	i += a.offset
	j += a.offset
	t := a.tree
	t.ids[i], t.ids[j] = t.ids[j], t.ids[i]
	t.coords[2*i], t.coords[2*j] = t.coords[2*j], t.coords[2*i]
	t.coords[2*i+1], t.coords[2*j+1] = t.coords[2*j+1], t.coords[2*i+1]
}

// rangeQuery returns the ids of all positions inside the axis-aligned box.
func (t *kdTree) rangeQuery(minX, minY, maxX, maxY float64) []int {
	var result []int
	stack := []int{0, len(t.ids) - 1, 0}

	for len(stack) > 0 {
		axis := stack[len(stack)-1]
		right := stack[len(stack)-2]
		left := stack[len(stack)-3]
		stack = stack[:len(stack)-3]

		if right-left <= t.nodeSize {
			for i := left; i <= right; i++ {
				x, y := t.coords[2*i], t.coords[2*i+1]
				if x >= minX && x <= maxX && y >= minY && y <= maxY {
					result = append(result, t.ids[i])
				}
			}
			continue
		}

		m := (left + right) >> 1
		x, y := t.coords[2*m], t.coords[2*m+1]
		if x >= minX && x <= maxX && y >= minY && y <= maxY {
			result = append(result, t.ids[m])
		}

		if (axis == 0 && minX <= x) || (axis == 1 && minY <= y) {
			stack = append(stack, left, m-1, 1-axis)
		}
		if (axis == 0 && maxX >= x) || (axis == 1 && maxY >= y) {
			stack = append(stack, m+1, right, 1-axis)
		}
	}

	return result
}

// within returns the ids of all positions at distance <= r from (qx, qy).
func (t *kdTree) within(qx, qy, r float64) []int {
	var result []int
	stack := []int{0, len(t.ids) - 1, 0}
	r2 := r * r

	for len(stack) > 0 {
		axis := stack[len(stack)-1]
		right := stack[len(stack)-2]
		left := stack[len(stack)-3]
		stack = stack[:len(stack)-3]

		if right-left <= t.nodeSize {
			for i := left; i <= right; i++ {
				if sqDist(t.coords[2*i], t.coords[2*i+1], qx, qy) <= r2 {
					result = append(result, t.ids[i])
				}
			}
			continue
		}

		m := (left + right) >> 1
		x, y := t.coords[2*m], t.coords[2*m+1]
		if sqDist(x, y, qx, qy) <= r2 {
			result = append(result, t.ids[m])
		}

		if (axis == 0 && qx-r <= x) || (axis == 1 && qy-r <= y) {
			stack = append(stack, left, m-1, 1-axis)
		}
		if (axis == 0 && qx+r >= x) || (axis == 1 && qy+r >= y) {
			stack = append(stack, m+1, right, 1-axis)
		}
	}

	return result
}

func sqDist(ax, ay, bx, by float64) float64 {
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}
