package compose

import "sort"

type Breakpoint int

const (
	Narrow Breakpoint = iota
	Wide
)

func (b Breakpoint) String() string {
	if b == Wide {
		return "wide"
	}
	return "narrow"
}

func (o Order) at(bp Breakpoint) *int {
	if bp == Wide {
		return o.Wide
	}
	return o.Narrow
}

// ResolveIndices returns the source indices of children in visual order at
// the given breakpoint: a stable sort by the child's override for bp, or its
// source index when it has none, with ties broken by source index.
func ResolveIndices(children []Node, bp Breakpoint) []int {
	keys := make([]int, len(children))
	indices := make([]int, len(children))
	for i, child := range children {
		indices[i] = i
		keys[i] = i
		if override := child.Attributes().Order.at(bp); override != nil {
			keys[i] = *override
		}
	}

	sort.SliceStable(indices, func(a, b int) bool {
		ka, kb := keys[indices[a]], keys[indices[b]]
		if ka != kb {
			return ka < kb
		}
		return indices[a] < indices[b]
	})
	return indices
}

// ResolveOrder returns children in visual order at bp. The input slice is
// left untouched; source order stays the reading order.
func ResolveOrder(children []Node, bp Breakpoint) []Node {
	out := make([]Node, len(children))
	for pos, idx := range ResolveIndices(children, bp) {
		out[pos] = children[idx]
	}
	return out
}

// VisualPositions maps each source index to its visual position at bp.
func VisualPositions(children []Node, bp Breakpoint) []int {
	positions := make([]int, len(children))
	for pos, idx := range ResolveIndices(children, bp) {
		positions[idx] = pos
	}
	return positions
}
