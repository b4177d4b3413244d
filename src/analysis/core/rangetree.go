package core

import (
	"math"

	"stock-analyzer/src/helpers"
	"stock-analyzer/src/models"
)

// -----------------------------------------------------------------------------
// AggregateNode merge algebra
// -----------------------------------------------------------------------------

// AggregateNode stores the statistics of one contiguous range. Merging the
// nodes of two adjacent ranges yields the node of their union; the merge is
// commutative and associative.
type AggregateNode struct {
	Min   float64
	Max   float64
	Sum   float64
	SumSq float64
	Count int
}

// -----------------------------------------------------------------------------

func mergeNodes(left, right AggregateNode) AggregateNode {
	merged := AggregateNode{
		Sum:   left.Sum + right.Sum,
		SumSq: left.SumSq + right.SumSq,
		Count: left.Count + right.Count,
	}
	merged.Min = math.Min(left.Min, right.Min)
	merged.Max = math.Max(left.Max, right.Max)
	return merged
}

// -----------------------------------------------------------------------------
// RangeTree
// -----------------------------------------------------------------------------

// RangeTree answers min/max/avg/variance queries over arbitrary contiguous
// sub-ranges in O(log n). The 2n-node array stores a complete binary tree
// implicitly: leaf i lives at index n+i, internal node k covers the union
// of nodes 2k and 2k+1. Immutable after construction and lock-free; callers
// needing concurrent build/release coordinate externally.
type RangeTree struct {
	nodes  []AggregateNode
	length int
}

// -----------------------------------------------------------------------------

// BuildRangeTree constructs the tree bottom-up in O(n): leaves first, then
// internal nodes merged from the last internal index down to the root.
func BuildRangeTree(prices []float64, maxLength int) (*RangeTree, error) {
	if err := ValidateSeries(prices, maxLength); err != nil {
		return nil, err
	}

	n := len(prices)
	tree := &RangeTree{
		nodes:  make([]AggregateNode, 2*n),
		length: n,
	}

	for i, p := range prices {
		tree.nodes[n+i] = AggregateNode{
			Min:   p,
			Max:   p,
			Sum:   p,
			SumSq: p * p,
			Count: 1,
		}
	}

	for i := n - 1; i > 0; i-- {
		tree.nodes[i] = mergeNodes(tree.nodes[2*i], tree.nodes[2*i+1])
	}

	return tree, nil
}

// -----------------------------------------------------------------------------

// Length returns the number of leaves (the original series length).
func (t *RangeTree) Length() int {
	return t.length
}

// -----------------------------------------------------------------------------

// NodeBytes estimates the backing storage of the node array.
func (t *RangeTree) NodeBytes() int {
	return len(t.nodes) * aggregateNodeBytes
}

const aggregateNodeBytes = 40 // 4 float64 fields + count

// -----------------------------------------------------------------------------

// Query aggregates the closed range [ql, qr] of the original series.
//
// It walks the leaf positions left=ql+n, right=qr+n upward. At each level an
// odd left is a right child whose parent covers leaves outside the range, so
// the node itself is merged and left advances; symmetrically an even right
// is a left child, merged and retreated. Halving then moves both to their
// parents. The parity rule collects exactly the O(log n) maximal sub-trees
// tiling [ql, qr] without double-covering any leaf; single-element ranges
// fall out of the same loop (left == right, one merge).
func (t *RangeTree) Query(ql, qr int) (models.MRangeStats, error) {
	if ql < 0 || ql > qr || qr >= t.length {
		return models.MRangeStats{}, helpers.NewRangeError("invalid query range [%d, %d] for length %d", ql, qr, t.length)
	}

	left := ql + t.length
	right := qr + t.length

	var acc AggregateNode
	first := true

	for left <= right {
		if left%2 == 1 {
			if first {
				acc = t.nodes[left]
				first = false
			} else {
				acc = mergeNodes(acc, t.nodes[left])
			}
			left++
		}

		if right%2 == 0 {
			if first {
				acc = t.nodes[right]
				first = false
			} else {
				acc = mergeNodes(acc, t.nodes[right])
			}
			right--
		}

		left /= 2
		right /= 2
	}

	return statsFromNode(acc), nil
}

// -----------------------------------------------------------------------------

// statsFromNode derives avg and population variance (E[X^2] - E[X]^2) from
// the accumulated sums. Count 0 cannot occur for a valid range but is
// reported as zero statistics rather than dividing by it.
func statsFromNode(node AggregateNode) models.MRangeStats {
	stats := models.MRangeStats{
		Min: node.Min,
		Max: node.Max,
	}

	if node.Count > 0 {
		mean := node.Sum / float64(node.Count)
		stats.Avg = mean
		stats.Variance = node.SumSq/float64(node.Count) - mean*mean
	}

	return stats
}
