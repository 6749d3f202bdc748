package huffman

// node is a binary-tree node: either a leaf pointing back at a
// populated Symbol, or an internal node with two non-nil children.
// There is deliberately no parent link — the original C tree used one
// only as an "already consumed" marker while building, and neither
// encoding nor decoding ever walks upward.
type node struct {
	weight uint64
	id     int // diagnostic only, see BuildTree
	leaf   *Symbol
	left   *node
	right  *node
}

func (n *node) isLeaf() bool { return n.leaf != nil }

// BuildTree consumes symbols pre-sorted ascending by occurrence (see
// SortByOccurrence) and returns the root of a binary tree with
// len(symbols) leaves and len(symbols)-1 internal nodes.
//
// The merge uses the classical two-queue construction: one queue is
// the pre-sorted leaves, the other is the internal nodes created so
// far, which are themselves produced in non-decreasing weight order.
// Each step draws the two lowest-weight heads across both queues.
// Ties are broken in favor of the internal-node queue — a leaf is
// only drawn ahead of an internal node when its weight is strictly
// smaller, matching the original implementation's reproducible (if
// not uniquely canonical) choice of code lengths.
//
// Internal-node ids are assigned descending from len(symbols)-1 down
// to 1 in creation order; they carry no semantic weight, and nothing
// in this module reads them.
func BuildTree(symbols []*Symbol) *node {
	n := len(symbols)
	if n == 0 {
		panic("huffman: BuildTree called with no symbols")
	}
	if n == 1 {
		return &node{weight: symbols[0].Occurrences, leaf: symbols[0]}
	}

	leafPos := 0
	var internal []*node
	internalPos := 0
	nextID := n - 1

	dequeue := func() *node {
		leafAvailable := leafPos < len(symbols)
		internalAvailable := internalPos < len(internal)

		drawLeaf := leafAvailable && (!internalAvailable || symbols[leafPos].Occurrences < internal[internalPos].weight)

		if drawLeaf {
			s := symbols[leafPos]
			leafPos++
			return &node{weight: s.Occurrences, leaf: s}
		}
		nd := internal[internalPos]
		internalPos++
		return nd
	}

	remaining := func() int {
		return (len(symbols) - leafPos) + (len(internal) - internalPos)
	}

	for remaining() > 1 {
		first := dequeue()
		second := dequeue()

		left, right := second, first
		if first.weight > second.weight {
			left, right = first, second
		}

		parent := &node{
			weight: left.weight + right.weight,
			id:     nextID,
			left:   left,
			right:  right,
		}
		nextID--
		internal = append(internal, parent)
	}

	return dequeue()
}

// AssignCodes performs the depth-first code assignment: a depth-first
// walk from root, appending bit 0 on every left edge and bit 1 on
// every right edge, writing each leaf's Bits/Code fields in place.
//
// The degenerate single-leaf tree (root.isLeaf()) is handled specially
// per the redesigned resolution of the original's malformed
// zero-length code: the sole symbol gets length 1, code 0, so the
// payload encodes one bit per occurrence instead of zero.
func AssignCodes(root *node) {
	if root.isLeaf() {
		root.leaf.Bits = 1
		root.leaf.Code = 0
		return
	}
	assign(root, 0, 0)
}

func assign(n *node, depth uint8, code uint64) {
	if n.isLeaf() {
		n.leaf.Bits = depth
		n.leaf.Code = code
		return
	}
	assign(n.left, depth+1, code<<1)
	assign(n.right, depth+1, (code<<1)|1)
}
