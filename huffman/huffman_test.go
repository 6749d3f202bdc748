package huffman

import (
	"bytes"
	"container/heap"
	"math/rand"
	"testing"

	"github.com/icza/bitio"
	"github.com/stretchr/testify/require"
)

func tableFromBytes(t *testing.T, data []byte) *Table {
	t.Helper()
	table, err := CountFrequencies(bytes.NewReader(data), nil)
	require.NoError(t, err)
	return table
}

func buildAndAssign(t *testing.T, table *Table) *node {
	t.Helper()
	symbols := table.Populated()
	SortByOccurrence(symbols)
	root := BuildTree(symbols)
	AssignCodes(root)
	return root
}

func codeEntries(table *Table) []CodeEntry {
	var entries []CodeEntry
	for i := range table.Symbols {
		s := &table.Symbols[i]
		if s.Bits > 0 {
			entries = append(entries, CodeEntry{Symbol: s.Character, Length: s.Bits, Bits: s.Code})
		}
	}
	return entries
}

// decodeAll walks the rebuilt trie one bit at a time from a bitio.Reader
// (MSB first, matching bitio's own bit order), collecting count decoded
// bytes.
func decodeAll(root *DecodeNode, stream []byte, count int) []byte {
	out := make([]byte, 0, count)
	if root.IsLeaf {
		// degenerate single-symbol tree: the stream holds one bit per
		// occurrence, but every bit decodes to the same symbol, so the
		// bits are not read
		for i := 0; i < count; i++ {
			out = append(out, root.Character)
		}
		return out
	}

	br := bitio.NewReader(bytes.NewReader(stream))
	branch := root
	for len(out) < count {
		bit := br.TryReadBool()
		if br.TryError != nil {
			break
		}
		if bit {
			branch = branch.Right
		} else {
			branch = branch.Left
		}
		if branch.IsLeaf {
			out = append(out, branch.Character)
			branch = root
		}
	}
	return out
}

// encodeToBitStream renders the table's assigned codes for data as a
// packed MSB-first bit stream using github.com/icza/bitio, the same
// library the teacher uses for its own byte-oriented bit I/O. The real
// container package does the word-oriented packing for the on-disk
// format (see container/bitio.go); this is only for exercising the
// huffman package's tree/code logic in isolation.
func encodeToBitStream(t *testing.T, table *Table, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	for _, b := range data {
		s := &table.Symbols[b]
		require.NoError(t, bw.WriteBits(s.Code, s.Bits))
	}
	require.NoError(t, bw.Close())
	return buf.Bytes()
}

func roundTrip(t *testing.T, data []byte) {
	t.Helper()
	table := tableFromBytes(t, data)
	require.Greater(t, table.Count, 0)

	root := buildAndAssign(t, table)
	entries := codeEntries(table)

	decodeRoot, err := Rebuild(entries)
	require.NoError(t, err)

	stream := encodeToBitStream(t, table, data)
	decoded := decodeAll(decodeRoot, stream, len(data))
	require.Equal(t, data, decoded)

	assertPrefixFree(t, entries)
	if table.Count > 1 {
		require.Equal(t, optimalWeightedPathLength(table.Populated()), weightedPathLength(root))
	}
}

func TestRoundTripSingleByte(t *testing.T) {
	roundTrip(t, []byte("A"))
}

func TestRoundTripTwoByte(t *testing.T) {
	roundTrip(t, []byte("AB"))
}

func TestRoundTripRunOfA(t *testing.T) {
	roundTrip(t, []byte("aaaaab"))
}

func TestRoundTripMississippi(t *testing.T) {
	data := []byte("mississippi")
	table := tableFromBytes(t, data)
	require.EqualValues(t, 11, table.Total)
	require.Equal(t, 4, table.Count)
	roundTrip(t, data)
}

func TestRoundTrip256DistinctBytes(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	table := tableFromBytes(t, data)
	require.Equal(t, 256, table.Count)

	buildAndAssign(t, table)
	for i := range table.Symbols {
		require.EqualValues(t, 8, table.Symbols[i].Bits, "balanced 256-leaf tree must assign 8-bit codes")
	}
	roundTrip(t, data)
}

func TestRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(4000)
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(rng.Intn(1 + rng.Intn(256)))
		}
		roundTrip(t, data)
	}
}

func TestFrequencyCounterRestoresOffset(t *testing.T) {
	data := []byte("mississippi")
	r := bytes.NewReader(data)
	_, err := r.Seek(3, 0)
	require.NoError(t, err)

	_, err = CountFrequencies(r, nil)
	require.NoError(t, err)

	pos, err := r.Seek(0, 1)
	require.NoError(t, err)
	require.EqualValues(t, 3, pos)
}

func TestRebuildRejectsCollidingCodes(t *testing.T) {
	_, err := Rebuild([]CodeEntry{
		{Symbol: 'a', Length: 2, Bits: 0b01},
		{Symbol: 'b', Length: 2, Bits: 0b01},
	})
	require.Error(t, err)
}

func TestRebuildRejectsNonPrefixFreeCodes(t *testing.T) {
	_, err := Rebuild([]CodeEntry{
		{Symbol: 'a', Length: 1, Bits: 0b0},
		{Symbol: 'b', Length: 2, Bits: 0b00},
	})
	require.Error(t, err)
}

func assertPrefixFree(t *testing.T, entries []CodeEntry) {
	t.Helper()
	for i := range entries {
		for j := range entries {
			if i == j {
				continue
			}
			require.False(t, isPrefixOf(entries[i], entries[j]),
				"code for 0x%02x must not be a prefix of code for 0x%02x", entries[i].Symbol, entries[j].Symbol)
		}
	}
}

func isPrefixOf(a, b CodeEntry) bool {
	if a.Length >= b.Length {
		return false
	}
	return (b.Bits >> (b.Length - a.Length)) == a.Bits
}

func weightedPathLength(root *node) uint64 {
	var total uint64
	var walk func(n *node)
	walk = func(n *node) {
		if n.isLeaf() {
			total += n.leaf.Occurrences * uint64(n.leaf.Bits)
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(root)
	return total
}

// oracleNode and oracleHeap implement a textbook priority-queue
// Huffman build, used only as a test oracle for weighted-path
// optimality (spec property: BuildTree's weighted path length must
// equal this oracle's, even though per-symbol lengths may differ).
type oracleNode struct {
	weight uint64
	left   *oracleNode
	right  *oracleNode
	leaf   bool
}

type oracleHeap []*oracleNode

func (h oracleHeap) Len() int            { return len(h) }
func (h oracleHeap) Less(i, j int) bool  { return h[i].weight < h[j].weight }
func (h oracleHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *oracleHeap) Push(x interface{}) { *h = append(*h, x.(*oracleNode)) }
func (h *oracleHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func optimalWeightedPathLength(symbols []*Symbol) uint64 {
	pq := make(oracleHeap, 0, len(symbols))
	for _, s := range symbols {
		pq = append(pq, &oracleNode{weight: s.Occurrences, leaf: true})
	}
	heap.Init(&pq)
	for pq.Len() > 1 {
		a := heap.Pop(&pq).(*oracleNode)
		b := heap.Pop(&pq).(*oracleNode)
		heap.Push(&pq, &oracleNode{weight: a.weight + b.weight, left: a, right: b})
	}
	root := pq[0]

	var total uint64
	var walk func(n *oracleNode, depth uint64)
	walk = func(n *oracleNode, depth uint64) {
		if n.leaf {
			d := depth
			if d == 0 {
				d = 1
			}
			total += n.weight * d
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(root, 0)
	return total
}
