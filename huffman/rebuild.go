package huffman

import "fmt"

// CodeEntry is one row of a parsed code book: a populated byte value
// together with its assigned code length and right-aligned code bits,
// exactly as read back from a container header.
type CodeEntry struct {
	Symbol byte
	Length uint8
	Bits   uint64
}

// DecodeNode is a node of the trie rebuilt on expansion. Leaves carry
// Character. Rebuild does not check that the code book is complete, so
// an internal node built from an incomplete code book can have a nil
// child.
type DecodeNode struct {
	Character byte
	IsLeaf    bool
	Left      *DecodeNode
	Right     *DecodeNode
}

// Rebuild reconstructs a decoding trie from a code book, one entry per
// populated byte value. For each entry it walks from the root one bit
// at a time, from bit Length-1 down to bit 0 (1 => right, 0 => left),
// allocating internal nodes lazily and attaching the leaf on the final
// bit. A single-entry code book (the degenerate compression case)
// produces a tree that is itself a single leaf.
func Rebuild(entries []CodeEntry) (*DecodeNode, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("huffman: cannot rebuild a tree from zero code-book entries")
	}
	if len(entries) == 1 {
		e := entries[0]
		return &DecodeNode{Character: e.Symbol, IsLeaf: true}, nil
	}

	root := &DecodeNode{}
	for _, e := range entries {
		if e.Length == 0 {
			return nil, fmt.Errorf("huffman: code-book entry for symbol 0x%02x has zero length", e.Symbol)
		}
		branch := root
		for depth := 0; depth < int(e.Length); depth++ {
			bit := (e.Bits >> (int(e.Length) - 1 - depth)) & 1
			last := depth == int(e.Length)-1

			var next **DecodeNode
			if bit == 1 {
				next = &branch.Right
			} else {
				next = &branch.Left
			}

			if last {
				if *next != nil {
					return nil, fmt.Errorf("huffman: code for symbol 0x%02x collides with an existing code", e.Symbol)
				}
				*next = &DecodeNode{Character: e.Symbol, IsLeaf: true}
				break
			}

			if *next == nil {
				*next = &DecodeNode{}
			} else if (*next).IsLeaf {
				return nil, fmt.Errorf("huffman: code for symbol 0x%02x is not prefix-free", e.Symbol)
			}
			branch = *next
		}
	}

	return root, nil
}
