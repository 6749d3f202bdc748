// Package huffman builds canonical-ish prefix codes from byte
// frequency distributions: it counts occurrences, builds a weighted
// binary tree over the populated byte values, assigns each leaf a
// bit-code, and can rebuild an equivalent decoding trie from a list of
// (symbol, length, code) tuples read back from a container header.
package huffman

import (
	"bufio"
	"io"
	"math"

	"github.com/xs-labs/egz/progress"
)

// Symbol is one byte value's statistics and, once a tree has been
// built and walked, its assigned prefix code.
type Symbol struct {
	Character   byte
	Occurrences uint64
	Frequency   float64
	Information float64 // -log2(frequency)
	Entropy     float64 // frequency * log2(1/frequency)
	ID          int     // node ordinal, diagnostic only

	Bits uint8  // code length in bits; 0 until assigned
	Code uint64 // code bits, right-aligned, MSB-first when read out to Bits width
}

// Table holds one Symbol slot per possible byte value, indexed by that
// value (Table.Symbols[i].Character == byte(i) always holds).
type Table struct {
	Symbols     [256]Symbol
	Count       int // number of slots with Occurrences > 0
	Total       uint64
	Information float64
	Entropy     float64
}

// NewTable returns an empty table with every slot's Character field
// pre-populated.
func NewTable() *Table {
	t := &Table{}
	for i := range t.Symbols {
		t.Symbols[i].Character = byte(i)
	}
	return t
}

const readBufferSize = 32 * 1024

// CountFrequencies performs a single linear pass over r, populating a
// fresh Table with occurrence counts, then frequency/information/
// entropy for every populated symbol. The reader's position is
// restored to its starting offset on exit, mirroring
// egz_get_symbols's fseek bookend in the original implementation.
func CountFrequencies(r io.ReadSeeker, report progress.Reporter) (*Table, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	table := NewTable()
	buf := make([]byte, readBufferSize)
	br := bufio.NewReaderSize(r, readBufferSize)

	readOps := (size + readBufferSize - 1) / readBufferSize
	var readOp int64

	for {
		n, readErr := br.Read(buf)
		if n > 0 {
			for _, b := range buf[:n] {
				sym := &table.Symbols[b]
				if sym.Occurrences == 0 {
					table.Count++
				}
				sym.Occurrences++
				table.Total++
			}
			readOp++
			if readOps > 1 {
				progress.Report(report, int(readOp*100/readOps))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
	}
	progress.Report(report, 100)

	for i := range table.Symbols {
		sym := &table.Symbols[i]
		if sym.Occurrences == 0 {
			continue
		}
		sym.Frequency = float64(sym.Occurrences) / float64(table.Total)
		sym.Information = -math.Log2(sym.Frequency)
		sym.Entropy = sym.Frequency * math.Log2(1/sym.Frequency)
		table.Information += sym.Information * float64(sym.Occurrences)
		table.Entropy += sym.Entropy
	}

	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	return table, nil
}

// Populated returns pointers to the table's populated symbols, in
// ascending byte-value order.
func (t *Table) Populated() []*Symbol {
	out := make([]*Symbol, 0, t.Count)
	for i := range t.Symbols {
		if t.Symbols[i].Occurrences > 0 {
			out = append(out, &t.Symbols[i])
		}
	}
	return out
}
