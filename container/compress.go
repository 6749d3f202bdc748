package container

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/xs-labs/egz/huffman"
	"github.com/xs-labs/egz/progress"
)

// Options configures a Compress or Expand call.
type Options struct {
	// Force skips the negative-compression confirmation: Compress
	// returns successfully even when the predicted compressed size
	// is not smaller than the original.
	Force bool
	// Report, if non-nil, receives percent-complete updates during
	// the frequency-counting and encoding passes.
	Report progress.Reporter
}

// Stats summarizes a completed compression or expansion, enough for
// the CLI's human-readable size/ratio report (egz_compress's closing
// printf block in the original).
type Stats struct {
	OriginalSize   int64
	CompressedSize int64
	DigestHex      string
	SymbolCount    int
	// Table is the frequency/code table built for this compression,
	// for the CLI's -debug dump (egz_print_table et al.). Nil on the
	// expand side, which never builds one.
	Table *huffman.Table
	// Entries is the code book read back from the container header,
	// for the CLI's -debug dump on the expand side (egz_print_codes).
	// Also populated by Compress, mirroring the same entries.
	Entries []huffman.CodeEntry
}

// maxInputSize bounds the size of input this implementation will
// attempt to compress, standing in for the original's malloc-failure
// path (EGZ_ERROR_MALLOC): there's no single allocation in this
// implementation large enough to fail outright, but an unbounded
// io.ReadAll on an attacker-controlled stream is still worth refusing.
const maxInputSize = 1 << 34 // 16 GiB

// Compress reads all of source, builds a Huffman code book over its
// byte distribution, and writes the EGZ container (header + entropy-
// coded payload) to destination. It returns ErrEmptyInput for a zero-
// byte source, and ErrNegativeCompression (unless opts.Force) when the
// container would not be smaller than the input.
func Compress(source io.Reader, destination io.Writer, opts Options) (*Stats, error) {
	data, err := io.ReadAll(io.LimitReader(source, maxInputSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxInputSize {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", ErrAllocation, maxInputSize)
	}

	table, err := huffman.CountFrequencies(bytes.NewReader(data), opts.Report)
	if err != nil {
		return nil, err
	}
	if table.Count == 0 {
		return nil, ErrEmptyInput
	}

	symbols := table.Populated()
	huffman.SortByOccurrence(symbols)
	root := huffman.BuildTree(symbols)
	huffman.AssignCodes(root)

	sum := md5.Sum(data)
	digestHex := hex.EncodeToString(sum[:])

	entries := make([]huffman.CodeEntry, 0, table.Count)
	for i := range table.Symbols {
		s := &table.Symbols[i]
		if s.Bits > 0 {
			entries = append(entries, huffman.CodeEntry{Symbol: s.Character, Length: s.Bits, Bits: s.Code})
		}
	}

	header := Header{
		OriginalSize: uint64(len(data)),
		DigestHex:    digestHex,
		Entries:      entries,
	}

	predicted := int64(headerLength(entries)) + 3 /* data magic */ + predictedPayloadBytes(table)
	if !opts.Force && predicted >= int64(len(data)) {
		return nil, ErrNegativeCompression
	}

	cw := &countingWriter{w: destination}

	if _, err := header.WriteTo(cw); err != nil {
		return nil, err
	}
	if _, err := io.WriteString(cw, dataMagic); err != nil {
		return nil, err
	}

	bw := newBitWriter(cw)
	total := len(data)
	var processed int
	for _, b := range data {
		s := &table.Symbols[b]
		if err := bw.writeCode(s.Code, s.Bits); err != nil {
			return nil, err
		}
		processed++
		if total > 0 && processed%readBufferSize == 0 {
			progress.Report(opts.Report, processed*100/total)
		}
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	progress.Report(opts.Report, 100)

	return &Stats{
		OriginalSize:   int64(len(data)),
		CompressedSize: cw.n,
		DigestHex:      digestHex,
		SymbolCount:    table.Count,
		Table:          table,
		Entries:        entries,
	}, nil
}

// countingWriter tallies the bytes actually passed through to w, so
// Compress can report the real on-disk container size (header + data
// magic + whole flushed payload words) instead of the pre-emission
// estimate used only for the negative-compression guard above.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// predictedPayloadBytes computes ceil(Σ occurrences·length / 8), the
// entropy-coded payload size used for the pre-emission
// negative-compression check (spec §7).
func predictedPayloadBytes(table *huffman.Table) int64 {
	var bits uint64
	for i := range table.Symbols {
		s := &table.Symbols[i]
		if s.Bits > 0 {
			bits += s.Occurrences * uint64(s.Bits)
		}
	}
	return int64((bits + 7) / 8)
}

const readBufferSize = 32 * 1024
