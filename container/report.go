package container

import (
	"fmt"
	"io"
	"sort"

	"github.com/xs-labs/egz/huffman"
)

// HumanSize renders a byte count the way egz_getfilesize_human does:
// the largest unit under which the value is >= 1, to two decimal
// places (values under 1 KB are printed as a whole byte count).
func HumanSize(bytes int64) string {
	const unit = 1024.0
	units := []string{"B", "KB", "MB", "GB", "TB"}

	size := float64(bytes)
	idx := 0
	for size >= unit && idx < len(units)-1 {
		size /= unit
		idx++
	}
	if idx == 0 {
		return fmt.Sprintf("%d %s", bytes, units[0])
	}
	return fmt.Sprintf("%.2f %s", size, units[idx])
}

// CompressionRatio returns the percentage reduction from original to
// compressed size, matching egz_get_compression_ratio: 100 * (1 -
// compressed/original). Negative values mean the container grew.
func CompressionRatio(original, compressed int64) float64 {
	if original == 0 {
		return 0
	}
	return 100 * (1 - float64(compressed)/float64(original))
}

// WriteSummary prints the closing human-readable report egz_compress
// and egz_expand print on success: original size, then (for
// compression only, where CompressedSize is known) the resulting size
// and the ratio achieved, then the symbol count and MD5 digest.
func WriteSummary(w io.Writer, operation string, stats *Stats) {
	fmt.Fprintf(w, "%s complete\n", operation)
	fmt.Fprintf(w, "  original size:   %s\n", HumanSize(stats.OriginalSize))
	if stats.CompressedSize >= 0 {
		fmt.Fprintf(w, "  resulting size:  %s\n", HumanSize(stats.CompressedSize))
		fmt.Fprintf(w, "  ratio:           %.2f%%\n", CompressionRatio(stats.OriginalSize, stats.CompressedSize))
	}
	fmt.Fprintf(w, "  symbols:         %d\n", stats.SymbolCount)
	fmt.Fprintf(w, "  digest (md5):    %s\n", stats.DigestHex)
}

// DebugSymbolReport writes the --debug symbol/statistics dump,
// mirroring egz_print_table / egz_print_symbols / egz_print_codes /
// egz_print_statistics: table-wide entropy and information totals,
// followed by one line per symbol ordered by ascending code length (the
// order the original always prints codes in).
func DebugSymbolReport(w io.Writer, table *huffman.Table) {
	fmt.Fprintf(w, "symbol table: %d distinct symbols, %d total occurrences\n", table.Count, table.Total)
	fmt.Fprintf(w, "  entropy:     %.6f bits/symbol\n", table.Entropy)
	fmt.Fprintf(w, "  information: %.6f bits\n", table.Information)
	fmt.Fprintln(w, "  sym  occurrences  freq       bits  code")

	symbols := table.Populated()
	huffman.SortByBits(symbols)
	for _, s := range symbols {
		fmt.Fprintf(w, "  0x%02x %12d  %.6f  %4d  %0*b\n",
			s.Character, s.Occurrences, s.Frequency, s.Bits, int(s.Bits), s.Code)
	}
}

// DebugCodeBookReport writes the --debug code-book dump for the expand
// side (egz_print_codes), where only the symbol/length/code triples
// read back from the header survive — expand never recomputes
// occurrence counts or entropy, so it can't print DebugSymbolReport's
// full statistics.
func DebugCodeBookReport(w io.Writer, entries []huffman.CodeEntry) {
	sorted := append([]huffman.CodeEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Length < sorted[j].Length })

	fmt.Fprintf(w, "code book: %d symbols\n", len(sorted))
	fmt.Fprintln(w, "  sym  bits  code")
	for _, e := range sorted {
		fmt.Fprintf(w, "  0x%02x  %4d  %0*b\n", e.Symbol, e.Length, int(e.Length), e.Bits)
	}
}
