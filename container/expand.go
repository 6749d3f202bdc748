package container

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/xs-labs/egz/huffman"
	"github.com/xs-labs/egz/progress"
)

// Expand parses an EGZ container from source, decodes its payload
// using the embedded code book, and writes the reconstructed bytes to
// destination. It returns ErrDigestMismatch if the MD5 digest computed
// over the decoded output does not match the one stored in the header
// — this check always runs, regardless of Options.Force (spec §6/§7:
// Force only suppresses the negative-compression confirmation on the
// compress side, not integrity verification on expand).
//
// Unlike the original's egz_verify_checksum, which reopens and rereads
// the just-written destination file to compute its digest, this
// implementation hashes the decoded stream as it's written via
// io.MultiWriter: destination need not be a seekable, re-readable file.
func Expand(source io.Reader, destination io.Writer, opts Options) (*Stats, error) {
	header, err := ReadHeader(source)
	if err != nil {
		return nil, err
	}
	if len(header.Entries) == 0 {
		return nil, fmt.Errorf("%w: empty code book", ErrInvalidFormat)
	}

	root, err := huffman.Rebuild(header.Entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var magic [3]byte
	if _, err := io.ReadFull(source, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if string(magic[:]) != dataMagic {
		return nil, fmt.Errorf("%w: bad data magic", ErrInvalidFormat)
	}

	hasher := md5.New()
	out := io.MultiWriter(destination, hasher)

	br := newBitReader(source)
	total := header.OriginalSize
	var written uint64
	buf := make([]byte, 0, readBufferSize)

	if root.IsLeaf {
		// Degenerate single-symbol tree: every occurrence is encoded as
		// one bit (spec's single-leaf special case), value unused.
		for written < total {
			if _, err := br.readBit(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
			}
			buf = append(buf, root.Character)
			written++
			if len(buf) == cap(buf) {
				if _, err := out.Write(buf); err != nil {
					return nil, err
				}
				buf = buf[:0]
				if total > 0 {
					progress.Report(opts.Report, int(written*100/total))
				}
			}
		}
	} else {
		node := root
		for written < total {
			bit, err := br.readBit()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
			}
			if bit == 1 {
				node = node.Right
			} else {
				node = node.Left
			}
			if node == nil {
				return nil, fmt.Errorf("%w: decode trie walked off a leaf", ErrInvalidFormat)
			}
			if node.IsLeaf {
				buf = append(buf, node.Character)
				written++
				node = root
				if len(buf) == cap(buf) {
					if _, err := out.Write(buf); err != nil {
						return nil, err
					}
					buf = buf[:0]
					if total > 0 {
						progress.Report(opts.Report, int(written*100/total))
					}
				}
			}
		}
	}

	if len(buf) > 0 {
		if _, err := out.Write(buf); err != nil {
			return nil, err
		}
	}
	progress.Report(opts.Report, 100)

	gotDigest := hex.EncodeToString(hasher.Sum(nil))
	stats := &Stats{
		OriginalSize:   int64(header.OriginalSize),
		CompressedSize: -1, // unknown from the expand side; caller has the source file size if needed
		DigestHex:      gotDigest,
		SymbolCount:    len(header.Entries),
		Entries:        header.Entries,
	}

	if gotDigest != header.DigestHex {
		// The decoded bytes have already been written to destination in
		// full; stats is still returned so a caller that chooses to keep
		// the output despite the mismatch (spec §6/§7's confirmation
		// prompt) has something to report.
		return stats, fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, header.DigestHex, gotDigest)
	}

	return stats, nil
}
