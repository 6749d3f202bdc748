package container

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/xs-labs/egz/huffman"
)

// Header is the parsed form of everything between the file magic and
// the data magic: the original size, the integrity digest, and the
// code book. See spec §4.4/§4.6 and §6 for the exact wire layout.
type Header struct {
	OriginalSize uint64
	DigestHex    string // 32 lowercase hex characters, NUL stripped
	Entries      []huffman.CodeEntry
}

func entrySize(length uint8) int {
	return 2 + codeWidth(length) // symbol byte + length byte + code
}

func headerLength(entries []huffman.CodeEntry) int {
	size := codeBookFixedOverhead
	for _, e := range entries {
		size += entrySize(e.Length)
	}
	return size
}

// WriteTo serializes h as file magic + header-length-prefixed header
// + code book, per spec §4.4.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	hdrLen := headerLength(h.Entries)
	if hdrLen > 0xFFFF {
		return 0, fmt.Errorf("%w: header length %d exceeds uint16", ErrAllocation, hdrLen)
	}

	var written int64

	n, err := io.WriteString(w, fileMagic)
	written += int64(n)
	if err != nil {
		return written, err
	}

	if err := binary.Write(w, binary.LittleEndian, uint16(hdrLen)); err != nil {
		return written, err
	}
	written += 2

	n, err = io.WriteString(w, headerMagic)
	written += int64(n)
	if err != nil {
		return written, err
	}

	if err := binary.Write(w, binary.LittleEndian, h.OriginalSize); err != nil {
		return written, err
	}
	written += 8

	var digest [digestFieldLength]byte
	copy(digest[:], h.DigestHex) // trailing bytes remain zero (NUL terminator)
	if nw, err := w.Write(digest[:]); err != nil {
		return written + int64(nw), err
	}
	written += digestFieldLength

	if err := binary.Write(w, binary.LittleEndian, uint16(len(h.Entries))); err != nil {
		return written, err
	}
	written += 2

	for _, e := range h.Entries {
		if _, err := w.Write([]byte{e.Symbol, e.Length}); err != nil {
			return written, err
		}
		written += 2

		width := codeWidth(e.Length)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], e.Bits)
		if _, err := w.Write(buf[:width]); err != nil {
			return written, err
		}
		written += int64(width)
	}

	return written, nil
}

// ReadHeader reads and validates the file magic, header magic, and
// code book from r, per spec §4.6. It does not read the data magic or
// payload that follows.
func ReadHeader(r io.Reader) (Header, error) {
	var magic [3]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if string(magic[:]) != fileMagic {
		return Header{}, fmt.Errorf("%w: bad file magic", ErrInvalidFormat)
	}

	var hdrLen uint16
	if err := binary.Read(r, binary.LittleEndian, &hdrLen); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if int(hdrLen) < codeBookFixedOverhead {
		return Header{}, fmt.Errorf("%w: header length %d too short", ErrInvalidFormat, hdrLen)
	}

	body := make([]byte, hdrLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if string(body[0:3]) != headerMagic {
		return Header{}, fmt.Errorf("%w: bad header magic", ErrInvalidFormat)
	}

	originalSize := binary.LittleEndian.Uint64(body[3:11])
	digestRaw := body[11 : 11+digestFieldLength]
	digestHex := string(digestRaw)
	for i, b := range digestRaw {
		if b == 0 {
			digestHex = string(digestRaw[:i])
			break
		}
	}

	symbolCount := binary.LittleEndian.Uint16(body[44:46])
	rest := body[46:]

	entries := make([]huffman.CodeEntry, 0, symbolCount)
	for i := 0; i < int(symbolCount); i++ {
		if len(rest) < 2 {
			return Header{}, fmt.Errorf("%w: truncated code-book entry", ErrInvalidFormat)
		}
		symbol, length := rest[0], rest[1]
		rest = rest[2:]

		width := codeWidth(length)
		if len(rest) < width {
			return Header{}, fmt.Errorf("%w: truncated code-book entry", ErrInvalidFormat)
		}
		var buf [8]byte
		copy(buf[:], rest[:width])
		rest = rest[width:]

		entries = append(entries, huffman.CodeEntry{
			Symbol: symbol,
			Length: length,
			Bits:   binary.LittleEndian.Uint64(buf[:]),
		})
	}

	if len(rest) != 0 {
		return Header{}, fmt.Errorf("%w: %d trailing bytes in header", ErrInvalidFormat, len(rest))
	}

	return Header{
		OriginalSize: originalSize,
		DigestHex:    digestHex,
		Entries:      entries,
	}, nil
}
