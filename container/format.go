// Package container implements the EGZ container format: the magic +
// header + code-book framing, the word-oriented bit codec for the
// entropy-coded payload, and the MD5 integrity digest, built on top of
// the prefix codes produced by package huffman.
package container

const (
	// fileMagic is the 3-byte file-level tag at offset 0.
	fileMagic = "EGZ"
	// headerMagic is the 3-byte tag immediately following the
	// 2-byte header length field.
	headerMagic = "EHD"
	// dataMagic is the 3-byte tag immediately preceding the payload.
	dataMagic = "EDT"

	// digestFieldLength is the on-disk width of the stored digest:
	// 32 hex characters plus one NUL terminator (spec.md §9,
	// "Digest storage" — kept at this width for container
	// compatibility even though it doubles a raw 16-byte MD5 sum).
	digestFieldLength = 33

	// codeBookFixedOverhead is header_length's contribution from
	// everything except the variable-width code-table entries:
	// header magic (3) + original size (8) + digest (33) + symbol
	// count (2).
	codeBookFixedOverhead = len(headerMagic) + 8 + digestFieldLength + 2

	// payloadWriteBufWords batches 64-bit words before they're
	// flushed to the destination, mirroring
	// EGZ_WRITE_BUFFER_LENGTH's batching in the original encoder.
	payloadWriteBufWords = 4096
)

// codeWidth returns the number of bytes used to store a code of the
// given bit length: the smallest power-of-two width (1, 2, 4, or 8)
// that holds length bits.
func codeWidth(length uint8) int {
	switch {
	case length <= 8:
		return 1
	case length <= 16:
		return 2
	case length <= 32:
		return 4
	default:
		return 8
	}
}
