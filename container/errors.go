package container

import "errors"

// Error kinds surfaced at the core boundary. The core never recovers
// from these itself — each is reported to the caller (cmd/egz), which
// decides whether to abort or prompt, mirroring the egz_status enum
// the original C implementation returns instead of exiting directly.
var (
	// ErrAllocation is returned when a size sanity bound is exceeded:
	// by Compress when the input is larger than maxInputSize, and by
	// Header.WriteTo when the header length does not fit its 16-bit
	// field. Go has no direct malloc-failure signal, so this stands in
	// for EGZ_ERROR_MALLOC's role rather than its mechanism.
	ErrAllocation = errors.New("egz: allocation refused: size exceeds sanity bound")

	// ErrEmptyInput is returned by Compress when the source has zero
	// populated symbols.
	ErrEmptyInput = errors.New("egz: cannot compress empty input")

	// ErrInvalidFormat is returned by ReadHeader (and Expand)
	// when a magic check fails or a short read occurs where the
	// header schema demands a fixed width.
	ErrInvalidFormat = errors.New("egz: invalid or corrupt container format")

	// ErrNegativeCompression is returned by Compress, before any
	// output is written, when the predicted compressed size (header
	// plus entropy-coded payload) is not smaller than the original.
	ErrNegativeCompression = errors.New("egz: compressed size would not be smaller than the original")

	// ErrAbort is returned by the interactive collaborator (cmd/egz)
	// to signal the user declined to proceed past a warning.
	ErrAbort = errors.New("egz: aborted by user")

	// ErrDigestMismatch is returned by Expand when the MD5 of the
	// decoded output does not match the digest stored in the header.
	ErrDigestMismatch = errors.New("egz: digest mismatch between header and expanded output")
)
