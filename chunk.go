package simdcsv

import "math/bits"

// =============================================================================
// Chunk engine
// =============================================================================
//
// Every parser variant (slice, streaming, allocating) is built on top of
// computeChunkMasks: given a 64-byte window and the carry state left by the
// previous window, it produces a field_separators bitmask locating every
// delimiter/line-ending byte lying outside a quoted region, validating
// RFC 4180 structure as it goes.
//
// The quoted-region mask uses the classic carry-less parenthesisation
// trick: peeling the lowest set bit of the quote mask on each iteration and
// XORing in the span between it and the next quote produces a mask whose
// bits are set between each pair of quotes. XORing that with the carried
// sign bit from the previous chunk continues a quoted region that crossed
// the chunk boundary.
//
// Carries are stored as the *full* mask from the previous chunk (not just
// the single top bit) so that both the top-bit carry and whole-mask
// reuse (e.g. left-shifting into this chunk) are available uniformly.

// carryState holds the state threaded from one 64-byte chunk to the next.
type carryState struct {
	quoted    uint64 // previous chunk's quoted mask in [i, j) form; top bit set iff it ended inside quotes
	cr        uint64 // previous chunk's CR mask
	quoteEnds uint64 // previous chunk's quote-end mask
	fieldSeps uint64 // previous chunk's field-separator mask
	endsLF    bool   // previous chunk's last valid byte was LineEnd
}

// bofCarry is the carry state a fresh parse starts from. Its fieldSeps top
// bit stands in for a virtual separator immediately before byte 0, so the
// quote-boundary check below treats beginning-of-input the same as
// following an ordinary delimiter or line ending: a quote may open there.
func bofCarry() carryState {
	return carryState{fieldSeps: uint64(1) << 63}
}

// chunkMasks is everything a field/row iterator needs from one processed
// chunk: which positions end a field, and how many bytes of the window
// were valid input (less than chunkBytes only for the final chunk).
type chunkMasks struct {
	fieldSeparators uint64
	validLen        int
}

// popcount64 counts set bits. x/sys/cpu's feature probe (cpu.go) decides
// whether to trust the toolchain's generic bits.OnesCount64 lowering or
// fall back to a portable peel-the-lowest-bit loop; both give the same
// answer, this just picks which one actually runs on this host.
func popcount64(x uint64) int {
	if hasFastPopcount {
		return bits.OnesCount64(x)
	}
	count := 0
	for x != 0 {
		x &= x - 1
		count++
	}
	return count
}

// quotedRegionMask computes, from a mask of quote-byte positions, a mask
// covering each quoted span using the half-open-on-the-left convention:
// for a pair of quotes at bit positions i < j, the bits set are (i, j],
// i.e. {i+1, ..., j} — the opening quote itself is excluded, the closing
// quote is included. This works without needing to know where any chunk
// boundary falls.
func quotedRegionMask(quoteBits uint64) uint64 {
	var res uint64
	x := quoteBits
	for x != 0 {
		x1 := -x
		res ^= x1 ^ x
		x &= x - 1
	}
	return res
}

// broadcastTopBit sign-extends mask's top bit across all 64 bits: all-ones
// if bit 63 was set, all-zero otherwise. Used to continue the quoted-region
// carry across a chunk boundary.
func broadcastTopBit(mask uint64) uint64 {
	return uint64(int64(mask) >> 63)
}

// computeChunkMasks derives field-separator positions for one 64-byte (or
// shorter, at end of input) window and validates local RFC 4180 structure.
//
// atEOF must be true exactly for the final chunk of input (including a
// zero-length phantom chunk used to carry the virtual end-of-input
// terminator when the real input length is an exact multiple of
// chunkBytes). On a short final window, the terminator is injected as a
// virtual line-ending bit one past the last valid byte, so every parser
// layered on this engine sees EOF as an ordinary field/row terminator.
func computeChunkMasks(window *[chunkBytes]byte, validLen int, atEOF bool, carry carryState, opts CsvOpts) (chunkMasks, carryState, error) {
	var quotes, delim, cr, nl uint64

	for i := 0; i < validLen; i++ {
		b := window[i]
		bit := uint64(1) << uint(i)
		switch {
		case b == opts.Quote:
			quotes |= bit
		case b == opts.Delimiter:
			delim |= bit
		case opts.isLineEndPrefix(b):
			cr |= bit
		case b == opts.LineEnd:
			nl |= bit
		}
	}

	// The virtual terminator stands in for a separator the input never
	// supplied, so the final field/row always ends the same way a
	// mid-input one does. It must NOT be injected when the input already
	// ends with a real line ending (validLen's last byte, or the last
	// byte of the previous chunk when this one contributes none, as with
	// a trailing phantom chunk) — otherwise a clean "...c\n" would gain a
	// spurious extra empty row. A trailing delimiter with no following
	// line ending still needs it, to close the empty final field.
	var endsLF bool
	if validLen > 0 {
		endsLF = window[validLen-1] == opts.LineEnd
	} else {
		endsLF = carry.endsLF
	}
	if atEOF && validLen < chunkBytes && !endsLF {
		nl |= uint64(1) << uint(validLen)
	}

	quoted := quotedRegionMask(quotes) ^ broadcastTopBit(carry.quoted)
	notQuoted := ^quoted

	fieldSeparators := (delim | cr | nl) & notQuoted

	// Line-ending validation: every CR (this chunk's, or carried from the
	// previous chunk's boundary) must be immediately followed by an LF.
	expectedLFs := (cr << 1) | (carry.cr >> 63)
	if popcount64(expectedLFs) != popcount64(expectedLFs&nl) {
		return chunkMasks{}, carry, ErrInvalidLineEnding
	}
	if atEOF && validLen > 0 && cr&(uint64(1)<<uint(validLen-1)) != 0 {
		return chunkMasks{}, carry, ErrInvalidLineEnding
	}

	// A CR carried from the previous chunk's final byte already consumed
	// this chunk's leading LF as its pair; don't count it again.
	if carry.cr>>63 != 0 {
		fieldSeparators &^= 1
	}

	// Quote-boundary validation.
	strs := quotes | quoted
	quoteStarts := strs &^ (strs << 1)
	quoteEnds := strs &^ (strs >> 1)

	expectedStarts := quoteStarts &^ (carry.quoteEnds >> 63)
	delimLeftNeighbours := (fieldSeparators << 1) | (carry.fieldSeps >> 63)
	if popcount64(delimLeftNeighbours&expectedStarts) != popcount64(expectedStarts) {
		return chunkMasks{}, carry, ErrUnexpectedQuote
	}

	expectedEndSeps := ((quoteEnds << 1) | (carry.quoteEnds >> 63)) &^ quoteStarts
	if popcount64(fieldSeparators&expectedEndSeps) != popcount64(expectedEndSeps) {
		return chunkMasks{}, carry, ErrQuotePrematurelyTerminated
	}

	// quoted excludes opening quotes and includes closing ones, so toggling
	// the quote bits gives the [i, j) form, whose top bit says whether the
	// input is still inside a quoted field after this chunk's last byte
	// (a quote on bit 63 flips that state).
	openAtEnd := quoted ^ quotes
	if atEOF && openAtEnd>>63 != 0 {
		return chunkMasks{}, carry, ErrUnexpectedEndOfFile
	}

	newCarry := carryState{
		quoted:    openAtEnd,
		cr:        cr,
		quoteEnds: quoteEnds,
		fieldSeps: fieldSeparators,
		endsLF:    endsLF,
	}

	return chunkMasks{fieldSeparators: fieldSeparators, validLen: validLen}, newCarry, nil
}

// chunkPlan describes how many real 64-byte windows an in-memory slice has,
// and whether a trailing zero-length phantom chunk is needed to carry the
// virtual end-of-input terminator (true whenever the real input's length
// is an exact multiple of chunkBytes, including zero).
type chunkPlan struct {
	realChunks   int
	lastValidLen int
	needPhantom  bool
}

func planChunks(n int) chunkPlan {
	real := (n + chunkBytes - 1) / chunkBytes
	last := n - (real-1)*chunkBytes
	if real == 0 {
		last = 0
	}
	return chunkPlan{
		realChunks:   real,
		lastValidLen: last,
		needPhantom:  n == 0 || last == chunkBytes,
	}
}

func (p chunkPlan) total() int {
	if p.needPhantom {
		return p.realChunks + 1
	}
	return p.realChunks
}

// window loads chunk idx of input into buf, reporting its valid length and
// whether it is the final chunk (real or phantom).
func (p chunkPlan) window(input []byte, idx int, buf *[chunkBytes]byte) (validLen int, atEOF bool) {
	*buf = [chunkBytes]byte{}
	if idx < p.realChunks {
		start := idx * chunkBytes
		validLen = chunkBytes
		if idx == p.realChunks-1 {
			validLen = p.lastValidLen
		}
		copy(buf[:], input[start:start+validLen])
		atEOF = idx == p.realChunks-1 && !p.needPhantom
		return validLen, atEOF
	}
	// Phantom terminator-only chunk.
	return 0, true
}
