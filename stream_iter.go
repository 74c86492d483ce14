package simdcsv

import (
	"errors"
	"io"
	"math/bits"
)

// errNoMoreChunks is an internal sentinel: advance() returns it once the
// phantom terminator chunk has been consumed and there is truly nothing
// left to read. It never escapes StreamFieldIter.
var errNoMoreChunks = errors.New("simdcsv: no more chunks")

// StreamFieldIter walks a ByteSource field by field, writing each field's
// content to a caller-supplied sink instead of returning a borrowed slice.
// It buffers at most two 64-byte chunks at a time (the current one, and a
// one-chunk lookahead needed only to tell a full chunk apart from the
// final chunk of input), and carries the same carryState the slice-mode
// FieldIter does across chunk boundaries, so the two produce identical
// field/row boundaries for the same input.
type StreamFieldIter struct {
	src  ByteSource
	opts CsvOpts

	cur          [chunkBytes]byte
	curN         int
	curIsPhantom bool

	next       [chunkBytes]byte
	nextN      int
	nextLoaded bool

	masks chunkMasks
	carry carryState
	pos   int

	pendingSkip int
	chunkIndex  int

	initialized bool
	finished    bool
	err         error
	lastRowEnd  bool

	iterCount int
}

// NewStreamFieldIter returns a StreamFieldIter pulling from src.
func NewStreamFieldIter(src ByteSource, opts CsvOpts) *StreamFieldIter {
	return &StreamFieldIter{src: src, opts: opts, carry: bofCarry()}
}

// Err returns the latched error, if any.
func (si *StreamFieldIter) Err() error { return si.err }

// Done reports whether the iterator is exhausted or has latched an error.
func (si *StreamFieldIter) Done() bool {
	return si.err != nil || si.finished
}

// AtRowEnd reports whether the field most recently returned by Next was
// the last field of its row.
func (si *StreamFieldIter) AtRowEnd() bool { return si.lastRowEnd }

func (si *StreamFieldIter) readRaw() ([chunkBytes]byte, int, error) {
	var buf [chunkBytes]byte
	n, err := si.src.FillChunk(&buf)
	return buf, n, err
}

func (si *StreamFieldIter) ensureInit() error {
	if si.initialized {
		return nil
	}
	si.initialized = true

	buf, n, err := si.readRaw()
	if err != nil {
		return err
	}
	si.cur, si.curN = buf, n
	if n == 0 {
		si.curIsPhantom = true
	} else if n == chunkBytes {
		nbuf, n2, err := si.readRaw()
		if err != nil {
			return err
		}
		si.next, si.nextN, si.nextLoaded = nbuf, n2, true
	}
	return si.loadCurMasks()
}

func (si *StreamFieldIter) loadCurMasks() error {
	atEOF := si.curIsPhantom || si.curN < chunkBytes
	masks, carry, err := computeChunkMasks(&si.cur, si.curN, atEOF, si.carry, si.opts)
	if err != nil {
		return &ParseError{Offset: si.chunkIndex * chunkBytes, Err: err}
	}
	si.masks = masks
	si.carry = carry
	si.pos = si.pendingSkip
	si.pendingSkip = 0
	return nil
}

// advance moves to the next buffered chunk, pulling further lookahead from
// src as needed. It returns errNoMoreChunks once the phantom terminator
// chunk (or a genuinely short final chunk) has been fully processed.
func (si *StreamFieldIter) advance() error {
	if si.curIsPhantom {
		return errNoMoreChunks
	}
	if si.curN < chunkBytes {
		return errNoMoreChunks
	}

	si.cur, si.curN = si.next, si.nextN
	si.nextLoaded = false
	si.chunkIndex++

	switch {
	case si.curN == 0:
		si.curIsPhantom = true
	case si.curN == chunkBytes:
		nbuf, n2, err := si.readRaw()
		if err != nil {
			return err
		}
		si.next, si.nextN, si.nextLoaded = nbuf, n2, true
	}
	return si.loadCurMasks()
}

// Next writes the next field's raw bytes (quotes and escapes untouched) to
// sink and reports whether it was the last field of its row. Wrap sink in
// a Decoder to get unquoted, unescaped content instead. It returns
// ok == false once the source is exhausted or an error has been latched;
// check Err to distinguish the two.
func (si *StreamFieldIter) Next(sink io.Writer) (rowEnd bool, ok bool) {
	if !si.initialized {
		if err := si.ensureInit(); err != nil {
			si.err = err
			return false, false
		}
	}
	if si.Done() {
		return false, false
	}

	for si.masks.fieldSeparators == 0 {
		if si.pos < si.curN {
			if _, err := sink.Write(si.cur[si.pos:si.curN]); err != nil {
				si.err = err
				return false, false
			}
			si.pos = si.curN
		}
		si.iterCount++
		if si.iterCount > si.opts.maxIter() {
			si.err = &ParseError{Offset: si.chunkIndex*chunkBytes + si.pos, Err: ErrInternalLimitReached}
			return false, false
		}
		if err := si.advance(); err != nil {
			if err == errNoMoreChunks {
				si.finished = true
				return false, false
			}
			si.err = err
			return false, false
		}
	}

	k := bits.TrailingZeros64(si.masks.fieldSeparators)
	si.masks.fieldSeparators &^= uint64(1) << uint(k)

	if k > si.pos {
		if _, err := sink.Write(si.cur[si.pos:k]); err != nil {
			si.err = err
			return false, false
		}
	}

	rowEnd = true
	newPos := k + 1

	if k < si.curN {
		b := si.cur[k]
		switch {
		case si.opts.isLineEndPrefix(b):
			newPos = k + 2
			if k+1 < chunkBytes {
				si.masks.fieldSeparators &^= uint64(1) << uint(k+1)
			}
		case b == si.opts.LineEnd:
			newPos = k + 1
		default:
			rowEnd = false
			newPos = k + 1
		}
	}

	if newPos > si.curN {
		si.pendingSkip = newPos - si.curN
		si.pos = si.curN
	} else {
		si.pos = newPos
	}

	si.lastRowEnd = rowEnd
	return rowEnd, true
}
