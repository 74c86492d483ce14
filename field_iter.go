package simdcsv

import "math/bits"

// Field is a single CSV field. In slice-mode parsing (FieldIter, RowIter)
// its bytes are a sub-slice of the original input and never outlive it.
type Field struct {
	data []byte
}

// Bytes returns the field's raw content bytes.
func (f Field) Bytes() []byte { return f.data }

// String returns the field's content as a string (a copy).
func (f Field) String() string { return string(f.data) }

// RowField is a field emitted by FieldIter, annotated with whether it was
// the last field of its row.
type RowField struct {
	Field
	RowEnd bool
}

// FieldIter walks a byte slice field by field using the chunk engine,
// without allocating: every returned Field borrows from the input slice.
type FieldIter struct {
	input []byte
	opts  CsvOpts
	plan  chunkPlan

	startPos int
	window   [chunkBytes]byte
	masks    chunkMasks
	carry    carryState
	loaded   bool

	nextChunk int
	curChunk  int

	iterCount    int
	err          error
	finished     bool
	emptyHandled bool
}

// NewFieldIter returns a FieldIter over input using opts. The caller must
// have already confirmed opts.Valid().
func NewFieldIter(input []byte, opts CsvOpts) *FieldIter {
	return &FieldIter{input: input, opts: opts, plan: planChunks(len(input)), carry: bofCarry()}
}

// Err returns the latched error, if any, after the iterator is drained.
func (it *FieldIter) Err() error { return it.err }

// StartPos returns the byte offset at which the next field begins.
func (it *FieldIter) StartPos() int { return it.startPos }

// Done reports whether the iterator is exhausted or has latched an error.
func (it *FieldIter) Done() bool {
	return it.err != nil || it.finished
}

// ensureSeparator loads chunks until the current one has an unconsumed
// field-separator bit, or reports false when input is exhausted (or an
// error was latched while loading).
func (it *FieldIter) ensureSeparator() bool {
	for {
		if it.loaded && it.masks.fieldSeparators != 0 {
			return true
		}
		if it.nextChunk >= it.plan.total() {
			return false
		}
		it.iterCount++
		if it.iterCount > it.opts.maxIter() {
			it.err = &ParseError{Offset: it.nextChunk * chunkBytes, Err: ErrInternalLimitReached}
			return false
		}

		validLen, atEOF := it.plan.window(it.input, it.nextChunk, &it.window)
		masks, newCarry, err := computeChunkMasks(&it.window, validLen, atEOF, it.carry, it.opts)
		if err != nil {
			it.err = &ParseError{Offset: it.nextChunk * chunkBytes, Err: err}
			return false
		}
		it.masks = masks
		it.carry = newCarry
		it.curChunk = it.nextChunk
		it.loaded = true
		it.nextChunk++
	}
}

// Next returns the next field and whether one was produced. On the zero-
// length input, it emits a single empty field with RowEnd true, then
// reports done. A trailing delimiter at end of input likewise produces one
// additional empty field with RowEnd true.
func (it *FieldIter) Next() (RowField, bool) {
	if it.Done() {
		return RowField{}, false
	}

	if len(it.input) == 0 {
		if it.emptyHandled {
			it.finished = true
			return RowField{}, false
		}
		it.emptyHandled = true
		it.finished = true
		return RowField{Field: Field{data: it.input[:0]}, RowEnd: true}, true
	}

	if !it.ensureSeparator() {
		if it.err == nil {
			it.finished = true
		}
		return RowField{}, false
	}

	k := bits.TrailingZeros64(it.masks.fieldSeparators)
	absPos := it.curChunk*chunkBytes + k
	if absPos > len(it.input) {
		absPos = len(it.input)
	}
	it.masks.fieldSeparators &^= uint64(1) << uint(k)

	data := it.input[it.startPos:absPos]
	rowEnd := true
	advance := 1

	if absPos < len(it.input) {
		b := it.input[absPos]
		switch {
		case it.opts.isLineEndPrefix(b):
			advance = 2
			if k+1 < chunkBytes {
				it.masks.fieldSeparators &^= uint64(1) << uint(k+1)
			}
		case b == it.opts.LineEnd:
			advance = 1
		default:
			rowEnd = false
			advance = 1
		}
	}

	it.startPos = absPos + advance
	return RowField{Field: Field{data: data}, RowEnd: rowEnd}, true
}
