package simdcsv

// Row is a sub-slice of the input spanning one CSV row, including any
// trailing line-ending bytes. Its Iter method yields a fresh FieldIter over
// that exact sub-slice, so re-walking a Row never re-emits an extra row for
// the line ending it captured.
type Row struct {
	data  []byte
	opts  CsvOpts
	count int
}

// Bytes returns the row's raw bytes, including its trailing line ending.
func (r Row) Bytes() []byte { return r.data }

// Len returns the number of fields the row contains.
func (r Row) Len() int { return r.count }

// Iter returns a field iterator over the row's bytes.
func (r Row) Iter() *FieldIter { return NewFieldIter(r.data, r.opts) }

// RowIter walks a byte slice row by row, internally driven by a FieldIter.
type RowIter struct {
	input []byte
	opts  CsvOpts
	fi    *FieldIter
	done  bool
}

// NewRowIter returns a RowIter over input using opts.
func NewRowIter(input []byte, opts CsvOpts) *RowIter {
	return &RowIter{input: input, opts: opts, fi: NewFieldIter(input, opts)}
}

// Err returns the latched error, if any.
func (r *RowIter) Err() error { return r.fi.Err() }

// Next returns the next row. Empty input yields zero rows, even though the
// underlying field iterator emits one empty field for it.
func (r *RowIter) Next() (Row, bool) {
	if r.done || len(r.input) == 0 {
		r.done = true
		return Row{}, false
	}
	if r.fi.Done() {
		return Row{}, false
	}

	start := r.fi.StartPos()
	fieldCount := 0
	end := start

	for {
		rf, ok := r.fi.Next()
		if !ok {
			if r.fi.Err() != nil {
				return Row{}, false
			}
			if fieldCount == 0 {
				return Row{}, false
			}
			break
		}
		fieldCount++
		end = r.fi.StartPos()
		if rf.RowEnd {
			break
		}
	}

	if end > len(r.input) {
		end = len(r.input)
	}
	return Row{data: r.input[start:end], opts: r.opts, count: fieldCount}, true
}
