package simdcsv

import "bytes"

// OwnedRow is a fully decoded CSV row whose field bytes live in a private
// buffer: unlike slice-mode Field, it outlives the ByteSource that
// produced it. Each call to RowReader.Next returns a row backed by a
// freshly allocated buffer, so rows returned by successive calls never
// alias each other.
type OwnedRow struct {
	buf    []byte
	fields []fieldSpan
}

type fieldSpan struct {
	offset, length int
}

// Len returns the number of fields in the row.
func (r *OwnedRow) Len() int { return len(r.fields) }

// Field returns the decoded (unquoted, unescaped) bytes of field i.
func (r *OwnedRow) Field(i int) []byte {
	fs := r.fields[i]
	return r.buf[fs.offset : fs.offset+fs.length]
}

// RowReader reads OwnedRows one at a time, decoding each field with a
// Decoder as it is produced by an underlying StreamFieldIter.
type RowReader struct {
	si      *StreamFieldIter
	opts    CsvOpts
	maxSeen int
	err     error
}

// NewRowReader returns a RowReader pulling from src.
func NewRowReader(src ByteSource, opts CsvOpts) *RowReader {
	return &RowReader{si: NewStreamFieldIter(src, opts), opts: opts}
}

// Err returns the latched error, if any.
func (rr *RowReader) Err() error {
	if rr.err != nil {
		return rr.err
	}
	return rr.si.Err()
}

// Next returns the next row. On error mid-row, the partial row is
// discarded and the error is latched for Err.
func (rr *RowReader) Next() (*OwnedRow, bool) {
	if rr.err != nil || rr.si.Done() {
		return nil, false
	}

	buf := bytes.NewBuffer(make([]byte, 0, rr.maxSeen))
	dec := NewDecoder(buf, rr.opts)
	row := &OwnedRow{}

	for {
		before := buf.Len()
		dec.FieldEnd()
		rowEnd, ok := rr.si.Next(dec)
		if !ok {
			if err := rr.si.Err(); err != nil {
				rr.err = err
				return nil, false
			}
			if len(row.fields) == 0 {
				return nil, false
			}
			break
		}
		row.fields = append(row.fields, fieldSpan{offset: before, length: buf.Len() - before})
		if rowEnd {
			break
		}
	}

	row.buf = buf.Bytes()
	if len(row.buf) > rr.maxSeen {
		rr.maxSeen = len(row.buf)
	}
	return row, true
}
