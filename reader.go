package simdcsv

import "io"

// Reader is a convenience façade over RowReader, mirroring the Read/
// ReadAll shape familiar from encoding/csv while being driven by the
// chunked engine underneath.
type Reader struct {
	rr *RowReader
}

// NewReader returns a Reader over r using DefaultCsvOpts.
func NewReader(r io.Reader) *Reader {
	return NewReaderOpts(r, DefaultCsvOpts())
}

// NewReaderOpts returns a Reader over r using opts. The caller must have
// already confirmed opts.Valid().
func NewReaderOpts(r io.Reader, opts CsvOpts) *Reader {
	return &Reader{rr: NewRowReader(NewReaderSource(r), opts)}
}

// Read returns the next row's fields as freshly allocated strings, or
// io.EOF once the input is exhausted.
func (r *Reader) Read() ([]string, error) {
	row, ok := r.rr.Next()
	if !ok {
		if err := r.rr.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	out := make([]string, row.Len())
	for i := 0; i < row.Len(); i++ {
		out[i] = string(row.Field(i))
	}
	return out, nil
}

// ReadAll reads every remaining row.
func (r *Reader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}
