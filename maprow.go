package simdcsv

import "github.com/google/uuid"

// Header is the parsed header row: an ordered column list plus a
// name-to-index lookup. A duplicate column name keeps only the later
// occurrence's index, matching ordinary Go map-assignment semantics.
type Header struct {
	names []string
	index map[string]int
}

func newHeader(fields [][]byte) *Header {
	h := &Header{names: make([]string, len(fields)), index: make(map[string]int, len(fields))}
	for i, f := range fields {
		name := string(f)
		h.names[i] = name
		h.index[name] = i
	}
	return h
}

// Len returns the number of header columns.
func (h *Header) Len() int { return len(h.names) }

// Name returns the column name at index i.
func (h *Header) Name(i int) string { return h.names[i] }

// IndexOf returns the column index for name, if present.
func (h *Header) IndexOf(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// SharedKeyMapRow is a header-keyed row whose column names are borrowed
// from the reader's single Header; only its values are privately owned.
// Cheaper than CopiedKeyMapRow when a row's lifetime never exceeds its
// reader's.
type SharedKeyMapRow struct {
	header *Header
	row    *OwnedRow
	id     uuid.UUID
	hasID  bool
}

// Get returns the decoded value for column name, if the row has that
// many fields.
func (r *SharedKeyMapRow) Get(name string) ([]byte, bool) {
	i, ok := r.header.IndexOf(name)
	if !ok || i >= r.row.Len() {
		return nil, false
	}
	return r.row.Field(i), true
}

// Len returns the number of fields actually present in this row (which
// may be fewer than the header's column count).
func (r *SharedKeyMapRow) Len() int { return r.row.Len() }

// ID returns the row's correlation ID. Valid only when the reader was
// constructed with CsvOpts.TagRows set.
func (r *SharedKeyMapRow) ID() (uuid.UUID, bool) { return r.id, r.hasID }

// CopiedKeyMapRow is a header-keyed row that owns a private clone of
// every column name it holds, independent of the reader that produced
// it. Costs one map and one key copy per row over SharedKeyMapRow, in
// exchange for rows that can freely outlive the reader or be handed to
// another goroutine.
type CopiedKeyMapRow struct {
	values map[string][]byte
	id     uuid.UUID
	hasID  bool
}

// Get returns the decoded value for column name.
func (r *CopiedKeyMapRow) Get(name string) ([]byte, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of distinct column names this row holds a value
// for; when header names repeat, this is fewer than the row's field count.
func (r *CopiedKeyMapRow) Len() int { return len(r.values) }

// ID returns the row's correlation ID. Valid only when the reader was
// constructed with CsvOpts.TagRows set.
func (r *CopiedKeyMapRow) ID() (uuid.UUID, bool) { return r.id, r.hasID }

// MapRowReader reads a header row once, then decodes every following row
// against that header via either NextShared or NextCopied. Mixing the two
// calls on one reader is fine; they share the same underlying RowReader
// and Header.
type MapRowReader struct {
	rr     *RowReader
	opts   CsvOpts
	header *Header
	err    error
}

// NewMapRowReader reads the header row from src and returns a reader for
// the rows that follow. It returns ErrNoHeaderRow if src is empty.
func NewMapRowReader(src ByteSource, opts CsvOpts) (*MapRowReader, error) {
	rr := NewRowReader(src, opts)
	headerRow, ok := rr.Next()
	if !ok {
		if err := rr.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoHeaderRow
	}
	// An empty source still yields one row of a single empty field (the
	// stream iterator's empty-input rule); its first chunk is then the
	// phantom terminator chunk.
	if rr.si.chunkIndex == 0 && rr.si.curIsPhantom {
		return nil, ErrNoHeaderRow
	}

	names := make([][]byte, headerRow.Len())
	for i := 0; i < headerRow.Len(); i++ {
		names[i] = append([]byte(nil), headerRow.Field(i)...)
	}
	return &MapRowReader{rr: rr, opts: opts, header: newHeader(names)}, nil
}

// Header returns the parsed header row.
func (m *MapRowReader) Header() *Header { return m.header }

// Err returns the latched error, if any.
func (m *MapRowReader) Err() error {
	if m.err != nil {
		return m.err
	}
	return m.rr.Err()
}

func (m *MapRowReader) nextRow() (*OwnedRow, bool) {
	if m.err != nil {
		return nil, false
	}
	row, ok := m.rr.Next()
	if !ok {
		return nil, false
	}
	if row.Len() > m.header.Len() {
		m.err = ErrNoHeaderForColumn
		return nil, false
	}
	return row, true
}

// NextShared returns the next row as a SharedKeyMapRow.
func (m *MapRowReader) NextShared() (*SharedKeyMapRow, bool) {
	row, ok := m.nextRow()
	if !ok {
		return nil, false
	}
	out := &SharedKeyMapRow{header: m.header, row: row}
	if m.opts.TagRows {
		out.id, out.hasID = uuid.New(), true
	}
	return out, true
}

// NextCopied returns the next row as a CopiedKeyMapRow.
func (m *MapRowReader) NextCopied() (*CopiedKeyMapRow, bool) {
	row, ok := m.nextRow()
	if !ok {
		return nil, false
	}
	values := make(map[string][]byte, row.Len())
	for i := 0; i < row.Len(); i++ {
		values[m.header.Name(i)] = append([]byte(nil), row.Field(i)...)
	}
	out := &CopiedKeyMapRow{values: values}
	if m.opts.TagRows {
		out.id, out.hasID = uuid.New(), true
	}
	return out, true
}
