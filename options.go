// Package simdcsv implements a vectorised, branch-lean CSV tokeniser.
//
// The hard engineering core operates on fixed 64-byte chunks and
// reconstructs field and row boundaries from bit-parallel character masks,
// together with a state machine that threads those masks across arbitrary
// byte boundaries while preserving RFC 4180 quoting semantics. Three
// façades sit on top of that core: a zero-allocation slice iterator, a
// streaming reader-driven iterator, and a heap-allocating adapter that
// composes fields into owned rows and header-keyed maps. A separate,
// type-driven writer handles emission.
package simdcsv

// chunkBytes is the fixed window size the tokeniser operates on.
const chunkBytes = 64

// DefaultMaxIter bounds the number of 64-byte chunks a single parser will
// load before giving up with ErrInternalLimitReached. This is a safety
// guard against runaway loops, not a maximum field or row size.
const DefaultMaxIter = 65536

// CsvOpts configures the delimiter, quote, and line-ending bytes the
// tokeniser recognises, plus a safety cap on the number of chunks a single
// parse may load.
//
// All four bytes (Delimiter, Quote, LineEnd, and LineEndPrefix if set) must
// be pairwise distinct; call Valid before constructing a parser.
type CsvOpts struct {
	Delimiter byte
	Quote     byte
	LineEnd   byte

	// LineEndPrefix, if non-nil, is a byte that may precede LineEnd as part
	// of a line ending (e.g. CR of a CRLF pair); wherever it appears outside
	// quotes it must be immediately followed by LineEnd. LineEnd alone
	// terminates a line either way.
	LineEndPrefix *byte

	// MaxIter bounds the number of chunks a single parser will load.
	MaxIter int

	// TagRows, when true, makes MapRowReader stamp each row it produces
	// with a fresh random correlation ID (see SharedKeyMapRow.ID and
	// CopiedKeyMapRow.ID). Off by default: most callers have no use for
	// it and it costs one RNG pull per row.
	TagRows bool
}

// DefaultCsvOpts returns the RFC 4180 defaults: comma-delimited,
// double-quote-quoted, CRLF-or-LF line endings.
func DefaultCsvOpts() CsvOpts {
	cr := byte('\r')
	return CsvOpts{
		Delimiter:     ',',
		Quote:         '"',
		LineEnd:       '\n',
		LineEndPrefix: &cr,
		MaxIter:       DefaultMaxIter,
	}
}

// Valid reports whether o's delimiter/quote/line-ending bytes are pairwise
// distinct, per the invariant every parser requires before construction.
func (o CsvOpts) Valid() bool {
	bs := []byte{o.Delimiter, o.Quote, o.LineEnd}
	if o.LineEndPrefix != nil {
		bs = append(bs, *o.LineEndPrefix)
	}
	for i := range bs {
		for j := i + 1; j < len(bs); j++ {
			if bs[i] == bs[j] {
				return false
			}
		}
	}
	return true
}

// maxIter returns o.MaxIter, falling back to DefaultMaxIter when unset.
func (o CsvOpts) maxIter() int {
	if o.MaxIter <= 0 {
		return DefaultMaxIter
	}
	return o.MaxIter
}

// isLineEndPrefix reports whether b is the configured line-ending prefix
// byte (e.g. CR), when one is configured.
func (o CsvOpts) isLineEndPrefix(b byte) bool {
	return o.LineEndPrefix != nil && b == *o.LineEndPrefix
}
