package simdcsv

import "io"

// Decoder is a write-through sink that unquotes and unescapes CSV field
// bytes as they arrive, rather than buffering a whole field first. It
// tracks three bits of state across writes: whether it has seen the
// field's first byte yet, whether the field opened with a quote, and
// whether the previous byte written was a quote (pending resolution as
// either the start of an escaped quote or the field's closing quote).
//
// A Decoder is single-field: call FieldEnd between fields to reset it,
// then keep reusing the same Decoder for the next field.
type Decoder struct {
	sink  io.Writer
	opts  CsvOpts
	started, quoted, pendingQuote bool
	err error
}

// NewDecoder returns a Decoder writing unquoted field content to sink.
func NewDecoder(sink io.Writer, opts CsvOpts) *Decoder {
	return &Decoder{sink: sink, opts: opts}
}

// FieldEnd resets decoder state for the next field. It does not flush or
// close sink.
func (d *Decoder) FieldEnd() {
	d.started = false
	d.quoted = false
	d.pendingQuote = false
}

// Write feeds raw field bytes (as seen in the input, quotes and all)
// through the decoder, writing unescaped content bytes to the wrapped
// sink. It satisfies io.Writer so a Decoder can be handed directly to
// anything that streams bytes, such as StreamFieldIter.Next.
func (d *Decoder) Write(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	total := len(p)

	for len(p) > 0 {
		b := p[0]

		if !d.started {
			d.started = true
			if b == d.opts.Quote {
				d.quoted = true
				p = p[1:]
				continue
			}
		}

		if !d.quoted {
			if _, err := d.sink.Write(p[:1]); err != nil {
				d.err = err
				return 0, err
			}
			p = p[1:]
			continue
		}

		if d.pendingQuote {
			d.pendingQuote = false
			if b == d.opts.Quote {
				// Doubled quote: emit one literal quote byte.
				if _, err := d.sink.Write(p[:1]); err != nil {
					d.err = err
					return 0, err
				}
				p = p[1:]
				continue
			}
			// The previous quote closed the field; anything after it
			// (besides the separator the caller already stripped) is not
			// our concern here — fall through and treat b as unquoted
			// trailing content so no bytes are silently dropped.
		}

		if b == d.opts.Quote {
			d.pendingQuote = true
			p = p[1:]
			continue
		}

		if _, err := d.sink.Write(p[:1]); err != nil {
			d.err = err
			return 0, err
		}
		p = p[1:]
	}

	return total, nil
}
