package simdcsv

import (
	"errors"
	"testing"
)

func collectFields(t *testing.T, input string) []RowField {
	t.Helper()
	it := NewFieldIter([]byte(input), DefaultCsvOpts())
	var out []RowField
	for {
		rf, ok := it.Next()
		if !ok {
			if err := it.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			return out
		}
		out = append(out, rf)
	}
}

func TestFieldIterSimple(t *testing.T) {
	fields := collectFields(t, "a,b,c\n")
	want := []string{"a", "b", "c"}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, f := range fields {
		if f.String() != want[i] {
			t.Errorf("field %d = %q, want %q", i, f.String(), want[i])
		}
		if f.RowEnd != (i == len(want)-1) {
			t.Errorf("field %d RowEnd = %v", i, f.RowEnd)
		}
	}
}

func TestFieldIterEmptyInput(t *testing.T) {
	it := NewFieldIter(nil, DefaultCsvOpts())
	rf, ok := it.Next()
	if !ok {
		t.Fatal("expected one field for empty input")
	}
	if rf.String() != "" || !rf.RowEnd {
		t.Fatalf("got %+v, want empty field with RowEnd true", rf)
	}
	if _, ok := it.Next(); ok {
		t.Fatal("expected iterator to be done after the single empty field")
	}
}

func TestFieldIterTrailingDelimiter(t *testing.T) {
	fields := collectFields(t, "a,b,c,\n")
	want := []string{"a", "b", "c", ""}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, f := range fields {
		if f.String() != want[i] {
			t.Errorf("field %d = %q, want %q", i, f.String(), want[i])
		}
	}
	if !fields[len(fields)-1].RowEnd {
		t.Fatal("last field should end the row")
	}
}

func TestFieldIterCRLF(t *testing.T) {
	fields := collectFields(t, "a,b\r\nc,d\r\n")
	want := []string{"a", "b", "c", "d"}
	for i, f := range fields {
		if f.String() != want[i] {
			t.Errorf("field %d = %q, want %q", i, f.String(), want[i])
		}
	}
	if !fields[1].RowEnd || !fields[3].RowEnd {
		t.Fatal("fields at row boundaries should have RowEnd true")
	}
	if fields[0].RowEnd || fields[2].RowEnd {
		t.Fatal("non-terminal fields should have RowEnd false")
	}
}

func TestFieldIterQuotedField(t *testing.T) {
	fields := collectFields(t, `a,"b,c","d""e"`+"\n")
	want := []string{"a", `"b,c"`, `"d""e"`}
	for i, f := range fields {
		if f.String() != want[i] {
			t.Errorf("field %d = %q, want %q", i, f.String(), want[i])
		}
	}
}

func TestFieldIterCrossChunkQuoted(t *testing.T) {
	// A quoted field whose content straddles a 64-byte chunk boundary.
	content := make([]byte, 0, 150)
	content = append(content, 'a', ',', '"')
	for len(content) < 140 {
		content = append(content, 'x')
	}
	content = append(content, '"', '\n')

	fields := collectFields(t, string(content))
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if fields[0].String() != "a" {
		t.Fatalf("field 0 = %q, want %q", fields[0].String(), "a")
	}
}

func TestFieldIterCRLFSplitAcrossChunkBoundary(t *testing.T) {
	// CR lands on byte index 63 (the last byte of the first chunk), its
	// paired LF on byte index 64 (the first byte of the next).
	first := ""
	for len(first) < chunkBytes-1 {
		first += "x"
	}
	input := first + "\r\n" + "z\n"
	if input[chunkBytes-1] != '\r' || input[chunkBytes] != '\n' {
		t.Fatalf("fixture miscounted: byte63=%q byte64=%q", input[chunkBytes-1], input[chunkBytes])
	}

	fields := collectFields(t, input)
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if fields[0].String() != first {
		t.Fatalf("field 0 = %q, want %q", fields[0].String(), first)
	}
	if !fields[0].RowEnd {
		t.Fatal("field 0 should end its row")
	}
	if fields[1].String() != "z" {
		t.Fatalf("field 1 = %q, want %q", fields[1].String(), "z")
	}
}

func TestFieldIterQuoteOpensAtChunkBoundary(t *testing.T) {
	// The opening quote of the second field lands on byte index 63, the
	// last byte of the first chunk; its content and closing quote fall in
	// the next chunk.
	plain := ""
	for len(plain) < chunkBytes-2 {
		plain += "x"
	}
	input := plain + `,"hello"` + "\n"
	if input[chunkBytes-1] != '"' {
		t.Fatalf("fixture miscounted: byte63=%q", input[chunkBytes-1])
	}

	fields := collectFields(t, input)
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if fields[0].String() != plain {
		t.Fatalf("field 0 = %q, want %q", fields[0].String(), plain)
	}
	if fields[1].String() != `"hello"` {
		t.Fatalf("field 1 = %q, want %q", fields[1].String(), `"hello"`)
	}
}

func TestFieldIterUnterminatedQuoteErrors(t *testing.T) {
	it := NewFieldIter([]byte(`"abc`), DefaultCsvOpts())
	for {
		if _, ok := it.Next(); !ok {
			break
		}
	}
	if !errors.Is(it.Err(), ErrUnexpectedEndOfFile) {
		t.Fatalf("Err() = %v, want ErrUnexpectedEndOfFile", it.Err())
	}
}

func TestFieldIterMaxIter(t *testing.T) {
	opts := DefaultCsvOpts()
	opts.MaxIter = 1
	// Three 64-byte chunks of unquoted filler with no separator anywhere:
	// the iterator must load more than one chunk to find one, tripping
	// the guard.
	input := make([]byte, chunkBytes*3)
	for i := range input {
		input[i] = 'x'
	}
	it := NewFieldIter(input, opts)
	if _, ok := it.Next(); ok {
		t.Fatal("expected no field before hitting the iteration limit")
	}
	if !errors.Is(it.Err(), ErrInternalLimitReached) {
		t.Fatalf("Err() = %v, want ErrInternalLimitReached", it.Err())
	}
}
