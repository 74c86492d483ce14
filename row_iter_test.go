package simdcsv

import "testing"

func TestRowIterSimple(t *testing.T) {
	ri := NewRowIter([]byte("a,b\nc,d\n"), DefaultCsvOpts())
	var rows []string
	for {
		row, ok := ri.Next()
		if !ok {
			break
		}
		rows = append(rows, string(row.Bytes()))
	}
	if ri.Err() != nil {
		t.Fatalf("unexpected error: %v", ri.Err())
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestRowIterEmptyInputYieldsZeroRows(t *testing.T) {
	ri := NewRowIter(nil, DefaultCsvOpts())
	if _, ok := ri.Next(); ok {
		t.Fatal("expected zero rows for empty input")
	}
	if ri.Err() != nil {
		t.Fatalf("unexpected error: %v", ri.Err())
	}
}

func TestRowIterFieldCounts(t *testing.T) {
	ri := NewRowIter([]byte("a,b,c\nd,e\n"), DefaultCsvOpts())

	row, ok := ri.Next()
	if !ok {
		t.Fatal("expected first row")
	}
	if row.Len() != 3 {
		t.Fatalf("row 1 Len() = %d, want 3", row.Len())
	}

	row, ok = ri.Next()
	if !ok {
		t.Fatal("expected second row")
	}
	if row.Len() != 2 {
		t.Fatalf("row 2 Len() = %d, want 2", row.Len())
	}

	if _, ok := ri.Next(); ok {
		t.Fatal("expected no third row")
	}
}

func TestRowIterNoTrailingNewline(t *testing.T) {
	ri := NewRowIter([]byte("a,b\nc,d"), DefaultCsvOpts())
	count := 0
	for {
		row, ok := ri.Next()
		if !ok {
			break
		}
		count++
		_ = row
	}
	if ri.Err() != nil {
		t.Fatalf("unexpected error: %v", ri.Err())
	}
	if count != 2 {
		t.Fatalf("got %d rows, want 2", count)
	}
}

func TestRowIterSubFieldIter(t *testing.T) {
	ri := NewRowIter([]byte("a,b,c\n"), DefaultCsvOpts())
	row, ok := ri.Next()
	if !ok {
		t.Fatal("expected a row")
	}
	fi := row.Iter()
	var got []string
	for {
		rf, ok := fi.Next()
		if !ok {
			break
		}
		got = append(got, rf.String())
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, got[i], want[i])
		}
	}
}
