package simdcsv

import (
	"io"
	"strings"
	"testing"
)

func TestReaderReadAll(t *testing.T) {
	r := NewReader(strings.NewReader("a,b,c\n1,2,3\n"))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"a", "b", "c"}, {"1", "2", "3"}}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("row %d field %d = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}

func TestReaderReadReturnsEOF(t *testing.T) {
	r := NewReader(strings.NewReader("a\n"))
	if _, err := r.Read(); err != nil {
		t.Fatalf("unexpected error on first row: %v", err)
	}
	if _, err := r.Read(); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}
