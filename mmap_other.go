//go:build !unix

package simdcsv

import (
	"errors"
	"os"
)

// MmapSource is unavailable on non-unix platforms; NewMmapSource always
// fails so callers can fall back to NewReaderSource.
type MmapSource struct{}

// NewMmapSource always returns an error on this platform.
func NewMmapSource(f *os.File) (*MmapSource, error) {
	return nil, errors.New("simdcsv: mmap source not supported on this platform")
}

// FillChunk implements ByteSource; unreachable since construction fails.
func (m *MmapSource) FillChunk(buf *[chunkBytes]byte) (int, error) { return 0, nil }

// Close implements io.Closer.
func (m *MmapSource) Close() error { return nil }
