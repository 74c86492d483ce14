//go:build unix

package simdcsv

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MmapSource is a ByteSource backed by a memory-mapped file: FillChunk
// serves straight out of the mapped region, with no read syscall per
// chunk and no copy until bytes are handed to the caller's buffer.
type MmapSource struct {
	data []byte
	pos  int
}

// NewMmapSource memory-maps f for reading and returns a ByteSource over
// its entire contents at the time of the call. The caller must call
// Close when done with it; f itself is not closed.
func NewMmapSource(f *os.File) (*MmapSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := int(info.Size())
	if size == 0 {
		return &MmapSource{}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("simdcsv: mmap: %w", err)
	}
	return &MmapSource{data: data}, nil
}

// FillChunk implements ByteSource.
func (m *MmapSource) FillChunk(buf *[chunkBytes]byte) (int, error) {
	n := copy(buf[:], m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close unmaps the underlying region.
func (m *MmapSource) Close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	return unix.Munmap(data)
}
