package segment

import (
	"io"
	"os"
)

// dataBlob is the per-segment columns.psf file, addressed by (offset, size)
// pairs taken from the index map. Per the concurrency model, every read
// opens the file independently rather than caching a handle, so concurrent
// readers on the same SegmentReader never contend on a shared file cursor.
type dataBlob struct {
	path string
}

func (b dataBlob) readAt(offset, size int64) ([]byte, error) {
	f, err := os.Open(b.path)
	if err != nil {
		return nil, ioErr(err, "open data blob %s", b.path)
	}
	defer f.Close()

	buf := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(f, offset, size), buf); err != nil {
		return nil, ioErr(err, "read %d bytes at offset %d from %s", size, offset, b.path)
	}
	return buf, nil
}
