package indexstore

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// WriteCompressedSegment streams data through a zstd encoder into a new
// file at path, compressing committed index segment files on disk
// (spec §4.I) before they're handed to internal/archive for snapshot
// export.
func WriteCompressedSegment(path string, data io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("indexstore: create segment %s: %w", path, err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("indexstore: new zstd writer: %w", err)
	}
	if _, err := io.Copy(enc, data); err != nil {
		enc.Close()
		return fmt.Errorf("indexstore: compress segment %s: %w", path, err)
	}
	return enc.Close()
}

// ReadCompressedSegment opens a segment written by WriteCompressedSegment
// and returns a decompressing reader. The caller must call the returned
// closer when done.
func ReadCompressedSegment(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("indexstore: open segment %s: %w", path, err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("indexstore: new zstd reader: %w", err)
	}
	return &segmentReader{dec: dec, f: f}, nil
}

type segmentReader struct {
	dec *zstd.Decoder
	f   *os.File
}

func (r *segmentReader) Read(p []byte) (int, error) { return r.dec.Read(p) }

func (r *segmentReader) Close() error {
	r.dec.Close()
	return r.f.Close()
}
