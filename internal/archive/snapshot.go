package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/latticecode/lattice/internal/indexstore"
)

// Destination is the object store a snapshot is exported to. Both
// MinIOStore and S3Store satisfy it.
type Destination interface {
	Export(ctx context.Context, name, localPath string) error
}

// Importer is the restoring half of Destination: download every
// object under the store's configured scope into destDir. Both
// MinIOStore and S3Store satisfy it.
type Importer interface {
	ImportAll(ctx context.Context, destDir string) error
}

// ExportSnapshot compresses every file under segmentsDir with
// indexstore.WriteCompressedSegment and uploads each to dest under
// runID, producing one self-contained, restorable archive per index
// run.
func ExportSnapshot(ctx context.Context, dest Destination, runID, segmentsDir string) error {
	entries, err := os.ReadDir(segmentsDir)
	if err != nil {
		return fmt.Errorf("archive: read segments dir %s: %w", segmentsDir, err)
	}

	tmpDir, err := os.MkdirTemp("", "lattice-snapshot-*")
	if err != nil {
		return fmt.Errorf("archive: mkdir temp: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src, err := os.Open(filepath.Join(segmentsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("archive: open segment %s: %w", entry.Name(), err)
		}
		compressedPath := filepath.Join(tmpDir, entry.Name()+".zst")
		err = indexstore.WriteCompressedSegment(compressedPath, src)
		src.Close()
		if err != nil {
			return fmt.Errorf("archive: compress segment %s: %w", entry.Name(), err)
		}

		objectName := runID + "/" + entry.Name() + ".zst"
		if err := dest.Export(ctx, objectName, compressedPath); err != nil {
			return fmt.Errorf("archive: export segment %s: %w", entry.Name(), err)
		}
	}
	return nil
}
