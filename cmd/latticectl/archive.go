package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/latticecode/lattice/internal/archive"
	"github.com/latticecode/lattice/internal/config"
	"github.com/latticecode/lattice/internal/indexer"
	"github.com/latticecode/lattice/internal/latticeerr"
)

// runArchive implements `latticectl archive export|import <dir>`:
// export compresses every file under `<dir>/index` and uploads it to
// the configured object store under the run id read from
// `<dir>/index.meta`; import downloads every stored object back into
// `<dir>/index`. index.meta itself is neither uploaded nor restored.
func runArchive(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		return reportErr(latticeerr.New(latticeerr.KindConfig,
			"archive requires a subcommand", "use: latticectl archive export|import <dir>"))
	}
	sub, rest := args[0], args[1:]

	fs := flag.NewFlagSet("archive "+sub, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(rest); err != nil {
		return 1
	}
	root := fs.Arg(0)
	if root == "" {
		root = cfg.Project.IndexRoot
	}
	if root == "" {
		return reportErr(latticeerr.New(latticeerr.KindConfig,
			"no index root given and none configured in settings.toml",
			"pass a directory: latticectl archive export|import <dir>"))
	}

	dest, err := openDestination(ctx, cfg)
	if err != nil {
		return reportErr(err)
	}

	switch sub {
	case "export":
		return runArchiveExport(ctx, dest, root)
	case "import":
		importer, ok := dest.(archive.Importer)
		if !ok {
			return reportErr(latticeerr.New(latticeerr.KindConfig,
				"the configured object store does not support import",
				"set MINIO_ENDPOINT or S3_BUCKET to a reachable bucket"))
		}
		return runArchiveImport(ctx, importer, root)
	default:
		fmt.Fprintf(os.Stderr, "unknown archive subcommand %q\nSuggestion: use export or import\n", sub)
		return 1
	}
}

// openDestination prefers MinIO when an endpoint is configured (the
// self-hosted case) and falls back to S3 when a bucket is set, mirroring
// the precedence the teacher's ingestion connectors use when both a
// local MinIO and managed S3 are reachable.
func openDestination(ctx context.Context, cfg *config.Config) (archive.Destination, error) {
	if cfg.MinIO.Endpoint != "" {
		store, err := archive.NewMinIOStore(archive.MinIOConfig{
			Endpoint: cfg.MinIO.Endpoint, AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey, Bucket: cfg.MinIO.Bucket, UseSSL: cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, latticeerr.Wrap(latticeerr.KindIO, err,
				"could not connect to MinIO", "check the MINIO_* environment variables")
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, latticeerr.Wrap(latticeerr.KindIO, err,
				"could not ensure the MinIO bucket exists", "check MINIO_BUCKET and the MinIO credentials")
		}
		return store, nil
	}
	if cfg.S3.Bucket != "" {
		store, err := archive.NewS3Store(ctx, archive.S3Config{
			Region: cfg.S3.Region, Bucket: cfg.S3.Bucket, Prefix: cfg.S3.Prefix, Endpoint: cfg.S3.Endpoint,
		})
		if err != nil {
			return nil, latticeerr.Wrap(latticeerr.KindIO, err,
				"could not configure the S3 client", "check the S3_* environment variables and AWS credentials")
		}
		return store, nil
	}
	return nil, latticeerr.New(latticeerr.KindConfig,
		"no object store configured", "set MINIO_ENDPOINT or S3_BUCKET in the environment or .env")
}

func runArchiveExport(ctx context.Context, dest archive.Destination, root string) int {
	meta, err := indexer.ReadMeta(root)
	if err != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
			"could not read index.meta under "+root, "run `latticectl index` first"))
	}

	segmentsDir := filepath.Join(root, "index")
	if err := archive.ExportSnapshot(ctx, dest, meta.RunID, segmentsDir); err != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
			"snapshot export failed", "check the object store is reachable and the bucket is writable"))
	}
	fmt.Printf("exported run %s (%d files, %d symbols) from %s\n", meta.RunID, meta.FileCount, meta.SymbolCount, segmentsDir)
	return 0
}

func runArchiveImport(ctx context.Context, importer archive.Importer, root string) int {
	segmentsDir := filepath.Join(root, "index")
	if err := importer.ImportAll(ctx, segmentsDir); err != nil {
		return reportErr(latticeerr.Wrap(latticeerr.KindIO, err,
			"snapshot import failed", "check the object store is reachable and the bucket is readable"))
	}
	fmt.Printf("imported snapshot segments into %s\n", segmentsDir)
	return 0
}
