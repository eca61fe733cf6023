package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

// skipDirs never contribute files to an indexing sweep regardless of
// registered extensions.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
	".venv":        true,
	"__pycache__":  true,
}

// discoverFiles walks root and returns every absolute path whose
// extension is in exts, skipping skipDirs entirely.
func discoverFiles(root string, exts map[string]bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if exts[ext] {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// extSet turns the registry's flat extension list into a lookup set.
func extSet(exts []string) map[string]bool {
	out := make(map[string]bool, len(exts))
	for _, e := range exts {
		out[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return out
}

// contentSHA hashes a file's content for the SHA-diff baseline.
func contentSHA(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// fileSHA reads path and hashes its content, the classify callback used
// against the on-disk baseline.
func fileSHA(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return contentSHA(content), nil
}

// changeSet classifies a fresh filesystem walk against the index's
// previously-recorded content SHAs (spec §5 "per-file SHA-diff").
type changeSet struct {
	New     []string // absolute paths not previously indexed
	Changed []string // absolute paths whose content SHA differs
	Removed []string // previously-indexed absolute paths no longer on disk
}

func classify(discovered []string, shaOf func(path string) (string, error), baseline map[string]string) (changeSet, error) {
	var cs changeSet
	seen := make(map[string]bool, len(discovered))

	for _, path := range discovered {
		seen[path] = true
		sha, err := shaOf(path)
		if err != nil {
			return changeSet{}, err
		}
		prior, ok := baseline[path]
		switch {
		case !ok:
			cs.New = append(cs.New, path)
		case prior != sha:
			cs.Changed = append(cs.Changed, path)
		}
	}

	for path := range baseline {
		if !seen[path] {
			cs.Removed = append(cs.Removed, path)
		}
	}
	return cs, nil
}
