package querycache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Key builds a deterministic cache key for one RPC/CLI retrieve
// operation, hashing its parameters so callers don't have to worry
// about key length or character-escaping.
func Key(operation string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(operation)
	for _, name := range names {
		fmt.Fprintf(&b, "|%s=%s", name, params[name])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "lattice:" + operation + ":" + hex.EncodeToString(sum[:])
}
