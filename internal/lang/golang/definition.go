package golang

import "github.com/latticecode/lattice/internal/lang"

// Register installs the Go language Definition into reg.
func Register(reg *lang.Registry) {
	reg.Register(lang.Definition{
		Language:   "go",
		Extensions: []string{"go"},
		New:        New,
	})
}
