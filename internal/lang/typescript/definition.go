package typescript

import "github.com/latticecode/lattice/internal/lang"

// Register installs the TypeScript language Definition into reg.
func Register(reg *lang.Registry) {
	reg.Register(lang.Definition{
		Language:   "typescript",
		Extensions: []string{"ts", "tsx"},
		New:        New,
	})
}
