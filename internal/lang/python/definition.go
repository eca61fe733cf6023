package python

import "github.com/latticecode/lattice/internal/lang"

// Register installs the Python language Definition into reg.
func Register(reg *lang.Registry) {
	reg.Register(lang.Definition{
		Language:   "python",
		Extensions: []string{"py", "pyi"},
		New:        New,
	})
}
