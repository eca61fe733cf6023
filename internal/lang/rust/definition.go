package rust

import "github.com/latticecode/lattice/internal/lang"

// Register installs the Rust language Definition into reg.
func Register(reg *lang.Registry) {
	reg.Register(lang.Definition{
		Language:   "rust",
		Extensions: []string{"rs"},
		New:        New,
	})
}
