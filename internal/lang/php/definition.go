package php

import "github.com/latticecode/lattice/internal/lang"

// Register installs the PHP language Definition into reg.
func Register(reg *lang.Registry) {
	reg.Register(lang.Definition{
		Language:   "php",
		Extensions: []string{"php"},
		New:        New,
	})
}
