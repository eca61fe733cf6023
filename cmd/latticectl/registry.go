package main

import (
	"github.com/latticecode/lattice/internal/lang"
	"github.com/latticecode/lattice/internal/lang/golang"
	"github.com/latticecode/lattice/internal/lang/php"
	"github.com/latticecode/lattice/internal/lang/python"
	"github.com/latticecode/lattice/internal/lang/rust"
	"github.com/latticecode/lattice/internal/lang/typescript"
)

// buildRegistry registers every shipped language plug-in; both the
// index and parse subcommands dispatch through it.
func buildRegistry() *lang.Registry {
	reg := lang.NewRegistry()
	golang.Register(reg)
	python.Register(reg)
	rust.Register(reg)
	typescript.Register(reg)
	php.Register(reg)
	return reg
}
