// Package lang is the composition root for every supported language: it
// calls each language package's Register once, populating
// internal/lang/catalog. cmd/tractor imports this package for its side
// effect alone (RegisterAll), the same way a database driver package is
// imported for its init-time registration.
package lang

import (
	"github.com/oxhq/tractor/internal/lang/csharp"
	"github.com/oxhq/tractor/internal/lang/dataformat"
	"github.com/oxhq/tractor/internal/lang/golang"
	"github.com/oxhq/tractor/internal/lang/java"
	"github.com/oxhq/tractor/internal/lang/python"
	"github.com/oxhq/tractor/internal/lang/ruby"
	"github.com/oxhq/tractor/internal/lang/rust"
	"github.com/oxhq/tractor/internal/lang/typescript"
)

// RegisterAll populates the language catalog with every language this
// build supports. Call once, before any file is parsed.
func RegisterAll() {
	golang.Register()
	python.Register()
	typescript.Register()
	java.Register()
	csharp.Register()
	ruby.Register()
	rust.Register()
	dataformat.RegisterAll()
}
