package dataformat

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/lang/catalog"
)

// registerTOML installs the TOML data-format language on BurntSushi/toml.
func registerTOML() {
	catalog.Register(catalog.Language{
		ID:         "toml",
		Extensions: []string{".toml"},
		Build:      buildTOML,
		Category:   syntaxCategory,
	})
}

func buildTOML(a *arena.Arena, parent arena.Handle, source []byte, raw bool) error {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil
	}
	m := map[string]any{}
	if err := toml.Unmarshal(source, &m); err != nil {
		return fmt.Errorf("dataformat: decoding toml: %w", err)
	}
	// BurntSushi/toml exposes no per-key positions, so they are recovered
	// by scanning the line-oriented source for keys and [table] headers.
	v := fromAny(m)
	annotatePositions(source, v)
	if raw {
		return buildSyntax(a, parent, v)
	}
	return buildValue(a, parent, v)
}
