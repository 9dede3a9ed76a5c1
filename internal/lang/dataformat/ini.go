package dataformat

import (
	"bytes"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/lang/catalog"
)

// registerINI installs the INI data-format language on gopkg.in/ini.v1.
// The default (unnamed) section's keys surface at the top level; named
// sections become nested maps.
func registerINI() {
	catalog.Register(catalog.Language{
		ID:         "ini",
		Extensions: []string{".ini"},
		Build:      buildINI,
		Category:   syntaxCategory,
	})
}

func buildINI(a *arena.Arena, parent arena.Handle, source []byte, raw bool) error {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil
	}
	m := map[string]any{}
	cfg, err := ini.Load(source)
	if err != nil {
		return fmt.Errorf("dataformat: decoding ini: %w", err)
	}
	for _, sec := range cfg.Sections() {
		keys := map[string]any{}
		for _, k := range sec.Keys() {
			keys[k.Name()] = k.Value()
		}
		if sec.Name() == ini.DefaultSection {
			if len(keys) == 0 {
				continue
			}
			for k, val := range keys {
				m[k] = val
			}
			continue
		}
		m[sec.Name()] = keys
	}
	// ini.v1 exposes no key positions; recover them with the line scan.
	v := fromAny(m)
	annotatePositions(source, v)
	if raw {
		return buildSyntax(a, parent, v)
	}
	return buildValue(a, parent, v)
}
