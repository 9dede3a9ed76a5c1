package dataformat

import (
	"bytes"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oxhq/tractor/internal/arena"
	"github.com/oxhq/tractor/internal/lang/catalog"
)

// registerDotenv installs the .env data-format language on
// joho/godotenv, the same parser that loads the tool's own .env
// configuration.
func registerDotenv() {
	catalog.Register(catalog.Language{
		ID:         "dotenv",
		Aliases:    []string{"env"},
		Extensions: []string{".env"},
		Build:      buildDotenv,
		Category:   syntaxCategory,
	})
}

func buildDotenv(a *arena.Arena, parent arena.Handle, source []byte, raw bool) error {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil
	}
	vals, err := godotenv.Parse(bytes.NewReader(source))
	if err != nil {
		return fmt.Errorf("dataformat: decoding .env: %w", err)
	}
	m := make(map[string]any, len(vals))
	for k, val := range vals {
		m[k] = val
	}
	// godotenv exposes no key positions; recover them with the line scan.
	v := fromAny(m)
	annotatePositions(source, v)
	if raw {
		return buildSyntax(a, parent, v)
	}
	return buildValue(a, parent, v)
}
