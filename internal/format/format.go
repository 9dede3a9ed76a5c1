// Package format renders Match sequences (or, for `schema`, a
// schema.Collector) in the eight `-o` output shapes.
package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/oxhq/tractor/internal/schema"
	"github.com/oxhq/tractor/internal/xpathbridge"
)

// Format names the eight `-o/--output` values.
type Format string

const (
	XML    Format = "xml"
	Lines  Format = "lines"
	Source Format = "source"
	Value  Format = "value"
	GCC    Format = "gcc"
	JSON   Format = "json"
	Count  Format = "count"
	Schema Format = "schema"
)

// jsonMatch is the `-o json` record shape.
type jsonMatch struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
	Value     string `json:"value"`
}

// Matches renders matches under the given format. messageTemplate is
// only consulted for formats that emit a per-match line (lines, gcc); it
// supports the {file}/{line}/{col}/{value} placeholders, defaulting to a
// sensible built-in line when empty.
func Matches(matches []xpathbridge.Match, f Format, messageTemplate string) (string, error) {
	switch f {
	case XML:
		return matchesXML(matches), nil
	case Lines:
		return matchesLines(matches, messageTemplate), nil
	case Source:
		return matchesSource(matches), nil
	case Value:
		return matchesValue(matches), nil
	case GCC:
		return matchesGCC(matches, messageTemplate), nil
	case JSON:
		return matchesJSON(matches)
	case Count:
		return strconv.Itoa(len(matches)) + "\n", nil
	default:
		return "", fmt.Errorf("format: unsupported output format %q", f)
	}
}

// RenderSchema renders a schema.Collector for the `schema` output format.
func RenderSchema(c *schema.Collector, maxDepth int) string {
	return c.Render(maxDepth)
}

func matchesXML(matches []xpathbridge.Match) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<Files>\n")
	for _, m := range matches {
		if m.XML != "" {
			sb.WriteString(m.XML)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("</Files>\n")
	return sb.String()
}

func matchesLines(matches []xpathbridge.Match, tmpl string) string {
	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(renderMessage(m, tmpl, "{file}:{line}:{col}: {value}"))
		sb.WriteString("\n")
	}
	return sb.String()
}

func matchesValue(matches []xpathbridge.Match) string {
	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(m.Value)
		sb.WriteString("\n")
	}
	return sb.String()
}

func matchesSource(matches []xpathbridge.Match) string {
	var sb strings.Builder
	for _, m := range matches {
		if m.StartLine == 0 {
			continue
		}
		for line := m.StartLine; line <= m.EndLine && line-1 < len(m.SourceLines); line++ {
			sb.WriteString(m.SourceLines[line-1])
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func matchesJSON(matches []xpathbridge.Match) (string, error) {
	out := make([]jsonMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, jsonMatch{
			File: m.File, StartLine: m.StartLine, StartCol: m.StartCol,
			EndLine: m.EndLine, EndCol: m.EndCol, Value: m.Value,
		})
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// matchesGCC renders the `-o gcc` shape: an "FILE:LINE:COL: error: MESSAGE"
// header line compilers format their own diagnostics as, followed by the
// matched source lines and then a caret/tilde underline whose columns are
// measured against the first line.
// Ranges spanning more than six lines show only the first two and last two,
// with an elision marker in between, so a wide match doesn't flood the
// terminal.
func matchesGCC(matches []xpathbridge.Match, tmpl string) string {
	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(renderMessage(m, tmpl, "{file}:{line}:{col}: error: {value}"))
		sb.WriteString("\n")
		sb.WriteString(gccSnippet(m))
	}
	return sb.String()
}

func gccSnippet(m xpathbridge.Match) string {
	if m.StartLine == 0 || m.StartLine-1 >= len(m.SourceLines) {
		return ""
	}
	total := m.EndLine - m.StartLine + 1

	var sb strings.Builder
	writeLine := func(line int) {
		if line-1 < len(m.SourceLines) {
			sb.WriteString(m.SourceLines[line-1])
			sb.WriteString("\n")
		}
	}

	if total <= 6 {
		for line := m.StartLine; line <= m.EndLine; line++ {
			writeLine(line)
		}
	} else {
		writeLine(m.StartLine)
		writeLine(m.StartLine + 1)
		sb.WriteString("...\n")
		writeLine(m.EndLine - 1)
		writeLine(m.EndLine)
	}

	firstLine := m.SourceLines[m.StartLine-1]
	underlineEnd := len(firstLine)
	if m.EndLine == m.StartLine && m.EndCol-1 < len(firstLine) {
		underlineEnd = m.EndCol - 1
	}
	sb.WriteString(strings.Repeat(" ", max(0, m.StartCol-1)))
	if underlineEnd > m.StartCol-1 {
		sb.WriteString("^")
		sb.WriteString(strings.Repeat("~", underlineEnd-m.StartCol))
	} else {
		sb.WriteString("^")
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderMessage(m xpathbridge.Match, tmpl, fallback string) string {
	if tmpl == "" {
		tmpl = fallback
	}
	r := strings.NewReplacer(
		"{file}", m.File,
		"{line}", strconv.Itoa(m.StartLine),
		"{col}", strconv.Itoa(m.StartCol),
		"{value}", m.Value,
	)
	return r.Replace(tmpl)
}
