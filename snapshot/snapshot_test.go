// Package snapshot_test provides golden snapshot tests for the textual
// renderers.
//
// For each input module in testdata/in/, the test parses the textual form,
// checks that the word stream decodes into a valid module, then renders it
// through the machine text form and the disassembler and compares each
// output to golden files stored in testdata/golden/{text,dis}/.
//
// To regenerate golden files after intentional changes:
//
//	UPDATE_GOLDEN=1 go test ./snapshot/...
package snapshot_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	spirv "github.com/gogpu/spirv"
	"github.com/gogpu/spirv/asm"
	"github.com/gogpu/spirv/ir"
)

// moduleFile represents an input module loaded from disk.
type moduleFile struct {
	name   string // base name without extension (e.g., "minimal_kernel")
	source string // textual module form
}

// TestSnapshots is the main golden snapshot test. It loads all textual
// inputs, renders each through both output forms, and compares with
// golden files.
func TestSnapshots(t *testing.T) {
	modules := loadInputModules(t, filepath.Join("testdata", "in"))
	if len(modules) == 0 {
		t.Fatal("no input modules found in testdata/in/")
	}

	for i := range modules {
		mod := &modules[i]
		t.Run(mod.name, func(t *testing.T) {
			words, err := asm.ParseWords(mod.source)
			if err != nil {
				t.Fatalf("[%s] parse failed: %v", mod.name, err)
			}

			t.Run("decode", func(t *testing.T) {
				m, decErr := ir.DecodeWithPolicy(spirv.EncodeWords(words), spirv.PermissivePolicy())
				if decErr != nil {
					t.Fatalf("[%s] decode failed: %v", mod.name, decErr)
				}
				if !m.Valid() {
					code, msg := m.Error()
					t.Fatalf("[%s] module invalid: %v: %s", mod.name, code, msg)
				}
			})

			t.Run("text", func(t *testing.T) {
				text, txtErr := asm.TextFromWords(words)
				if txtErr != nil {
					t.Fatalf("[%s] text render failed: %v", mod.name, txtErr)
				}
				compareGolden(t, filepath.Join("testdata", "golden", "text", mod.name+".spvasm"), text)
			})

			t.Run("dis", func(t *testing.T) {
				dis, disErr := asm.Disassemble(spirv.EncodeWords(words))
				if disErr != nil {
					t.Fatalf("[%s] disassemble failed: %v", mod.name, disErr)
				}
				compareGolden(t, filepath.Join("testdata", "golden", "dis", mod.name+".dis"), dis)
			})
		})
	}
}

// ---------------------------------------------------------------------------
// Input Loading
// ---------------------------------------------------------------------------

// loadInputModules reads all .spvasm files from the given directory.
func loadInputModules(t *testing.T, dir string) []moduleFile {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read input directory %q: %v", dir, err)
	}

	var modules []moduleFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".spvasm") {
			continue
		}
		data, readErr := os.ReadFile(filepath.Join(dir, entry.Name()))
		if readErr != nil {
			t.Fatalf("read module %q: %v", entry.Name(), readErr)
		}
		name := strings.TrimSuffix(entry.Name(), ".spvasm")
		modules = append(modules, moduleFile{name: name, source: string(data)})
	}

	// Sort for deterministic test order
	sort.Slice(modules, func(i, j int) bool {
		return modules[i].name < modules[j].name
	})

	return modules
}

// ---------------------------------------------------------------------------
// Golden File Comparison
// ---------------------------------------------------------------------------

// compareGolden compares actual output against the golden file at path.
// When UPDATE_GOLDEN is set, the golden file is rewritten instead.
func compareGolden(t *testing.T, path, actual string) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") != "" {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			t.Fatalf("create golden dir: %v", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(actual), 0o644); wErr != nil {
			t.Fatalf("write golden file: %v", wErr)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("golden file missing: %s\nRun with UPDATE_GOLDEN=1 to create.\n\nActual output:\n%s", path, truncate(actual, 500))
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}

	// Normalize line endings for cross-platform comparison.
	// Git may convert \n to \r\n on Windows checkout.
	expectedStr := strings.ReplaceAll(string(expected), "\r\n", "\n")
	actualStr := strings.ReplaceAll(actual, "\r\n", "\n")

	if expectedStr != actualStr {
		diff := diffStrings(expectedStr, actualStr)
		t.Errorf("output differs from golden %s:\n%s", path, diff)
	}
}

// diffStrings produces a compact line diff around the first mismatch.
func diffStrings(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var sb strings.Builder
	maxLines := len(expectedLines)
	if len(actualLines) > maxLines {
		maxLines = len(actualLines)
	}

	const contextLines = 3
	firstDiff := -1
	for i := 0; i < maxLines; i++ {
		var eLine, aLine string
		if i < len(expectedLines) {
			eLine = expectedLines[i]
		}
		if i < len(actualLines) {
			aLine = actualLines[i]
		}
		if eLine != aLine {
			firstDiff = i
			break
		}
	}

	if firstDiff < 0 {
		return "(no difference found)"
	}

	fmt.Fprintf(&sb, "first difference at line %d:\n", firstDiff+1)
	fmt.Fprintf(&sb, "  expected lines: %d\n", len(expectedLines))
	fmt.Fprintf(&sb, "  actual lines:   %d\n\n", len(actualLines))

	// Show context around the first difference
	start := firstDiff - contextLines
	if start < 0 {
		start = 0
	}
	end := firstDiff + contextLines + 1
	if end > maxLines {
		end = maxLines
	}

	for i := start; i < end; i++ {
		prefix := " "
		var eLine, aLine string
		if i < len(expectedLines) {
			eLine = expectedLines[i]
		}
		if i < len(actualLines) {
			aLine = actualLines[i]
		}
		if eLine != aLine {
			prefix = "!"
		}
		fmt.Fprintf(&sb, "%s %4d expected: %s\n", prefix, i+1, truncate(eLine, 120))
		if eLine != aLine {
			fmt.Fprintf(&sb, "%s %4d actual:   %s\n", prefix, i+1, truncate(aLine, 120))
		}
	}

	return sb.String()
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
