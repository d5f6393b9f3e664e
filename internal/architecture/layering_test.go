package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePrefix = "smarttrack/internal/modules/"

type sourceFile struct {
	path    string
	imports []string
}

// walkImports parses every non-test Go file below root.
func walkImports(t *testing.T, root string) []sourceFile {
	t.Helper()
	fset := token.NewFileSet()
	var files []sourceFile
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		node, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		f := sourceFile{path: filepath.ToSlash(path)}
		for _, imp := range node.Imports {
			f.imports = append(f.imports, strings.Trim(imp.Path.Value, `"`))
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return files
}

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	for _, f := range walkImports(t, filepath.Join("..", "modules")) {
		module := moduleName(f.path)
		layer := detectLayer(f.path)
		if module == "" || layer == "" {
			continue
		}
		for _, imp := range f.imports {
			if !strings.Contains(imp, modulePrefix) {
				continue
			}
			if violatesLayerRule(module, layer, imp) {
				t.Fatalf("forbidden import in %s (%s): %s", f.path, layer, imp)
			}
		}
	}
}

// Domain packages hold pure transforms; they must not reach the network,
// the filesystem or a terminal.
func TestDomainPackagesStayPure(t *testing.T) {
	t.Parallel()
	forbidden := []string{"net/http", "database/sql", "os", "github.com/charmbracelet/"}
	for _, f := range walkImports(t, filepath.Join("..", "modules")) {
		if detectLayer(f.path) != "domain" {
			continue
		}
		for _, imp := range f.imports {
			for _, bad := range forbidden {
				if imp == bad || (strings.HasSuffix(bad, "/") && strings.HasPrefix(imp, bad)) {
					t.Fatalf("domain file %s imports %s", f.path, imp)
				}
			}
		}
	}
}

// The terminal UI talks to modules through ports, dtos and domain view
// models only; wiring happens in bootstrap.
func TestUIUsesPortsOnly(t *testing.T) {
	t.Parallel()
	for _, f := range walkImports(t, filepath.Join("..", "ui")) {
		for _, imp := range f.imports {
			if !strings.Contains(imp, modulePrefix) {
				continue
			}
			for _, layer := range []string{"/service", "/usecase", "/adapter/"} {
				if strings.Contains(imp, layer) {
					t.Fatalf("ui file %s imports %s", f.path, imp)
				}
			}
		}
	}
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func hasSegment(importPath, segment string) bool {
	return strings.Contains(importPath, "/"+segment+"/") || strings.HasSuffix(importPath, "/"+segment)
}

func violatesLayerRule(module, layer, importPath string) bool {
	sameModule := strings.HasPrefix(importPath, modulePrefix+module+"/")
	if !sameModule {
		// Other modules are reachable through their inbound port, dtos and
		// domain values. Dashboard needs tracker platforms for its panels.
		switch {
		case hasSegment(importPath, "service"), hasSegment(importPath, "usecase"), strings.Contains(importPath, "/adapter/"):
			return true
		case hasSegment(importPath, "port/in"), hasSegment(importPath, "dto"), hasSegment(importPath, "domain"):
			return false
		}
		return true
	}

	switch layer {
	case "adapter/in":
		return !hasSegment(importPath, "port/in") && !hasSegment(importPath, "dto")
	case "usecase":
		return strings.Contains(importPath, "/adapter/")
	case "service":
		return strings.Contains(importPath, "/adapter/") || hasSegment(importPath, "usecase")
	case "domain", "dto":
		return strings.Contains(importPath, "/adapter/") || hasSegment(importPath, "usecase") ||
			hasSegment(importPath, "service") || strings.Contains(importPath, "/port/")
	case "port/in", "port/out":
		return strings.Contains(importPath, "/adapter/") || hasSegment(importPath, "usecase") || hasSegment(importPath, "service")
	default:
		return false
	}
}
