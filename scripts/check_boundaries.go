package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "blockvote"

// layerRule lists the module packages (relative to the bounded context) and
// the third-party packages one layer may import. Anything else fails.
type layerRule struct {
	internal   []string
	thirdParty []string
	contracts  bool
}

var layerRules = map[string]layerRule{
	"domain": {
		internal:   []string{"domain"},
		thirdParty: []string{"github.com/holiman/uint256"},
	},
	"ports": {
		internal:  []string{"domain"},
		contracts: true,
	},
	"application": {
		internal:  []string{"application", "domain", "ports"},
		contracts: true,
	},
	"adapters/memory": {
		internal:   []string{"domain", "ports"},
		thirdParty: []string{"github.com/google/uuid"},
	},
	"adapters/postgres": {
		internal:   []string{"application", "domain", "ports"},
		thirdParty: []string{"gorm.io/gorm", "github.com/jackc/pgx/v5", "github.com/google/uuid"},
	},
	"adapters/http": {
		internal: []string{"application", "domain", "ports", "transport"},
	},
	"transport": {},
}

// useCaseSiblings are application packages that must not import each other.
var useCaseSiblings = []string{"commands", "queries", "workers"}

// platformForbidden are context packages the shared platform must reach only
// through the module root or the http adapter.
var platformForbidden = []string{"application", "ports", "adapters/memory", "adapters/postgres"}

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	var violations []violation
	violations = append(violations, walk("contexts", checkContextFile)...)
	violations = append(violations, walk("contracts", checkContractsFile)...)
	violations = append(violations, walk(filepath.Join("internal", "platform"), checkPlatformFile)...)
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		return violations[i].Line < violations[j].Line
	})
	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

type importRef struct {
	path string
	line int
}

type fileChecker func(file string, imports []importRef) []violation

func walk(root string, check fileChecker) []violation {
	var violations []violation
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		file := filepath.ToSlash(path)
		imports, err := parseImports(path)
		if err != nil {
			violations = append(violations, violation{File: file, Line: 1, Rule: "file must parse"})
			return nil
		}
		violations = append(violations, check(file, imports)...)
		return nil
	})
	return violations
}

func parseImports(path string) ([]importRef, error) {
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}
	refs := make([]importRef, 0, len(parsed.Imports))
	for _, imp := range parsed.Imports {
		refs = append(refs, importRef{
			path: strings.Trim(imp.Path.Value, "\""),
			line: fset.Position(imp.Pos()).Line,
		})
	}
	return refs, nil
}

// checkContextFile applies the layer table to contexts/<area>/<context>/<layer>/...
// Files directly under the context (module wiring) may import any layer.
func checkContextFile(file string, imports []importRef) []violation {
	parts := strings.Split(file, "/")
	if len(parts) < 5 {
		return nil
	}
	contextPrefix := strings.Join(append([]string{modulePath}, parts[:3]...), "/")
	layer, rule, ok := resolveLayer(parts[3:])
	if !ok {
		return []violation{{File: file, Line: 1, Rule: "unknown layer " + parts[3]}}
	}

	var violations []violation
	for _, imp := range imports {
		fail := func(reason string) {
			violations = append(violations, violation{File: file, Line: imp.line, Import: imp.path, Rule: reason})
		}
		if isStdlib(imp.path) {
			continue
		}
		if strings.HasPrefix(imp.path, modulePath+"/contexts/") && !hasPrefix(imp.path, contextPrefix) {
			fail("cross-context imports are forbidden")
			continue
		}
		if hasPrefix(imp.path, modulePath+"/contracts") {
			if !rule.contracts {
				fail(layer + " must not depend on event contracts")
			}
			continue
		}
		if !strings.HasPrefix(imp.path, modulePath+"/") {
			if !matchesAny(imp.path, rule.thirdParty) {
				fail(layer + " third-party import is outside its allowlist")
			}
			continue
		}
		if !hasPrefix(imp.path, contextPrefix) {
			fail(layer + " must not import runtime infrastructure")
			continue
		}
		target := strings.TrimPrefix(imp.path, contextPrefix+"/")
		if target == contextPrefix {
			fail(layer + " must not import the module root")
			continue
		}
		if !matchesAny(target, rule.internal) {
			fail(layer + " must not import " + target)
			continue
		}
		if layer == "application" && len(parts) > 4 {
			for _, sibling := range useCaseSiblings {
				if parts[4] != sibling && hasPrefix(target, "application/"+sibling) {
					fail("application/" + parts[4] + " must not import application/" + sibling)
				}
			}
		}
	}
	return violations
}

func resolveLayer(rest []string) (string, layerRule, bool) {
	if len(rest) > 1 {
		nested := rest[0] + "/" + rest[1]
		if rule, ok := layerRules[nested]; ok {
			return nested, rule, true
		}
	}
	rule, ok := layerRules[rest[0]]
	return rest[0], rule, ok
}

func checkContractsFile(file string, imports []importRef) []violation {
	var violations []violation
	for _, imp := range imports {
		if !isStdlib(imp.path) {
			violations = append(violations, violation{File: file, Line: imp.line, Import: imp.path, Rule: "contracts must stay stdlib-only"})
		}
	}
	return violations
}

func checkPlatformFile(file string, imports []importRef) []violation {
	var violations []violation
	for _, imp := range imports {
		fail := func(reason string) {
			violations = append(violations, violation{File: file, Line: imp.line, Import: imp.path, Rule: reason})
		}
		if hasPrefix(imp.path, modulePath+"/internal/app") || hasPrefix(imp.path, modulePath+"/cmd") {
			fail("platform must not import the composition root")
			continue
		}
		if !strings.HasPrefix(imp.path, modulePath+"/contexts/") {
			continue
		}
		for _, forbidden := range platformForbidden {
			if strings.Contains(imp.path, "/"+forbidden+"/") || strings.HasSuffix(imp.path, "/"+forbidden) {
				fail("platform must not reach into context " + forbidden)
			}
		}
	}
	return violations
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if hasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
