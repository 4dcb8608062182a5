// Package workspace discovers the compiled classes and libraries of a Java
// project so a notebook session can use them.
//
// The expected layout is
//
//	<root>/src/<project>/<module>/module-info.java
//	<root>/out/<project>.<module>/   compiled classes
//	<root>/lib/*.jar                 dependencies
//
// Any part may be missing; a directory without src/ still contributes its
// lib/ jars.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/jnb/java/lexer"
)

// Workspace represents a project directory.
type Workspace struct {
	ID      string
	RootDir string
	OutDir  string
	LibDir  string
	Modules []*Module
}

// Module is one source module of the project.
type Module struct {
	Name         string
	SrcDir       string
	OutDir       string
	ModuleInfo   string
	Dependencies []string // short names of modules of this project it requires
}

// Load scans rootDir. It fails only if rootDir itself cannot be read.
func Load(rootDir string) (*Workspace, error) {
	if _, err := os.Stat(rootDir); err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}

	ws := &Workspace{
		RootDir: rootDir,
		OutDir:  filepath.Join(rootDir, "out"),
		LibDir:  filepath.Join(rootDir, "lib"),
	}

	srcDir := filepath.Join(rootDir, "src")
	entries, err := os.ReadDir(srcDir)
	if errors.Is(err, fs.ErrNotExist) {
		return ws, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read src directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		modules, err := scanModules(filepath.Join(srcDir, entry.Name()))
		if err != nil || len(modules) == 0 {
			continue
		}

		ws.ID = entry.Name()
		ws.Modules = modules
		for _, m := range modules {
			m.OutDir = filepath.Join(ws.OutDir, ws.ID+"."+m.Name)
			deps, err := readRequires(m.ModuleInfo, ws.ID)
			if err != nil {
				continue
			}
			m.Dependencies = deps
		}
		break
	}

	return ws, nil
}

func scanModules(projectDir string) ([]*Module, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, err
	}

	var modules []*Module
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		moduleDir := filepath.Join(projectDir, entry.Name())
		moduleInfo := filepath.Join(moduleDir, "module-info.java")
		if _, err := os.Stat(moduleInfo); err != nil {
			continue
		}
		modules = append(modules, &Module{
			Name:       entry.Name(),
			SrcDir:     moduleDir,
			ModuleInfo: moduleInfo,
		})
	}
	return modules, nil
}

// readRequires lists the modules of project projectID that the module
// declaration in path requires.
func readRequires(path, projectID string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var toks []lexer.Token
	for _, tok := range lexer.Tokenize(string(data)) {
		if !tok.IsTrivia() {
			toks = append(toks, tok)
		}
	}

	var deps []string
	prefix := projectID + "."
	for i := 0; i < len(toks); i++ {
		if toks[i].Kind != lexer.TokenIdent || toks[i].Literal != "requires" {
			continue
		}
		j := i + 1
		for j < len(toks) && (toks[j].Literal == "transitive" || toks[j].Literal == "static") {
			j++
		}
		var name strings.Builder
		for ; j < len(toks) && toks[j].Kind != lexer.TokenSemicolon; j++ {
			name.WriteString(toks[j].Literal)
		}
		i = j
		if short, ok := strings.CutPrefix(name.String(), prefix); ok {
			deps = append(deps, short)
		}
	}
	return deps, nil
}

// Module returns the module with the given name, or nil if not found.
func (w *Workspace) Module(name string) *Module {
	for _, m := range w.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ModulesInOrder returns modules sorted so that every module comes after
// the modules it requires. On a cycle the discovery order is returned.
func (w *Workspace) ModulesInOrder() []*Module {
	inDegree := make(map[string]int)
	for _, m := range w.Modules {
		inDegree[m.Name] = 0
	}
	for _, m := range w.Modules {
		for _, dep := range m.Dependencies {
			if _, ok := inDegree[dep]; ok {
				inDegree[m.Name]++
			}
		}
	}

	var queue []string
	for _, m := range w.Modules {
		if inDegree[m.Name] == 0 {
			queue = append(queue, m.Name)
		}
	}

	var result []*Module
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		result = append(result, w.Module(name))

		for _, m := range w.Modules {
			for _, dep := range m.Dependencies {
				if dep == name {
					inDegree[m.Name]--
					if inDegree[m.Name] == 0 {
						queue = append(queue, m.Name)
					}
				}
			}
		}
	}

	if len(result) != len(w.Modules) {
		return w.Modules
	}
	return result
}

// ClassPath returns the class path entries contributed by the workspace:
// compiled module directories that exist, in dependency order, followed by
// the jars in lib/ sorted by name.
func (w *Workspace) ClassPath() ([]string, error) {
	var entries []string
	for _, m := range w.ModulesInOrder() {
		if info, err := os.Stat(m.OutDir); err == nil && info.IsDir() {
			entries = append(entries, m.OutDir)
		}
	}

	jars, err := filepath.Glob(filepath.Join(w.LibDir, "*.jar"))
	if err != nil {
		return nil, fmt.Errorf("list jars in %s: %w", w.LibDir, err)
	}
	sort.Strings(jars)
	return append(entries, jars...), nil
}
