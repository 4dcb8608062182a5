package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/shop/app/module-info.java"), `
module shop.app {
    requires transitive shop.core; // domain
    requires static shop.util;
    requires java.sql;
}
`)
	writeFile(t, filepath.Join(root, "src/shop/core/module-info.java"), "module shop.core { requires shop.util; }\n")
	writeFile(t, filepath.Join(root, "src/shop/util/module-info.java"), "module shop.util {}\n")
	writeFile(t, filepath.Join(root, "src/shop/notes/README"), "not a module\n")

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ws.ID != "shop" {
		t.Errorf("ID = %q, want %q", ws.ID, "shop")
	}
	if len(ws.Modules) != 3 {
		t.Fatalf("len(Modules) = %d, want 3", len(ws.Modules))
	}

	app := ws.Module("app")
	if app == nil {
		t.Fatal("module app not found")
	}
	if diff := cmp.Diff([]string{"core", "util"}, app.Dependencies); diff != "" {
		t.Errorf("app dependencies mismatch (-want +got):\n%s", diff)
	}
	if want := filepath.Join(root, "out", "shop.app"); app.OutDir != want {
		t.Errorf("OutDir = %q, want %q", app.OutDir, want)
	}

	var order []string
	for _, m := range ws.ModulesInOrder() {
		order = append(order, m.Name)
	}
	if diff := cmp.Diff([]string{"util", "core", "app"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestClassPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/shop/app/module-info.java"), "module shop.app { requires shop.core; }\n")
	writeFile(t, filepath.Join(root, "src/shop/core/module-info.java"), "module shop.core {}\n")
	writeFile(t, filepath.Join(root, "out/shop.core/shop/core/Item.class"), "")
	writeFile(t, filepath.Join(root, "lib/b.jar"), "")
	writeFile(t, filepath.Join(root, "lib/a.jar"), "")
	writeFile(t, filepath.Join(root, "lib/notes.txt"), "")

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := ws.ClassPath()
	if err != nil {
		t.Fatalf("ClassPath: %v", err)
	}

	want := []string{
		filepath.Join(root, "out", "shop.core"),
		filepath.Join(root, "lib", "a.jar"),
		filepath.Join(root, "lib", "b.jar"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClassPath mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithoutSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib/only.jar"), "")

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ws.Modules) != 0 {
		t.Errorf("Modules = %v, want none", ws.Modules)
	}
	got, err := ws.ClassPath()
	if err != nil {
		t.Fatalf("ClassPath: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join(root, "lib", "only.jar")}, got); diff != "" {
		t.Errorf("ClassPath mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingRoot(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Load succeeded, want error")
	}
}
