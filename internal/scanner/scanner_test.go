package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/augur-dev/augur/pkg/config"
	"github.com/augur-dev/augur/pkg/parser"
)

func TestNewScanner(t *testing.T) {
	s := NewScanner(nil)
	if s == nil {
		t.Fatal("NewScanner(nil) returned nil")
	}
	if s.config == nil {
		t.Error("scanner.config should not be nil when passing nil")
	}

	cfg := config.DefaultConfig()
	s = NewScanner(cfg)
	if s.config != cfg {
		t.Error("scanner.config should be the provided config")
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
}

func TestScanDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"Main.java":       "public class Main {}\n",
		"app.py":          "class App: pass\n",
		"ui/button.ts":    "class Button {}\n",
		"notes.txt":       "not source\n",
		"build/Gen.java":  "public class Gen {}\n",
		"sub/deep/w.php":  "<?php class W {}\n",
		"sub/readme.md":   "# readme\n",
		"native/shape.cc": "class Shape {};\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	s := NewScanner(cfg)

	files, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir failed: %v", err)
	}

	found := make(map[string]bool)
	for _, f := range files {
		rel, _ := filepath.Rel(tmpDir, f)
		found[filepath.ToSlash(rel)] = true
	}

	for _, want := range []string{"Main.java", "app.py", "ui/button.ts", "sub/deep/w.php", "native/shape.cc"} {
		if !found[want] {
			t.Errorf("Expected %s in scan results, got %v", want, found)
		}
	}
	if found["notes.txt"] || found["sub/readme.md"] {
		t.Error("Non-source files should be skipped")
	}
	// build/ is excluded by default config.
	if found["build/Gen.java"] {
		t.Error("Excluded directory leaked into results")
	}
}

func TestScanDir_ExcludePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"app.js":     "class A {}\n",
		"app.min.js": "class A{}\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	s := NewScanner(cfg)

	files, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir failed: %v", err)
	}

	for _, f := range files {
		if filepath.Base(f) == "app.min.js" {
			t.Error("*.min.js should be excluded by default")
		}
	}
}

func TestScanDir_ExcludeDirs(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"src/Thing.java":          "public class Thing {}\n",
		"generated/Thing.java":    "public class Thing {}\n",
		"sub/generated/Deep.java": "public class Deep {}\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, "generated")
	s := NewScanner(cfg)

	files, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir failed: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("files = %v, want just src/Thing.java", files)
	}
	rel, _ := filepath.Rel(tmpDir, files[0])
	if filepath.ToSlash(rel) != "src/Thing.java" {
		t.Errorf("kept %s, want src/Thing.java", rel)
	}
}

func TestScanDir_ExcludeExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"app.py":     "class App: pass\n",
		"app.gen.py": "class Gen: pass\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	cfg.Exclude.Extensions = append(cfg.Exclude.Extensions, ".gen.py")
	s := NewScanner(cfg)

	files, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir failed: %v", err)
	}

	if len(files) != 1 || filepath.Base(files[0]) != "app.py" {
		t.Errorf("files = %v, want just app.py", files)
	}
}

func TestScanDir_GitignorePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		".gitignore":        "generated/\n",
		"app.py":            "class App: pass\n",
		"generated/gen.py":  "class Gen: pass\n",
		".git/objects/keep": "",
	})
	// findGitRoot needs .git to be a directory.
	if err := os.MkdirAll(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	cfg := config.DefaultConfig()
	s := NewScanner(cfg)

	files, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir failed: %v", err)
	}

	for _, f := range files {
		rel, _ := filepath.Rel(tmpDir, f)
		if filepath.ToSlash(rel) == "generated/gen.py" {
			t.Error("gitignored file leaked into results")
		}
	}
}

func TestScanFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"Main.java": "public class Main {}\n",
		"notes.txt": "text\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	s := NewScanner(cfg)

	ok, err := s.ScanFile(filepath.Join(tmpDir, "Main.java"))
	if err != nil || !ok {
		t.Errorf("ScanFile(Main.java) = %v, %v, want true, nil", ok, err)
	}

	ok, err = s.ScanFile(filepath.Join(tmpDir, "notes.txt"))
	if err != nil || ok {
		t.Errorf("ScanFile(notes.txt) = %v, %v, want false, nil", ok, err)
	}

	if _, err := s.ScanFile(filepath.Join(tmpDir, "missing.java")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestGroupByLanguage(t *testing.T) {
	s := NewScanner(nil)
	groups := s.GroupByLanguage([]string{
		"a/Main.java",
		"b/Other.java",
		"c/app.py",
		"d/readme.txt",
	})

	if len(groups[parser.LangJava]) != 2 {
		t.Errorf("Java group = %d, want 2", len(groups[parser.LangJava]))
	}
	if len(groups[parser.LangPython]) != 1 {
		t.Errorf("Python group = %d, want 1", len(groups[parser.LangPython]))
	}
	if _, ok := groups[parser.LangUnknown]; ok {
		t.Error("Unknown language files must not be grouped")
	}
}

func TestFilterBySize(t *testing.T) {
	tmpDir := t.TempDir()
	small := filepath.Join(tmpDir, "small.java")
	big := filepath.Join(tmpDir, "big.java")
	if err := os.WriteFile(small, []byte("class S {}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(big, make([]byte, 2048), 0644); err != nil {
		t.Fatal(err)
	}

	kept, skipped := FilterBySize([]string{small, big}, 1024)
	if len(kept) != 1 || kept[0] != small {
		t.Errorf("kept = %v, want just small", kept)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}

	kept, skipped = FilterBySize([]string{small, big}, 0)
	if len(kept) != 2 || skipped != 0 {
		t.Error("maxSize 0 must keep everything")
	}
}

func TestIsWithinRoot(t *testing.T) {
	if !isWithinRoot("/a/b/c", "/a/b") {
		t.Error("nested path should be within root")
	}
	if !isWithinRoot("/a/b", "/a/b") {
		t.Error("root itself should be within root")
	}
	if isWithinRoot("/a/bc", "/a/b") {
		t.Error("sibling prefix must not match")
	}
	if isWithinRoot("/x/y", "/a/b") {
		t.Error("unrelated path must not match")
	}
}
