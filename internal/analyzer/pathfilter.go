package analyzer

import (
	"path/filepath"
	"strings"
)

// testFileSuffixes are path suffixes that indicate test files.
var testFileSuffixes = []string{
	// Python
	"_test.py",
	// JavaScript/TypeScript
	".test.ts", ".test.js", ".spec.ts", ".spec.js",
	".test.tsx", ".spec.tsx", ".test.jsx", ".spec.jsx",
	// Ruby
	"_test.rb", "_spec.rb",
	// Java
	"Test.java",
	// C#
	"Tests.cs", "Test.cs",
	// PHP
	"Test.php",
	// C++
	"_test.cpp", "_test.cc",
}

// testBasePrefixes are filename prefixes that indicate test files.
var testBasePrefixes = []string{
	"test_", // Python, Ruby
	"Test",  // Java (Test*.java)
}

// testDirNames are directory names that hold test sources.
var testDirNames = map[string]bool{
	"tests":     true,
	"test":      true,
	"__tests__": true,
	"spec":      true,
}

// vendorDirNames are directories holding third-party code.
var vendorDirNames = map[string]bool{
	"vendor":        true,
	"node_modules":  true,
	"third_party":   true,
	"external":      true,
	"site-packages": true,
	"venv":          true,
	".venv":         true,
}

// IsTestFile reports whether the path names a test file by the naming
// conventions of the supported languages.
func IsTestFile(path string) bool {
	norm := filepath.ToSlash(path)
	for _, suffix := range testFileSuffixes {
		if strings.HasSuffix(norm, suffix) {
			return true
		}
	}

	base := filepath.Base(norm)
	for _, prefix := range testBasePrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}

	return hasDirNamed(norm, testDirNames)
}

// IsVendorFile reports whether the path sits under a vendor or
// third-party directory.
func IsVendorFile(path string) bool {
	return hasDirNamed(filepath.ToSlash(path), vendorDirNames)
}

func hasDirNamed(slashPath string, names map[string]bool) bool {
	dir := filepath.Dir(slashPath)
	for part := range strings.SplitSeq(dir, "/") {
		if names[part] {
			return true
		}
	}
	return false
}
