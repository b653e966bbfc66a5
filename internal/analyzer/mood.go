package analyzer

import (
	"context"
	"encoding/json"
	"os"

	"github.com/augur-dev/augur/internal/cache"
	"github.com/augur-dev/augur/internal/fileproc"
	"github.com/augur-dev/augur/pkg/models"
	"github.com/augur-dev/augur/pkg/parser"
)

// DefaultMaxFileSize is the largest source file the analyzer will parse.
const DefaultMaxFileSize = 10 * 1024 * 1024

// MoodOption configures a MoodAnalyzer.
type MoodOption func(*MoodAnalyzer)

// WithMoodSkipTestFiles controls whether test files are excluded.
func WithMoodSkipTestFiles(skip bool) MoodOption {
	return func(a *MoodAnalyzer) {
		a.skipTestFiles = skip
	}
}

// WithMoodMaxFileSize sets the maximum file size in bytes.
func WithMoodMaxFileSize(size int64) MoodOption {
	return func(a *MoodAnalyzer) {
		a.maxFileSize = size
	}
}

// WithMoodCache sets the extraction cache.
func WithMoodCache(c *cache.Cache) MoodOption {
	return func(a *MoodAnalyzer) {
		a.cache = c
	}
}

// MoodAnalyzer computes the MOOD inheritance metrics (DIT, NOC, MHF, AHF,
// MIF, AIF, POF) across a set of source files. Files are parsed in
// parallel; the inheritance graph itself is built and analyzed
// sequentially, so results do not depend on file order.
type MoodAnalyzer struct {
	skipTestFiles bool
	maxFileSize   int64
	cache         *cache.Cache
}

// NewMoodAnalyzer creates a MOOD analyzer. By default test files are
// skipped and no cache is used.
func NewMoodAnalyzer(opts ...MoodOption) *MoodAnalyzer {
	a := &MoodAnalyzer{
		skipTestFiles: true,
		maxFileSize:   DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeProject analyzes the given files and returns per-class metrics
// plus the project summary.
func (a *MoodAnalyzer) AnalyzeProject(ctx context.Context, files []string) (*models.MoodAnalysis, error) {
	return a.AnalyzeProjectWithProgress(ctx, files, nil, nil)
}

// AnalyzeProjectWithProgress is AnalyzeProject with per-file progress and
// error callbacks. A file that fails to read or parse is reported through
// onError and skipped; it never fails the run.
func (a *MoodAnalyzer) AnalyzeProjectWithProgress(ctx context.Context, files []string, onProgress fileproc.ProgressFunc, onError fileproc.ErrorFunc) (*models.MoodAnalysis, error) {
	perFile, errs := fileproc.MapFilesWithContext(ctx, files, a.extractFile, onProgress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if errs != nil && onError != nil {
		for _, pe := range errs.Errors {
			onError(pe.Path, pe.Err)
		}
	}

	registry := NewRegistry()
	builder := NewGraphBuilder(registry)
	for _, decls := range perFile {
		builder.AddAll(decls)
	}

	NewInheritanceAnalyzer(registry).Analyze()

	analysis := NewMetricsAggregator(registry).Aggregate()
	analysis.SortByName()
	return analysis, nil
}

// extractFile returns the class declarations of one source file,
// consulting the cache when one is configured.
func (a *MoodAnalyzer) extractFile(psr *parser.Parser, path string) ([]models.ClassDeclaration, error) {
	if a.skipTestFiles && IsTestFile(path) {
		return nil, nil
	}
	if IsVendorFile(path) {
		return nil, nil
	}

	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if a.maxFileSize > 0 && info.Size() > a.maxFileSize {
		return nil, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var hash string
	if a.cache != nil {
		hash = cache.HashBytes(source)
		if data, ok := a.cache.GetWithHash("mood:"+path, hash); ok {
			var decls []models.ClassDeclaration
			if err := json.Unmarshal(data, &decls); err == nil {
				return decls, nil
			}
		}
	}

	result, err := psr.Parse(source, lang, path)
	if err != nil {
		return nil, err
	}
	defer result.Tree.Close()

	decls := DeclarationsFromTree(result)

	if a.cache != nil {
		if data, err := json.Marshal(decls); err == nil {
			_ = a.cache.SetWithHash("mood:"+path, hash, data)
		}
	}

	return decls, nil
}
