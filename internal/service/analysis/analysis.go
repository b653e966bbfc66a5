// Package analysis orchestrates metric computation for the CLI commands.
package analysis

import (
	"context"

	"github.com/augur-dev/augur/internal/analyzer"
	"github.com/augur-dev/augur/internal/cache"
	"github.com/augur-dev/augur/pkg/config"
	"github.com/augur-dev/augur/pkg/models"
)

// Service orchestrates code analysis operations.
type Service struct {
	config *config.Config
	cache  *cache.Cache
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache sets the extraction cache.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MoodOptions configures the inheritance metrics analysis.
type MoodOptions struct {
	IncludeTests bool
	MaxFileSize  int64
	OnProgress   func()
	OnError      func(path string, err error)
}

// AnalyzeMood computes the MOOD inheritance metrics over the given files.
func (s *Service) AnalyzeMood(ctx context.Context, files []string, opts MoodOptions) (*models.MoodAnalysis, error) {
	analyzerOpts := []analyzer.MoodOption{
		analyzer.WithMoodSkipTestFiles(!opts.IncludeTests),
	}

	if opts.MaxFileSize > 0 {
		analyzerOpts = append(analyzerOpts, analyzer.WithMoodMaxFileSize(opts.MaxFileSize))
	} else if s.config.Analysis.MaxFileSize > 0 {
		analyzerOpts = append(analyzerOpts, analyzer.WithMoodMaxFileSize(s.config.Analysis.MaxFileSize))
	}

	if s.cache != nil {
		analyzerOpts = append(analyzerOpts, analyzer.WithMoodCache(s.cache))
	}

	moodAnalyzer := analyzer.NewMoodAnalyzer(analyzerOpts...)
	return moodAnalyzer.AnalyzeProjectWithProgress(ctx, files, opts.OnProgress, opts.OnError)
}
