package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/augur-dev/augur/internal/cache"
	"github.com/augur-dev/augur/internal/output"
	"github.com/augur-dev/augur/internal/progress"
	"github.com/augur-dev/augur/internal/service/analysis"
	scannerSvc "github.com/augur-dev/augur/internal/service/scanner"
	"github.com/augur-dev/augur/pkg/models"
)

var moodCmd = &cobra.Command{
	Use:   "mood [path...]",
	Short: "Analyze MOOD inheritance metrics",
	Long: `Computes the MOOD metrics suite per class and for the whole project:
depth of inheritance tree (DIT), number of children (NOC), hiding
factors (MHF, AHF), inheritance factors (MIF, AIF), and the
polymorphism factor (POF).`,
	RunE: runMood,
}

func init() {
	moodCmd.Flags().StringP("format", "f", "tsv", "Output format: tsv, text, json, markdown")
	moodCmd.Flags().StringP("output", "o", "", "Write output to file")
	moodCmd.Flags().Bool("no-cache", false, "Disable caching")
	moodCmd.Flags().Bool("include-tests", false, "Include test files in analysis")
	moodCmd.Flags().String("sort", "name", "Sort by: name, dit, noc")
	moodCmd.Flags().Int("top", 0, "Show only the top N classes (0 = all)")

	rootCmd.AddCommand(moodCmd)
}

func runMood(cmd *cobra.Command, args []string) error {
	paths := getPaths(args)
	includeTests, _ := cmd.Flags().GetBool("include-tests")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	topN, _ := cmd.Flags().GetInt("top")
	sortBy := getSort(cmd, "name")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scanSvc := scannerSvc.New(scannerSvc.WithConfig(cfg))
	scanResult, err := scanSvc.ScanPathsWithRepoRoot(paths)
	if err != nil {
		return err
	}

	if len(scanResult.Files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	files, oversize := scanSvc.FilterBySize(scanResult.Files, cfg.Analysis.MaxFileSize)
	if verbose {
		if scanResult.RepoRoot != "" {
			fmt.Fprintf(os.Stderr, "repository: %s\n", scanResult.RepoRoot)
		}
		for lang, group := range scanResult.LanguageGroups {
			fmt.Fprintf(os.Stderr, "  %s: %d files\n", lang, len(group))
		}
		if oversize > 0 {
			fmt.Fprintf(os.Stderr, "  skipped %d oversize files\n", oversize)
		}
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	cacheEnabled := cfg.Cache.Enabled && !noCache
	c, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cacheEnabled)
	if err != nil {
		c, _ = cache.New("", 0, false)
	}

	tracker := progress.NewTracker("Analyzing inheritance metrics", len(files))
	svc := analysis.New(analysis.WithConfig(cfg), analysis.WithCache(c))
	result, err := svc.AnalyzeMood(cmd.Context(), files, analysis.MoodOptions{
		IncludeTests: includeTests,
		OnProgress:   tracker.Tick,
		OnError: func(path string, err error) {
			if verbose {
				fmt.Fprintf(os.Stderr, "  skipping %s: %v\n", path, err)
			}
		},
	})
	tracker.FinishSuccess()
	if err != nil {
		return fmt.Errorf("mood analysis failed: %w", err)
	}

	if len(result.Classes) == 0 {
		color.Yellow("No classes found (MOOD metrics apply to Java, Python, TypeScript, etc.)")
		return nil
	}

	switch sortBy {
	case "dit":
		result.SortByDIT()
	case "noc":
		result.SortByNOC()
	default:
		result.SortByName()
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	// TSV is the canonical report shape: all classes, name order, TOTAL row.
	if formatter.Format() == output.FormatTSV {
		return result.WriteTSV(formatter.Writer())
	}

	classesToShow := result.Classes
	if topN > 0 && len(classesToShow) > topN {
		classesToShow = classesToShow[:topN]
	}

	var rows [][]string
	for _, cls := range classesToShow {
		ditStr := fmt.Sprintf("%d", cls.DIT)
		if cls.DIT >= 5 {
			ditStr = color.RedString(ditStr)
		} else if cls.DIT >= 4 {
			ditStr = color.YellowString(ditStr)
		}

		nocStr := fmt.Sprintf("%d", cls.NOC)
		if cls.NOC >= 6 {
			nocStr = color.RedString(nocStr)
		} else if cls.NOC >= 4 {
			nocStr = color.YellowString(nocStr)
		}

		rows = append(rows, []string{
			cls.ClassName,
			ditStr,
			nocStr,
			fmt.Sprintf("%d", models.Percent(cls.MHF)),
			fmt.Sprintf("%d", models.Percent(cls.AHF)),
			fmt.Sprintf("%d", models.Percent(cls.MIF)),
			fmt.Sprintf("%d", models.Percent(cls.AIF)),
			fmt.Sprintf("%d", models.Percent(cls.POF)),
		})
	}

	title := "MOOD Metrics"
	if topN > 0 {
		title = fmt.Sprintf("MOOD Metrics (Top %d by %s)", topN, sortBy)
	}

	table := output.NewTable(
		title,
		models.ReportColumns(),
		rows,
		[]string{
			fmt.Sprintf("Total Classes: %d", result.Summary.TotalClasses),
			fmt.Sprintf("Avg DIT: %.2f", result.Summary.AvgDIT),
			fmt.Sprintf("Total NOC: %d", result.Summary.TotalNOC),
			fmt.Sprintf("Global POF: %d%%", models.Percent(result.Summary.GlobalPOF)),
			fmt.Sprintf("Max DIT: %d", result.Summary.MaxDIT),
		},
		result,
	)

	return formatter.Output(table)
}
