package models

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"
)

// Visibility classifies a class member's access level.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityOther     Visibility = "other"
)

// Hidden reports whether members with this visibility count toward the
// hiding factors (private and protected members do).
func (v Visibility) Hidden() bool {
	return v == VisibilityPrivate || v == VisibilityProtected
}

// MethodDecl describes one method of a parsed class declaration.
type MethodDecl struct {
	IsOverride bool       `json:"is_override"`
	Visibility Visibility `json:"visibility"`
}

// FieldDecl describes one field of a parsed class declaration.
type FieldDecl struct {
	Visibility Visibility `json:"visibility"`
}

// ClassDeclaration is a single class as extracted from one source file.
// BaseClass is empty when the class declares no explicit base; a non-empty
// BaseClass may name a class that is never declared anywhere in the input.
// The same class name can appear in multiple declarations (partial classes,
// re-opened classes); consumers treat counters as additive across them.
type ClassDeclaration struct {
	Name      string       `json:"name"`
	BaseClass string       `json:"base_class,omitempty"`
	Path      string       `json:"path,omitempty"`
	Language  string       `json:"language,omitempty"`
	Methods   []MethodDecl `json:"methods,omitempty"`
	Fields    []FieldDecl  `json:"fields,omitempty"`
}

// ClassMoodMetrics holds per-class inheritance counters and derived MOOD
// ratios. Ratios are stored as fractions in [0,1]; the report renders them
// as integer percentages.
type ClassMoodMetrics struct {
	ClassName string `json:"class_name"`

	DIT int `json:"dit"`
	NOC int `json:"noc"`

	TotalMethods      int `json:"total_methods"`
	HiddenMethods     int `json:"hidden_methods"`
	InheritedMethods  int `json:"inherited_methods"`
	OverriddenMethods int `json:"overridden_methods"`
	TotalFields       int `json:"total_fields"`
	HiddenFields      int `json:"hidden_fields"`
	InheritedFields   int `json:"inherited_fields"`
	DescendantCount   int `json:"descendant_count"`

	MHF float64 `json:"mhf"`
	AHF float64 `json:"ahf"`
	MIF float64 `json:"mif"`
	AIF float64 `json:"aif"`
	POF float64 `json:"pof"`
}

// MoodSummary provides population-level aggregates. Averages run over every
// registered class, including bases that were referenced but never declared.
// GlobalPOF is the weighted quotient of sums, not a mean of per-class POFs.
type MoodSummary struct {
	TotalClasses int     `json:"total_classes"`
	AvgDIT       float64 `json:"avg_dit"`
	TotalNOC     int     `json:"total_noc"`
	AvgMHF       float64 `json:"avg_mhf"`
	AvgAHF       float64 `json:"avg_ahf"`
	AvgMIF       float64 `json:"avg_mif"`
	AvgAIF       float64 `json:"avg_aif"`
	GlobalPOF    float64 `json:"global_pof"`
	MaxDIT       int     `json:"max_dit"`
	MaxNOC       int     `json:"max_noc"`
}

// MoodAnalysis contains the full result of a MOOD metrics run.
type MoodAnalysis struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Classes     []ClassMoodMetrics `json:"classes"`
	Summary     MoodSummary        `json:"summary"`
}

// SortByName orders classes lexicographically ascending (the report order).
func (a *MoodAnalysis) SortByName() {
	sort.Slice(a.Classes, func(i, j int) bool {
		return a.Classes[i].ClassName < a.Classes[j].ClassName
	})
}

// SortByDIT orders classes by depth of inheritance, deepest first.
func (a *MoodAnalysis) SortByDIT() {
	sort.Slice(a.Classes, func(i, j int) bool {
		return a.Classes[i].DIT > a.Classes[j].DIT
	})
}

// SortByNOC orders classes by number of children, largest first.
func (a *MoodAnalysis) SortByNOC() {
	sort.Slice(a.Classes, func(i, j int) bool {
		return a.Classes[i].NOC > a.Classes[j].NOC
	})
}

// reportColumns is the fixed column set of the metric report.
var reportColumns = []string{"Class", "DIT", "NOC", "MHF (%)", "AHF (%)", "MIF (%)", "AIF (%)", "POF (%)"}

// ReportColumns returns a copy of the report's column headers.
func ReportColumns() []string {
	return append([]string(nil), reportColumns...)
}

// Percent renders a fraction as a rounded integer percentage.
func Percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

// WriteTSV writes the tab-separated metric report: a header row, one row per
// class sorted by name ascending, and a final TOTAL row with the population
// aggregates. Ratios appear as integer percentages; the TOTAL row's average
// DIT keeps two decimal places.
func (a *MoodAnalysis) WriteTSV(w io.Writer) error {
	rows := make([]ClassMoodMetrics, len(a.Classes))
	copy(rows, a.Classes)
	sort.Slice(rows, func(i, j int) bool { return rows[i].ClassName < rows[j].ClassName })

	if _, err := fmt.Fprintln(w, strings.Join(reportColumns, "\t")); err != nil {
		return err
	}
	for _, c := range rows {
		_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			c.ClassName, c.DIT, c.NOC,
			Percent(c.MHF), Percent(c.AHF), Percent(c.MIF), Percent(c.AIF), Percent(c.POF))
		if err != nil {
			return err
		}
	}

	s := a.Summary
	_, err := fmt.Fprintf(w, "TOTAL\t%.2f\t%d\t%d\t%d\t%d\t%d\t%d\n",
		s.AvgDIT, s.TotalNOC,
		Percent(s.AvgMHF), Percent(s.AvgAHF), Percent(s.AvgMIF), Percent(s.AvgAIF), Percent(s.GlobalPOF))
	return err
}
