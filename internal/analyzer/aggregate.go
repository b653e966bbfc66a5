package analyzer

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/augur-dev/augur/pkg/models"
)

// MetricsAggregator derives per-class MOOD ratios from the finalized
// registry and folds them into population aggregates. Expects the
// InheritanceAnalyzer to have run; total over any registry state.
type MetricsAggregator struct {
	registry *Registry
}

// NewMetricsAggregator creates an aggregator over a finalized registry.
func NewMetricsAggregator(reg *Registry) *MetricsAggregator {
	return &MetricsAggregator{registry: reg}
}

// ratio divides, with division by zero defined as 0 rather than an error
// or NaN.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Aggregate produces the full analysis: one metrics row per registered
// class (phantom bases included) plus the population summary. The summary
// averages run over every class, and the global POF is the quotient of
// sums across the population, deliberately not a mean of per-class POFs.
func (g *MetricsAggregator) Aggregate() *models.MoodAnalysis {
	recs := g.registry.Records()

	analysis := &models.MoodAnalysis{
		GeneratedAt: time.Now().UTC(),
		Classes:     make([]models.ClassMoodMetrics, 0, len(recs)),
	}

	dits := make([]float64, 0, len(recs))
	mhfs := make([]float64, 0, len(recs))
	ahfs := make([]float64, 0, len(recs))
	mifs := make([]float64, 0, len(recs))
	aifs := make([]float64, 0, len(recs))

	var totalNOC, overriddenSum, polymorphismDen int

	for _, rec := range recs {
		m := models.ClassMoodMetrics{
			ClassName:         rec.Name,
			DIT:               rec.DIT,
			NOC:               rec.NOC(),
			TotalMethods:      rec.TotalMethods,
			HiddenMethods:     rec.HiddenMethods,
			InheritedMethods:  rec.InheritedMethods,
			OverriddenMethods: rec.OverriddenMethods,
			TotalFields:       rec.TotalFields,
			HiddenFields:      rec.HiddenFields,
			InheritedFields:   rec.InheritedFields,
			DescendantCount:   rec.DescendantCount,
		}

		m.MHF = ratio(rec.HiddenMethods, rec.TotalMethods)
		m.AHF = ratio(rec.HiddenFields, rec.TotalFields)
		m.MIF = ratio(rec.InheritedMethods, rec.TotalMethods+rec.InheritedMethods)
		m.AIF = ratio(rec.InheritedFields, rec.TotalFields+rec.InheritedFields)
		if rec.TotalMethods > 0 && rec.DescendantCount > 0 {
			m.POF = ratio(rec.OverriddenMethods, rec.TotalMethods*rec.DescendantCount)
		}

		analysis.Classes = append(analysis.Classes, m)

		dits = append(dits, float64(rec.DIT))
		mhfs = append(mhfs, m.MHF)
		ahfs = append(ahfs, m.AHF)
		mifs = append(mifs, m.MIF)
		aifs = append(aifs, m.AIF)

		totalNOC += m.NOC
		overriddenSum += rec.OverriddenMethods
		polymorphismDen += rec.TotalMethods * rec.DescendantCount

		if rec.DIT > analysis.Summary.MaxDIT {
			analysis.Summary.MaxDIT = rec.DIT
		}
		if m.NOC > analysis.Summary.MaxNOC {
			analysis.Summary.MaxNOC = m.NOC
		}
	}

	analysis.Summary.TotalClasses = len(recs)
	analysis.Summary.TotalNOC = totalNOC
	analysis.Summary.GlobalPOF = ratio(overriddenSum, polymorphismDen)
	if len(recs) > 0 {
		analysis.Summary.AvgDIT = stat.Mean(dits, nil)
		analysis.Summary.AvgMHF = stat.Mean(mhfs, nil)
		analysis.Summary.AvgAHF = stat.Mean(ahfs, nil)
		analysis.Summary.AvgMIF = stat.Mean(mifs, nil)
		analysis.Summary.AvgAIF = stat.Mean(aifs, nil)
	}

	return analysis
}
