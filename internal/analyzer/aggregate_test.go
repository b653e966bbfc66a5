package analyzer

import (
	"math"
	"testing"

	"github.com/augur-dev/augur/pkg/models"
)

func analyze(decls []models.ClassDeclaration) *models.MoodAnalysis {
	reg := NewRegistry()
	NewGraphBuilder(reg).AddAll(decls)
	NewInheritanceAnalyzer(reg).Analyze()
	return NewMetricsAggregator(reg).Aggregate()
}

func findClass(t *testing.T, a *models.MoodAnalysis, name string) models.ClassMoodMetrics {
	t.Helper()
	for _, c := range a.Classes {
		if c.ClassName == name {
			return c
		}
	}
	t.Fatalf("class %s not in analysis", name)
	return models.ClassMoodMetrics{}
}

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestAggregate_EmptyRegistry(t *testing.T) {
	a := analyze(nil)

	if len(a.Classes) != 0 {
		t.Errorf("Classes = %d, want 0", len(a.Classes))
	}
	if a.Summary.TotalClasses != 0 {
		t.Errorf("TotalClasses = %d, want 0", a.Summary.TotalClasses)
	}
	if a.Summary.AvgDIT != 0 || a.Summary.GlobalPOF != 0 {
		t.Error("Empty population must aggregate to zeros, not NaN")
	}
}

func TestAggregate_MHFAlwaysZero(t *testing.T) {
	a := analyze([]models.ClassDeclaration{
		{
			Name: "Vault",
			Methods: []models.MethodDecl{
				{Visibility: models.VisibilityPrivate},
				{Visibility: models.VisibilityPrivate},
			},
		},
	})

	if got := findClass(t, a, "Vault").MHF; got != 0 {
		t.Errorf("MHF = %v, want 0 even with only private methods", got)
	}
	if a.Summary.AvgMHF != 0 {
		t.Errorf("AvgMHF = %v, want 0", a.Summary.AvgMHF)
	}
}

func TestAggregate_RatiosZeroOnEmptyDenominator(t *testing.T) {
	a := analyze([]models.ClassDeclaration{{Name: "Empty"}})

	c := findClass(t, a, "Empty")
	if c.MHF != 0 || c.AHF != 0 || c.MIF != 0 || c.AIF != 0 || c.POF != 0 {
		t.Errorf("memberless class must have all-zero ratios, got %+v", c)
	}
}

func TestAggregate_AnimalDog(t *testing.T) {
	a := analyze([]models.ClassDeclaration{
		{
			Name: "Animal",
			Methods: []models.MethodDecl{
				{Visibility: models.VisibilityPublic},
				{Visibility: models.VisibilityPublic},
			},
			Fields: []models.FieldDecl{
				{Visibility: models.VisibilityPrivate},
				{Visibility: models.VisibilityPublic},
			},
		},
		{
			Name:      "Dog",
			BaseClass: "Animal",
			Methods: []models.MethodDecl{
				{IsOverride: true, Visibility: models.VisibilityPublic},
			},
			Fields: []models.FieldDecl{{Visibility: models.VisibilityProtected}},
		},
	})

	animal := findClass(t, a, "Animal")
	if animal.DIT != 0 || animal.NOC != 1 {
		t.Errorf("Animal DIT/NOC = %d/%d, want 0/1", animal.DIT, animal.NOC)
	}
	if !approx(animal.AHF, 0.5) {
		t.Errorf("Animal AHF = %v, want 0.5", animal.AHF)
	}
	// POF(Animal) = 1 override / (2 methods * 1 descendant).
	if !approx(animal.POF, 0.5) {
		t.Errorf("Animal POF = %v, want 0.5", animal.POF)
	}

	dog := findClass(t, a, "Dog")
	if dog.DIT != 1 {
		t.Errorf("Dog DIT = %d, want 1", dog.DIT)
	}
	// MIF(Dog) = 2 inherited / (1 own + 2 inherited).
	if !approx(dog.MIF, 2.0/3.0) {
		t.Errorf("Dog MIF = %v, want 2/3", dog.MIF)
	}
	if !approx(dog.AIF, 2.0/3.0) {
		t.Errorf("Dog AIF = %v, want 2/3", dog.AIF)
	}
	// Dog has no descendants, so its POF term is zero by definition.
	if dog.POF != 0 {
		t.Errorf("Dog POF = %v, want 0", dog.POF)
	}

	if a.Summary.TotalClasses != 2 {
		t.Errorf("TotalClasses = %d, want 2", a.Summary.TotalClasses)
	}
	if !approx(a.Summary.AvgDIT, 0.5) {
		t.Errorf("AvgDIT = %v, want 0.5", a.Summary.AvgDIT)
	}
	// GlobalPOF = 1 / (2*1 + 1*0) = 0.5.
	if !approx(a.Summary.GlobalPOF, 0.5) {
		t.Errorf("GlobalPOF = %v, want 0.5", a.Summary.GlobalPOF)
	}
}

func TestAggregate_GlobalPOFIsWeighted(t *testing.T) {
	// Base: 4 methods, 1 descendant, 1 override against it.
	// Big: 2 methods, 1 descendant, 1 override against it.
	// Global POF must be sum/sum = 2/6, not the mean of 1/4 and 1/2.
	a := analyze([]models.ClassDeclaration{
		{
			Name: "Base",
			Methods: []models.MethodDecl{
				{Visibility: models.VisibilityPublic},
				{Visibility: models.VisibilityPublic},
				{Visibility: models.VisibilityPublic},
				{Visibility: models.VisibilityPublic},
			},
		},
		{
			Name:      "BaseChild",
			BaseClass: "Base",
			Methods:   []models.MethodDecl{{IsOverride: true, Visibility: models.VisibilityPublic}},
		},
		{
			Name: "Big",
			Methods: []models.MethodDecl{
				{Visibility: models.VisibilityPublic},
				{Visibility: models.VisibilityPublic},
			},
		},
		{
			Name:      "BigChild",
			BaseClass: "Big",
			Methods:   []models.MethodDecl{{IsOverride: true, Visibility: models.VisibilityPublic}},
		},
	})

	// Denominator: Base 4*1 + BaseChild 1*0 + Big 2*1 + BigChild 1*0 = 6.
	if !approx(a.Summary.GlobalPOF, 2.0/6.0) {
		t.Errorf("GlobalPOF = %v, want 1/3", a.Summary.GlobalPOF)
	}
}

func TestAggregate_PhantomBaseInAverages(t *testing.T) {
	a := analyze([]models.ClassDeclaration{
		{Name: "Impl", BaseClass: "LibraryBase"},
	})

	if a.Summary.TotalClasses != 2 {
		t.Fatalf("TotalClasses = %d, want 2 (phantom included)", a.Summary.TotalClasses)
	}
	// AvgDIT = (1 + 0) / 2.
	if !approx(a.Summary.AvgDIT, 0.5) {
		t.Errorf("AvgDIT = %v, want 0.5", a.Summary.AvgDIT)
	}
	phantom := findClass(t, a, "LibraryBase")
	if phantom.TotalMethods != 0 || phantom.NOC != 1 {
		t.Errorf("phantom record = %+v, want zero counters with NOC 1", phantom)
	}
}

func TestAggregate_MaxTracking(t *testing.T) {
	a := analyze([]models.ClassDeclaration{
		{Name: "A"},
		{Name: "B", BaseClass: "A"},
		{Name: "C", BaseClass: "A"},
		{Name: "D", BaseClass: "B"},
	})

	if a.Summary.MaxDIT != 2 {
		t.Errorf("MaxDIT = %d, want 2", a.Summary.MaxDIT)
	}
	if a.Summary.MaxNOC != 2 {
		t.Errorf("MaxNOC = %d, want 2", a.Summary.MaxNOC)
	}
	if a.Summary.TotalNOC != 3 {
		t.Errorf("TotalNOC = %d, want 3", a.Summary.TotalNOC)
	}
}
