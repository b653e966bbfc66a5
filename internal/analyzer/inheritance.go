package analyzer

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// InheritanceAnalyzer computes the graph-derived fields of every record:
// depth in the inheritance tree, transitive descendant counts, and the
// single-level inherited member snapshots. It indexes classes with dense
// uint32 ids so traversal visited-sets can be roaring bitmaps.
type InheritanceAnalyzer struct {
	registry *Registry
	ids      map[string]uint32
	records  []*ClassRecord
}

// NewInheritanceAnalyzer indexes a fully built registry for traversal.
func NewInheritanceAnalyzer(reg *Registry) *InheritanceAnalyzer {
	a := &InheritanceAnalyzer{
		registry: reg,
		ids:      make(map[string]uint32, reg.Len()),
		records:  make([]*ClassRecord, 0, reg.Len()),
	}
	for _, rec := range reg.Records() {
		a.ids[rec.Name] = uint32(len(a.records))
		a.records = append(a.records, rec)
	}
	return a
}

// Analyze populates DIT and DescendantCount on every record, and snapshots
// InheritedMethods/InheritedFields from each record's direct base. Inherited
// counts are single-level only: they read the direct base's totals and never
// accumulate up the chain. Running after the graph is complete makes the
// snapshot independent of declaration order. Total over any registry state,
// including cyclic and self-referential ones.
func (a *InheritanceAnalyzer) Analyze() {
	for _, rec := range a.records {
		rec.DIT = a.depth(rec)
		rec.DescendantCount = a.descendants(rec)
		if rec.BaseClass != "" {
			if base, ok := a.registry.Get(rec.BaseClass); ok {
				rec.InheritedMethods = base.TotalMethods
				rec.InheritedFields = base.TotalFields
			}
		}
	}
}

// depth counts edges walking base links upward until a record has no base,
// the base is untracked, or the walk would revisit a class. The revisit stop
// happens before stepping, so a direct 2-cycle A:B, B:A yields depth 1.
func (a *InheritanceAnalyzer) depth(rec *ClassRecord) int {
	visited := roaring.New()
	visited.Add(a.ids[rec.Name])

	depth := 0
	cur := rec
	for cur.BaseClass != "" {
		baseID, tracked := a.ids[cur.BaseClass]
		if !tracked || visited.Contains(baseID) {
			break
		}
		visited.Add(baseID)
		depth++
		cur = a.records[baseID]
	}
	return depth
}

// descendants counts the transitive closure over child links with an
// iterative work-list, so deep hierarchies cannot blow the call stack. The
// visited bitmap is shared across the whole walk: each class is counted at
// most once per top-level call, and the starting class never counts as its
// own descendant, which bounds cyclic child graphs.
func (a *InheritanceAnalyzer) descendants(rec *ClassRecord) int {
	visited := roaring.New()
	visited.Add(a.ids[rec.Name])

	stack := make([]uint32, 0, len(rec.Children))
	for _, child := range rec.Children {
		stack = append(stack, a.ids[child])
	}

	count := 0
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Contains(id) {
			continue
		}
		visited.Add(id)
		count++
		for _, child := range a.records[id].Children {
			stack = append(stack, a.ids[child])
		}
	}
	return count
}
