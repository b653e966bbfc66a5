package analyzer

import (
	"sort"

	"github.com/augur-dev/augur/pkg/models"
)

// ClassRecord is the registry's view of one class: its inheritance links and
// the raw member counters the MOOD ratios are derived from. DIT and
// DescendantCount are populated by the InheritanceAnalyzer and are undefined
// until Analyze has run over the fully built registry.
type ClassRecord struct {
	Name      string
	BaseClass string

	// Children collects the names of classes that directly declare this
	// class as their base. Repeated declarations of the same subclass each
	// append an entry; descendant counting dedups, NOC does not.
	Children []string

	TotalMethods      int
	HiddenMethods     int
	InheritedMethods  int
	OverriddenMethods int
	TotalFields       int
	HiddenFields      int
	InheritedFields   int

	DIT             int
	DescendantCount int
}

// NOC returns the number of children, the direct subclass count.
func (r *ClassRecord) NOC() int {
	return len(r.Children)
}

// Registry is the single source of truth for class records. Records are
// created lazily on first reference, whether that reference is a declaration
// or a base-class name, so forward and never-declared bases always resolve
// to a (possibly zero-counter) record.
type Registry struct {
	classes map[string]*ClassRecord
}

// NewRegistry creates an empty class registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*ClassRecord)}
}

// GetOrCreate returns the record for name, creating a zero-initialized one
// on first reference. Idempotent; the registry only ever grows.
func (g *Registry) GetOrCreate(name string) *ClassRecord {
	if rec, ok := g.classes[name]; ok {
		return rec
	}
	rec := &ClassRecord{Name: name}
	g.classes[name] = rec
	return rec
}

// Get returns the record for name if it exists.
func (g *Registry) Get(name string) (*ClassRecord, bool) {
	rec, ok := g.classes[name]
	return rec, ok
}

// Len returns the number of registered classes, phantom bases included.
func (g *Registry) Len() int {
	return len(g.classes)
}

// Names returns all registered class names sorted ascending.
func (g *Registry) Names() []string {
	names := make([]string, 0, len(g.classes))
	for name := range g.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Records returns all records ordered by class name.
func (g *Registry) Records() []*ClassRecord {
	names := g.Names()
	recs := make([]*ClassRecord, len(names))
	for i, name := range names {
		recs[i] = g.classes[name]
	}
	return recs
}

// GraphBuilder folds class declarations into registry state: counters,
// base links and child links. Adding a declaration never fails; unparseable
// sources are the upstream collaborator's problem and simply contribute no
// declarations.
type GraphBuilder struct {
	registry *Registry
}

// NewGraphBuilder creates a builder that mutates the given registry.
func NewGraphBuilder(reg *Registry) *GraphBuilder {
	return &GraphBuilder{registry: reg}
}

// Add ingests one class declaration. Method hiding is deliberately never
// counted here, so HiddenMethods stays 0 for every class and MHF evaluates
// to 0; that is the defined metric semantic, not an omission. Likewise, an
// override on a class with no resolvable base contributes nothing.
func (b *GraphBuilder) Add(decl models.ClassDeclaration) {
	rec := b.registry.GetOrCreate(decl.Name)

	if decl.BaseClass != "" {
		rec.BaseClass = decl.BaseClass
		base := b.registry.GetOrCreate(decl.BaseClass)
		base.Children = append(base.Children, decl.Name)
	}

	for _, m := range decl.Methods {
		rec.TotalMethods++
		if m.IsOverride && decl.BaseClass != "" {
			b.registry.GetOrCreate(decl.BaseClass).OverriddenMethods++
		}
	}

	for _, f := range decl.Fields {
		rec.TotalFields++
		if f.Visibility.Hidden() {
			rec.HiddenFields++
		}
	}
}

// AddAll ingests a batch of declarations in order.
func (b *GraphBuilder) AddAll(decls []models.ClassDeclaration) {
	for _, decl := range decls {
		b.Add(decl)
	}
}
