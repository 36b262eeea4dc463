package diagram

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/ironsheep/uml-tools-mcp/internal/kroki"
)

// Type describes one diagram type offered by the server.
type Type struct {
	Name        string   `json:"name"`
	Backend     string   `json:"backend"`
	Description string   `json:"description"`
	Formats     []string `json:"formats"`
}

// IsPlantUML reports whether t is rendered by PlantUML.
func (t Type) IsPlantUML() bool { return t.Backend == "plantuml" }

var plantumlFormats = []string{"svg", "png", "pdf", "txt"}

// DefaultTypes returns the built-in diagram types.
func DefaultTypes() []Type {
	puml := func(name, desc string) Type {
		return Type{Name: name, Backend: "plantuml", Description: desc, Formats: slices.Clone(plantumlFormats)}
	}
	return []Type{
		puml("class", "UML class diagram"),
		puml("sequence", "UML sequence diagram"),
		puml("activity", "UML activity diagram"),
		puml("usecase", "UML use case diagram"),
		puml("state", "UML state diagram"),
		puml("component", "UML component diagram"),
		puml("deployment", "UML deployment diagram"),
		puml("object", "UML object diagram"),
		{Name: "mermaid", Backend: "mermaid", Description: "Mermaid diagram", Formats: []string{"svg", "png"}},
		{Name: "d2", Backend: "d2", Description: "D2 diagram", Formats: []string{"svg"}},
		{Name: "graphviz", Backend: "graphviz", Description: "Graphviz diagram", Formats: []string{"svg", "png", "pdf", "jpeg"}},
		{Name: "erd", Backend: "erd", Description: "Entity relationship diagram", Formats: []string{"svg", "png", "pdf", "jpeg"}},
	}
}

// Registry is a read-only set of diagram types keyed by lower-case name.
type Registry struct {
	types map[string]Type
}

// NewRegistry builds a registry from types. A later type replaces an
// earlier one with the same name. Types without formats get every format
// their backend serves.
func NewRegistry(types []Type) (*Registry, error) {
	r := &Registry{types: make(map[string]Type, len(types))}
	for _, t := range types {
		t.Name = strings.ToLower(strings.TrimSpace(t.Name))
		t.Backend = strings.ToLower(strings.TrimSpace(t.Backend))
		if t.Name == "" {
			return nil, fmt.Errorf("diagram type with empty name")
		}
		if t.Backend == "" {
			return nil, fmt.Errorf("diagram type %q has no backend", t.Name)
		}
		if len(t.Formats) == 0 {
			t.Formats = kroki.Formats(t.Backend)
			if len(t.Formats) == 0 {
				return nil, fmt.Errorf("diagram type %q: unknown backend %q needs explicit formats", t.Name, t.Backend)
			}
		}
		if t.Description == "" {
			t.Description = t.Name + " diagram"
		}
		r.types[t.Name] = t
	}
	return r, nil
}

// Lookup finds a type by name, ignoring case.
func (r *Registry) Lookup(name string) (Type, bool) {
	t, ok := r.types[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Names returns all type names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Types returns all types ordered by name.
func (r *Registry) Types() []Type {
	out := make([]Type, 0, len(r.types))
	for _, name := range r.Names() {
		out = append(out, r.types[name])
	}
	return out
}
