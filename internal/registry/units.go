// Package registry builds the unit, constant, keyword and function-name
// registries consulted by the classifier and evaluator (spec §4.9). Unit
// and constant catalogs are data, not code: they are decoded from embedded
// YAML with goccy/go-yaml rather than hand-written Go literal tables,
// following the teacher's own adoption of a YAML library for structured
// config (see SPEC_FULL.md §B).
package registry

import (
	_ "embed"

	"github.com/goccy/go-yaml"

	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/ident"
)

//go:embed data/units.yaml
var unitsYAML []byte

type unitRow struct {
	Singular   string   `yaml:"singular"`
	Plural     string   `yaml:"plural"`
	Category   string   `yaml:"category"`
	BaseName   string   `yaml:"base_name"`
	Multiplier float64  `yaml:"multiplier"`
	Offset     float64  `yaml:"offset"`
	Aliases    []string `yaml:"aliases"`
}

// UnitRegistry maps every lowercase name (singular, plural, alias) to the
// same *ast.UnitDef (spec §4.9).
type UnitRegistry struct {
	byName map[string]*ast.UnitDef
	all    []*ast.UnitDef
}

// NewUnitRegistry decodes the embedded unit catalog and builds the
// name→UnitDef index.
func NewUnitRegistry() (*UnitRegistry, error) {
	var rows []unitRow
	if err := yaml.Unmarshal(unitsYAML, &rows); err != nil {
		return nil, err
	}

	r := &UnitRegistry{byName: make(map[string]*ast.UnitDef, len(rows)*3)}
	for _, row := range rows {
		def := &ast.UnitDef{
			Singular:   row.Singular,
			Plural:     row.Plural,
			Category:   row.Category,
			BaseName:   row.BaseName,
			Multiplier: row.Multiplier,
			Offset:     row.Offset,
			Aliases:    row.Aliases,
		}
		r.all = append(r.all, def)
		r.index(def.Singular, def)
		r.index(def.Plural, def)
		for _, a := range row.Aliases {
			r.index(a, def)
		}
	}
	return r, nil
}

func (r *UnitRegistry) index(name string, def *ast.UnitDef) {
	if name == "" {
		return
	}
	r.byName[ident.Normalize(name)] = def
}

// Lookup finds a unit by any of its registered names, case-insensitively.
func (r *UnitRegistry) Lookup(name string) (*ast.UnitDef, bool) {
	def, ok := r.byName[ident.Normalize(name)]
	return def, ok
}

// IsUnit reports whether name resolves to a registered unit.
func (r *UnitRegistry) IsUnit(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Units returns one entry per distinct unit, enumerated by singular name
// (spec §4.9).
func (r *UnitRegistry) Units() []*ast.UnitDef {
	out := make([]*ast.UnitDef, len(r.all))
	copy(out, r.all)
	return out
}
