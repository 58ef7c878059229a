package registry

import (
	_ "embed"

	"github.com/goccy/go-yaml"

	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/ident"
)

//go:embed data/constants.yaml
var constantsYAML []byte

type constantRow struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Value   float64  `yaml:"value"`
	N       int64    `yaml:"n"`
	D       int64    `yaml:"d"`
	Aliases []string `yaml:"aliases"`
}

// ConstantRegistry maps every lowercase constant name/alias to its
// already-evaluated value (spec §4.9).
type ConstantRegistry struct {
	byName map[string]ast.Value
}

// NewConstantRegistry decodes the embedded constant catalog.
func NewConstantRegistry() (*ConstantRegistry, error) {
	var rows []constantRow
	if err := yaml.Unmarshal(constantsYAML, &rows); err != nil {
		return nil, err
	}

	r := &ConstantRegistry{byName: make(map[string]ast.Value, len(rows)*2)}
	for _, row := range rows {
		var v ast.Value
		switch row.Kind {
		case "rational":
			rv, err := ast.NewRational(row.N, row.D)
			if err != nil {
				return nil, err
			}
			v = rv
		case "bool":
			v = ast.NewBoolean(row.Value != 0)
		default:
			v = ast.NewDouble(row.Value)
		}
		r.index(row.Name, v)
		for _, a := range row.Aliases {
			r.index(a, v)
		}
	}
	return r, nil
}

func (r *ConstantRegistry) index(name string, v ast.Value) {
	if name == "" {
		return
	}
	r.byName[ident.Normalize(name)] = v
}

// Lookup finds a constant by name or alias, case-insensitively.
func (r *ConstantRegistry) Lookup(name string) (ast.Value, bool) {
	v, ok := r.byName[ident.Normalize(name)]
	return v, ok
}

// Names returns every registered constant name and alias, normalized.
func (r *ConstantRegistry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	return out
}
