package mathengine

import (
	"math"

	"github.com/raharrison/mathengine/internal/ast"
)

// applyDecimalPlaces rounds Double and Rational results (recursively
// through Vector/Matrix elements) to the engine's configured decimal_places
// (spec §6 "decimal_places: int (-1 = full precision)"). A Rational is
// rounded to an exact fraction over 10^places rather than demoted to
// Double, so its TypeName and further exact arithmetic are unaffected by
// values that have not yet been rounded. places < 0 means full precision
// and leaves v unchanged.
func applyDecimalPlaces(v ast.Value, places int) ast.Value {
	if places < 0 {
		return v
	}
	switch t := v.(type) {
	case *ast.Double:
		scale := math.Pow(10, float64(places))
		return ast.NewDouble(math.Round(t.Val*scale) / scale)
	case *ast.Rational:
		scale := int64(math.Pow(10, float64(places)))
		if scale <= 0 {
			return t
		}
		num := int64(math.Round(t.Float64() * float64(scale)))
		r, err := ast.NewRational(num, scale)
		if err != nil {
			return t
		}
		return r
	case *ast.Vector:
		out := make([]ast.Node, len(t.Elements))
		for i, el := range t.Elements {
			if ev, ok := el.(ast.Value); ok {
				out[i] = applyDecimalPlaces(ev, places)
			} else {
				out[i] = el
			}
		}
		return &ast.Vector{Elements: out}
	case *ast.Matrix:
		rows := make([][]ast.Node, len(t.Rows))
		for i, row := range t.Rows {
			out := make([]ast.Node, len(row))
			for j, el := range row {
				if ev, ok := el.(ast.Value); ok {
					out[j] = applyDecimalPlaces(ev, places)
				} else {
					out[j] = el
				}
			}
			rows[i] = out
		}
		return &ast.Matrix{Rows: rows}
	default:
		return v
	}
}
