package mathengine

// FunctionInfo describes one registered built-in function (spec §6
// introspection: "list available functions/units/constants").
type FunctionInfo struct {
	Name        string
	Aliases     []string
	Description string
	Category    string
	MinArity    int
	MaxArity    int
}

// UnitInfo describes one registered unit.
type UnitInfo struct {
	Singular string
	Plural   string
	Category string
	Aliases  []string
}

// Description is the engine's full introspection snapshot.
type Description struct {
	Functions []FunctionInfo
	Units     []UnitInfo
	Constants []string
}

// Describe reports every built-in function, unit, and constant name known
// to the engine, for host applications building help text or completion
// lists (spec §6).
func (e *Engine) Describe() Description {
	var d Description
	for _, fn := range e.fns.All() {
		d.Functions = append(d.Functions, FunctionInfo{
			Name:        fn.Name,
			Aliases:     fn.Aliases,
			Description: fn.Description,
			Category:    fn.Category,
			MinArity:    fn.MinArity,
			MaxArity:    fn.MaxArity,
		})
	}
	for _, u := range e.units.Units() {
		d.Units = append(d.Units, UnitInfo{
			Singular: u.Singular,
			Plural:   u.Plural,
			Category: u.Category,
			Aliases:  u.Aliases,
		})
	}
	d.Constants = e.constants.Names()
	return d
}
