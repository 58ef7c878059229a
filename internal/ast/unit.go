package ast

import "strconv"

// UnitDef describes a single physical unit (spec §3.4). Conversion to the
// base unit of its category is base = value*Multiplier + Offset; conversion
// between units of the same category goes through the base.
type UnitDef struct {
	Singular   string
	Plural     string
	Category   string
	BaseName   string
	Multiplier float64
	Offset     float64
	Aliases    []string
}

// ToBase converts a value expressed in this unit to the category's base
// unit scale.
func (u *UnitDef) ToBase(value float64) float64 {
	return value*u.Multiplier + u.Offset
}

// FromBase converts a base-scale value into this unit's scale.
func (u *UnitDef) FromBase(base float64) float64 {
	return (base - u.Offset) / u.Multiplier
}

// UnitValue is a scalar paired with the unit it is expressed in.
type UnitValue struct {
	Val  float64
	Unit *UnitDef
}

func NewUnitValue(v float64, u *UnitDef) *UnitValue { return &UnitValue{Val: v, Unit: u} }

func (*UnitValue) node()              {}
func (u *UnitValue) TypeName() string { return "unit" }
func (u *UnitValue) String() string {
	return strconv.FormatFloat(u.Val, 'g', -1, 64) + " " + u.Unit.Singular
}
func (u *UnitValue) Display() string {
	out := mustDisplay("unit", "value", u.Val)
	out = mustSet(out, "unit", u.Unit.Singular)
	out = mustSet(out, "category", u.Unit.Category)
	return out
}

// ConvertTo converts u to the target unit, returning an error if the
// categories differ (spec §4.6 "Unit operations").
func (u *UnitValue) ConvertTo(target *UnitDef) (*UnitValue, error) {
	if u.Unit.Category != target.Category {
		return nil, &unitCategoryError{from: u.Unit.Category, to: target.Category}
	}
	base := u.Unit.ToBase(u.Val)
	return NewUnitValue(target.FromBase(base), target), nil
}

type unitCategoryError struct{ from, to string }

func (e *unitCategoryError) Error() string {
	return "cannot convert between unit categories " + e.from + " and " + e.to
}
