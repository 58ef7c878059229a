package ast

import "strconv"

// Percent stores value/100 internally; its display value is decimal*100
// with a trailing "%" (spec §3.2).
type Percent struct {
	Decimal float64
}

func NewPercent(decimal float64) *Percent { return &Percent{Decimal: decimal} }

func (*Percent) node()              {}
func (p *Percent) TypeName() string { return "percent" }
func (p *Percent) String() string {
	return strconv.FormatFloat(p.Decimal*100, 'g', -1, 64) + "%"
}
func (p *Percent) Display() string { return mustDisplay("percent", "decimal", p.Decimal) }
