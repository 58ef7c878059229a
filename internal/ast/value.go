package ast

import (
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
)

// Double is an IEEE 754 binary64 value.
type Double struct {
	Val float64
}

func NewDouble(v float64) *Double { return &Double{Val: v} }

func (*Double) node()              {}
func (d *Double) TypeName() string { return "double" }
func (d *Double) String() string   { return strconv.FormatFloat(d.Val, 'g', -1, 64) }
func (d *Double) Display() string  { return mustDisplay("double", "value", d.Val) }

// Boolean is a truth value; it coerces to Rational 0/1 in arithmetic
// (spec §4.6).
type Boolean struct {
	Val bool
}

func NewBoolean(v bool) *Boolean { return &Boolean{Val: v} }

func (*Boolean) node()              {}
func (b *Boolean) TypeName() string { return "boolean" }
func (b *Boolean) String() string {
	if b.Val {
		return "true"
	}
	return "false"
}
func (b *Boolean) Display() string { return mustDisplay("boolean", "value", b.Val) }

// String is a text value.
type String struct {
	Val string
}

func NewString(v string) *String { return &String{Val: v} }

func (*String) node()              {}
func (s *String) TypeName() string { return "string" }
func (s *String) String() string   { return s.Val }
func (s *String) Display() string  { return mustDisplay("string", "value", s.Val) }

// mustDisplay builds the small {"kind": k, field: value} JSON payload used
// by every scalar Value's Display method. sjson.Set cannot fail for these
// static paths and JSON-safe inputs, so a build failure here indicates a
// programming error rather than bad input.
func mustDisplay(kind string, field string, value any) string {
	out, err := sjson.Set(`{}`, "kind", kind)
	if err != nil {
		panic(err)
	}
	return mustSet(out, field, value)
}

// mustSet adds one more field to an in-progress display payload.
func mustSet(doc, field string, value any) string {
	out, err := sjson.Set(doc, field, value)
	if err != nil {
		panic(err)
	}
	return out
}

// mustSetRaw sets field to a JSON array built from already-encoded JSON
// document strings (each element's own Display output).
func mustSetRaw(doc, field string, rawItems []string) string {
	out, err := sjson.SetRaw(doc, field, "["+strings.Join(rawItems, ",")+"]")
	if err != nil {
		panic(err)
	}
	return out
}
