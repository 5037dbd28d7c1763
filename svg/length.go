// Package svg implements the SVG length types used by length-list attributes
// such as x, y, dx and dy on text content elements.
package svg

import (
	"fmt"
	"math"
	"strconv"
)

// LengthType is the unit kind of a Length. Values match the SVGLength
// SVG_LENGTHTYPE_* constants.
type LengthType uint16

const (
	LengthTypeUnknown LengthType = iota
	LengthTypeNumber
	LengthTypePercentage
	LengthTypeEMS
	LengthTypeEXS
	LengthTypePX
	LengthTypeCM
	LengthTypeMM
	LengthTypeIN
	LengthTypePT
	LengthTypePC
)

var unitSuffixes = [...]string{
	LengthTypeUnknown:    "",
	LengthTypeNumber:     "",
	LengthTypePercentage: "%",
	LengthTypeEMS:        "em",
	LengthTypeEXS:        "ex",
	LengthTypePX:         "px",
	LengthTypeCM:         "cm",
	LengthTypeMM:         "mm",
	LengthTypeIN:         "in",
	LengthTypePT:         "pt",
	LengthTypePC:         "pc",
}

// user units per specified unit, for the absolute units
var absoluteFactors = map[LengthType]float64{
	LengthTypeNumber: 1,
	LengthTypePX:     1,
	LengthTypeIN:     96,
	LengthTypeCM:     96 / 2.54,
	LengthTypeMM:     96 / 25.4,
	LengthTypePT:     96.0 / 72.0,
	LengthTypePC:     16,
}

// Valid reports whether t names a concrete unit.
func (t LengthType) Valid() bool {
	return t > LengthTypeUnknown && t <= LengthTypePC
}

// Suffix returns the unit suffix used when serializing, "" for plain numbers.
func (t LengthType) Suffix() string {
	if int(t) < len(unitSuffixes) {
		return unitSuffixes[t]
	}
	return ""
}

func (t LengthType) String() string {
	switch t {
	case LengthTypeUnknown:
		return "unknown"
	case LengthTypeNumber:
		return "number"
	}
	if t.Valid() {
		return t.Suffix()
	}
	return fmt.Sprintf("LengthType(%d)", uint16(t))
}

// Direction selects which viewport dimension percentages resolve against.
type Direction int

const (
	DirectionWidth Direction = iota
	DirectionHeight
	DirectionOther
)

func (d Direction) String() string {
	switch d {
	case DirectionWidth:
		return "width"
	case DirectionHeight:
		return "height"
	default:
		return "other"
	}
}

// Context supplies what relative units need to resolve to user units.
type Context interface {
	FontSize() float64
	// XHeight returns the x-height of the font, or 0 if unknown.
	XHeight() float64
	ViewportSize() (width, height float64)
}

// StaticContext is a Context with fixed values.
type StaticContext struct {
	Font     float64
	X        float64
	Viewport [2]float64
}

func (c StaticContext) FontSize() float64 { return c.Font }

func (c StaticContext) XHeight() float64 { return c.X }

func (c StaticContext) ViewportSize() (float64, float64) { return c.Viewport[0], c.Viewport[1] }

// Length is a magnitude paired with a unit. A Length belongs to at most one
// LengthList; while it does, it shares that list's read-only state and edits
// made through it are reported to the list.
type Length struct {
	value float64 // in specified units
	unit  LengthType
	list  *LengthList

	// frozen marks an item dropped from a read-only list. It stays
	// read-only after leaving the list.
	frozen bool
}

// NewLength returns a detached, unitless zero length.
func NewLength() *Length {
	return &Length{unit: LengthTypeNumber}
}

// NewLengthOf returns a detached length with the given value and unit.
func NewLengthOf(value float64, unit LengthType) (*Length, error) {
	if !unit.Valid() {
		return nil, ErrNotSupported(fmt.Sprintf("Unsupported length unit type %d.", uint16(unit)))
	}
	if err := checkFinite(value); err != nil {
		return nil, err
	}
	return &Length{value: value, unit: unit}, nil
}

// ParseLength parses a single length such as "5px", "10%" or "3".
func ParseLength(s string) (*Length, error) {
	value, unit, err := parseSingle(s)
	if err != nil {
		return nil, err
	}
	return &Length{value: value, unit: unit}, nil
}

// List returns the list currently holding l, or nil if l is detached.
func (l *Length) List() *LengthList {
	return l.list
}

// ReadOnly reports whether l belongs to a read-only list, or was dropped
// from one.
func (l *Length) ReadOnly() bool {
	return l.frozen || l.list != nil && l.list.readOnly
}

// UnitType returns the unit l is expressed in.
func (l *Length) UnitType() LengthType {
	return l.unit
}

// ValueInSpecifiedUnits returns the magnitude in l's own unit.
func (l *Length) ValueInSpecifiedUnits() float64 {
	return l.value
}

// SetValueInSpecifiedUnits sets the magnitude, keeping the unit.
func (l *Length) SetValueInSpecifiedUnits(value float64) error {
	if l.ReadOnly() {
		return ErrNoModificationAllowed("The length is read-only.")
	}
	if err := checkFinite(value); err != nil {
		return err
	}
	l.value = value
	l.changed()
	return nil
}

// ValueAsString returns the serialized form, e.g. "5px".
func (l *Length) ValueAsString() string {
	return formatNumber(l.value) + l.unit.Suffix()
}

func (l *Length) String() string {
	return l.ValueAsString()
}

// SetValueAsString replaces value and unit from s. On error l is unchanged.
func (l *Length) SetValueAsString(s string) error {
	if l.ReadOnly() {
		return ErrNoModificationAllowed("The length is read-only.")
	}
	value, unit, err := parseSingle(s)
	if err != nil {
		return err
	}
	l.value, l.unit = value, unit
	l.changed()
	return nil
}

// NewValueSpecifiedUnits replaces value and unit.
func (l *Length) NewValueSpecifiedUnits(unit LengthType, value float64) error {
	if l.ReadOnly() {
		return ErrNoModificationAllowed("The length is read-only.")
	}
	if !unit.Valid() {
		return ErrNotSupported(fmt.Sprintf("Unsupported length unit type %d.", uint16(unit)))
	}
	if err := checkFinite(value); err != nil {
		return err
	}
	l.value, l.unit = value, unit
	l.changed()
	return nil
}

// Value returns the length in user units. ctx may be nil when the unit is
// absolute.
func (l *Length) Value(ctx Context) (float64, error) {
	factor, err := userUnitsPer(l.unit, ctx, l.direction())
	if err != nil {
		return 0, err
	}
	return l.value * factor, nil
}

// SetValue sets the length from a value in user units, keeping the unit.
func (l *Length) SetValue(userUnits float64, ctx Context) error {
	if l.ReadOnly() {
		return ErrNoModificationAllowed("The length is read-only.")
	}
	if err := checkFinite(userUnits); err != nil {
		return err
	}
	factor, err := userUnitsPer(l.unit, ctx, l.direction())
	if err != nil {
		return err
	}
	if factor == 0 {
		return ErrNotSupported("Cannot resolve the length against a zero-sized context.")
	}
	value := userUnits / factor
	if err := checkFinite(value); err != nil {
		return err
	}
	l.value = value
	l.changed()
	return nil
}

// ConvertToSpecifiedUnits re-expresses the length in unit, preserving its
// value in user units.
func (l *Length) ConvertToSpecifiedUnits(unit LengthType, ctx Context) error {
	if l.ReadOnly() {
		return ErrNoModificationAllowed("The length is read-only.")
	}
	if !unit.Valid() {
		return ErrNotSupported(fmt.Sprintf("Unsupported length unit type %d.", uint16(unit)))
	}
	if unit == l.unit {
		return nil
	}
	from, err := userUnitsPer(l.unit, ctx, l.direction())
	if err != nil {
		return err
	}
	to, err := userUnitsPer(unit, ctx, l.direction())
	if err != nil {
		return err
	}
	if to == 0 {
		return ErrNotSupported("Cannot resolve the length against a zero-sized context.")
	}
	value := l.value * from / to
	if err := checkFinite(value); err != nil {
		return err
	}
	l.value, l.unit = value, unit
	l.changed()
	return nil
}

// checkFinite rejects values that would not serialize as a length.
func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrTypeMismatch("The provided float value is non-finite.")
	}
	return nil
}

// Clone returns a detached copy of l.
func (l *Length) Clone() *Length {
	return &Length{value: l.value, unit: l.unit}
}

// Equal reports whether l and other have the same value and unit.
func (l *Length) Equal(other *Length) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.value == other.value && l.unit == other.unit
}

func (l *Length) direction() Direction {
	if l.list != nil {
		return l.list.direction
	}
	return DirectionOther
}

func (l *Length) changed() {
	if l.list != nil {
		l.list.notify()
	}
}

func userUnitsPer(unit LengthType, ctx Context, dir Direction) (float64, error) {
	if f, ok := absoluteFactors[unit]; ok {
		return f, nil
	}
	switch unit {
	case LengthTypeEMS, LengthTypeEXS, LengthTypePercentage:
	default:
		return 0, ErrNotSupported(fmt.Sprintf("Unsupported length unit type %d.", uint16(unit)))
	}
	if ctx == nil {
		return 0, ErrNotSupported(fmt.Sprintf("Cannot resolve %s without a length context.", unit))
	}
	switch unit {
	case LengthTypeEMS:
		return ctx.FontSize(), nil
	case LengthTypeEXS:
		if x := ctx.XHeight(); x > 0 {
			return x, nil
		}
		return ctx.FontSize() / 2, nil
	}
	w, h := ctx.ViewportSize()
	switch dir {
	case DirectionWidth:
		return w / 100, nil
	case DirectionHeight:
		return h / 100, nil
	default:
		return math.Sqrt((w*w+h*h)/2) / 100, nil
	}
}

func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
