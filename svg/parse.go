package svg

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

var unitsBySuffix = map[string]LengthType{
	"":   LengthTypeNumber,
	"%":  LengthTypePercentage,
	"em": LengthTypeEMS,
	"ex": LengthTypeEXS,
	"px": LengthTypePX,
	"cm": LengthTypeCM,
	"mm": LengthTypeMM,
	"in": LengthTypeIN,
	"pt": LengthTypePT,
	"pc": LengthTypePC,
}

// ParseLengthList parses an attribute value of the form
// "length (comma-wsp length)*" into detached lengths. An empty or
// all-whitespace value yields no items. As in browsers, the separator may be
// omitted where the next number's sign or the previous unit ends the token,
// so "5-3" is two items.
func ParseLengthList(s string) ([]*Length, error) {
	lexer := css.NewLexer(parse.NewInputString(s))

	var items []*Length
	comma := false
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			if err := lexer.Err(); err != io.EOF {
				return nil, ErrSyntax(fmt.Sprintf("Invalid length list %q: %v", s, err))
			}
			if comma {
				return nil, ErrSyntax(fmt.Sprintf("Invalid length list %q: trailing comma", s))
			}
			return items, nil
		case css.WhitespaceToken:
		case css.CommaToken:
			if len(items) == 0 || comma {
				return nil, ErrSyntax(fmt.Sprintf("Invalid length list %q: unexpected comma", s))
			}
			comma = true
		case css.NumberToken, css.PercentageToken, css.DimensionToken:
			value, unit, err := parseNumeric(data)
			if err != nil {
				return nil, ErrSyntax(fmt.Sprintf("Invalid length list %q: %v", s, err))
			}
			items = append(items, &Length{value: value, unit: unit})
			comma = false
		default:
			return nil, ErrSyntax(fmt.Sprintf("Invalid length list %q: unexpected %q", s, data))
		}
	}
}

// FormatLengthList serializes lengths the way LengthList.ValueAsString does.
func FormatLengthList(items []*Length) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.ValueAsString()
	}
	return strings.Join(parts, " ")
}

func parseSingle(s string) (float64, LengthType, error) {
	items, err := ParseLengthList(s)
	if err != nil {
		return 0, LengthTypeUnknown, ErrSyntax(fmt.Sprintf("Invalid length %q.", s))
	}
	if len(items) != 1 {
		return 0, LengthTypeUnknown, ErrSyntax(fmt.Sprintf("Invalid length %q.", s))
	}
	return items[0].value, items[0].unit, nil
}

// parseNumeric splits a CSS numeric token into its number and unit.
func parseNumeric(data []byte) (float64, LengthType, error) {
	n, u := parse.Dimension(data)
	if n == 0 || n+u != len(data) {
		return 0, LengthTypeUnknown, fmt.Errorf("bad length %q", data)
	}
	num, suffix := string(data[:n]), strings.ToLower(string(data[n:]))
	unit, ok := unitsBySuffix[suffix]
	if !ok {
		return 0, LengthTypeUnknown, fmt.Errorf("unknown unit %q", suffix)
	}
	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, LengthTypeUnknown, fmt.Errorf("bad number %q", num)
	}
	return value, unit, nil
}
