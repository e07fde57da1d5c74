package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number accepts JSON numbers, numeric strings and placeholder text such as "-".
// Non-numeric text is kept in Text so it survives a round trip.
type Number struct {
	Value float64
	Valid bool
	Text  string
}

// N builds a valid Number.
func N(v float64) Number {
	return Number{Value: v, Valid: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = Number{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			*n = Number{Value: v, Valid: true}
			return nil
		}
		*n = Number{Text: s}
		return nil
	}
	v, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return fmt.Errorf("number: invalid value %s", trimmed)
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	switch {
	case n.Valid:
		return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
	case n.Text != "":
		return json.Marshal(n.Text)
	default:
		return []byte("null"), nil
	}
}

// Float returns the value, or 0 when absent.
func (n Number) Float() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

// Int returns the value rounded to the nearest integer.
func (n Number) Int() int {
	return int(math.Round(n.Float()))
}

// IsPlaceholder reports whether the service sent the "-" marker.
func (n Number) IsPlaceholder() bool {
	return !n.Valid && n.Text == Placeholder
}

func (n Number) String() string {
	switch {
	case n.Valid:
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	case n.Text != "":
		return n.Text
	default:
		return ""
	}
}

// ClampPercent maps a score onto [0,100] for gauge and progress widths.
func ClampPercent(n Number) int {
	v := n.Int()
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ID is an identifier the service may send as a string or a bare number.
// Numbers keep their original text, so 20250314 stays "20250314".
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*id = ""
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return fmt.Errorf("id: invalid value %s", trimmed)
	}
	*id = ID(num.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}
