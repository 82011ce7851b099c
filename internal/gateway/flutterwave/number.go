package flutterwave

import (
	"strconv"
	"strings"
)

// Number parses JSON values that arrive either as numbers or as numeric
// strings. Absent, null, and unparseable values all leave Valid false; a
// malformed amount is treated the same as a missing one.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	n.Value = value
	n.Valid = true
	return nil
}

// Positive reports whether the value parsed and is greater than zero.
func (n Number) Positive() bool {
	return n.Valid && n.Value > 0
}
