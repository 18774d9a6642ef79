package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Numeric is a form value that travels as a JSON number.
//
// Encoding follows JavaScript Number() coercion: blank text becomes 0 and
// text that is not a number becomes null. Decoding accepts a number, a
// string or null; null decodes to "".
type Numeric string

func (n Numeric) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return []byte("0"), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch value := v.(type) {
	case nil:
		*n = ""
	case json.Number:
		*n = Numeric(value.String())
	case string:
		*n = Numeric(value)
	default:
		return fmt.Errorf("numeric: unexpected JSON value %s", string(b))
	}
	return nil
}

func (n Numeric) String() string {
	return string(n)
}
