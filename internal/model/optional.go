package model

import (
	"encoding/json"
	"math"
)

// Float is an optional float64. The zero value means the number is
// unavailable, which is distinct from an available zero.
type Float struct {
	Value float64
	Valid bool
}

// SomeFloat returns an available Float.
func SomeFloat(v float64) Float { return Float{Value: v, Valid: true} }

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float{Value: v, Valid: true}
	return nil
}

// Int is an optional integer. The zero value means unavailable.
type Int struct {
	Value int
	Valid bool
}

// SomeInt returns an available Int.
func SomeInt(v int) Int { return Int{Value: v, Valid: true} }

func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.Value)
}

// UnmarshalJSON accepts any JSON number and rounds it to the nearest
// integer, so hand-edited import payloads with fractional targets still load.
func (i *Int) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = Int{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*i = Int{Value: int(math.Round(v)), Valid: true}
	return nil
}
