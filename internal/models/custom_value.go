package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueText
	ValueNumber
	ValueList
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueNumber:
		return "number"
	case ValueList:
		return "list"
	case ValueBool:
		return "boolean"
	default:
		return "null"
	}
}

// CustomValue is one submitted answer to a custom form field.
type CustomValue struct {
	Kind   ValueKind
	Text   string
	Number float64
	List   []string
	Bool   bool
}

func TextValue(s string) CustomValue    { return CustomValue{Kind: ValueText, Text: s} }
func NumberValue(n float64) CustomValue { return CustomValue{Kind: ValueNumber, Number: n} }
func ListValue(l ...string) CustomValue { return CustomValue{Kind: ValueList, List: l} }
func BoolValue(b bool) CustomValue      { return CustomValue{Kind: ValueBool, Bool: b} }

// IsEmpty reports whether the value would leave a required field unanswered.
func (v CustomValue) IsEmpty() bool {
	switch v.Kind {
	case ValueText:
		return strings.TrimSpace(v.Text) == ""
	case ValueList:
		return len(v.List) == 0
	case ValueBool:
		return !v.Bool
	case ValueNumber:
		return false
	default:
		return true
	}
}

func (v CustomValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueText:
		return json.Marshal(v.Text)
	case ValueNumber:
		return json.Marshal(v.Number)
	case ValueList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case ValueBool:
		return json.Marshal(v.Bool)
	default:
		return []byte("null"), nil
	}
}

func (v *CustomValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = CustomValue{}
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case 't', 'f':
		var x bool
		if err := json.Unmarshal(b, &x); err != nil {
			return err
		}
		*v = BoolValue(x)
	case '[':
		var l []string
		if err := json.Unmarshal(b, &l); err != nil {
			return fmt.Errorf("list values must contain only strings: %w", err)
		}
		*v = ListValue(l...)
	case '{':
		return fmt.Errorf("nested objects are not allowed")
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*v = NumberValue(n)
	}
	return nil
}

// CustomValues maps a custom field id to the submitted value.
type CustomValues map[string]CustomValue
