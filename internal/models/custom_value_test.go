package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomValues_Unmarshal(t *testing.T) {
	raw := `{"f1":"Dhaka","f2":42,"f3":["A","B"],"f4":true,"f5":null}`

	var vals CustomValues
	require.NoError(t, json.Unmarshal([]byte(raw), &vals))

	assert.Equal(t, TextValue("Dhaka"), vals["f1"])
	assert.Equal(t, NumberValue(42), vals["f2"])
	assert.Equal(t, ListValue("A", "B"), vals["f3"])
	assert.Equal(t, BoolValue(true), vals["f4"])
	assert.Equal(t, ValueNull, vals["f5"].Kind)
}

func TestCustomValues_RejectsNestedAndMixedLists(t *testing.T) {
	var vals CustomValues
	assert.Error(t, json.Unmarshal([]byte(`{"f1":{"a":1}}`), &vals))
	assert.Error(t, json.Unmarshal([]byte(`{"f1":["a",2]}`), &vals))
}

func TestCustomValue_Marshal(t *testing.T) {
	vals := CustomValues{"a": TextValue("x"), "b": ListValue(), "c": BoolValue(false)}

	b, err := json.Marshal(vals)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":[],"c":false}`, string(b))
}

func TestCustomValue_IsEmpty(t *testing.T) {
	assert.True(t, TextValue("  ").IsEmpty())
	assert.True(t, ListValue().IsEmpty())
	assert.True(t, BoolValue(false).IsEmpty())
	assert.True(t, CustomValue{}.IsEmpty())
	assert.False(t, NumberValue(0).IsEmpty())
	assert.False(t, TextValue("y").IsEmpty())
}

func TestNormalizeOptions(t *testing.T) {
	assert.Equal(t, []string{""}, NormalizeOptions(FieldSelect, nil))
	assert.Equal(t, []string{"a"}, NormalizeOptions(FieldCheckbox, []string{"a"}))
	assert.Nil(t, NormalizeOptions(FieldText, []string{"a"}))
}

func TestEventHelpers(t *testing.T) {
	zero, five := 0, 5
	off := false

	e := &Event{SeatLimit: &zero, GuestLimit: &five, ShowPhoneField: &off}
	assert.False(t, e.HasSeatLimit())
	assert.Equal(t, 5, e.MaxGuests())
	assert.False(t, e.PhoneFieldShown())
	assert.True(t, e.EmailFieldShown())
	assert.True(t, e.IsFree())
}
